package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/siherrmann/combiner"
	"github.com/siherrmann/combiner/database/sqlite"
	"github.com/siherrmann/combiner/helper"
	"github.com/siherrmann/combiner/model"
	"github.com/spf13/cobra"
)

const (
	FlagSqlite         = "sqlite"
	FlagGenerate       = "generate"
	FlagLimit          = "limit"
	FlagLimitShortHand = "n"
)

// NewRootCommand creates the combiner command with all subcommands
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "combiner",
		Short:        "Combine elements and inspect the combination ledger",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String(FlagSqlite, "", "Path of an embedded sqlite ledger; postgres from COMBINER_DB_* if empty")
	cmd.PersistentFlags().Bool(FlagGenerate, false, "Enable the generative step configured by COMBINER_LLM_*")

	cmd.AddCommand(newResolveCommand(), newCountCommand(), newTopCommand())
	return cmd
}

func newResolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <a> <b>",
		Short: "Combine two elements and print the result",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCombiner(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			result := c.Resolve(cmd.Context(), args[0], args[1])
			return json.NewEncoder(cmd.OutOrStdout()).Encode(result)
		},
	}
}

func newCountCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "count <label>",
		Short: "Print how often a label has been produced",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCombiner(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			count, err := c.Count(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatInt(count, 10))
			return err
		},
	}
}

func newTopCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Print the most produced labels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := cmd.Flags().GetInt(FlagLimit)
			if err != nil {
				return err
			}

			c, err := openCombiner(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			records, err := c.Top(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(records)
		},
	}

	cmd.Flags().IntP(FlagLimit, FlagLimitShortHand, 10, "Number of labels to print, all if 0")
	return cmd
}

// openCombiner creates a combiner on the store selected by the flags.
// The sqlite store is closed together with the combiner.
func openCombiner(cmd *cobra.Command) (*closingCombiner, error) {
	config, err := model.LoadResolverConfig()
	if err != nil {
		return nil, helper.NewError("load resolver config", err)
	}

	path, err := cmd.Flags().GetString(FlagSqlite)
	if err != nil {
		return nil, err
	}
	generate, err := cmd.Flags().GetBool(FlagGenerate)
	if err != nil {
		return nil, err
	}

	var c *combiner.Combiner
	var store *sqlite.Store
	if path != "" {
		store, err = sqlite.Open(path)
		if err != nil {
			return nil, helper.NewError("open sqlite store", err)
		}
		c, err = combiner.NewCombinerWithStore(store, store, config)
	} else {
		var dbConfig *helper.DatabaseConfiguration
		dbConfig, err = helper.NewDatabaseConfiguration()
		if err != nil {
			return nil, helper.NewError("load database config", err)
		}
		c, err = combiner.NewCombiner(dbConfig, config)
	}
	if err != nil {
		if store != nil {
			_ = store.Close()
		}
		return nil, err
	}

	if generate {
		err = c.UseDefaultGenerator()
		if err != nil {
			_ = c.Close()
			if store != nil {
				_ = store.Close()
			}
			return nil, err
		}
	}

	return &closingCombiner{Combiner: c, store: store}, nil
}

type closingCombiner struct {
	*combiner.Combiner
	store *sqlite.Store
}

func (c *closingCombiner) Close() error {
	err := c.Combiner.Close()
	if c.store != nil {
		if storeErr := c.store.Close(); err == nil {
			err = storeErr
		}
	}
	return err
}
