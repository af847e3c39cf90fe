package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/siherrmann/combiner/core/ledger"
	"github.com/siherrmann/combiner/helper"
	"github.com/siherrmann/combiner/model"
	loadSql "github.com/siherrmann/combiner/sql"
)

// CombinationsDBHandlerFunctions defines the interface for Combinations database operations.
type CombinationsDBHandlerFunctions interface {
	InsertCombination(ctx context.Context, label string) (*model.CombinationRecord, error)
	SelectCombinationByLabel(ctx context.Context, label string) (*model.CombinationRecord, error)
	IncrementCombinationCount(ctx context.Context, id int64) (*model.CombinationRecord, error)
	SelectTopCombinations(ctx context.Context, limit int) ([]*model.CombinationRecord, error)
}

// CombinationsDBHandler is the postgres ledger store
type CombinationsDBHandler struct {
	db *helper.Database
}

var _ ledger.Store = (*CombinationsDBHandler)(nil)

// NewCombinationsDBHandler creates a new combinations database handler.
// It loads the combination SQL functions and creates the table.
// If force is true, it will reload the SQL functions even if they already exist.
func NewCombinationsDBHandler(db *helper.Database, force bool) (*CombinationsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	combinationsDbHandler := &CombinationsDBHandler{
		db: db,
	}

	err := loadSql.LoadCombinationsSql(combinationsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load combinations sql", err)
	}

	err = combinationsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized CombinationsDBHandler")

	return combinationsDbHandler, nil
}

// CreateTable creates the 'combinations' table in the database.
// If the table already exists, it does not create it again.
func (h *CombinationsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_combinations();`)
	if err != nil {
		log.Panicf("error initializing combinations table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table combinations")

	return nil
}

// InsertCombination creates the record for label with count 1.
// A concurrent insert of the same label yields model.ErrDuplicateCombination.
func (h *CombinationsDBHandler) InsertCombination(ctx context.Context, label string) (*model.CombinationRecord, error) {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM insert_combination($1)`,
		label,
	)

	record, err := scanCombination(row)
	if err != nil {
		return nil, helper.NewError("scan", mapUniqueViolation(err))
	}

	return record, nil
}

// SelectCombinationByLabel returns the record for label, nil if there is none
func (h *CombinationsDBHandler) SelectCombinationByLabel(ctx context.Context, label string) (*model.CombinationRecord, error) {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM select_combination_by_label($1)`,
		label,
	)

	record, err := scanCombination(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return record, nil
}

// IncrementCombinationCount atomically adds one to the count of record id
func (h *CombinationsDBHandler) IncrementCombinationCount(ctx context.Context, id int64) (*model.CombinationRecord, error) {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM increment_combination_count($1)`,
		id,
	)

	record, err := scanCombination(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, helper.NewError("scan", ledger.ErrRecordNotFound)
	}
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return record, nil
}

// SelectTopCombinations returns up to limit records by descending count.
// A non-positive limit returns all records.
func (h *CombinationsDBHandler) SelectTopCombinations(ctx context.Context, limit int) ([]*model.CombinationRecord, error) {
	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_top_combinations($1)`,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var records []*model.CombinationRecord
	for rows.Next() {
		record, err := scanCombination(rows)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		records = append(records, record)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCombination(row scanner) (*model.CombinationRecord, error) {
	record := &model.CombinationRecord{}
	err := row.Scan(
		&record.ID,
		&record.RID,
		&record.Label,
		&record.Count,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return record, nil
}
