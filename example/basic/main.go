package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/siherrmann/combiner"
	"github.com/siherrmann/combiner/core/session"
	"github.com/siherrmann/combiner/helper"
	"github.com/siherrmann/combiner/model"
)

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	c, err := combiner.NewCombiner(dbConfig, model.DefaultResolverConfig())
	if err != nil {
		log.Fatalf("Failed to create combiner: %v", err)
	}
	defer c.Close()

	// The generative step is optional, without it only the offline steps run
	if err := c.UseDefaultGenerator(); err != nil {
		fmt.Printf("Running without generator: %v\n", err)
	}

	ctx := context.Background()
	s := c.NewSession()

	pairs := [][2]string{
		{"Water", "Fire"},
		{"Steam", "Air"},
		{"Fire", "Earth"},
		{"Lava", "Water"},
		{"Water", "Fire"},
	}

	for _, pair := range pairs {
		a, b := s.Entity(pair[0]), s.Entity(pair[1])
		if a == nil || b == nil {
			fmt.Printf("%s + %s: not discovered yet\n", pair[0], pair[1])
			continue
		}

		outcome, err := s.Combine(ctx, a, b)
		for errors.Is(err, session.ErrCooldown) || errors.Is(err, session.ErrInProgress) {
			time.Sleep(500 * time.Millisecond)
			outcome, err = s.Combine(ctx, s.Entity(pair[0]), s.Entity(pair[1]))
		}
		if err != nil {
			log.Fatalf("Failed to combine: %v", err)
		}

		status := "known"
		if outcome.Discovered {
			status = "new"
		}
		fmt.Printf("%s + %s = %s %s (%s, %s, via %s)\n",
			a.Label, b.Label, outcome.Entity.Icon, outcome.Entity.Label,
			outcome.Result.Rarity, status, outcome.Result.Source)
	}

	// Wait for the background ledger writes before reading counts
	c.Wait()

	top, err := c.Top(ctx, 5)
	if err != nil {
		log.Fatalf("Failed to read ledger: %v", err)
	}

	fmt.Println("\nMost produced:")
	for i, record := range top {
		fmt.Printf("  %d. %s (%d)\n", i+1, record.Label, record.Count)
	}
}
