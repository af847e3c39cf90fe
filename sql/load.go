package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed init.sql
var initSQL string

//go:embed combinations.sql
var combinationsSQL string

//go:embed glyphs.sql
var glyphsSQL string

//go:embed activity.sql
var activitySQL string

// Function lists for verification
var CombinationsFunctions = []string{
	"init_combinations",
	"insert_combination",
	"select_combination_by_label",
	"increment_combination_count",
	"select_top_combinations",
}

var GlyphsFunctions = []string{
	"init_glyphs",
	"insert_glyph",
	"select_glyph_by_word",
	"select_glyph_by_similarity",
	"delete_glyph",
}

var ActivityFunctions = []string{
	"init_activity_events",
	"insert_activity_event",
	"select_activity_events_by_label",
	"select_recent_activity_events",
}

// Init intializes db extensions
func Init(db *sql.DB) error {
	_, err := db.Exec(initSQL)
	if err != nil {
		return fmt.Errorf("error executing schema SQL: %w", err)
	}

	log.Println("Database extensions initialized successfully")
	return nil
}

// LoadCombinationsSql loads the combination ledger SQL functions
func LoadCombinationsSql(db *sql.DB, force bool) error {
	return loadSql(db, "combinations", combinationsSQL, CombinationsFunctions, force)
}

// LoadGlyphsSql loads the glyph cache SQL functions
func LoadGlyphsSql(db *sql.DB, force bool) error {
	return loadSql(db, "glyphs", glyphsSQL, GlyphsFunctions, force)
}

// LoadActivitySql loads the activity event SQL functions
func LoadActivitySql(db *sql.DB, force bool) error {
	return loadSql(db, "activity", activitySQL, ActivityFunctions, force)
}

// LoadAllSql loads all SQL functions
func LoadAllSql(db *sql.DB, force bool) error {
	if err := LoadCombinationsSql(db, force); err != nil {
		return err
	}

	if err := LoadGlyphsSql(db, force); err != nil {
		return err
	}

	if err := LoadActivitySql(db, force); err != nil {
		return err
	}

	return nil
}

// loadSql executes the function definitions of one table unless they all
// exist already. With force they are always (re)created.
func loadSql(db *sql.DB, name string, definitions string, functions []string, force bool) error {
	if !force {
		exist, err := checkFunctions(db, functions)
		if err != nil {
			return fmt.Errorf("error checking existing %s functions: %w", name, err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(definitions)
	if err != nil {
		return fmt.Errorf("error executing %s SQL: %w", name, err)
	}

	exist, err := checkFunctions(db, functions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Printf("SQL %s functions loaded successfully", name)
	return nil
}

// checkFunctions verifies that all required functions exist in the database
func checkFunctions(db *sql.DB, sqlFunctions []string) (bool, error) {
	var allExist bool
	for _, f := range sqlFunctions {
		err := db.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);`,
			f,
		).Scan(&allExist)
		if err != nil {
			return false, fmt.Errorf("error checking existence of function %s: %w", f, err)
		}
		if !allExist {
			log.Printf("Function %s does not exist", f)
			break
		}
	}
	return allExist, nil
}
