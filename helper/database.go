package helper

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// DatabaseConfiguration holds the connection settings for the postgres database.
type DatabaseConfiguration struct {
	Host          string `env:"COMBINER_DB_HOST"`
	Port          string `env:"COMBINER_DB_PORT"`
	Database      string `env:"COMBINER_DB_DATABASE"`
	Username      string `env:"COMBINER_DB_USERNAME"`
	Password      string `env:"COMBINER_DB_PASSWORD"`
	Schema        string `env:"COMBINER_DB_SCHEMA"`
	SSLMode       string `env:"COMBINER_DB_SSLMODE"`
	WithTableDrop bool   `env:"COMBINER_DB_WITH_TABLE_DROP"`
}

// NewDatabaseConfiguration reads the database configuration from the environment.
// A .env file in the working directory is loaded first if present.
func NewDatabaseConfiguration() (*DatabaseConfiguration, error) {
	_ = godotenv.Load()

	config := &DatabaseConfiguration{
		Schema:  "public",
		SSLMode: "disable",
	}
	err := ParseEnv(config)
	if err != nil {
		return nil, err
	}

	if len(config.Host) == 0 || len(config.Port) == 0 || len(config.Database) == 0 || len(config.Username) == 0 || len(config.Password) == 0 {
		return nil, NewError("database configuration validation", fmt.Errorf("COMBINER_DB_HOST, COMBINER_DB_PORT, COMBINER_DB_DATABASE, COMBINER_DB_USERNAME and COMBINER_DB_PASSWORD must be set"))
	}

	return config, nil
}

// ConnectionString builds the lib/pq connection url
func (c *DatabaseConfiguration) ConnectionString() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Username, c.Password),
		Host:   fmt.Sprintf("%s:%s", c.Host, c.Port),
		Path:   c.Database,
	}
	q := u.Query()
	q.Set("sslmode", c.SSLMode)
	if c.Schema != "" {
		q.Set("search_path", c.Schema)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Database wraps the sql connection with its name and logger
type Database struct {
	Name     string
	Logger   *slog.Logger
	Instance *sql.DB
}

// NewDatabase opens and pings a postgres connection. It panics if the
// database cannot be reached, as nothing can work without it.
func NewDatabase(name string, config *DatabaseConfiguration, logger *slog.Logger) *Database {
	if logger == nil {
		logger = slog.New(NewPrettyHandler(os.Stdout, PrettyHandlerOptions{}))
	}

	db := &Database{
		Name:   name,
		Logger: logger,
	}

	err := db.connect(config)
	if err != nil {
		log.Panicf("error connecting to database %s: %v", name, err)
	}

	logger.Info("Connected to database", slog.String("name", name), slog.String("host", config.Host))

	return db
}

// NewTestDatabase opens a database with a debug logger for tests
func NewTestDatabase(config *DatabaseConfiguration) *Database {
	logger := slog.New(NewPrettyHandler(os.Stdout, PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}))
	return NewDatabase("test_db", config, logger)
}

func (d *Database) connect(config *DatabaseConfiguration) error {
	instance, err := sql.Open("postgres", config.ConnectionString())
	if err != nil {
		return NewError("sql open", err)
	}

	instance.SetMaxOpenConns(25)
	instance.SetMaxIdleConns(5)
	instance.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = instance.PingContext(ctx)
	if err != nil {
		_ = instance.Close()
		return NewError("ping", err)
	}

	d.Instance = instance
	return nil
}

// Close closes the underlying connection
func (d *Database) Close() error {
	if d == nil || d.Instance == nil {
		return nil
	}
	return d.Instance.Close()
}
