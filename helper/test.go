package helper

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testDbName     = "database"
	testDbUser     = "user"
	testDbPassword = "password"
)

// MustStartPostgresContainer starts a pgvector enabled postgres container.
// It returns the terminate function and the mapped host port.
func MustStartPostgresContainer() (func(ctx context.Context, opts ...testcontainers.TerminateOption) error, string, error) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(
		ctx,
		"pgvector/pgvector:pg17",
		postgres.WithDatabase(testDbName),
		postgres.WithUsername(testDbUser),
		postgres.WithPassword(testDbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", NewError("run postgres container", err)
	}

	dbPort, err := pgContainer.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return pgContainer.Terminate, "", NewError("mapped port", err)
	}

	return pgContainer.Terminate, dbPort.Port(), nil
}

// SetTestDatabaseConfigEnvs points the database configuration env vars at a test container
func SetTestDatabaseConfigEnvs(t *testing.T, dbPort string) {
	t.Setenv("COMBINER_DB_HOST", "localhost")
	t.Setenv("COMBINER_DB_PORT", dbPort)
	t.Setenv("COMBINER_DB_DATABASE", testDbName)
	t.Setenv("COMBINER_DB_USERNAME", testDbUser)
	t.Setenv("COMBINER_DB_PASSWORD", testDbPassword)
	t.Setenv("COMBINER_DB_SCHEMA", "public")
	t.Setenv("COMBINER_DB_SSLMODE", "disable")
}
