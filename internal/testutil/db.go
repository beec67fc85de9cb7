// Package testutil owns the Postgres container shared by integration tests.
// It is only ever imported from _test.go files, keeping the production
// binary free of test tooling.
package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"argot/internal/db"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

var (
	containerOnce sync.Once
	containerDSN  string
	containerErr  error
)

// SetupTestDB hands out a migrated connection to a throwaway Postgres
// container shared by the test binary. Tables are truncated on every call so
// each test starts from an empty ledger. The container itself is reaped by
// testcontainers once the process exits.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	containerOnce.Do(func() {
		ctx := context.Background()
		container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
			tcpostgres.WithDatabase("argot_test"),
			tcpostgres.WithUsername("argot"),
			tcpostgres.WithPassword("argot"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		if err != nil {
			containerErr = err
			return
		}
		containerDSN, containerErr = container.ConnectionString(ctx, "sslmode=disable")
	})
	require.NoError(t, containerErr, "start postgres test container")

	g, err := db.Open(containerDSN)
	require.NoError(t, err)

	err = g.Exec("TRUNCATE votes, comments, words, users RESTART IDENTITY CASCADE").Error
	require.NoError(t, err)

	return g
}
