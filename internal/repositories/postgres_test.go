//go:build integration

package repositories

import (
	"context"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"connectibles/internal/db"
)

// Runs against a disposable database: go test -tags integration with
// TEST_DATABASE_DSN set. Every user row is wiped first.
func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}
	conn, err := db.Connect(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	_, err = NewUserRepo(conn).DeleteAll(context.Background())
	require.NoError(t, err)
	return conn
}

func TestMutualAcceptAddsEachUserOnce(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepo(openTestDB(t))
	a, err := repo.Create(ctx, "a@campus.edu")
	require.NoError(t, err)
	b, err := repo.Create(ctx, "b@campus.edu")
	require.NoError(t, err)

	// both directions accept, then a retried accept appends again
	for i := 0; i < 2; i++ {
		require.NoError(t, repo.AppendConnection(ctx, a.ID, b.ID))
		require.NoError(t, repo.AppendConnection(ctx, b.ID, a.ID))
	}

	a, err = repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	b, err = repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID}, []int64(a.Connections))
	assert.Equal(t, []int64{a.ID}, []int64(b.Connections))
}

func TestFileReportAgainstPostgres(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	users := NewUserRepo(conn)
	reports := NewReportRepo(conn)
	reporter, err := users.Create(ctx, "reporter@campus.edu")
	require.NoError(t, err)
	target, err := users.Create(ctx, "target@campus.edu")
	require.NoError(t, err)

	filed, err := reports.FileReport(ctx, reporter.ID, target.ID, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, filed.Count)
	assert.True(t, filed.Banned)

	_, err = reports.FileReport(ctx, reporter.ID, target.ID, nil, 1)
	assert.ErrorIs(t, err, ErrAlreadyReported)

	target, err = users.GetByID(ctx, target.ID)
	require.NoError(t, err)
	assert.True(t, target.IsBanned)
}
