package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/musicbingo/internal/storage"
	"github.com/mcoot/musicbingo/internal/storage/storagetest"
)

// These tests need a disposable database; every table is truncated per test.
func TestStorageSuite(t *testing.T) {
	dsn := os.Getenv("BINGO_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("BINGO_TEST_POSTGRES_DSN not set")
	}

	suite.Run(t, &storagetest.Suite{
		NewStorage: func() storage.Storage {
			ctx := context.Background()
			s, err := New(ctx, dsn)
			require.NoError(t, err)
			_, err = s.pool.Exec(ctx, "TRUNCATE "+tableCards+", "+tableGames+", "+tableSessions)
			require.NoError(t, err)
			return s
		},
	})
}

func TestStatementsUseDollarPlaceholders(t *testing.T) {
	sqlStr, args, err := selectGames().Where("id = ?", "ABC").ToSql()
	require.NoError(t, err)
	require.Contains(t, sqlStr, "id = $1")
	require.Equal(t, []any{"ABC"}, args)
}
