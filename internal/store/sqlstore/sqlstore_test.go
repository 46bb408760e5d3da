package sqlstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/rate/internal/model"
	"github.com/idilsaglam/rate/internal/store"
	"github.com/idilsaglam/rate/internal/store/storetest"
)

func openSQLite(t *testing.T) *Store {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "ratings.db") + "?_pragma=busy_timeout(5000)"
	s, err := Open(context.Background(), DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return openSQLite(t) })
}

func TestPostgresContract(t *testing.T) {
	dsn := os.Getenv("RATE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("RATE_TEST_POSTGRES_DSN not set")
	}
	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := Open(context.Background(), DriverPostgres, dsn)
		require.NoError(t, err)
		_, err = s.db.Exec(`TRUNCATE seasons, ratings RESTART IDENTITY`)
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), Driver("oracle"), "")
	assert.ErrorContains(t, err, "unsupported driver")
}

func TestRebind(t *testing.T) {
	pg := &Store{driver: DriverPostgres}
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", pg.rebind("SELECT * FROM t WHERE a = ? AND b = ?"))

	lite := &Store{driver: DriverSQLite}
	assert.Equal(t, "a = ?", lite.rebind("a = ?"))
}

func TestUpsertKeepsOneRow(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()
	seeded := storetest.Seed(t, s, "One")

	for _, v := range []int{10, 20, 30} {
		require.NoError(t, s.SaveRatings(ctx, "u", []model.Rating{{SeasonID: seeded[0].ID, Rating: v}}))
	}
	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM ratings`).Scan(&n))
	assert.Equal(t, 1, n)

	got, err := s.Ratings(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, 30, got[seeded[0].ID])
}
