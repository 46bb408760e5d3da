package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/rate/internal/config"
	"github.com/idilsaglam/rate/internal/store"
	"github.com/idilsaglam/rate/internal/store/httpstore"
	"github.com/idilsaglam/rate/internal/store/jsonstore"
	"github.com/idilsaglam/rate/internal/store/memory"
	"github.com/idilsaglam/rate/internal/store/sqlstore"
)

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	cases := []struct {
		kind string
		cfg  config.Config
		want any
	}{
		{KindJSON, config.Config{DataFile: filepath.Join(dir, "r.json")}, &jsonstore.Store{}},
		{"", config.Config{DataFile: filepath.Join(dir, "r.json")}, &jsonstore.Store{}},
		{KindMemory, config.Config{}, &memory.Store{}},
		{KindSQLite, config.Config{DSN: "file:" + filepath.Join(dir, "r.db")}, &sqlstore.Store{}},
		{KindHTTP, config.Config{APIURL: "http://localhost:8080"}, &httpstore.Store{}},
	}
	for _, tc := range cases {
		t.Run(tc.kind, func(t *testing.T) {
			cfg := tc.cfg
			cfg.Store = tc.kind
			st, err := Open(ctx, &cfg, "")
			require.NoError(t, err)
			defer st.Close()
			assert.IsType(t, tc.want, st)
		})
	}
}

func TestOpenUnknown(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{Store: "floppy"}, "")
	assert.ErrorContains(t, err, "unknown store")
}

func TestLocalStoresEditCatalog(t *testing.T) {
	st, err := Open(context.Background(), &config.Config{Store: KindMemory}, "")
	require.NoError(t, err)
	_, ok := st.(store.SeasonEditor)
	assert.True(t, ok)
}

func TestRemote(t *testing.T) {
	assert.True(t, Remote("HTTP"))
	assert.False(t, Remote(KindSQLite))
}
