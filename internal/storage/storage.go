// Package storage picks a store backend from configuration.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/rate/internal/config"
	"github.com/idilsaglam/rate/internal/store"
	"github.com/idilsaglam/rate/internal/store/httpstore"
	"github.com/idilsaglam/rate/internal/store/jsonstore"
	"github.com/idilsaglam/rate/internal/store/memory"
	"github.com/idilsaglam/rate/internal/store/redisstore"
	"github.com/idilsaglam/rate/internal/store/sqlstore"
)

const (
	KindJSON     = "json"
	KindSQLite   = "sqlite"
	KindPostgres = "postgres"
	KindRedis    = "redis"
	KindHTTP     = "http"
	KindMemory   = "memory"
)

// Kinds lists the accepted backend names.
var Kinds = []string{KindJSON, KindSQLite, KindPostgres, KindRedis, KindHTTP, KindMemory}

// Remote reports whether kind is served by someone else, so saving needs
// a verified identity.
func Remote(kind string) bool { return strings.EqualFold(kind, KindHTTP) }

// Open returns the backend named by cfg.Store. token is sent to remote
// backends.
func Open(ctx context.Context, cfg *config.Config, token string) (store.Store, error) {
	kind := strings.ToLower(strings.TrimSpace(cfg.Store))
	fields := logrus.Fields{"storageType": kind}

	var (
		st  store.Store
		err error
	)
	switch kind {
	case KindJSON, "":
		fields["dataFile"] = cfg.DataFile
		st = jsonstore.New(cfg.DataFile)
	case KindSQLite:
		fields["dsn"] = cfg.DSN
		st, err = sqlstore.Open(ctx, sqlstore.DriverSQLite, cfg.DSN)
	case KindPostgres:
		st, err = sqlstore.Open(ctx, sqlstore.DriverPostgres, cfg.DSN)
	case KindRedis:
		st, err = redisstore.New(ctx, cfg.RedisURL, redisstore.DefaultPrefix)
	case KindHTTP:
		fields["apiURL"] = cfg.APIURL
		st, err = httpstore.New(cfg.APIURL, token)
	case KindMemory:
		st = memory.New()
	default:
		return nil, fmt.Errorf("unknown store %q (want one of %s)", cfg.Store, strings.Join(Kinds, ", "))
	}
	if err != nil {
		return nil, err
	}
	logrus.WithFields(fields).Info("Use storage")
	return st, nil
}
