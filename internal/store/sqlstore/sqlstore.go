package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite" // driver: sqlite

	"github.com/idilsaglam/rate/internal/model"
	"github.com/idilsaglam/rate/internal/store"
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS seasons (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	position INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS ratings (
	user_id TEXT NOT NULL,
	season_id INTEGER NOT NULL,
	rating INTEGER NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	PRIMARY KEY (user_id, season_id)
);`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS seasons (
	id BIGSERIAL PRIMARY KEY,
	title TEXT NOT NULL,
	position INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS ratings (
	user_id TEXT NOT NULL,
	season_id BIGINT NOT NULL,
	rating INTEGER NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (user_id, season_id)
);`

type Store struct {
	db     *sql.DB
	driver Driver
}

// Open opens a DB and ensures the schema exists. An empty dsn picks a
// local default for the driver.
func Open(ctx context.Context, driver Driver, dsn string) (*Store, error) {
	var drvName, schema string
	switch driver {
	case DriverSQLite:
		drvName, schema = "sqlite", schemaSQLite // modernc driver
		if dsn == "" {
			dsn = "file:ratings.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName, schema = "pgx", schemaPostgres // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/ratings?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	logrus.WithField("driver", driver).Debug("sql store ready")
	return &Store{db: db, driver: driver}, nil
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *Store) rebind(q string) string {
	if s.driver != DriverPostgres {
		return q
	}
	var sb strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (s *Store) Seasons(ctx context.Context) ([]model.Season, error) {
	return seasons(ctx, s.db)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func seasons(ctx context.Context, q querier) ([]model.Season, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, title FROM seasons ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("query seasons: %w", err)
	}
	defer rows.Close()
	var out []model.Season
	for rows.Next() {
		var season model.Season
		if err := rows.Scan(&season.ID, &season.Title); err != nil {
			return nil, fmt.Errorf("scan season: %w", err)
		}
		out = append(out, season)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seasons: %w", err)
	}
	return store.Number(out), nil
}

func (s *Store) Ratings(ctx context.Context, userID string) (map[int64]int, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT season_id, rating FROM ratings WHERE user_id = ?`), userID)
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer rows.Close()
	out := map[int64]int{}
	for rows.Next() {
		var id int64
		var v int
		if err := rows.Scan(&id, &v); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		out[id] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}
	return out, nil
}

// SaveRatings upserts the batch inside one transaction.
func (s *Store) SaveRatings(ctx context.Context, userID string, batch []model.Rating) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logrus.WithError(rbErr).Warn("rollback failed")
			}
		}
	}()

	known, err := seasons(ctx, tx)
	if err != nil {
		return err
	}
	if err = store.CheckBatch(known, batch); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, s.rebind(`
		INSERT INTO ratings (user_id, season_id, rating, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, season_id) DO UPDATE SET rating = excluded.rating, updated_at = excluded.updated_at`))
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, r := range batch {
		if _, err = stmt.ExecContext(ctx, userID, r.SeasonID, r.Rating, now); err != nil {
			return fmt.Errorf("upsert season %d: %w", r.SeasonID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"store": string(s.driver),
		"user":  userID,
		"count": len(batch),
	}).Debug("ratings saved")
	return nil
}

func (s *Store) AddSeason(ctx context.Context, title string) (model.Season, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Season{}, fmt.Errorf("empty title")
	}
	var season model.Season
	err := s.db.QueryRowContext(ctx, s.rebind(`
		INSERT INTO seasons (title, position)
		VALUES (?, (SELECT COALESCE(MAX(position), 0) + 1 FROM seasons))
		RETURNING id, title, position`), title).Scan(&season.ID, &season.Title, &season.Position)
	if err != nil {
		return model.Season{}, fmt.Errorf("insert season: %w", err)
	}
	return season, nil
}

func (s *Store) RemoveSeason(ctx context.Context, id int64) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	res, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM seasons WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete season: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %d", store.ErrUnknownSeason, id)
	}
	if _, err = tx.ExecContext(ctx, s.rebind(`DELETE FROM ratings WHERE season_id = ?`), id); err != nil {
		return fmt.Errorf("delete ratings: %w", err)
	}
	return tx.Commit()
}

func (s *Store) Close() error { return s.db.Close() }
