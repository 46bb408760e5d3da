// Package store defines the persistence contracts shared by the rating
// backends.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/idilsaglam/rate/internal/model"
)

// LocalUser owns ratings when no identity is available.
const LocalUser = "local"

var (
	ErrUnknownSeason = errors.New("unknown season")
	ErrReadOnly      = errors.New("season list is read-only for this store")
)

// Store persists the season catalog and per-user ratings. SaveRatings
// applies the whole batch or nothing.
type Store interface {
	Seasons(ctx context.Context) ([]model.Season, error)
	Ratings(ctx context.Context, userID string) (map[int64]int, error)
	SaveRatings(ctx context.Context, userID string, batch []model.Rating) error
	Close() error
}

// SeasonEditor is implemented by stores that own their catalog.
type SeasonEditor interface {
	AddSeason(ctx context.Context, title string) (model.Season, error)
	RemoveSeason(ctx context.Context, id int64) error
}

// Session binds a store to one user so it can back a board.
type Session struct {
	Store  Store
	UserID string
}

func (s Session) SaveRatings(ctx context.Context, batch []model.Rating) error {
	return s.Store.SaveRatings(ctx, s.UserID, batch)
}

// CheckBatch fails when batch names a season outside known.
func CheckBatch(known []model.Season, batch []model.Rating) error {
	ids := make(map[int64]struct{}, len(known))
	for _, s := range known {
		ids[s.ID] = struct{}{}
	}
	for _, r := range batch {
		if _, ok := ids[r.SeasonID]; !ok {
			return fmt.Errorf("%w: %d", ErrUnknownSeason, r.SeasonID)
		}
	}
	return nil
}

// Number assigns 1-based positions in slice order.
func Number(seasons []model.Season) []model.Season {
	for i := range seasons {
		seasons[i].Position = i + 1
	}
	return seasons
}
