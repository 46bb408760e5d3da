package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/rate/internal/model"
	"github.com/idilsaglam/rate/internal/store"
)

type Store struct {
	mu      sync.RWMutex
	nextID  int64
	seasons []model.Season
	ratings map[string]map[int64]int
}

// New returns an empty store seeded with titles, in order.
func New(titles ...string) *Store {
	s := &Store{ratings: make(map[string]map[int64]int)}
	for _, t := range titles {
		s.nextID++
		s.seasons = append(s.seasons, model.Season{ID: s.nextID, Title: t})
	}
	store.Number(s.seasons)
	return s
}

func (s *Store) Seasons(ctx context.Context) ([]model.Season, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Season, len(s.seasons))
	copy(out, s.seasons)
	return out, nil
}

func (s *Store) Ratings(ctx context.Context, userID string) (map[int64]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int64]int, len(s.ratings[userID]))
	for id, v := range s.ratings[userID] {
		out[id] = v
	}
	return out, nil
}

func (s *Store) SaveRatings(ctx context.Context, userID string, batch []model.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := store.CheckBatch(s.seasons, batch); err != nil {
		logrus.WithError(err).WithField("user", userID).Warn("rejected rating batch")
		return err
	}
	user := s.ratings[userID]
	if user == nil {
		user = make(map[int64]int)
		s.ratings[userID] = user
	}
	for _, r := range batch {
		user[r.SeasonID] = r.Rating
	}
	return nil
}

func (s *Store) AddSeason(ctx context.Context, title string) (model.Season, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Season{}, fmt.Errorf("empty title")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	season := model.Season{ID: s.nextID, Title: title, Position: len(s.seasons) + 1}
	s.seasons = append(s.seasons, season)
	return season, nil
}

func (s *Store) RemoveSeason(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, season := range s.seasons {
		if season.ID == id {
			s.seasons = store.Number(append(s.seasons[:i], s.seasons[i+1:]...))
			for _, user := range s.ratings {
				delete(user, id)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %d", store.ErrUnknownSeason, id)
}

func (s *Store) Close() error { return nil }
