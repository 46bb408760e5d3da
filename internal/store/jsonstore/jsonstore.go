package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/rate/internal/model"
	"github.com/idilsaglam/rate/internal/store"
)

// JSON-backed storage. Single file, human-readable, portable.
// Writes go to a temp file that replaces the old one, so a batch lands
// whole or not at all.

const DefaultFile = "ratings.json"

type document struct {
	NextID  int64                    `json:"next_id"`
	Seasons []model.Season           `json:"seasons"`
	Ratings map[string]map[int64]int `json:"ratings"`
}

type Store struct {
	path string
	mu   sync.Mutex
}

// New returns a store backed by path; the file is created on first write.
func New(path string) *Store {
	if path == "" {
		path = DefaultFile
	}
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

func (s *Store) load() (*document, error) {
	doc := &document{Ratings: map[string]map[int64]int{}}
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	if err := json.Unmarshal(b, doc); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if doc.Ratings == nil {
		doc.Ratings = map[string]map[int64]int{}
	}
	store.Number(doc.Seasons)
	return doc, nil
}

func (s *Store) save(doc *document) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace file: %w", err)
	}
	return nil
}

func (s *Store) Seasons(ctx context.Context) ([]model.Season, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.Seasons, nil
}

func (s *Store) Ratings(ctx context.Context, userID string) (map[int64]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make(map[int64]int, len(doc.Ratings[userID]))
	for id, v := range doc.Ratings[userID] {
		out[id] = v
	}
	return out, nil
}

func (s *Store) SaveRatings(ctx context.Context, userID string, batch []model.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return err
	}
	if err := store.CheckBatch(doc.Seasons, batch); err != nil {
		return err
	}
	user := doc.Ratings[userID]
	if user == nil {
		user = map[int64]int{}
		doc.Ratings[userID] = user
	}
	for _, r := range batch {
		user[r.SeasonID] = r.Rating
	}
	if err := s.save(doc); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"store": "json",
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
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return model.Season{}, err
	}
	doc.NextID++
	season := model.Season{ID: doc.NextID, Title: title, Position: len(doc.Seasons) + 1}
	doc.Seasons = append(doc.Seasons, season)
	if err := s.save(doc); err != nil {
		return model.Season{}, err
	}
	return season, nil
}

func (s *Store) RemoveSeason(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.load()
	if err != nil {
		return err
	}
	idx := -1
	for i, season := range doc.Seasons {
		if season.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %d", store.ErrUnknownSeason, id)
	}
	doc.Seasons = store.Number(append(doc.Seasons[:idx], doc.Seasons[idx+1:]...))
	for _, user := range doc.Ratings {
		delete(user, id)
	}
	return s.save(doc)
}

func (s *Store) Close() error { return nil }
