package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/rate/internal/model"
	"github.com/idilsaglam/rate/internal/store"
)

// Key layout:
//
//	<prefix>:seasons        list of JSON seasons in display order
//	<prefix>:season:seq     id counter
//	<prefix>:ratings:<user> hash season id -> rating
const DefaultPrefix = "rate"

type Store struct {
	client *redis.Client
	prefix string
}

// New connects to redisURL (redis://host:port/db) and pings it.
func New(ctx context.Context, redisURL, prefix string) (*Store, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis url is required")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewFromClient(client, prefix), nil
}

func NewFromClient(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) seasonsKey() string { return s.prefix + ":seasons" }
func (s *Store) seqKey() string     { return s.prefix + ":season:seq" }
func (s *Store) ratingsKey(userID string) string {
	return fmt.Sprintf("%s:ratings:%s", s.prefix, userID)
}

func (s *Store) rawSeasons(ctx context.Context) ([]string, []model.Season, error) {
	raw, err := s.client.LRange(ctx, s.seasonsKey(), 0, -1).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list seasons: %w", err)
	}
	out := make([]model.Season, 0, len(raw))
	for _, r := range raw {
		var season model.Season
		if err := json.Unmarshal([]byte(r), &season); err != nil {
			return nil, nil, fmt.Errorf("failed to decode season: %w", err)
		}
		out = append(out, season)
	}
	return raw, store.Number(out), nil
}

func (s *Store) Seasons(ctx context.Context) ([]model.Season, error) {
	_, out, err := s.rawSeasons(ctx)
	return out, err
}

func (s *Store) Ratings(ctx context.Context, userID string) (map[int64]int, error) {
	fields, err := s.client.HGetAll(ctx, s.ratingsKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get ratings: %w", err)
	}
	out := make(map[int64]int, len(fields))
	for k, v := range fields {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			continue
		}
		out[id] = n
	}
	return out, nil
}

// SaveRatings writes the batch in one MULTI/EXEC.
func (s *Store) SaveRatings(ctx context.Context, userID string, batch []model.Rating) error {
	known, err := s.Seasons(ctx)
	if err != nil {
		return err
	}
	if err := store.CheckBatch(known, batch); err != nil {
		return err
	}
	if len(batch) == 0 {
		return nil
	}
	values := make(map[string]any, len(batch))
	for _, r := range batch {
		values[strconv.FormatInt(r.SeasonID, 10)] = r.Rating
	}
	key := s.ratingsKey(userID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, values)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save ratings: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"store": "redis",
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
	id, err := s.client.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return model.Season{}, fmt.Errorf("failed to allocate season id: %w", err)
	}
	season := model.Season{ID: id, Title: title}
	b, err := json.Marshal(season)
	if err != nil {
		return model.Season{}, fmt.Errorf("failed to encode season: %w", err)
	}
	n, err := s.client.RPush(ctx, s.seasonsKey(), b).Result()
	if err != nil {
		return model.Season{}, fmt.Errorf("failed to add season: %w", err)
	}
	season.Position = int(n)
	return season, nil
}

// RemoveSeason drops the season and its ratings for every user.
func (s *Store) RemoveSeason(ctx context.Context, id int64) error {
	raw, seasons, err := s.rawSeasons(ctx)
	if err != nil {
		return err
	}
	for i, season := range seasons {
		if season.ID != id {
			continue
		}
		if err := s.client.LRem(ctx, s.seasonsKey(), 1, raw[i]).Err(); err != nil {
			return fmt.Errorf("failed to remove season: %w", err)
		}
		iter := s.client.Scan(ctx, 0, s.ratingsKey("*"), 100).Iterator()
		for iter.Next(ctx) {
			if err := s.client.HDel(ctx, iter.Val(), strconv.FormatInt(id, 10)).Err(); err != nil {
				return fmt.Errorf("failed to drop ratings: %w", err)
			}
		}
		return iter.Err()
	}
	return fmt.Errorf("%w: %d", store.ErrUnknownSeason, id)
}

func (s *Store) Close() error { return s.client.Close() }
