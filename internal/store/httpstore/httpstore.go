// Package httpstore talks to the ratings API served by cmd/rated.
package httpstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/rate/internal/model"
	"github.com/idilsaglam/rate/internal/store"
)

const DefaultTimeout = 15 * time.Second

// Store is a remote store. The user is the token subject on the server;
// the userID arguments are only used for logging.
type Store struct {
	base   string
	token  string
	client *http.Client
}

type Option func(*Store)

func WithHTTPClient(c *http.Client) Option { return func(s *Store) { s.client = c } }

// New returns a client for the API at baseURL. token may be empty.
func New(baseURL, token string, opts ...Option) (*Store, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("api url is required")
	}
	s := &Store{
		base:   baseURL,
		token:  token,
		client: &http.Client{Timeout: DefaultTimeout},
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

type ratingsBody struct {
	Ratings map[int64]int `json:"ratings"`
}

type bulkBody struct {
	Items []model.Rating `json:"items"`
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Store) Seasons(ctx context.Context) ([]model.Season, error) {
	var out []model.Season
	if err := s.do(ctx, http.MethodGet, "/api/seasons", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Ratings(ctx context.Context, userID string) (map[int64]int, error) {
	var body ratingsBody
	if err := s.do(ctx, http.MethodGet, "/api/ratings", nil, &body); err != nil {
		return nil, err
	}
	if body.Ratings == nil {
		body.Ratings = map[int64]int{}
	}
	return body.Ratings, nil
}

// SaveRatings posts the batch to /api/ratings-bulk. The server's error
// text is returned as the error message.
func (s *Store) SaveRatings(ctx context.Context, userID string, batch []model.Rating) error {
	if batch == nil {
		batch = []model.Rating{}
	}
	if err := s.do(ctx, http.MethodPost, "/api/ratings-bulk", bulkBody{Items: batch}, nil); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"store": "http",
		"user":  userID,
		"count": len(batch),
	}).Debug("ratings saved")
	return nil
}

func (s *Store) AddSeason(context.Context, string) (model.Season, error) {
	return model.Season{}, store.ErrReadOnly
}

func (s *Store) RemoveSeason(context.Context, int64) error { return store.ErrReadOnly }

func (s *Store) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

func (s *Store) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := sonic.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.base+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	res, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var e errorBody
		if sonic.Unmarshal(raw, &e) == nil && e.Error != "" {
			return errors.New(e.Error)
		}
		return fmt.Errorf("%s %s: %s", method, path, res.Status)
	}
	if out == nil {
		return nil
	}
	if err := sonic.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
