package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/rate/internal/auth"
	"github.com/idilsaglam/rate/internal/store"
	"github.com/idilsaglam/rate/internal/store/memory"
)

var secret = []byte("api-test-secret")

func newServer(t *testing.T, opt Options) (*httptest.Server, *memory.Store) {
	t.Helper()
	st := memory.New("Season 1", "Season 2")
	srv := httptest.NewServer(NewRouter(st, opt))
	t.Cleanup(srv.Close)
	return srv, st
}

func token(t *testing.T, sub string, verified bool) string {
	t.Helper()
	tok, err := auth.Sign(secret, sub, sub+"@example.com", verified, time.Hour)
	require.NoError(t, err)
	return tok
}

func do(t *testing.T, srv *httptest.Server, method, path, tok, body string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	res, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	var out map[string]any
	_ = json.NewDecoder(res.Body).Decode(&out)
	return res.StatusCode, out
}

func TestHealthz(t *testing.T) {
	srv, _ := newServer(t, Options{})
	code, body := do(t, srv, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["ok"])
}

func TestSeasons(t *testing.T) {
	srv, _ := newServer(t, Options{})
	res, err := srv.Client().Get(srv.URL + "/api/seasons")
	require.NoError(t, err)
	defer res.Body.Close()
	var seasons []map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&seasons))
	require.Len(t, seasons, 2)
	assert.Equal(t, "Season 1", seasons[0]["title"])
	assert.EqualValues(t, 1, seasons[0]["position"])
}

func TestBulkSaveAndRead(t *testing.T) {
	srv, st := newServer(t, Options{Secret: secret})
	tok := token(t, "alice", true)

	code, body := do(t, srv, http.MethodPost, "/api/ratings-bulk", tok,
		`{"items":[{"season_id":1,"rating":80},{"season_id":"2","rating":"20"}]}`)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, true, body["ok"])

	got, err := st.Ratings(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{1: 80, 2: 20}, got)

	code, body = do(t, srv, http.MethodGet, "/api/ratings", tok, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"1": float64(80), "2": float64(20)}, body["ratings"])
}

func TestBulkRejections(t *testing.T) {
	srv, st := newServer(t, Options{Secret: secret})
	verified := token(t, "bob", true)

	cases := []struct {
		name, tok, body string
		code            int
		msg             string
	}{
		{"not json", verified, `nope`, http.StatusBadRequest, "Invalid payload"},
		{"items missing", verified, `{}`, http.StatusBadRequest, "Invalid payload"},
		{"items not a list", verified, `{"items":3}`, http.StatusBadRequest, "Invalid payload"},
		{"bad season id", verified, `{"items":[{"season_id":"x","rating":5}]}`, http.StatusBadRequest, "Invalid items"},
		{"missing rating", verified, `{"items":[{"season_id":1}]}`, http.StatusBadRequest, "Invalid items"},
		{"out of range", verified, `{"items":[{"season_id":1,"rating":101}]}`, http.StatusBadRequest, "Invalid items"},
		{"unverified", token(t, "bob", false), `{"items":[{"season_id":1,"rating":5}]}`, http.StatusForbidden, "Verify your email to save ratings."},
		{"unknown season", verified, `{"items":[{"season_id":1,"rating":5},{"season_id":9,"rating":5}]}`, http.StatusBadRequest, "unknown season: 9"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := do(t, srv, http.MethodPost, "/api/ratings-bulk", tc.tok, tc.body)
			assert.Equal(t, tc.code, code)
			assert.Equal(t, tc.msg, body["error"])
		})
	}

	got, err := st.Ratings(context.Background(), "bob")
	require.NoError(t, err)
	assert.Empty(t, got, "rejected batches leave nothing behind")
}

func TestAuthRequired(t *testing.T) {
	srv, _ := newServer(t, Options{Secret: secret})

	code, _ := do(t, srv, http.MethodGet, "/api/ratings", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	other, err := auth.Sign([]byte("other"), "eve", "", true, time.Hour)
	require.NoError(t, err)
	code, body := do(t, srv, http.MethodGet, "/api/ratings", other, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid token", body["error"])
}

func TestNoSecretActsAsLocalUser(t *testing.T) {
	srv, st := newServer(t, Options{})
	code, _ := do(t, srv, http.MethodPost, "/api/rating", "", `{"season_id":2,"rating":65}`)
	require.Equal(t, http.StatusOK, code)

	got, err := st.Ratings(context.Background(), store.LocalUser)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{2: 65}, got)
}

func TestSingleRatingWantsNumbers(t *testing.T) {
	srv, _ := newServer(t, Options{})
	code, body := do(t, srv, http.MethodPost, "/api/rating", "", `{"season_id":"2","rating":65}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid payload", body["error"])
}
