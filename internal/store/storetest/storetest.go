// Package storetest holds behaviour checks shared by every store backend.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/rate/internal/model"
	"github.com/idilsaglam/rate/internal/store"
)

// Seed adds titles through the store's SeasonEditor.
func Seed(t *testing.T, s store.Store, titles ...string) []model.Season {
	t.Helper()
	ed, ok := s.(store.SeasonEditor)
	require.True(t, ok, "store %T cannot add seasons", s)
	out := make([]model.Season, 0, len(titles))
	for _, title := range titles {
		season, err := ed.AddSeason(context.Background(), title)
		require.NoError(t, err)
		out = append(out, season)
	}
	return out
}

// Run checks the Store contract. newStore must return an empty store that
// also implements store.SeasonEditor.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	ctx := context.Background()

	t.Run("SeasonsKeepOrder", func(t *testing.T) {
		s := newStore(t)
		seeded := Seed(t, s, "Murder House", "Asylum", "Coven")
		got, err := s.Seasons(ctx)
		require.NoError(t, err)
		require.Len(t, got, 3)
		for i, season := range got {
			assert.Equal(t, seeded[i].ID, season.ID)
			assert.Equal(t, seeded[i].Title, season.Title)
			assert.Equal(t, i+1, season.Position)
		}
	})

	t.Run("RatingsRoundTripPerUser", func(t *testing.T) {
		s := newStore(t)
		seeded := Seed(t, s, "One", "Two")
		batch := []model.Rating{{SeasonID: seeded[0].ID, Rating: 80}, {SeasonID: seeded[1].ID, Rating: 20}}
		require.NoError(t, s.SaveRatings(ctx, "alice", batch))

		got, err := s.Ratings(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, map[int64]int{seeded[0].ID: 80, seeded[1].ID: 20}, got)

		other, err := s.Ratings(ctx, "bob")
		require.NoError(t, err)
		assert.Empty(t, other)

		require.NoError(t, s.SaveRatings(ctx, "alice", []model.Rating{{SeasonID: seeded[1].ID, Rating: 65}}))
		got, err = s.Ratings(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, map[int64]int{seeded[0].ID: 80, seeded[1].ID: 65}, got)
	})

	t.Run("BatchIsAllOrNothing", func(t *testing.T) {
		s := newStore(t)
		seeded := Seed(t, s, "One")
		err := s.SaveRatings(ctx, "alice", []model.Rating{
			{SeasonID: seeded[0].ID, Rating: 90},
			{SeasonID: seeded[0].ID + 1000, Rating: 10},
		})
		require.Error(t, err)

		got, err := s.Ratings(ctx, "alice")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("RemoveSeason", func(t *testing.T) {
		s := newStore(t)
		seeded := Seed(t, s, "One", "Two", "Three")
		require.NoError(t, s.SaveRatings(ctx, "alice", []model.Rating{{SeasonID: seeded[1].ID, Rating: 70}}))

		ed := s.(store.SeasonEditor)
		require.NoError(t, ed.RemoveSeason(ctx, seeded[1].ID))
		assert.ErrorIs(t, ed.RemoveSeason(ctx, seeded[1].ID), store.ErrUnknownSeason)

		got, err := s.Seasons(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Three", got[1].Title)
		assert.Equal(t, 2, got[1].Position)

		ratings, err := s.Ratings(ctx, "alice")
		require.NoError(t, err)
		assert.NotContains(t, ratings, seeded[1].ID)
	})
}
