package board

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/rate/internal/model"
)

const (
	seasonA int64 = 1
	seasonB int64 = 2
)

type fakePersister struct {
	calls   int
	batches [][]model.Rating
	err     error
}

func (f *fakePersister) SaveRatings(_ context.Context, batch []model.Rating) error {
	f.calls++
	f.batches = append(f.batches, batch)
	return f.err
}

func seasons() []model.Season {
	return []model.Season{
		{ID: seasonA, Title: "A", Position: 1},
		{ID: seasonB, Title: "B", Position: 2},
	}
}

// dirtyBoard returns working={A:80,B:20}, saved={A:50,B:50}.
func dirtyBoard(t *testing.T) *Board {
	t.Helper()
	b := New(seasons(), nil)
	require.NoError(t, b.SetRating(seasonA, 80))
	require.NoError(t, b.SetRating(seasonB, 20))
	return b
}

func TestNewDefaultsAndClamps(t *testing.T) {
	b := New([]model.Season{{ID: 1}, {ID: 2}, {ID: 3}}, map[int64]int{1: 70, 3: 140, 99: 5})
	assert.Equal(t, model.RatingSet{1: 70, 2: 50, 3: 100}, b.Working())
	assert.Equal(t, b.Working(), b.Saved())
	assert.False(t, b.IsDirty())
	assert.Empty(t, b.Status())
}

func TestSetRatingValidation(t *testing.T) {
	b := New(seasons(), nil)

	err := b.SetRating(42, 10)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, ErrUnknownSeason)

	assert.ErrorIs(t, b.SetRating(seasonA, 101), ErrOutOfRange)
	assert.ErrorIs(t, b.SetRating(seasonA, -1), ErrOutOfRange)

	assert.Equal(t, model.RatingSet{seasonA: 50, seasonB: 50}, b.Working())
	assert.False(t, b.IsDirty())
}

func TestDirtyTracking(t *testing.T) {
	b := New(seasons(), nil)
	assert.False(t, b.IsDirty())

	require.NoError(t, b.SetRating(seasonA, 51))
	assert.True(t, b.IsDirty())
	assert.Equal(t, []model.Season{seasons()[0]}, b.Dirty())

	require.NoError(t, b.SetRating(seasonA, 50))
	assert.False(t, b.IsDirty(), "reverting to the saved value is clean")
}

func TestSaveSuccess(t *testing.T) {
	b := dirtyBoard(t)
	p := &fakePersister{}

	issued, err := b.Save(context.Background(), p, true)
	require.NoError(t, err)
	assert.True(t, issued)

	assert.Equal(t, model.RatingSet{seasonA: 80, seasonB: 20}, b.Saved())
	assert.False(t, b.IsDirty())
	assert.Equal(t, StatusSaved, b.Status())
	assert.True(t, b.StatusOK())
	require.Len(t, p.batches, 1)
	assert.Equal(t, []model.Rating{{SeasonID: seasonA, Rating: 80}, {SeasonID: seasonB, Rating: 20}}, p.batches[0])
}

func TestSaveFailureIsNonDestructive(t *testing.T) {
	b := dirtyBoard(t)
	p := &fakePersister{err: errors.New("network error")}

	issued, err := b.Save(context.Background(), p, true)
	assert.True(t, issued)
	assert.EqualError(t, err, "network error")

	assert.Equal(t, model.RatingSet{seasonA: 80, seasonB: 20}, b.Working())
	assert.Equal(t, model.RatingSet{seasonA: 50, seasonB: 50}, b.Saved())
	assert.True(t, b.IsDirty())
	assert.Equal(t, "network error", b.Status())
	assert.False(t, b.StatusOK())
	assert.False(t, b.Saving())

	// the user may retry
	p.err = nil
	issued, err = b.Save(context.Background(), p, true)
	require.NoError(t, err)
	assert.True(t, issued)
	assert.False(t, b.IsDirty())
	assert.Equal(t, 2, p.calls)
}

type emptyErr struct{}

func (emptyErr) Error() string { return "" }

func TestSaveFailureWithoutMessage(t *testing.T) {
	b := dirtyBoard(t)
	_, _ = b.Save(context.Background(), &fakePersister{err: emptyErr{}}, true)
	assert.Equal(t, "Save failed", b.Status())
}

func TestSavePreconditionsAreNoOps(t *testing.T) {
	p := &fakePersister{}

	clean := New(seasons(), nil)
	issued, err := clean.Save(context.Background(), p, true)
	assert.False(t, issued)
	assert.NoError(t, err)

	dirty := dirtyBoard(t)
	issued, err = dirty.Save(context.Background(), p, false)
	assert.False(t, issued)
	assert.NoError(t, err)
	assert.True(t, dirty.IsDirty())

	assert.Zero(t, p.calls)
}

func TestSingleFlight(t *testing.T) {
	b := dirtyBoard(t)
	p := &fakePersister{}

	req, ok := b.Begin(true)
	require.True(t, ok)
	assert.True(t, b.Saving())

	_, again := b.Begin(true)
	assert.False(t, again)
	issued, err := b.Save(context.Background(), p, true)
	assert.False(t, issued)
	assert.NoError(t, err)
	assert.Zero(t, p.calls, "no second batch reaches the persister")

	b.Finish(req, nil)
	assert.False(t, b.Saving())
	assert.False(t, b.IsDirty())
}

func TestEditsDuringFlightStayDirty(t *testing.T) {
	b := dirtyBoard(t)
	req, ok := b.Begin(true)
	require.True(t, ok)

	require.NoError(t, b.SetRating(seasonB, 30))
	b.Finish(req, nil)

	assert.Equal(t, model.RatingSet{seasonA: 80, seasonB: 20}, b.Saved())
	assert.Equal(t, []model.Season{seasons()[1]}, b.Dirty())

	next, ok := b.Begin(true)
	require.True(t, ok)
	assert.Equal(t, 30, next.Batch[1].Rating)
}

func TestFinishIgnoresStaleRequest(t *testing.T) {
	b := dirtyBoard(t)
	b.Finish(Request{}, nil)
	assert.True(t, b.IsDirty())

	req, ok := b.Begin(true)
	require.True(t, ok)
	b.Finish(req, errors.New("boom"))
	b.Finish(req, nil)
	assert.True(t, b.IsDirty(), "a finished request cannot be applied twice")
	assert.Equal(t, "boom", b.Status())
}

func TestSetRatingClearsStatus(t *testing.T) {
	b := dirtyBoard(t)
	_, _ = b.Save(context.Background(), &fakePersister{err: errors.New("offline")}, true)
	require.Equal(t, "offline", b.Status())

	require.NoError(t, b.SetRating(seasonA, 81))
	assert.Empty(t, b.Status())
}

func TestChartFeeds(t *testing.T) {
	b := dirtyBoard(t)
	assert.Equal(t, []string{"A", "B"}, b.Labels())
	assert.Equal(t, []float64{80, 20}, b.Values())
}
