// Package board tracks a user's working and last-saved season ratings and
// runs single-flight bulk saves against a Persister.
//
// A Board is owned by one event loop and is not safe for concurrent use.
package board

import (
	"context"
	"errors"
	"fmt"

	"github.com/idilsaglam/rate/internal/model"
)

// StatusSaved is reported after a successful save.
const StatusSaved = "Saved!"

const statusFailed = "Save failed"

var (
	ErrUnknownSeason = errors.New("unknown season")
	ErrOutOfRange    = errors.New("rating out of range")
)

// ValidationError rejects a SetRating call. Err is ErrUnknownSeason or ErrOutOfRange.
type ValidationError struct {
	SeasonID int64
	Value    int
	Err      error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("season %d rating %d: %v", e.SeasonID, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Persister durably stores a whole batch or fails; it never applies part of one.
type Persister interface {
	SaveRatings(ctx context.Context, batch []model.Rating) error
}

// Request is the snapshot submitted by one save attempt.
type Request struct {
	seq   uint64
	Batch []model.Rating
}

type Board struct {
	seasons []model.Season
	working model.RatingSet
	saved   model.RatingSet

	saving   bool
	inflight uint64
	seq      uint64

	status   string
	statusOK bool
}

// New starts a session. Seasons without a rating in initial start at
// model.DefaultRating; stored values are clamped to the rating range.
func New(seasons []model.Season, initial map[int64]int) *Board {
	base := make(model.RatingSet, len(seasons))
	for _, s := range seasons {
		v, ok := initial[s.ID]
		if !ok {
			v = model.DefaultRating
		}
		base[s.ID] = model.Clamp(v)
	}
	list := make([]model.Season, len(seasons))
	copy(list, seasons)
	return &Board{
		seasons: list,
		working: base,
		saved:   base.Clone(),
	}
}

func (b *Board) Seasons() []model.Season {
	out := make([]model.Season, len(b.seasons))
	copy(out, b.seasons)
	return out
}

// Rating returns the working score of id.
func (b *Board) Rating(id int64) (int, bool) {
	v, ok := b.working[id]
	return v, ok
}

func (b *Board) Working() model.RatingSet { return b.working.Clone() }
func (b *Board) Saved() model.RatingSet   { return b.saved.Clone() }

// SetRating replaces the working score of id and clears the status line.
func (b *Board) SetRating(id int64, value int) error {
	if _, ok := b.working[id]; !ok {
		return &ValidationError{SeasonID: id, Value: value, Err: ErrUnknownSeason}
	}
	if value < model.MinRating || value > model.MaxRating {
		return &ValidationError{SeasonID: id, Value: value, Err: ErrOutOfRange}
	}
	b.working[id] = value
	b.status, b.statusOK = "", false
	return nil
}

// IsDirty reports whether any working score differs from its saved score.
func (b *Board) IsDirty() bool {
	for _, s := range b.seasons {
		if b.working[s.ID] != b.saved[s.ID] {
			return true
		}
	}
	return false
}

// Dirty lists the seasons whose working score is unsaved, in list order.
func (b *Board) Dirty() []model.Season {
	var out []model.Season
	for _, s := range b.seasons {
		if b.working[s.ID] != b.saved[s.ID] {
			out = append(out, s)
		}
	}
	return out
}

func (b *Board) Saving() bool { return b.saving }

// Status is the last save message; StatusOK tells success from failure.
func (b *Board) Status() string { return b.status }
func (b *Board) StatusOK() bool { return b.statusOK }

// CanSave reports whether Begin would start a save.
func (b *Board) CanSave(authorized bool) bool {
	return authorized && !b.saving && b.IsDirty()
}

// Begin snapshots the working set and marks a save in flight. It returns
// false, doing nothing, when unauthorized, clean or already saving.
func (b *Board) Begin(authorized bool) (Request, bool) {
	if !b.CanSave(authorized) {
		return Request{}, false
	}
	b.seq++
	req := Request{seq: b.seq, Batch: make([]model.Rating, 0, len(b.seasons))}
	for _, s := range b.seasons {
		req.Batch = append(req.Batch, model.Rating{SeasonID: s.ID, Rating: b.working[s.ID]})
	}
	b.saving = true
	b.inflight = req.seq
	b.status, b.statusOK = "", false
	return req, true
}

// Finish applies the outcome of req. On success the submitted snapshot
// becomes the saved set; on failure both sets stay as they are and err's
// text becomes the status. Outcomes for anything but the in-flight
// request are ignored.
func (b *Board) Finish(req Request, err error) {
	if !b.saving || req.seq != b.inflight {
		return
	}
	b.saving = false
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = statusFailed
		}
		b.status, b.statusOK = msg, false
		return
	}
	saved := make(model.RatingSet, len(req.Batch))
	for _, r := range req.Batch {
		saved[r.SeasonID] = r.Rating
	}
	b.saved = saved
	b.status, b.statusOK = StatusSaved, true
}

// Save runs Begin, p.SaveRatings and Finish in one call. It reports whether
// a request was issued and returns the persistence error, if any.
func (b *Board) Save(ctx context.Context, p Persister, authorized bool) (bool, error) {
	req, ok := b.Begin(authorized)
	if !ok {
		return false, nil
	}
	err := p.SaveRatings(ctx, req.Batch)
	b.Finish(req, err)
	return true, err
}

// Labels and Values feed the chart in season order.
func (b *Board) Labels() []string {
	out := make([]string, len(b.seasons))
	for i, s := range b.seasons {
		out[i] = s.Title
	}
	return out
}

func (b *Board) Values() []float64 {
	out := make([]float64, len(b.seasons))
	for i, s := range b.seasons {
		out[i] = float64(b.working[s.ID])
	}
	return out
}
