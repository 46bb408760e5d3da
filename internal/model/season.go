package model

// Season is one rateable entry of a show. Position is the fixed 1-based
// ordinal used for display and for CLI indexes.
type Season struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Position int    `json:"position"`
}

// Rating is the wire pair submitted to a store.
type Rating struct {
	SeasonID int64 `json:"season_id"`
	Rating   int   `json:"rating"`
}

const (
	MinRating     = 0
	MaxRating     = 100
	DefaultRating = 50
)

// RatingSet maps a season id to its score.
type RatingSet map[int64]int

// Clone returns an independent copy.
func (s RatingSet) Clone() RatingSet {
	out := make(RatingSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Clamp bounds a score to [MinRating, MaxRating].
func Clamp(v int) int {
	if v < MinRating {
		return MinRating
	}
	if v > MaxRating {
		return MaxRating
	}
	return v
}
