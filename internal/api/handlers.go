package api

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/rate/internal/model"
	"github.com/idilsaglam/rate/internal/store"
)

type ratingsResponse struct {
	Ratings map[int64]int `json:"ratings"`
}

func HandleSeasons(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seasons, err := st.Seasons(r.Context())
		if err != nil {
			logrus.WithError(err).Error("failed to list seasons")
			writeError(w, r, http.StatusInternalServerError, "Failed to list seasons")
			return
		}
		if seasons == nil {
			seasons = []model.Season{}
		}
		render.JSON(w, r, seasons)
	}
}

func HandleRatings(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFrom(r.Context())
		if !ok {
			writeError(w, r, http.StatusUnauthorized, "User claims not found")
			return
		}
		ratings, err := st.Ratings(r.Context(), id.UserID)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"error": err,
				"user":  id.UserID,
			}).Error("failed to load ratings")
			writeError(w, r, http.StatusInternalServerError, "Failed to load ratings")
			return
		}
		if ratings == nil {
			ratings = map[int64]int{}
		}
		render.JSON(w, r, ratingsResponse{Ratings: ratings})
	}
}

// HandleRatingsBulk upserts every item for the caller or none of them.
// Items may carry numbers or numeric strings.
func HandleRatingsBulk(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Items []map[string]any `json:"items"`
		}
		if err := render.DecodeJSON(r.Body, &body); err != nil || body.Items == nil {
			writeError(w, r, http.StatusBadRequest, "Invalid payload")
			return
		}
		batch := make([]model.Rating, 0, len(body.Items))
		for _, it := range body.Items {
			rating, ok := parseItem(it["season_id"], it["rating"], true)
			if !ok {
				writeError(w, r, http.StatusBadRequest, "Invalid items")
				return
			}
			batch = append(batch, rating)
		}
		save(w, r, st, batch)
	}
}

// HandleRating upserts a single {season_id, rating} pair.
func HandleRating(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := render.DecodeJSON(r.Body, &body); err != nil {
			writeError(w, r, http.StatusBadRequest, "Invalid payload")
			return
		}
		rating, ok := parseItem(body["season_id"], body["rating"], false)
		if !ok {
			writeError(w, r, http.StatusBadRequest, "Invalid payload")
			return
		}
		save(w, r, st, []model.Rating{rating})
	}
}

func save(w http.ResponseWriter, r *http.Request, st store.Store, batch []model.Rating) {
	id, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "User claims not found")
		return
	}
	if !id.Verified {
		writeError(w, r, http.StatusForbidden, "Verify your email to save ratings.")
		return
	}
	if err := st.SaveRatings(r.Context(), id.UserID, batch); err != nil {
		logrus.WithFields(logrus.Fields{
			"error": err,
			"user":  id.UserID,
			"count": len(batch),
		}).Warn("failed to save ratings")
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	render.JSON(w, r, map[string]bool{"ok": true})
}

func parseItem(seasonID, rating any, allowStrings bool) (model.Rating, bool) {
	id, ok := number(seasonID, allowStrings)
	if !ok || id != math.Trunc(id) {
		return model.Rating{}, false
	}
	v, ok := number(rating, allowStrings)
	if !ok || v != math.Trunc(v) || v < model.MinRating || v > model.MaxRating {
		return model.Rating{}, false
	}
	return model.Rating{SeasonID: int64(id), Rating: int(v)}, true
}

func number(v any, allowStrings bool) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, !math.IsNaN(x) && !math.IsInf(x, 0)
	case string:
		if !allowStrings {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
