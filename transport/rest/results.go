package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/johancv/tictactoe-backend/internal/entity"
)

const defaultResultsLimit = 20

type resultLister interface {
	ListRecent(ctx context.Context, limit int64) ([]*entity.GameResult, error)
}

type resultsResponse struct {
	Results []*entity.GameResult `json:"results"`
}

// resultsHandler serves the most recently finished games, newest first.
// The limit query parameter caps the list; anything unparsable falls back
// to the default.
func resultsHandler(results resultLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := int64(defaultResultsLimit)
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 {
				limit = parsed
			}
		}

		recent, err := results.ListRecent(r.Context(), limit)
		if err != nil {
			http.Error(w, "failed to list results", http.StatusInternalServerError)
			return
		}

		if recent == nil {
			recent = []*entity.GameResult{}
		}

		w.Header().Set("Content-Type", "application/json")

		_ = json.NewEncoder(w).Encode(resultsResponse{Results: recent})
	}
}
