package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avolosh/tankarena-go/internal/api/response"
	"github.com/avolosh/tankarena-go/internal/model"
	"github.com/avolosh/tankarena-go/internal/storage"
)

// defaultMatchListLimit caps GET /players/{id}/matches when no limit is given
const defaultMatchListLimit = 20

// HistoryHandler serves match records and cumulative player statistics
type HistoryHandler struct {
	records storage.RecordStore
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(records storage.RecordStore) *HistoryHandler {
	return &HistoryHandler{records: records}
}

// GetStats handles GET /api/v1/players/{id}/stats
func (h *HistoryHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	playerID := model.PlayerID(mux.Vars(r)["id"])

	stats, err := h.records.GetStats(r.Context(), playerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StatsFromModel(stats))
}

// ListMatches handles GET /api/v1/players/{id}/matches
func (h *HistoryHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	playerID := model.PlayerID(mux.Vars(r)["id"])

	limit := defaultMatchListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			WriteError(w, NewInvalidRequestError("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	records, err := h.records.ListMatchesForPlayer(r.Context(), playerID, limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchListFromModels(records))
}

// GetMatch handles GET /api/v1/matches/{id}
func (h *HistoryHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		WriteError(w, NewInvalidRequestError("match id must be an integer"))
		return
	}

	record, err := h.records.GetMatchRecord(r.Context(), model.MatchID(id))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchFromModel(record))
}
