package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/vitalia-app/vitalia/pkg/daily"
	"github.com/vitalia-app/vitalia/pkg/insights"
	"github.com/vitalia-app/vitalia/pkg/storage"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleDaily returns today's entity for a user, generating it if needed.
// Non-terminal outcomes map to non-200 statuses the app can poll on:
// 202 while another request is generating, 422 while data is insufficient.
func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := q.Get("user")
	if userID == "" {
		http.Error(w, "missing user parameter", http.StatusBadRequest)
		return
	}

	category := insights.Category(q.Get("category"))
	if category == "" {
		category = insights.CategoryMindfulness
	}

	day := time.Now()
	if d := q.Get("date"); d != "" {
		parsed, err := time.Parse(storage.DayFormat, d)
		if err != nil {
			http.Error(w, "invalid date, want YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		day = parsed
	}

	res, err := s.Daily.GetOrGenerate(r.Context(), userID, category, day)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	switch res.Status {
	case daily.StatusInProgress:
		writeJSON(w, http.StatusAccepted, res)
	case daily.StatusInsufficientData:
		writeJSON(w, http.StatusUnprocessableEntity, res)
	default:
		writeJSON(w, http.StatusOK, res)
	}
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := q.Get("user")
	if userID == "" {
		http.Error(w, "missing user parameter", http.StatusBadRequest)
		return
	}

	limit := 30
	if l := q.Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries, err := s.DB.ListByUser(r.Context(), userID, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []storage.DailyEntity{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
