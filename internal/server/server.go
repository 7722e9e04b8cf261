// Package server exposes the daily-entity service over HTTP for the mobile
// clients.
package server

import (
	"net/http"

	"github.com/vitalia-app/vitalia/pkg/daily"
	"github.com/vitalia-app/vitalia/pkg/storage"
)

type Server struct {
	Daily    *daily.Service
	DB       *storage.DB
	Username string
	Password string
}

func New(svc *daily.Service, db *storage.DB, user, pass string) *Server {
	return &Server{
		Daily:    svc,
		DB:       db,
		Username: user,
		Password: pass,
	}
}

func (s *Server) Start(addr string) error {
	return http.ListenAndServe(addr, s.Handler())
}

// Handler builds the route table. Split from Start so tests can drive it
// through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/daily", s.basicAuth(s.handleDaily))
	mux.HandleFunc("GET /api/entries", s.basicAuth(s.handleEntries))

	return mux
}

func (s *Server) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Username == "" && s.Password == "" {
			next(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.Username || pass != s.Password {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
