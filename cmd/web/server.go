package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/coffeerun/internal/store"
)

const (
	storeTimeout = 5 * time.Second
	maxBodyBytes = 1 << 12
)

//go:embed index.html
var indexHTML string

var pageTemplate = template.Must(template.New("index").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(indexHTML))

// server serves the landing page and the leaderboard API.
type server struct {
	scores  store.Scores
	sshHost string
	title   string
	size    int
	logger  *log.Logger
}

type scoresResponse struct {
	Scores []store.Score `json:"scores"`
}

type saveResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.index)
	mux.HandleFunc("GET /leaderboard", s.leaderboard)
	mux.HandleFunc("POST /leaderboard/save", s.save)
	return mux
}

func (s *server) index(w http.ResponseWriter, r *http.Request) {
	top, err := s.top(r.Context())
	if err != nil {
		s.logger.Error("loading leaderboard", "err", err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = pageTemplate.Execute(w, struct {
		Title   string
		SSHHost string
		Scores  []store.Score
	}{s.title, s.sshHost, top})
	if err != nil {
		s.logger.Error("rendering index", "err", err)
	}
}

func (s *server) leaderboard(w http.ResponseWriter, r *http.Request) {
	top, err := s.top(r.Context())
	if err != nil {
		s.logger.Error("loading leaderboard", "err", err)
		writeJSON(w, http.StatusInternalServerError, saveResponse{Error: "leaderboard unavailable"})
		return
	}
	if top == nil {
		top = []store.Score{}
	}
	writeJSON(w, http.StatusOK, scoresResponse{Scores: top})
}

func (s *server) save(w http.ResponseWriter, r *http.Request) {
	var sc store.Score
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&sc); err != nil {
		writeJSON(w, http.StatusBadRequest, saveResponse{Error: "invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()
	err := s.scores.Save(ctx, sc)
	switch {
	case errors.Is(err, store.ErrEmptyName):
		writeJSON(w, http.StatusBadRequest, saveResponse{Error: err.Error()})
		return
	case err != nil:
		s.logger.Error("saving score", "err", err)
		writeJSON(w, http.StatusInternalServerError, saveResponse{Error: "could not save score"})
		return
	}
	s.logger.Info("score saved", "name", sc.Name, "score", sc.Score)
	writeJSON(w, http.StatusOK, saveResponse{Success: true})
}

func (s *server) top(ctx context.Context) ([]store.Score, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	return s.scores.Top(ctx, s.size)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
