package main

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/tomz197/hyperjump/internal/store"
)

const leaderboardSize = 10

// scoreSource is the part of the store the web pages read.
type scoreSource interface {
	TopScores(ctx context.Context, limit int) ([]store.Result, error)
	GetResult(ctx context.Context, id uuid.UUID) (store.Result, error)
}

type server struct {
	scores  scoreSource
	sshHost string
	log     *log.Logger
}

func newServer(scores scoreSource, sshHost string, logger *log.Logger) *server {
	return &server{scores: scores, sshHost: sshHost, log: logger}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/", s.handleIndex)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Route("/api", func(r chi.Router) {
		r.Get("/scores", s.handleScores)
		r.Get("/results/{id}", s.handleResult)
	})
	return r
}

var indexPage = template.Must(template.New("index").
	Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
	Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>HYPERJUMP</title>
<style>
body { background: #000; color: #ddd; font-family: monospace; max-width: 40em; margin: 3em auto; }
h1 { letter-spacing: .3em; }
code { color: #fff; }
td, th { padding: .2em 1em; text-align: left; }
</style>
</head>
<body>
<h1>HYPERJUMP</h1>
<p>Asteroids with a hyperspace drive, in your terminal.</p>
<p>Play: <code>ssh -t {{.SSHHost}}</code></p>
<h2>Top pilots</h2>
{{if .Scores}}
<table>
<tr><th>#</th><th>Pilot</th><th>Score</th><th>Level</th><th>Time</th></tr>
{{range $i, $r := .Scores}}<tr><td>{{inc $i}}</td><td>{{$r.Player}}</td><td>{{$r.Score}}</td><td>{{inc $r.Level}}</td><td>{{$r.Duration}}</td></tr>
{{end}}</table>
{{else}}
<p>No games yet.</p>
{{end}}
</body>
</html>
`))

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	top, err := s.scores.TopScores(r.Context(), leaderboardSize)
	if err != nil {
		s.log.Error("load leaderboard", "err", err)
		top = nil
	}
	for i := range top {
		top[i].Duration = top[i].Duration.Round(time.Second)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = indexPage.Execute(w, struct {
		SSHHost string
		Scores  []store.Result
	}{s.sshHost, top})
	if err != nil {
		s.log.Error("render index", "err", err)
	}
}

type resultJSON struct {
	ID         string    `json:"id"`
	Player     string    `json:"player"`
	Score      int       `json:"score"`
	Level      int       `json:"level"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

func toJSON(r store.Result) resultJSON {
	return resultJSON{
		ID:         r.ID.String(),
		Player:     r.Player,
		Score:      r.Score,
		Level:      r.Level + 1,
		DurationMs: r.Duration.Milliseconds(),
		CreatedAt:  r.CreatedAt.UTC(),
	}
}

func (s *server) handleScores(w http.ResponseWriter, r *http.Request) {
	top, err := s.scores.TopScores(r.Context(), leaderboardSize)
	if err != nil {
		s.log.Error("load leaderboard", "err", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	out := make([]resultJSON, 0, len(top))
	for _, res := range top {
		out = append(out, toJSON(res))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *server) handleResult(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid result id"})
		return
	}
	res, err := s.scores.GetResult(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "result not found"})
		return
	}
	if err != nil {
		s.log.Error("load result", "id", id, "err", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	s.writeJSON(w, http.StatusOK, toJSON(res))
}

func (s *server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("encode response", "err", err)
	}
}
