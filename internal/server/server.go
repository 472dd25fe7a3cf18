// Package server serves the dashboard UI and the JSON chart API.
package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yuin/goldmark"

	"github.com/pitchside/crease/internal/analyze"
	"github.com/pitchside/crease/internal/dataset"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

var md = goldmark.New()

// Server is the HTTP server for the analytics dashboard.
type Server struct {
	ds       *dataset.Dataset
	analyzer *analyze.Analyzer
	index    *template.Template
	mux      *http.ServeMux
	metrics  *metrics
}

// New creates a new Server.
func New(ds *dataset.Dataset, analyzer *analyze.Analyzer) (*Server, error) {
	index, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parsing index template: %w", err)
	}

	s := &Server{
		ds:       ds,
		analyzer: analyzer,
		index:    index,
		mux:      http.NewServeMux(),
		metrics:  newMetrics(),
	}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	staticSub, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	s.mux.HandleFunc("/", s.instrument("index", s.handleIndex))

	s.mux.HandleFunc("/api/players", s.instrument("players", s.handlePlayers))
	s.mux.HandleFunc("/api/scorers", s.instrument("scorers", s.handleScorers))
	s.mux.HandleFunc("/api/wickets", s.instrument("wickets", s.handleWickets))
	s.mux.HandleFunc("/api/trend", s.instrument("trend", s.handleTrend))
	s.mux.HandleFunc("/api/compare", s.instrument("compare", s.handleCompare))
	s.mux.HandleFunc("/api/player", s.instrument("player", s.handlePlayer))
	s.mux.HandleFunc("/api/analyze", s.instrument("analyze", s.handleAnalyze))

	s.mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	data := map[string]any{
		"Players":    s.ds.Players(),
		"Seasons":    s.ds.Seasons(),
		"Matches":    len(s.ds.Matches()),
		"Deliveries": len(s.ds.Deliveries()),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.index.Execute(w, data); err != nil {
		log.Printf("Error rendering index: %v", err)
	}
}

// renderMarkdown converts commentary markdown to HTML for the UI.
func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String()) //nolint: gosec
}

// Serve starts the HTTP server on the given port.
func Serve(ds *dataset.Dataset, analyzer *analyze.Analyzer, port int) error {
	srv, err := New(ds, analyzer)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	log.Printf("Server listening on http://%s", addr)
	return http.ListenAndServe(addr, srv.Handler())
}
