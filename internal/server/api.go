package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/pitchside/crease/internal/analyze"
	"github.com/pitchside/crease/internal/stats"
)

func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"players": s.ds.Players()})
}

func (s *Server) handleScorers(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	entries, err := stats.TopRunScorers(s.ds, limit)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) handleWickets(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	entries, err := stats.TopWicketTakers(s.ds, limit)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	player := r.URL.Query().Get("player")
	if player == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'player' parameter"))
		return
	}
	points, err := stats.SeasonTrend(s.ds, player, trendMode(r.URL.Query().Get("mode")))
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"player": player, "points": points})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	a := r.URL.Query().Get("a")
	b := r.URL.Query().Get("b")
	if a == "" || b == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'a' or 'b' parameter"))
		return
	}
	comparison, err := stats.ComparePlayers(s.ds, a, b)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comparison)
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'name' parameter"))
		return
	}
	stat, err := stats.PlayerStats(s.ds, name)
	if err != nil {
		writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stat)
}

// analyzeRequest selects a query and carries its parameters. With only a
// question set, keyword routing picks the query.
type analyzeRequest struct {
	Query    string `json:"query"`
	Question string `json:"question"`
	Limit    int    `json:"limit"`
	Player   string `json:"player"`
	Mode     string `json:"mode"`
	A        string `json:"a"`
	B        string `json:"b"`
}

// analyzeResponse is an analyze.Result plus the commentary rendered to HTML.
type analyzeResponse struct {
	*analyze.Result
	CommentaryHTML string `json:"commentary_html"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("POST required"))
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Limit <= 0 {
		req.Limit = analyze.DefaultLimit
	}

	ctx := r.Context()
	var result *analyze.Result
	var err error
	switch strings.ToLower(req.Query) {
	case "scorers":
		result, err = s.analyzer.TopScorers(ctx, req.Limit)
	case "wickets":
		result, err = s.analyzer.TopWicketTakers(ctx, req.Limit)
	case "trend":
		result, err = s.analyzer.Trend(ctx, req.Player, trendMode(req.Mode))
	case "compare":
		result, err = s.analyzer.Compare(ctx, req.A, req.B)
	case "":
		if strings.TrimSpace(req.Question) == "" {
			writeJSON(w, http.StatusBadRequest, errorBody("missing 'query' or 'question'"))
			return
		}
		result, err = s.analyzer.Ask(ctx, req.Question)
	default:
		writeJSON(w, http.StatusBadRequest, errorBody("unknown query "+strconv.Quote(req.Query)))
		return
	}
	if err != nil {
		writeQueryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		Result:         result,
		CommentaryHTML: string(renderMarkdown(result.Commentary)),
	})
}

func trendMode(mode string) stats.TrendMode {
	if strings.ToLower(mode) == string(stats.ModeWickets) {
		return stats.ModeWickets
	}
	return stats.ModeRuns
}

func limitParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return analyze.DefaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &stats.InvalidQueryError{Reason: "limit must be an integer"}
	}
	return limit, nil
}

// writeQueryError maps the error taxonomy onto HTTP statuses: bad
// parameters are 400, unknown players 404, anything else 500.
func writeQueryError(w http.ResponseWriter, err error) {
	var invalid *stats.InvalidQueryError
	if errors.As(err, &invalid) {
		writeJSON(w, http.StatusBadRequest, errorBody(invalid.Error()))
		return
	}
	var notFound *stats.PlayerNotFoundError
	if errors.As(err, &notFound) {
		writeJSON(w, http.StatusNotFound, errorBody(notFound.Error()))
		return
	}
	log.Printf("Query failed: %v", err)
	writeJSON(w, http.StatusInternalServerError, errorBody("internal server error"))
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
