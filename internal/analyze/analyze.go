// Package analyze runs one synchronous query pipeline per user action:
// aggregate, summarize into facts, narrate. A narrative-service failure
// degrades to a fallback message; the numeric results always survive.
package analyze

import (
	"context"
	"log"
	"strings"

	"github.com/pitchside/crease/internal/dataset"
	"github.com/pitchside/crease/internal/facts"
	"github.com/pitchside/crease/internal/narrative"
	"github.com/pitchside/crease/internal/stats"
)

// FallbackMessage is shown when commentary could not be generated.
const FallbackMessage = "Analysis unavailable right now. The numbers below still tell the story."

// DefaultLimit is the leaderboard size used by the dashboard and the
// free-text question route.
const DefaultLimit = 10

// Result is the outcome of one pipeline run: the chart-ready numbers, the
// fact payload sent to the narrative service, and the commentary.
type Result struct {
	Question   string                   `json:"question,omitempty"`
	Facts      []facts.Fact             `json:"facts"`
	Commentary string                   `json:"commentary"`
	Fallback   bool                     `json:"fallback"`
	Entries    []stats.LeaderboardEntry `json:"entries,omitempty"`
	Points     []stats.SeasonPoint      `json:"points,omitempty"`
	Comparison *stats.Comparison        `json:"comparison,omitempty"`
}

// Analyzer wires the loaded dataset to a narrative provider.
type Analyzer struct {
	ds        *dataset.Dataset
	provider  narrative.Provider
	maxTokens int
}

// New creates an Analyzer. The provider may be nil, in which case every
// result carries the fallback message.
func New(ds *dataset.Dataset, provider narrative.Provider, maxTokens int) *Analyzer {
	if maxTokens <= 0 {
		maxTokens = 180
	}
	return &Analyzer{ds: ds, provider: provider, maxTokens: maxTokens}
}

// TopScorers runs the top-run-scorers pipeline.
func (a *Analyzer) TopScorers(ctx context.Context, limit int) (*Result, error) {
	entries, err := stats.TopRunScorers(a.ds, limit)
	if err != nil {
		return nil, err
	}

	payload := facts.FromLeaderboard(facts.KindScorers, entries)
	r := &Result{Facts: payload.Facts(), Entries: entries}
	r.Commentary, r.Fallback = a.narrate(ctx, payload, "Who are the top run scorers in the IPL?")
	return r, nil
}

// TopWicketTakers runs the top-wicket-takers pipeline.
func (a *Analyzer) TopWicketTakers(ctx context.Context, limit int) (*Result, error) {
	entries, err := stats.TopWicketTakers(a.ds, limit)
	if err != nil {
		return nil, err
	}

	payload := facts.FromLeaderboard(facts.KindWicketTakers, entries)
	r := &Result{Facts: payload.Facts(), Entries: entries}
	r.Commentary, r.Fallback = a.narrate(ctx, payload, "Who are the leading wicket takers in the IPL?")
	return r, nil
}

// Trend runs the season-trend pipeline for one player.
func (a *Analyzer) Trend(ctx context.Context, player string, mode stats.TrendMode) (*Result, error) {
	points, err := stats.SeasonTrend(a.ds, player, mode)
	if err != nil {
		return nil, err
	}

	payload := facts.FromTrend(player, mode, points)
	r := &Result{Facts: payload.Facts(), Points: points}
	r.Commentary, r.Fallback = a.narrate(ctx, payload, "How has "+player+" trended across IPL seasons?")
	return r, nil
}

// Compare runs the head-to-head pipeline for two players.
func (a *Analyzer) Compare(ctx context.Context, playerA, playerB string) (*Result, error) {
	comparison, err := stats.ComparePlayers(a.ds, playerA, playerB)
	if err != nil {
		return nil, err
	}

	payload := facts.FromComparison(comparison)
	r := &Result{Facts: payload.Facts(), Comparison: &comparison}
	r.Commentary, r.Fallback = a.narrate(ctx, payload, "Compare "+playerA+" vs "+playerB)
	return r, nil
}

// Ask routes a free-text question to the closest query by keyword; with no
// keyword match it still asks for an IPL answer, flagged as fact-free.
func (a *Analyzer) Ask(ctx context.Context, question string) (*Result, error) {
	q := strings.ToLower(question)

	var r *Result
	var err error
	switch {
	case strings.Contains(q, "run"):
		r, err = a.TopScorers(ctx, DefaultLimit)
	case strings.Contains(q, "wicket"):
		r, err = a.TopWicketTakers(ctx, DefaultLimit)
	default:
		payload := &facts.Payload{}
		r = &Result{Facts: payload.Facts()}
		r.Commentary, r.Fallback = a.narrateText(ctx,
			"This question relates to IPL cricket but no numerical fact was matched.", question)
	}
	if err != nil {
		return nil, err
	}
	r.Question = question
	return r, nil
}

func (a *Analyzer) narrate(ctx context.Context, payload *facts.Payload, question string) (string, bool) {
	return a.narrateText(ctx, payload.Render(), question)
}

func (a *Analyzer) narrateText(ctx context.Context, renderedFacts, question string) (string, bool) {
	if a.provider == nil {
		return FallbackMessage, true
	}

	prompt := narrative.BuildPrompt(renderedFacts, question)
	text, err := a.provider.Generate(ctx, prompt, a.maxTokens)
	if err != nil {
		log.Printf("Narrative generation failed: %v", err)
		return FallbackMessage, true
	}
	return text, false
}
