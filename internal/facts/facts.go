// Package facts reduces aggregation results into the compact, ordered
// label→value payload handed to the narrative service. Payloads carry only
// summary numbers, never per-delivery rows, so prompts stay small and no
// unaggregated data leaves the process.
package facts

import (
	"fmt"
	"strings"

	"github.com/pitchside/crease/internal/stats"
)

// Fact is one labeled value in a payload.
type Fact struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Payload is an ordered sequence of facts. Order is fixed per builder so
// that identical inputs always produce identical prompts.
type Payload struct {
	facts []Fact
}

func (p *Payload) add(label, format string, args ...any) {
	p.facts = append(p.facts, Fact{Label: label, Value: fmt.Sprintf(format, args...)})
}

// Facts returns the facts in payload order.
func (p *Payload) Facts() []Fact { return p.facts }

// Len returns the number of facts.
func (p *Payload) Len() int { return len(p.facts) }

// Render formats the payload as "label: value" lines for the prompt.
func (p *Payload) Render() string {
	var b strings.Builder
	for _, f := range p.facts {
		fmt.Fprintf(&b, "%s: %s\n", f.Label, f.Value)
	}
	return b.String()
}

func (p *Payload) String() string { return p.Render() }

// LeaderboardKind names the metric a leaderboard ranks by.
type LeaderboardKind string

const (
	KindScorers      LeaderboardKind = "run_scorer"
	KindWicketTakers LeaderboardKind = "wicket_taker"
)

func (k LeaderboardKind) metric() string {
	if k == KindWicketTakers {
		return "wickets"
	}
	return "runs"
}

// FromLeaderboard summarizes a top-N leaderboard. An empty leaderboard
// yields an empty payload, not an error.
func FromLeaderboard(kind LeaderboardKind, entries []stats.LeaderboardEntry) *Payload {
	p := &Payload{}
	if len(entries) == 0 {
		return p
	}

	metric := kind.metric()
	p.add(fmt.Sprintf("top_%s_name", kind), "%s", entries[0].Player)
	p.add(fmt.Sprintf("top_%s_%s", kind, metric), "%d", entries[0].Value)
	for i, e := range entries[1:] {
		p.add(fmt.Sprintf("rank_%d_name", i+2), "%s", e.Player)
		p.add(fmt.Sprintf("rank_%d_%s", i+2, metric), "%d", e.Value)
	}
	return p
}

// FromTrend summarizes a player's per-season trend.
func FromTrend(player string, mode stats.TrendMode, points []stats.SeasonPoint) *Payload {
	p := &Payload{}
	p.add("player", "%s", player)
	p.add("metric", "%s", string(mode))
	p.add("seasons_covered", "%d", len(points))

	if len(points) == 0 {
		return p
	}

	best := points[0]
	total := 0
	for _, pt := range points {
		total += pt.Value
		if pt.Value > best.Value {
			best = pt
		}
	}
	p.add("best_season", "%s", best.Season)
	p.add("best_season_value", "%d", best.Value)
	p.add("career_total", "%d", total)
	p.add("first_season", "%s", points[0].Season)
	p.add("latest_season", "%s", points[len(points)-1].Season)
	return p
}

// FromComparison summarizes a head-to-head comparison, player A first.
func FromComparison(c stats.Comparison) *Payload {
	p := &Payload{}
	for _, stat := range []stats.PlayerStat{c.A, c.B} {
		prefix := strings.ReplaceAll(strings.ToLower(stat.Name), " ", "_")
		p.add(prefix+"_runs", "%d", stat.Runs)
		p.add(prefix+"_strike_rate", "%.2f", stat.StrikeRate)
		p.add(prefix+"_matches", "%d", stat.Matches)
		p.add(prefix+"_wickets", "%d", stat.Wickets)
	}
	return p
}

// FromPlayer summarizes a single player's stat block for the insight card.
func FromPlayer(stat stats.PlayerStat) *Payload {
	p := &Payload{}
	p.add("player", "%s", stat.Name)
	p.add("runs", "%d", stat.Runs)
	p.add("strike_rate", "%.2f", stat.StrikeRate)
	p.add("average", "%.2f", stat.Average)
	p.add("matches", "%d", stat.Matches)
	p.add("wickets", "%d", stat.Wickets)
	if stat.BestSeason != "" {
		p.add("best_season", "%s", stat.BestSeason)
	}
	return p
}
