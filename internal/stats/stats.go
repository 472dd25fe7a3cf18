// Package stats computes descriptive statistics over the loaded tables.
// Every query is a pure function of the Dataset: no mutation, deterministic
// output including tie order.
package stats

import (
	"math"
	"sort"

	"github.com/pitchside/crease/internal/dataset"
)

// LeaderboardEntry is one row of a top-N leaderboard.
type LeaderboardEntry struct {
	Player string `json:"player"`
	Value  int    `json:"value"`
}

// TrendMode selects the metric a season trend aggregates.
type TrendMode string

const (
	ModeRuns    TrendMode = "runs"
	ModeWickets TrendMode = "wickets"
)

// SeasonPoint is one season's aggregate value for a player.
type SeasonPoint struct {
	Season string `json:"season"`
	Value  int    `json:"value"`
}

// PlayerStat is the full derived stat block for one player, recomputed per
// query from the delivery table.
type PlayerStat struct {
	Name       string  `json:"name"`
	Runs       int     `json:"runs"`
	BallsFaced int     `json:"balls_faced"`
	Wickets    int     `json:"wickets"`
	Matches    int     `json:"matches"`
	StrikeRate float64 `json:"strike_rate"`
	Average    float64 `json:"average"`
	BestSeason string  `json:"best_season"`
}

// Comparison holds two players' stat blocks side by side.
type Comparison struct {
	A PlayerStat `json:"a"`
	B PlayerStat `json:"b"`
}

// TopRunScorers returns the top limit batters by total runs off the bat,
// descending, ties broken by name ascending.
func TopRunScorers(ds *dataset.Dataset, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		return nil, &InvalidQueryError{Reason: "limit must be a positive integer"}
	}

	runs := make(map[string]int)
	for _, d := range ds.Deliveries() {
		if d.Batter == "" {
			continue
		}
		runs[d.Batter] += d.BatterRuns
	}
	return rank(runs, limit), nil
}

// TopWicketTakers returns the top limit bowlers by credited wickets,
// descending, ties broken by name ascending. Dismissals not attributable to
// the bowler (run-outs, retirements) are excluded.
func TopWicketTakers(ds *dataset.Dataset, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		return nil, &InvalidQueryError{Reason: "limit must be a positive integer"}
	}

	wickets := make(map[string]int)
	for _, d := range ds.Deliveries() {
		if !d.IsWicket || d.Bowler == "" || !BowlerCredited(d.DismissalKind) {
			continue
		}
		wickets[d.Bowler]++
	}
	return rank(wickets, limit), nil
}

// rank orders a player→value map descending by value, name ascending on
// ties, and truncates to limit.
func rank(byPlayer map[string]int, limit int) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(byPlayer))
	for player, value := range byPlayer {
		entries = append(entries, LeaderboardEntry{Player: player, Value: value})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].Player < entries[j].Player
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// SeasonTrend sums the player's runs (or credited wickets) per season,
// sorted ascending by season. Seasons where the player has no deliveries
// are omitted rather than zero-filled. Deliveries whose match is unknown
// carry no season and are excluded.
func SeasonTrend(ds *dataset.Dataset, player string, mode TrendMode) ([]SeasonPoint, error) {
	bySeason := make(map[string]int)
	found := false

	for _, d := range ds.Deliveries() {
		var value int
		switch mode {
		case ModeWickets:
			if d.Bowler != player {
				continue
			}
			found = true
			if !d.IsWicket || !BowlerCredited(d.DismissalKind) {
				continue
			}
			value = 1
		default:
			if d.Batter != player {
				continue
			}
			found = true
			value = d.BatterRuns
		}

		season, ok := ds.SeasonOf(d.MatchID)
		if !ok {
			continue
		}
		bySeason[season] += value
	}

	if !found {
		return nil, &PlayerNotFoundError{Player: player}
	}

	points := make([]SeasonPoint, 0, len(bySeason))
	for season, value := range bySeason {
		points = append(points, SeasonPoint{Season: season, Value: value})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Season < points[j].Season })
	return points, nil
}

// PlayerStats computes the full stat block for one player.
func PlayerStats(ds *dataset.Dataset, name string) (PlayerStat, error) {
	stat := PlayerStat{Name: name}
	matches := make(map[string]bool)
	runsBySeason := make(map[string]int)
	dismissals := 0
	found := false

	for _, d := range ds.Deliveries() {
		if d.Batter == name {
			found = true
			stat.Runs += d.BatterRuns
			stat.BallsFaced++
			matches[d.MatchID] = true
			if season, ok := ds.SeasonOf(d.MatchID); ok {
				runsBySeason[season] += d.BatterRuns
			}
		}
		if d.Bowler == name {
			found = true
			matches[d.MatchID] = true
			if d.IsWicket && BowlerCredited(d.DismissalKind) {
				stat.Wickets++
			}
		}
		if d.IsWicket && d.PlayerDismissed == name {
			dismissals++
		}
	}

	if !found {
		return PlayerStat{}, &PlayerNotFoundError{Player: name}
	}

	stat.Matches = len(matches)
	if stat.BallsFaced > 0 {
		stat.StrikeRate = round2(float64(stat.Runs) / float64(stat.BallsFaced) * 100)
	}
	if dismissals > 0 {
		stat.Average = round2(float64(stat.Runs) / float64(dismissals))
	} else {
		stat.Average = float64(stat.Runs)
	}
	stat.BestSeason = bestSeason(runsBySeason)
	return stat, nil
}

// ComparePlayers returns the stat blocks for two players side by side.
// Swapping the arguments swaps the blocks but changes no values.
func ComparePlayers(ds *dataset.Dataset, a, b string) (Comparison, error) {
	statA, err := PlayerStats(ds, a)
	if err != nil {
		return Comparison{}, err
	}
	statB, err := PlayerStats(ds, b)
	if err != nil {
		return Comparison{}, err
	}
	return Comparison{A: statA, B: statB}, nil
}

// bestSeason picks the season with the most runs, earliest season on ties.
func bestSeason(runsBySeason map[string]int) string {
	best := ""
	bestRuns := -1
	for season, runs := range runsBySeason {
		if runs > bestRuns || (runs == bestRuns && season < best) {
			best = season
			bestRuns = runs
		}
	}
	return best
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
