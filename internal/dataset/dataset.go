// Package dataset loads historical IPL match and delivery tables into
// immutable in-memory structures used by the aggregation queries.
package dataset

import (
	"fmt"
	"sort"
)

// Match is one historical match.
type Match struct {
	ID     string
	Season string
	Team1  string
	Team2  string
	Venue  string
	Winner string
	Margin string
}

// Delivery is one ball bowled in a match.
type Delivery struct {
	MatchID         string
	Inning          int
	Over            int
	Ball            int
	Batter          string
	Bowler          string
	BatterRuns      int
	ExtraRuns       int
	IsWicket        bool
	PlayerDismissed string
	DismissalKind   string
}

// LoadError reports an unreadable source or a source missing required
// columns. It is fatal at startup.
type LoadError struct {
	Source string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("loading %s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("loading %s: %s", e.Source, e.Reason)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Dataset holds the loaded tables. It is built once at startup and treated
// as read-only afterwards, so it is safe to share across requests.
type Dataset struct {
	matches    []Match
	deliveries []Delivery
	seasonByID map[string]string
}

// New builds a Dataset from the two tables, indexing match seasons by ID.
func New(matches []Match, deliveries []Delivery) *Dataset {
	seasons := make(map[string]string, len(matches))
	for _, m := range matches {
		seasons[m.ID] = m.Season
	}
	return &Dataset{
		matches:    matches,
		deliveries: deliveries,
		seasonByID: seasons,
	}
}

// Matches returns the loaded match table.
func (ds *Dataset) Matches() []Match { return ds.matches }

// Deliveries returns the loaded delivery table.
func (ds *Dataset) Deliveries() []Delivery { return ds.deliveries }

// SeasonOf resolves a match ID to its season. Deliveries whose match is
// unknown are excluded from season-keyed aggregates rather than failing
// the whole query.
func (ds *Dataset) SeasonOf(matchID string) (string, bool) {
	season, ok := ds.seasonByID[matchID]
	return season, ok
}

// Players returns the distinct batter names, sorted, for UI dropdowns.
func (ds *Dataset) Players() []string {
	seen := make(map[string]bool)
	for _, d := range ds.deliveries {
		if d.Batter != "" {
			seen[d.Batter] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Seasons returns the distinct seasons present in the match table, sorted.
func (ds *Dataset) Seasons() []string {
	seen := make(map[string]bool)
	for _, m := range ds.matches {
		if m.Season != "" {
			seen[m.Season] = true
		}
	}
	seasons := make([]string, 0, len(seen))
	for s := range seen {
		seasons = append(seasons, s)
	}
	sort.Strings(seasons)
	return seasons
}
