package dataset

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// LoadSQLite reads the match and delivery tables from a SQLite file with
// `matches` and `deliveries` tables mirroring the CSV columns. The file is
// only read; nothing is written back.
func LoadSQLite(path string) (*Dataset, error) {
	conn, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, &LoadError{Source: path, Reason: "opening database", Err: err}
	}
	defer conn.Close()

	matches, err := querySQLiteMatches(conn, path)
	if err != nil {
		return nil, err
	}
	deliveries, err := querySQLiteDeliveries(conn, path)
	if err != nil {
		return nil, err
	}
	return New(matches, deliveries), nil
}

func querySQLiteMatches(conn *sql.DB, path string) ([]Match, error) {
	rows, err := conn.Query(`
		SELECT id, season, team1, team2, venue, winner, result_margin
		FROM matches`)
	if err != nil {
		return nil, &LoadError{Source: path, Reason: "querying matches", Err: err}
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		var margin sql.NullString
		if err := rows.Scan(&m.ID, &m.Season, &m.Team1, &m.Team2, &m.Venue, &m.Winner, &margin); err != nil {
			return nil, &LoadError{Source: path, Reason: "scanning match row", Err: err}
		}
		m.Margin = margin.String
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, &LoadError{Source: path, Reason: "iterating matches", Err: err}
	}
	return matches, nil
}

func querySQLiteDeliveries(conn *sql.DB, path string) ([]Delivery, error) {
	rows, err := conn.Query(`
		SELECT match_id, inning, over, ball, batter, bowler,
		       batsman_runs, extra_runs, is_wicket, player_dismissed, dismissal_kind
		FROM deliveries`)
	if err != nil {
		return nil, &LoadError{Source: path, Reason: "querying deliveries", Err: err}
	}
	defer rows.Close()

	var deliveries []Delivery
	for rows.Next() {
		var d Delivery
		var wicket int
		var dismissed, kind sql.NullString
		err := rows.Scan(&d.MatchID, &d.Inning, &d.Over, &d.Ball, &d.Batter, &d.Bowler,
			&d.BatterRuns, &d.ExtraRuns, &wicket, &dismissed, &kind)
		if err != nil {
			return nil, &LoadError{Source: path, Reason: "scanning delivery row", Err: err}
		}
		d.IsWicket = wicket == 1
		d.PlayerDismissed = dismissed.String
		d.DismissalKind = kind.String
		deliveries = append(deliveries, d)
	}
	if err := rows.Err(); err != nil {
		return nil, &LoadError{Source: path, Reason: "iterating deliveries", Err: err}
	}
	return deliveries, nil
}

// Load picks the loader for the configured format.
func Load(format, matchesPath, deliveriesPath, sqlitePath string) (*Dataset, error) {
	switch format {
	case "", "csv":
		return LoadCSV(matchesPath, deliveriesPath)
	case "sqlite":
		return LoadSQLite(sqlitePath)
	default:
		return nil, &LoadError{Source: format, Reason: fmt.Sprintf("unknown data format %q", format)}
	}
}
