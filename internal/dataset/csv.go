package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var matchColumns = []string{"id", "season", "team1", "team2", "venue", "winner", "result_margin"}

var deliveryColumns = []string{
	"match_id", "inning", "over", "ball", "batter", "bowler",
	"batsman_runs", "extra_runs", "is_wicket", "player_dismissed", "dismissal_kind",
}

// LoadCSV reads the match and delivery tables from two CSV files.
func LoadCSV(matchesPath, deliveriesPath string) (*Dataset, error) {
	matches, err := loadMatchesCSV(matchesPath)
	if err != nil {
		return nil, err
	}
	deliveries, err := loadDeliveriesCSV(deliveriesPath)
	if err != nil {
		return nil, err
	}
	return New(matches, deliveries), nil
}

func loadMatchesCSV(path string) ([]Match, error) {
	rows, cols, err := readTable(path, matchColumns)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, Match{
			ID:     row[cols["id"]],
			Season: row[cols["season"]],
			Team1:  row[cols["team1"]],
			Team2:  row[cols["team2"]],
			Venue:  row[cols["venue"]],
			Winner: row[cols["winner"]],
			Margin: row[cols["result_margin"]],
		})
	}
	return matches, nil
}

func loadDeliveriesCSV(path string) ([]Delivery, error) {
	rows, cols, err := readTable(path, deliveryColumns)
	if err != nil {
		return nil, err
	}

	deliveries := make([]Delivery, 0, len(rows))
	for i, row := range rows {
		d := Delivery{
			MatchID:         row[cols["match_id"]],
			Batter:          row[cols["batter"]],
			Bowler:          row[cols["bowler"]],
			PlayerDismissed: row[cols["player_dismissed"]],
			DismissalKind:   row[cols["dismissal_kind"]],
		}

		var convErr error
		d.Inning, convErr = atoi(row[cols["inning"]], convErr)
		d.Over, convErr = atoi(row[cols["over"]], convErr)
		d.Ball, convErr = atoi(row[cols["ball"]], convErr)
		d.BatterRuns, convErr = atoi(row[cols["batsman_runs"]], convErr)
		d.ExtraRuns, convErr = atoi(row[cols["extra_runs"]], convErr)
		if convErr != nil {
			return nil, &LoadError{Source: path, Reason: fmt.Sprintf("row %d: bad numeric value", i+2), Err: convErr}
		}

		d.IsWicket = row[cols["is_wicket"]] == "1"
		deliveries = append(deliveries, d)
	}
	return deliveries, nil
}

// readTable reads a CSV file, validates that every required column is
// present, and returns the data rows plus a column-name index.
func readTable(path string, required []string) ([][]string, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &LoadError{Source: path, Reason: "unreadable source", Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, nil, &LoadError{Source: path, Reason: "reading header", Err: err}
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, nil, &LoadError{Source: path, Reason: fmt.Sprintf("missing required column %q", name)}
		}
	}

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, &LoadError{Source: path, Reason: "reading rows", Err: err}
		}
		if len(row) < len(header) {
			return nil, nil, &LoadError{Source: path, Reason: fmt.Sprintf("row with %d fields, header has %d", len(row), len(header))}
		}
		rows = append(rows, row)
	}
	return rows, cols, nil
}

// atoi converts a cell to int, treating the empty string and "NA" as zero.
// A previous conversion error is carried through so callers can check once
// per row.
func atoi(s string, prev error) (int, error) {
	if prev != nil {
		return 0, prev
	}
	s = strings.TrimSpace(s)
	if s == "" || s == "NA" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return n, nil
}
