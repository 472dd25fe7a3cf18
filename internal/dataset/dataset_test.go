package dataset

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const matchesCSV = `id,season,city,team1,team2,venue,winner,result_margin
1,2008,Bangalore,RCB,KKR,Chinnaswamy,KKR,140
2,2009,Cape Town,CSK,MI,Newlands,MI,19
`

const deliveriesCSV = `match_id,inning,over,ball,batter,bowler,batsman_runs,extra_runs,total_runs,is_wicket,player_dismissed,dismissal_kind
1,1,0,1,SC Ganguly,P Kumar,0,1,1,0,,
1,1,0,2,BB McCullum,P Kumar,4,0,4,0,,
1,1,0,3,BB McCullum,P Kumar,6,0,6,0,,
2,1,5,2,ML Hayden,Z Khan,0,0,0,1,ML Hayden,bowled
`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func loadFixture(t *testing.T) *Dataset {
	t.Helper()
	ds, err := LoadCSV(writeFixture(t, "matches.csv", matchesCSV), writeFixture(t, "deliveries.csv", deliveriesCSV))
	if err != nil {
		t.Fatalf("failed to load fixture: %v", err)
	}
	return ds
}

func TestLoadCSV(t *testing.T) {
	ds := loadFixture(t)

	if len(ds.Matches()) != 2 {
		t.Errorf("expected 2 matches, got %d", len(ds.Matches()))
	}
	if len(ds.Deliveries()) != 4 {
		t.Errorf("expected 4 deliveries, got %d", len(ds.Deliveries()))
	}

	m := ds.Matches()[0]
	if m.ID != "1" || m.Season != "2008" || m.Winner != "KKR" {
		t.Errorf("unexpected first match: %+v", m)
	}

	d := ds.Deliveries()[3]
	if !d.IsWicket || d.DismissalKind != "bowled" || d.PlayerDismissed != "ML Hayden" {
		t.Errorf("unexpected wicket delivery: %+v", d)
	}
	if d.BatterRuns != 0 || ds.Deliveries()[2].BatterRuns != 6 {
		t.Error("unexpected batter runs")
	}
}

func TestLoadCSVMissingColumn(t *testing.T) {
	bad := "id,season,team1\n1,2008,RCB\n"
	_, err := LoadCSV(writeFixture(t, "matches.csv", bad), writeFixture(t, "deliveries.csv", deliveriesCSV))
	if err == nil {
		t.Fatal("expected error for missing column")
	}
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %T", err)
	}
}

func TestLoadCSVUnreadableSource(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"), writeFixture(t, "deliveries.csv", deliveriesCSV))
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %v", err)
	}
}

func TestLoadCSVBadNumeric(t *testing.T) {
	bad := `match_id,inning,over,ball,batter,bowler,batsman_runs,extra_runs,is_wicket,player_dismissed,dismissal_kind
1,1,0,x,A,B,4,0,0,,
`
	_, err := LoadCSV(writeFixture(t, "matches.csv", matchesCSV), writeFixture(t, "deliveries.csv", bad))
	if err == nil {
		t.Fatal("expected error for bad numeric cell")
	}
}

func TestSeasonOf(t *testing.T) {
	ds := loadFixture(t)

	season, ok := ds.SeasonOf("1")
	if !ok || season != "2008" {
		t.Errorf("expected 2008, got %q (%v)", season, ok)
	}
	if _, ok := ds.SeasonOf("999"); ok {
		t.Error("expected unknown match to miss")
	}
}

func TestPlayersSorted(t *testing.T) {
	ds := loadFixture(t)

	want := []string{"BB McCullum", "ML Hayden", "SC Ganguly"}
	if got := ds.Players(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSeasons(t *testing.T) {
	ds := loadFixture(t)

	want := []string{"2008", "2009"}
	if got := ds.Seasons(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

// seedSQLite builds a SQLite source equivalent to the CSV fixtures.
func seedSQLite(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ipl.db")
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	defer conn.Close()

	stmts := []string{
		`CREATE TABLE matches (id TEXT, season TEXT, team1 TEXT, team2 TEXT, venue TEXT, winner TEXT, result_margin TEXT)`,
		`CREATE TABLE deliveries (match_id TEXT, inning INT, over INT, ball INT, batter TEXT, bowler TEXT,
			batsman_runs INT, extra_runs INT, is_wicket INT, player_dismissed TEXT, dismissal_kind TEXT)`,
		`INSERT INTO matches VALUES ('1','2008','RCB','KKR','Chinnaswamy','KKR','140'),
			('2','2009','CSK','MI','Newlands','MI','19')`,
		`INSERT INTO deliveries VALUES
			('1',1,0,1,'SC Ganguly','P Kumar',0,1,0,'',''),
			('1',1,0,2,'BB McCullum','P Kumar',4,0,0,'',''),
			('1',1,0,3,'BB McCullum','P Kumar',6,0,0,'',''),
			('2',1,5,2,'ML Hayden','Z Khan',0,0,1,'ML Hayden','bowled')`,
	}
	for _, stmt := range stmts {
		if _, err := conn.Exec(stmt); err != nil {
			t.Fatalf("failed to seed sqlite: %v", err)
		}
	}
	return path
}

func TestLoadSQLiteMatchesCSV(t *testing.T) {
	fromCSV := loadFixture(t)
	fromDB, err := LoadSQLite(seedSQLite(t))
	if err != nil {
		t.Fatalf("failed to load sqlite: %v", err)
	}

	if !reflect.DeepEqual(fromDB.Matches(), fromCSV.Matches()) {
		t.Errorf("matches differ:\n sqlite: %+v\n csv:    %+v", fromDB.Matches(), fromCSV.Matches())
	}
	if !reflect.DeepEqual(fromDB.Deliveries(), fromCSV.Deliveries()) {
		t.Errorf("deliveries differ:\n sqlite: %+v\n csv:    %+v", fromDB.Deliveries(), fromCSV.Deliveries())
	}
}

func TestLoadUnknownFormat(t *testing.T) {
	_, err := Load("parquet", "", "", "")
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %v", err)
	}
}
