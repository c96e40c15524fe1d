// Package export reads and writes the pipeline's tabular snapshots. Every
// table is a UTF-8 CSV with a header row, one record per row, so each
// stage can be rerun from the previous stage's file.
package export

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dkoromyslov/tennispipe/internal/pkg/models"
	"github.com/dkoromyslov/tennispipe/internal/pkg/rounds"
)

// dateLayout is used for every date column. Dates are calendar days; a
// zero time is written as an empty cell.
const dateLayout = "2006-01-02"

var participantsHeader = []string{
	"name", "slug", "shortName", "gender", "nameCode",
	"ranking", "disabled", "national", "id",
}

var matchesHeader = []string{
	"finished", "result", "homeTeamScore", "awayTeamScore", "id",
	"seriesStartDate", "home_id", "away_id", "round_description",
	"tournamentName", "uniqueTournament",
}

var combinedHeader = append(append([]string{}, matchesHeader...),
	"id_home", "name_home", "birthdate_home",
	"id_away", "name_away", "birthdate_away",
)

var featuresHeader = []string{
	"result", "id_home", "id_away", "age_home", "age_away",
	"round_ordinal", "month_sin", "month_cos",
	"month_1", "month_2", "month_3", "month_4", "month_5", "month_6",
	"month_7", "month_8", "month_9", "month_10", "month_11", "month_12",
	"surface_Clay", "surface_Hard",
}

// WriteParticipants writes the roster table. The synthetic birthdate is
// deliberately not persisted here: it belongs to the combine stage, which
// re-draws it from the configured seed.
func WriteParticipants(path string, roster []models.ParticipantRecord) error {
	rows := make([][]string, 0, len(roster))
	for _, p := range roster {
		rows = append(rows, []string{
			p.Name, p.Slug, p.ShortName, p.Gender, p.NameCode,
			strconv.Itoa(p.Ranking),
			strconv.FormatBool(p.Disabled),
			strconv.FormatBool(p.National),
			strconv.FormatInt(p.ID, 10),
		})
	}
	return writeTable(path, participantsHeader, rows)
}

// WriteMatches writes the flattened match table.
func WriteMatches(path string, matches []models.MatchRecord) error {
	rows := make([][]string, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, matchCells(m))
	}
	return writeTable(path, matchesHeader, rows)
}

// WriteCombined writes the enriched (and usually symmetrized) match table.
func WriteCombined(path string, combined []models.EnrichedMatchRow) error {
	rows := make([][]string, 0, len(combined))
	for _, r := range combined {
		cells := matchCells(r.MatchRecord)
		cells = append(cells,
			strconv.FormatInt(r.IDHome, 10), r.NameHome, formatDate(r.BirthdateHome),
			strconv.FormatInt(r.IDAway, 10), r.NameAway, formatDate(r.BirthdateAway),
		)
		rows = append(rows, cells)
	}
	return writeTable(path, combinedHeader, rows)
}

// WriteFeatures writes the final feature table, expanding month and
// surface into their one-hot columns.
func WriteFeatures(path string, feats []models.FeatureRow) error {
	rows := make([][]string, 0, len(feats))
	for _, f := range feats {
		cells := []string{
			f.Result,
			strconv.FormatInt(f.IDHome, 10),
			strconv.FormatInt(f.IDAway, 10),
			formatFloat(f.AgeHome),
			formatFloat(f.AgeAway),
			strconv.Itoa(f.RoundOrdinal),
			formatFloat(f.MonthSin),
			formatFloat(f.MonthCos),
		}
		for month := 1; month <= 12; month++ {
			cells = append(cells, strconv.FormatBool(f.Month == month))
		}
		cells = append(cells,
			strconv.FormatBool(f.Surface == "Clay"),
			strconv.FormatBool(f.Surface == "Hard"),
		)
		rows = append(rows, cells)
	}
	return writeTable(path, featuresHeader, rows)
}

// ReadParticipants loads a roster table written by WriteParticipants.
func ReadParticipants(path string) ([]models.ParticipantRecord, error) {
	rows, err := readTable(path, participantsHeader)
	if err != nil {
		return nil, err
	}
	roster := make([]models.ParticipantRecord, 0, len(rows))
	for i, cells := range rows {
		ranking, err := strconv.Atoi(cells[5])
		if err != nil {
			return nil, rowErr(path, i, "ranking", err)
		}
		id, err := strconv.ParseInt(cells[8], 10, 64)
		if err != nil {
			return nil, rowErr(path, i, "id", err)
		}
		roster = append(roster, models.ParticipantRecord{
			ID:        id,
			Name:      cells[0],
			Slug:      cells[1],
			ShortName: cells[2],
			Gender:    cells[3],
			NameCode:  cells[4],
			Ranking:   ranking,
			Disabled:  cells[6] == "true",
			National:  cells[7] == "true",
		})
	}
	return roster, nil
}

// ReadMatches loads a match table written by WriteMatches.
func ReadMatches(path string) ([]models.MatchRecord, error) {
	rows, err := readTable(path, matchesHeader)
	if err != nil {
		return nil, err
	}
	matches := make([]models.MatchRecord, 0, len(rows))
	for i, cells := range rows {
		m, err := parseMatchCells(cells)
		if err != nil {
			return nil, rowErr(path, i, "match", err)
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// ReadCombined loads an enriched table written by WriteCombined.
func ReadCombined(path string) ([]models.EnrichedMatchRow, error) {
	rows, err := readTable(path, combinedHeader)
	if err != nil {
		return nil, err
	}
	combined := make([]models.EnrichedMatchRow, 0, len(rows))
	base := len(matchesHeader)
	for i, cells := range rows {
		m, err := parseMatchCells(cells[:base])
		if err != nil {
			return nil, rowErr(path, i, "match", err)
		}
		idHome, err := strconv.ParseInt(cells[base], 10, 64)
		if err != nil {
			return nil, rowErr(path, i, "id_home", err)
		}
		birthHome, err := parseDate(cells[base+2])
		if err != nil {
			return nil, rowErr(path, i, "birthdate_home", err)
		}
		idAway, err := strconv.ParseInt(cells[base+3], 10, 64)
		if err != nil {
			return nil, rowErr(path, i, "id_away", err)
		}
		birthAway, err := parseDate(cells[base+5])
		if err != nil {
			return nil, rowErr(path, i, "birthdate_away", err)
		}
		combined = append(combined, models.EnrichedMatchRow{
			MatchRecord:   m,
			IDHome:        idHome,
			NameHome:      cells[base+1],
			BirthdateHome: birthHome,
			IDAway:        idAway,
			NameAway:      cells[base+4],
			BirthdateAway: birthAway,
		})
	}
	return combined, nil
}

func matchCells(m models.MatchRecord) []string {
	awayID := ""
	if m.AwayID != nil {
		awayID = strconv.FormatInt(*m.AwayID, 10)
	}
	return []string{
		strconv.FormatBool(m.Finished),
		m.Result,
		m.HomeTeamScore,
		m.AwayTeamScore,
		strconv.FormatInt(m.ID, 10),
		formatDate(m.SeriesStartDate),
		strconv.FormatInt(m.HomeID, 10),
		awayID,
		string(m.RoundStage),
		m.TournamentName,
		m.UniqueTournament,
	}
}

func parseMatchCells(cells []string) (models.MatchRecord, error) {
	id, err := strconv.ParseInt(cells[4], 10, 64)
	if err != nil {
		return models.MatchRecord{}, fmt.Errorf("id: %w", err)
	}
	date, err := parseDate(cells[5])
	if err != nil {
		return models.MatchRecord{}, fmt.Errorf("seriesStartDate: %w", err)
	}
	homeID, err := strconv.ParseInt(cells[6], 10, 64)
	if err != nil {
		return models.MatchRecord{}, fmt.Errorf("home_id: %w", err)
	}
	var awayID *int64
	if cells[7] != "" {
		v, err := strconv.ParseInt(cells[7], 10, 64)
		if err != nil {
			return models.MatchRecord{}, fmt.Errorf("away_id: %w", err)
		}
		awayID = &v
	}
	return models.MatchRecord{
		ID:               id,
		Finished:         cells[0] == "true",
		Result:           cells[1],
		HomeTeamScore:    cells[2],
		AwayTeamScore:    cells[3],
		HomeID:           homeID,
		AwayID:           awayID,
		RoundStage:       rounds.Stage(cells[8]),
		SeriesStartDate:  date,
		TournamentName:   cells[9],
		UniqueTournament: cells[10],
	}, nil
}

func writeTable(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return f.Close()
}

func readTable(path string, header []string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: missing header row", path)
	}
	got := records[0]
	if len(got) != len(header) {
		return nil, fmt.Errorf("%s: expected %d columns, got %d", path, len(header), len(got))
	}
	for i := range header {
		if got[i] != header[i] {
			return nil, fmt.Errorf("%s: unexpected column %q at position %d", path, got[i], i)
		}
	}
	return records[1:], nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, s)
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func rowErr(path string, row int, column string, err error) error {
	return fmt.Errorf("%s: row %d: %s: %w", path, row+1, column, err)
}
