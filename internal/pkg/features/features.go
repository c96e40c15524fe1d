// Package features computes the label and derived features for the
// enriched, symmetrized match table.
package features

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dkoromyslov/tennispipe/internal/pkg/models"
	"github.com/dkoromyslov/tennispipe/internal/pkg/rounds"
)

var (
	// ErrBadResult means a row reached feature derivation with a result
	// that cannot be parsed as "H:A". An unlabeled row is useless for
	// supervised training, so this aborts the run.
	ErrBadResult = errors.New("invalid result format")

	// ErrUnknownSurface means the surface table below does not cover a
	// tournament in the data. Fatal: silently dropping the surface signal
	// would degrade the model without anyone noticing.
	ErrUnknownSurface = errors.New("unknown tournament surface")
)

// Labels for the binary classification target.
const (
	LabelHome = "home"
	LabelAway = "away"
)

// tournamentSurfaces is keyed by uniqueTournament name. Extend it when new
// tournaments enter the data; a missing entry aborts the feature stage.
var tournamentSurfaces = map[string]string{
	"Australian Open": "Hard",
	"Roland Garros":   "Clay",
}

// Derive builds one FeatureRow per enriched row, sorted by match date.
//
// Rows with a zero match date get NaN ages and month features (the CSV
// writer renders those as NaN cells); everything else about them is still
// derived so the table stays complete.
func Derive(rows []models.EnrichedMatchRow) ([]models.FeatureRow, error) {
	sorted := make([]models.EnrichedMatchRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SeriesStartDate.Before(sorted[j].SeriesStartDate)
	})

	out := make([]models.FeatureRow, 0, len(sorted))
	for _, r := range sorted {
		label, err := Label(r.Result)
		if err != nil {
			return nil, fmt.Errorf("match %d: %w", r.ID, err)
		}

		surface, ok := tournamentSurfaces[r.UniqueTournament]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSurface, r.UniqueTournament)
		}

		ordinal, err := rounds.Ordinal(r.RoundStage)
		if err != nil {
			return nil, fmt.Errorf("match %d: %w", r.ID, err)
		}

		row := models.FeatureRow{
			Result:       label,
			IDHome:       r.IDHome,
			IDAway:       r.IDAway,
			AgeHome:      ageYears(r.SeriesStartDate, r.BirthdateHome),
			AgeAway:      ageYears(r.SeriesStartDate, r.BirthdateAway),
			RoundOrdinal: ordinal,
		}

		if r.SeriesStartDate.IsZero() {
			row.Month = 0
			row.MonthSin = math.NaN()
			row.MonthCos = math.NaN()
		} else {
			month := int(r.SeriesStartDate.Month())
			row.Month = month
			row.MonthSin = math.Sin(2 * math.Pi * float64(month) / 12)
			row.MonthCos = math.Cos(2 * math.Pi * float64(month) / 12)
		}
		row.Surface = surface

		out = append(out, row)
	}
	return out, nil
}

// Label parses an "H:A" result into the winner class: home when H > A,
// away otherwise.
func Label(result string) (string, error) {
	parts := strings.Split(result, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("%w: %q", ErrBadResult, result)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrBadResult, result)
	}
	a, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrBadResult, result)
	}
	if h > a {
		return LabelHome, nil
	}
	return LabelAway, nil
}

// ageYears computes age in fractional years as whole days / 365.25. Both
// dates are normalized to midnight UTC, so the day count is exact.
func ageYears(matchDate, birthdate time.Time) float64 {
	if matchDate.IsZero() || birthdate.IsZero() {
		return math.NaN()
	}
	days := math.Floor(matchDate.Sub(birthdate).Hours() / 24)
	return days / 365.25
}
