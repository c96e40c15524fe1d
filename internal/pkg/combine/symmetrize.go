package combine

import (
	"log/slog"

	"github.com/dkoromyslov/tennispipe/internal/pkg/models"
	"github.com/dkoromyslov/tennispipe/internal/pkg/scores"
)

// Symmetrize doubles the table: for every row it appends a mirror with the
// home/away field pairs swapped and the result reversed, so both match
// perspectives are represented in training data. Originals come first,
// mirrors after, exactly 2x rows per application (applying it again gives
// 4x — it is intentionally not idempotent).
//
// The swapped pairs are enumerated explicitly rather than derived from
// column names; when a home/away field is added to EnrichedMatchRow,
// mirror below must be extended with its counterpart.
func Symmetrize(rows []models.EnrichedMatchRow) []models.EnrichedMatchRow {
	out := make([]models.EnrichedMatchRow, 0, 2*len(rows))
	out = append(out, rows...)
	for _, r := range rows {
		out = append(out, mirror(r))
	}
	slog.Info("symmetrized matches", "original", len(rows), "symmetrized", len(out))
	return out
}

func mirror(r models.EnrichedMatchRow) models.EnrichedMatchRow {
	m := r

	homeID := r.HomeID
	m.HomeID = *r.AwayID
	m.AwayID = &homeID

	m.HomeTeamScore, m.AwayTeamScore = r.AwayTeamScore, r.HomeTeamScore

	m.IDHome, m.IDAway = r.IDAway, r.IDHome
	m.NameHome, m.NameAway = r.NameAway, r.NameHome
	m.BirthdateHome, m.BirthdateAway = r.BirthdateAway, r.BirthdateHome

	m.Result = scores.Reverse(r.Result)
	return m
}
