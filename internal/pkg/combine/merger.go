// Package combine joins flattened matches with participant attributes and
// symmetrizes the result into the training table.
package combine

import (
	"log/slog"

	"github.com/dkoromyslov/tennispipe/internal/pkg/models"
)

// Merge joins every match to the roster twice, once per side, producing
// one enriched row per match that resolves on BOTH sides.
//
// Inner-join semantics: a match whose home or away id is absent from the
// roster is dropped without an error, and a bye (nil away id) never joins.
// This mirrors the historical behavior the output tables were built with;
// see DESIGN.md for why it is kept rather than turned into an error.
func Merge(matches []models.MatchRecord, roster []models.ParticipantRecord) []models.EnrichedMatchRow {
	byID := make(map[int64]models.ParticipantRecord, len(roster))
	for _, p := range roster {
		byID[p.ID] = p
	}

	rows := make([]models.EnrichedMatchRow, 0, len(matches))
	for _, m := range matches {
		home, ok := byID[m.HomeID]
		if !ok {
			continue
		}
		if m.AwayID == nil {
			continue
		}
		away, ok := byID[*m.AwayID]
		if !ok {
			continue
		}
		rows = append(rows, models.EnrichedMatchRow{
			MatchRecord:   m,
			IDHome:        home.ID,
			NameHome:      home.Name,
			BirthdateHome: home.Birthdate,
			IDAway:        away.ID,
			NameAway:      away.Name,
			BirthdateAway: away.Birthdate,
		})
	}

	slog.Info("merged matches with roster", "matches", len(matches), "enriched", len(rows))
	return rows
}
