// Package flatten converts raw cup tree documents into a flat participant
// roster and match list.
package flatten

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dkoromyslov/tennispipe/internal/pkg/models"
	"github.com/dkoromyslov/tennispipe/internal/pkg/rounds"
	"github.com/dkoromyslov/tennispipe/internal/pkg/scores"
)

// Output is the result of flattening one or more brackets. Participants
// hold each player id at most once; Matches keep bracket -> round -> block
// insertion order.
type Output struct {
	Participants []models.ParticipantRecord
	Matches      []models.MatchRecord
}

// Results that carry no usable score signal. Matched case-insensitively.
var terminalResults = map[string]bool{
	"retired":  true,
	"walkover": true,
	"0:0":      true,
}

// Status strings that stand in for a score; the per-set scores are still
// present on the block and the result is rebuilt from them.
var statusResults = map[string]bool{
	"home won": true,
	"away won": true,
	"on-going": true,
}

// Flatten walks one bracket and emits its roster and match list.
//
// A round description the classifier does not recognize aborts the whole
// bracket: a silently mis-ranked stage would poison the ordinal feature
// for every match in it. A malformed score only produces a warning and
// the row is kept.
func Flatten(bracket *models.Bracket) (*Output, error) {
	out := &Output{}
	seen := make(map[int64]bool)

	for _, round := range bracket.Rounds {
		for _, block := range round.Blocks {
			for _, p := range block.Participants {
				if seen[p.Team.ID] {
					continue
				}
				seen[p.Team.ID] = true
				out.Participants = append(out.Participants, participantRecord(p))
			}

			match, ok, err := matchRecord(bracket, round.Description, block)
			if err != nil {
				return nil, fmt.Errorf("bracket %d: %w", bracket.ID, err)
			}
			if ok {
				out.Matches = append(out.Matches, match)
			}
		}
	}

	return out, nil
}

func participantRecord(p models.Participant) models.ParticipantRecord {
	return models.ParticipantRecord{
		ID:        p.Team.ID,
		Name:      p.Team.Name,
		Slug:      p.Team.Slug,
		ShortName: p.Team.ShortName,
		Gender:    p.Team.Gender,
		NameCode:  p.Team.NameCode,
		Ranking:   p.Team.Ranking,
		Disabled:  p.Team.Disabled,
		National:  p.Team.National,
		Winner:    p.Winner,
		Order:     p.Order,
		TeamSeed:  p.TeamSeed,
	}
}

// matchRecord builds the flat record for one block. ok is false when the
// block is skipped (terminal result or no participants).
func matchRecord(bracket *models.Bracket, description string, block models.Block) (models.MatchRecord, bool, error) {
	result := block.Result
	if result != "" && terminalResults[strings.ToLower(result)] {
		return models.MatchRecord{}, false, nil
	}
	if statusResults[result] {
		result = block.HomeTeamScore + ":" + block.AwayTeamScore
	}
	if !scores.Validate(result) {
		// Soft check: visibility only, the row still goes through.
		slog.Warn("invalid score format", "result", result, "block_id", block.ID)
	}

	if len(block.Participants) < 1 {
		return models.MatchRecord{}, false, nil
	}
	homeID := block.Participants[0].Team.ID
	var awayID *int64
	if len(block.Participants) > 1 {
		id := block.Participants[1].Team.ID
		awayID = &id
	}

	stage, err := rounds.Classify(description)
	if err != nil {
		return models.MatchRecord{}, false, err
	}

	return models.MatchRecord{
		ID:               block.ID,
		Finished:         block.Finished,
		Result:           result,
		HomeTeamScore:    block.HomeTeamScore,
		AwayTeamScore:    block.AwayTeamScore,
		HomeID:           homeID,
		AwayID:           awayID,
		RoundStage:       stage,
		SeriesStartDate:  seriesStartDate(block.SeriesStartDateTimestamp),
		TournamentName:   bracket.Tournament.Name,
		UniqueTournament: bracket.Tournament.UniqueTournament.Name,
	}, true, nil
}

// seriesStartDate converts a unix timestamp to a UTC calendar date. A
// missing or negative timestamp yields the zero time, not an error.
func seriesStartDate(ts int64) time.Time {
	if ts <= 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC().Truncate(24 * time.Hour)
}
