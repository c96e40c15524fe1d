package flatten

import (
	"errors"
	"testing"
	"time"

	"github.com/dkoromyslov/tennispipe/internal/pkg/models"
	"github.com/dkoromyslov/tennispipe/internal/pkg/rounds"
)

func participant(id int64, name string) models.Participant {
	return models.Participant{Team: models.Team{ID: id, Name: name}}
}

func testBracket(rounds []models.Round) *models.Bracket {
	return &models.Bracket{
		ID: 1,
		Tournament: models.Tournament{
			Name:             "Australian Open 2024",
			UniqueTournament: models.UniqueTournament{Name: "Australian Open"},
		},
		Rounds: rounds,
	}
}

func TestFlattenStatusResultRewrite(t *testing.T) {
	bracket := testBracket([]models.Round{{
		Description: "Final",
		Blocks: []models.Block{{
			ID:            10,
			Result:        "home won",
			HomeTeamScore: "2",
			AwayTeamScore: "1",
			Participants:  []models.Participant{participant(100, "A"), participant(200, "B")},
		}},
	}})

	out, err := Flatten(bracket)
	if err != nil {
		t.Fatalf("Flatten returned error: %v", err)
	}
	if len(out.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(out.Matches))
	}
	if out.Matches[0].Result != "2:1" {
		t.Errorf("result = %q, want %q", out.Matches[0].Result, "2:1")
	}
}

func TestFlattenSkipsTerminalResults(t *testing.T) {
	blocks := []models.Block{
		{ID: 1, Result: "retired", Participants: []models.Participant{participant(1, "A"), participant(2, "B")}},
		{ID: 2, Result: "Walkover", Participants: []models.Participant{participant(3, "C"), participant(4, "D")}},
		{ID: 3, Result: "0:0", Participants: []models.Participant{participant(5, "E"), participant(6, "F")}},
		{ID: 4, Result: "2:0", Participants: []models.Participant{participant(7, "G"), participant(8, "H")}},
	}
	bracket := testBracket([]models.Round{{Description: "Final", Blocks: blocks}})

	out, err := Flatten(bracket)
	if err != nil {
		t.Fatalf("Flatten returned error: %v", err)
	}
	if len(out.Matches) != 1 {
		t.Fatalf("expected 1 match to survive, got %d", len(out.Matches))
	}
	if out.Matches[0].ID != 4 {
		t.Errorf("surviving match id = %d, want 4", out.Matches[0].ID)
	}
	// Skipped blocks still contribute to the roster.
	if len(out.Participants) != 8 {
		t.Errorf("expected 8 participants, got %d", len(out.Participants))
	}
}

func TestFlattenMalformedScoreIsKept(t *testing.T) {
	bracket := testBracket([]models.Round{{
		Description: "Final",
		Blocks: []models.Block{{
			ID:           5,
			Result:       "6:4",
			Participants: []models.Participant{participant(1, "A"), participant(2, "B")},
		}},
	}})

	out, err := Flatten(bracket)
	if err != nil {
		t.Fatalf("Flatten returned error: %v", err)
	}
	if len(out.Matches) != 1 {
		t.Fatalf("malformed score must not drop the row, got %d matches", len(out.Matches))
	}
	if out.Matches[0].Result != "6:4" {
		t.Errorf("result = %q, want %q", out.Matches[0].Result, "6:4")
	}
}

func TestFlattenBye(t *testing.T) {
	bracket := testBracket([]models.Round{{
		Description: "R16",
		Blocks: []models.Block{
			{ID: 1, Result: "1:0", Participants: []models.Participant{participant(1, "A")}},
			{ID: 2, Result: "1:0"},
		},
	}})

	out, err := Flatten(bracket)
	if err != nil {
		t.Fatalf("Flatten returned error: %v", err)
	}
	if len(out.Matches) != 1 {
		t.Fatalf("expected 1 match (empty block skipped), got %d", len(out.Matches))
	}
	m := out.Matches[0]
	if m.HomeID != 1 {
		t.Errorf("home_id = %d, want 1", m.HomeID)
	}
	if m.AwayID != nil {
		t.Errorf("away_id = %v, want nil for a bye", *m.AwayID)
	}
}

func TestFlattenUnknownRoundAbortsBracket(t *testing.T) {
	bracket := testBracket([]models.Round{{
		Description: "Unknown Stage Name",
		Blocks: []models.Block{{
			ID:           1,
			Result:       "2:0",
			Participants: []models.Participant{participant(1, "A"), participant(2, "B")},
		}},
	}})

	if _, err := Flatten(bracket); !errors.Is(err, rounds.ErrUnknownRoundLabel) {
		t.Errorf("expected ErrUnknownRoundLabel, got %v", err)
	}
}

func TestFlattenFieldsAndOrder(t *testing.T) {
	ts := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC).Unix()
	bracket := testBracket([]models.Round{
		{
			Description: "Semifinals",
			Blocks: []models.Block{
				{ID: 1, Finished: true, Result: "2:1", HomeTeamScore: "2", AwayTeamScore: "1",
					SeriesStartDateTimestamp: ts,
					Participants:             []models.Participant{participant(1, "A"), participant(2, "B")}},
				{ID: 2, Finished: true, Result: "0:2",
					Participants: []models.Participant{participant(3, "C"), participant(4, "D")}},
			},
		},
		{
			Description: "Final",
			Blocks: []models.Block{
				{ID: 3, Finished: true, Result: "2:0",
					Participants: []models.Participant{participant(1, "A"), participant(3, "C")}},
			},
		},
	})

	out, err := Flatten(bracket)
	if err != nil {
		t.Fatalf("Flatten returned error: %v", err)
	}
	if len(out.Matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(out.Matches))
	}
	for i, wantID := range []int64{1, 2, 3} {
		if out.Matches[i].ID != wantID {
			t.Errorf("matches[%d].ID = %d, want %d (insertion order)", i, out.Matches[i].ID, wantID)
		}
	}

	m := out.Matches[0]
	if m.RoundStage != rounds.StageSF {
		t.Errorf("round stage = %q, want SF", m.RoundStage)
	}
	if m.TournamentName != "Australian Open 2024" || m.UniqueTournament != "Australian Open" {
		t.Errorf("tournament fields = %q / %q", m.TournamentName, m.UniqueTournament)
	}
	wantDate := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if !m.SeriesStartDate.Equal(wantDate) {
		t.Errorf("seriesStartDate = %v, want %v", m.SeriesStartDate, wantDate)
	}
	if !out.Matches[1].SeriesStartDate.IsZero() {
		t.Errorf("missing timestamp should yield zero date, got %v", out.Matches[1].SeriesStartDate)
	}

	// Roster dedupes: A and C appear in two rounds each.
	if len(out.Participants) != 4 {
		t.Errorf("expected 4 unique participants, got %d", len(out.Participants))
	}
}
