package combine

import (
	"math/rand"
	"testing"
	"time"

	"github.com/dkoromyslov/tennispipe/internal/pkg/features"
	"github.com/dkoromyslov/tennispipe/internal/pkg/models"
)

func int64p(v int64) *int64 { return &v }

func enrichedRow(id int64, result string, homeID, awayID int64) models.EnrichedMatchRow {
	return models.EnrichedMatchRow{
		MatchRecord: models.MatchRecord{
			ID:            id,
			Result:        result,
			HomeTeamScore: result[:1],
			AwayTeamScore: result[2:],
			HomeID:        homeID,
			AwayID:        int64p(awayID),
		},
		IDHome:        homeID,
		NameHome:      "home player",
		BirthdateHome: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		IDAway:        awayID,
		NameAway:      "away player",
		BirthdateAway: time.Date(1995, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestAssignBirthdatesDeterministic(t *testing.T) {
	makeRoster := func() []models.ParticipantRecord {
		return []models.ParticipantRecord{
			{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"},
		}
	}

	first := makeRoster()
	AssignBirthdates(first, rand.New(rand.NewSource(42)))
	second := makeRoster()
	AssignBirthdates(second, rand.New(rand.NewSource(42)))

	for i := range first {
		if !first[i].Birthdate.Equal(second[i].Birthdate) {
			t.Errorf("participant %d: birthdates differ between runs: %v vs %v",
				first[i].ID, first[i].Birthdate, second[i].Birthdate)
		}
	}

	for _, p := range first {
		if p.Birthdate.Before(birthdateMin) || !p.Birthdate.Before(birthdateMax) {
			t.Errorf("participant %d: birthdate %v outside [%v, %v)",
				p.ID, p.Birthdate, birthdateMin, birthdateMax)
		}
		if p.Birthdate.Hour() != 0 || p.Birthdate.Minute() != 0 {
			t.Errorf("participant %d: birthdate %v not normalized to midnight", p.ID, p.Birthdate)
		}
	}
}

func TestAssignBirthdatesSeedChangesDates(t *testing.T) {
	a := []models.ParticipantRecord{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}
	b := []models.ParticipantRecord{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}
	AssignBirthdates(a, rand.New(rand.NewSource(42)))
	AssignBirthdates(b, rand.New(rand.NewSource(7)))

	same := true
	for i := range a {
		if !a[i].Birthdate.Equal(b[i].Birthdate) {
			same = false
		}
	}
	if same {
		t.Error("different seeds produced identical birthdates")
	}
}

func TestMergeInnerJoinDropsUnresolvable(t *testing.T) {
	roster := []models.ParticipantRecord{
		{ID: 1, Name: "A", Birthdate: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 2, Name: "B", Birthdate: time.Date(1992, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	matches := []models.MatchRecord{
		{ID: 10, Result: "2:0", HomeID: 1, AwayID: int64p(2)},
		{ID: 11, Result: "2:1", HomeID: 1, AwayID: int64p(999)}, // away not in roster
		{ID: 12, Result: "0:2", HomeID: 999, AwayID: int64p(2)}, // home not in roster
		{ID: 13, Result: "1:0", HomeID: 1, AwayID: nil},         // bye
	}

	rows := Merge(matches, roster)
	if len(rows) != 1 {
		t.Fatalf("expected 1 enriched row, got %d", len(rows))
	}
	r := rows[0]
	if r.ID != 10 {
		t.Errorf("surviving match id = %d, want 10", r.ID)
	}
	if r.NameHome != "A" || r.NameAway != "B" {
		t.Errorf("joined names = %q / %q, want A / B", r.NameHome, r.NameAway)
	}
	if r.IDHome != 1 || r.IDAway != 2 {
		t.Errorf("joined ids = %d / %d, want 1 / 2", r.IDHome, r.IDAway)
	}
}

func TestSymmetrizeDoublesExactly(t *testing.T) {
	rows := []models.EnrichedMatchRow{
		enrichedRow(1, "2:0", 10, 20),
		enrichedRow(2, "1:2", 30, 40),
	}

	sym := Symmetrize(rows)
	if len(sym) != 2*len(rows) {
		t.Fatalf("expected exactly 2x rows, got %d from %d", len(sym), len(rows))
	}

	// Not idempotent: a second application doubles again.
	again := Symmetrize(sym)
	if len(again) != 4*len(rows) {
		t.Errorf("second application: expected 4x rows, got %d", len(again))
	}
}

func TestSymmetrizeMirrorsFieldsAndResult(t *testing.T) {
	rows := []models.EnrichedMatchRow{enrichedRow(1, "2:0", 10, 20)}
	sym := Symmetrize(rows)

	orig, mirrored := sym[0], sym[1]
	if mirrored.Result != "0:2" {
		t.Errorf("mirrored result = %q, want 0:2", mirrored.Result)
	}
	if mirrored.HomeID != 20 || *mirrored.AwayID != 10 {
		t.Errorf("mirrored home/away ids = %d / %d, want 20 / 10", mirrored.HomeID, *mirrored.AwayID)
	}
	if mirrored.IDHome != orig.IDAway || mirrored.IDAway != orig.IDHome {
		t.Errorf("mirrored attribute ids not swapped: %d / %d", mirrored.IDHome, mirrored.IDAway)
	}
	if mirrored.NameHome != orig.NameAway || mirrored.NameAway != orig.NameHome {
		t.Errorf("mirrored names not swapped: %q / %q", mirrored.NameHome, mirrored.NameAway)
	}
	if !mirrored.BirthdateHome.Equal(orig.BirthdateAway) || !mirrored.BirthdateAway.Equal(orig.BirthdateHome) {
		t.Error("mirrored birthdates not swapped")
	}
	if mirrored.HomeTeamScore != orig.AwayTeamScore || mirrored.AwayTeamScore != orig.HomeTeamScore {
		t.Error("mirrored set scores not swapped")
	}
	// The original row must be untouched.
	if orig.Result != "2:0" || orig.HomeID != 10 {
		t.Errorf("original row mutated: result=%q home=%d", orig.Result, orig.HomeID)
	}
}

func TestSymmetrizedPairLabelsAreOpposite(t *testing.T) {
	rows := []models.EnrichedMatchRow{
		enrichedRow(1, "2:0", 10, 20),
		enrichedRow(2, "1:2", 30, 40),
		enrichedRow(3, "3:1", 50, 60),
	}
	sym := Symmetrize(rows)

	n := len(rows)
	for i := 0; i < n; i++ {
		a, err := features.Label(sym[i].Result)
		if err != nil {
			t.Fatalf("label(%q): %v", sym[i].Result, err)
		}
		b, err := features.Label(sym[i+n].Result)
		if err != nil {
			t.Fatalf("label(%q): %v", sym[i+n].Result, err)
		}
		if a == b {
			t.Errorf("pair %d: labels equal (%q), want opposite classes", i, a)
		}
	}
}
