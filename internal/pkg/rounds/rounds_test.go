package rounds

import (
	"errors"
	"testing"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		description string
		want        Stage
	}{
		{"", StageUnclassified},
		{"Quarterfinal", StageQF},
		{"Quarterfinals", StageQF},
		{"Semifinal", StageSF},
		{"Final", StageF},
		{"1/8", StageR8},
		{"1/16", StageR16},
		{"1/32", StageR32},
		{"Round of 64", StageR64},
		{"Round of 128", StageR128},
		{"R16", StageR16},
		{"Qualification round 1", StageQ},
		{"Qualification Final", StageQ},
		{"Some QUALIFYING thing", StageQ},
		{"pre-qualification playoff", StageQ},
	}
	for _, c := range cases {
		got, err := Classify(c.description)
		if err != nil {
			t.Errorf("Classify(%q) returned error: %v", c.description, err)
			continue
		}
		if got != c.want {
			t.Errorf("Classify(%q) = %q, want %q", c.description, got, c.want)
		}
	}
}

func TestClassifyUnknownLabel(t *testing.T) {
	_, err := Classify("Unknown Stage Name")
	if err == nil {
		t.Fatal("expected error for unknown label")
	}
	if !errors.Is(err, ErrUnknownRoundLabel) {
		t.Errorf("expected ErrUnknownRoundLabel, got %v", err)
	}
}

func TestOrdinalOrdering(t *testing.T) {
	progression := []Stage{
		StageQ1, StageQ2, StageQ, StageR128, StageR64, StageR32,
		StageR16, StageR8, StageQF, StageSF, StageF,
	}
	prev := 0
	for _, stage := range progression {
		ord, err := Ordinal(stage)
		if err != nil {
			t.Fatalf("Ordinal(%q) returned error: %v", stage, err)
		}
		if ord <= prev {
			t.Errorf("Ordinal(%q) = %d, want > %d", stage, ord, prev)
		}
		prev = ord
	}
	if prev != 11 {
		t.Errorf("final ordinal = %d, want 11", prev)
	}
}

func TestOrdinalUnknownStage(t *testing.T) {
	if _, err := Ordinal(StageUnclassified); !errors.Is(err, ErrUnknownStage) {
		t.Errorf("expected ErrUnknownStage for unclassified stage, got %v", err)
	}
}
