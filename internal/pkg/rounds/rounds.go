// Package rounds maps free-text round descriptions from cup tree documents
// to canonical stage codes and their ordinal position in a tournament.
package rounds

import (
	"errors"
	"fmt"
	"regexp"
)

// Stage is a canonical short code for a tournament round.
type Stage string

const (
	// StageUnclassified is returned for an empty description. It never
	// reaches the feature table: blocks without participants are skipped
	// before classification.
	StageUnclassified Stage = ""

	StageQ1   Stage = "Q1"
	StageQ2   Stage = "Q2"
	StageQ    Stage = "Q"
	StageR128 Stage = "R128"
	StageR64  Stage = "R64"
	StageR32  Stage = "R32"
	StageR16  Stage = "R16"
	StageR8   Stage = "R8"
	StageQF   Stage = "QF"
	StageSF   Stage = "SF"
	StageF    Stage = "F"
)

var (
	// ErrUnknownRoundLabel means the lookup table below is out of date for
	// the data being processed. Silently mis-ranking a stage would corrupt
	// the ordinal feature, so this is fatal for the whole bracket.
	ErrUnknownRoundLabel = errors.New("unknown round label")

	// ErrUnknownStage means a stage code has no ordinal, which should be
	// impossible for anything produced by Classify.
	ErrUnknownStage = errors.New("unknown stage code")
)

var qualifyingPattern = regexp.MustCompile(`(?i)qualification|qualifying`)

// labelStages maps the textual variants seen in historical cup trees to
// stage codes. Keep the entries exactly as-is: downstream models were
// trained against these mappings.
var labelStages = map[string]Stage{
	"R128":                  StageR128,
	"R64":                   StageR64,
	"R32":                   StageR32,
	"R16":                   StageR16,
	"Quarterfinals":         StageQF,
	"Quarterfinal":          StageQF,
	"Semifinals":            StageSF,
	"Semifinal":             StageSF,
	"Final":                 StageF,
	"1/32":                  StageR32,
	"1/16":                  StageR16,
	"1/8":                   StageR8,
	"Qualification":         StageQ,
	"Qualification round 1": StageQ,
	"Qualification round 2": StageQ,
	"Qualification Final":   StageQ,
	"Qualification final":   StageQ,
	"Round of 128":          StageR128,
	"Round of 64":           StageR64,
	"Round of 32":           StageR32,
	"Round of 16":           StageR16,
}

// stageOrdinals orders stages by tournament progression.
var stageOrdinals = map[Stage]int{
	StageQ1:   1,
	StageQ2:   2,
	StageQ:    3,
	StageR128: 4,
	StageR64:  5,
	StageR32:  6,
	StageR16:  7,
	StageR8:   8,
	StageQF:   9,
	StageSF:   10,
	StageF:    11,
}

// Classify resolves a round description to a stage code.
//
// An empty description yields StageUnclassified. Anything mentioning a
// qualifying round maps to StageQ regardless of the rest of the text.
// Other descriptions must match the lookup table exactly; an unknown one
// returns ErrUnknownRoundLabel.
func Classify(description string) (Stage, error) {
	if description == "" {
		return StageUnclassified, nil
	}
	if qualifyingPattern.MatchString(description) {
		return StageQ, nil
	}
	stage, ok := labelStages[description]
	if !ok {
		return StageUnclassified, fmt.Errorf("%w: %q", ErrUnknownRoundLabel, description)
	}
	return stage, nil
}

// Ordinal returns the position of a stage under the canonical ordering
// Q1 < Q2 < Q < R128 < R64 < R32 < R16 < R8 < QF < SF < F.
func Ordinal(stage Stage) (int, error) {
	ord, ok := stageOrdinals[stage]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownStage, string(stage))
	}
	return ord, nil
}
