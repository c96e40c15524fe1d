package models

import (
	"time"

	"github.com/dkoromyslov/tennispipe/internal/pkg/rounds"
)

// ParticipantRecord is one roster entry, unique by player id across all
// processed brackets.
//
// Birthdate is synthetic: the source exposes no biographical data, so the
// combine stage assigns a placeholder date drawn from a seeded generator.
// It is NOT authoritative and exists only so age features can be computed.
type ParticipantRecord struct {
	ID        int64
	Name      string
	Slug      string
	ShortName string
	Gender    string
	NameCode  string
	Ranking   int
	Disabled  bool
	National  bool
	Winner    bool
	Order     int
	TeamSeed  string
	Birthdate time.Time
}

// MatchRecord is one flattened block. AwayID is nil for a bye (single
// participant in the block). A zero SeriesStartDate means the source
// timestamp was missing or unparsable.
type MatchRecord struct {
	ID               int64
	Finished         bool
	Result           string
	HomeTeamScore    string
	AwayTeamScore    string
	HomeID           int64
	AwayID           *int64
	RoundStage       rounds.Stage
	SeriesStartDate  time.Time
	TournamentName   string
	UniqueTournament string
}

// EnrichedMatchRow is a MatchRecord joined with both participants'
// attributes. The merge is an inner join on both sides, so AwayID is
// always set here and byes never make it this far.
type EnrichedMatchRow struct {
	MatchRecord

	IDHome        int64
	NameHome      string
	BirthdateHome time.Time
	IDAway        int64
	NameAway      string
	BirthdateAway time.Time
}

// FeatureRow is one training example. Month and Surface are kept in their
// compact form; the CSV writer expands them into the one-hot columns.
// IDHome/IDAway are carried for downstream grouping only and must not be
// fed to the classifier.
type FeatureRow struct {
	Result       string
	IDHome       int64
	IDAway       int64
	AgeHome      float64
	AgeAway      float64
	RoundOrdinal int
	MonthSin     float64
	MonthCos     float64
	Month        int
	Surface      string
}
