// Package pipeline wires the batch stages together: flatten raw cup trees,
// combine matches with participant attributes, derive the feature table.
// Each stage persists its CSV snapshot, so later stages can be rerun from
// disk without touching the raw data.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/dkoromyslov/tennispipe/internal/pkg/combine"
	"github.com/dkoromyslov/tennispipe/internal/pkg/config"
	"github.com/dkoromyslov/tennispipe/internal/pkg/export"
	"github.com/dkoromyslov/tennispipe/internal/pkg/features"
	"github.com/dkoromyslov/tennispipe/internal/pkg/flatten"
	"github.com/dkoromyslov/tennispipe/internal/pkg/models"
)

// Snapshot file names under the processed dir.
const (
	ParticipantsFile = "participants.csv"
	MatchesFile      = "games.csv"
	CombinedFile     = "combined.csv"
	FeaturesFile     = "features.csv"
)

// SnapshotStorage is an optional sink for the flattened tables, on top of
// the CSV files.
type SnapshotStorage interface {
	StoreParticipants(ctx context.Context, roster []models.ParticipantRecord) error
	StoreMatches(ctx context.Context, matches []models.MatchRecord) error
}

// Result summarizes one run for logging and notification.
type Result struct {
	Participants int
	Matches      int
	Combined     int
	Features     int
	Duration     time.Duration
}

// Pipeline runs the batch stages against the configured data directories.
type Pipeline struct {
	cfg *config.Config

	// Snapshots, when set, additionally receives the roster and match
	// tables after the process stage.
	Snapshots SnapshotStorage
}

func New(cfg *config.Config) *Pipeline {
	return &Pipeline{cfg: cfg}
}

// Run executes process -> combine -> features. Any fatal stage error
// aborts the run; there is no partial output beyond the snapshots already
// written by completed stages.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	out, err := p.RunProcess(ctx)
	if err != nil {
		return nil, err
	}

	combined, err := p.combineTables(ctx, out.Participants, out.Matches)
	if err != nil {
		return nil, err
	}

	feats, err := p.deriveFeatures(combined)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Participants: len(out.Participants),
		Matches:      len(out.Matches),
		Combined:     len(combined),
		Features:     len(feats),
		Duration:     time.Since(start),
	}
	slog.Info("pipeline finished",
		"participants", res.Participants,
		"matches", res.Matches,
		"combined", res.Combined,
		"features", res.Features,
		"duration", res.Duration)
	return res, nil
}

// RunProcess flattens the raw cup tree files and persists the roster and
// match snapshots.
func (p *Pipeline) RunProcess(ctx context.Context) (*flatten.Output, error) {
	out, err := flatten.ProcessDir(ctx, p.cfg.Data.RawDir)
	if err != nil {
		return nil, fmt.Errorf("process stage: %w", err)
	}

	if err := export.WriteParticipants(p.processedPath(ParticipantsFile), out.Participants); err != nil {
		return nil, fmt.Errorf("process stage: %w", err)
	}
	if err := export.WriteMatches(p.processedPath(MatchesFile), out.Matches); err != nil {
		return nil, fmt.Errorf("process stage: %w", err)
	}

	if p.Snapshots != nil {
		if err := p.Snapshots.StoreParticipants(ctx, out.Participants); err != nil {
			return nil, fmt.Errorf("process stage: %w", err)
		}
		if err := p.Snapshots.StoreMatches(ctx, out.Matches); err != nil {
			return nil, fmt.Errorf("process stage: %w", err)
		}
	}
	return out, nil
}

// RunCombine reruns the combine stage from the persisted roster and match
// snapshots.
func (p *Pipeline) RunCombine(ctx context.Context) ([]models.EnrichedMatchRow, error) {
	roster, err := export.ReadParticipants(p.processedPath(ParticipantsFile))
	if err != nil {
		return nil, fmt.Errorf("combine stage: %w", err)
	}
	matches, err := export.ReadMatches(p.processedPath(MatchesFile))
	if err != nil {
		return nil, fmt.Errorf("combine stage: %w", err)
	}
	return p.combineTables(ctx, roster, matches)
}

// RunFeatures reruns the feature stage from the persisted combined
// snapshot.
func (p *Pipeline) RunFeatures() ([]models.FeatureRow, error) {
	combined, err := export.ReadCombined(p.processedPath(CombinedFile))
	if err != nil {
		return nil, fmt.Errorf("features stage: %w", err)
	}
	return p.deriveFeatures(combined)
}

func (p *Pipeline) combineTables(ctx context.Context, roster []models.ParticipantRecord, matches []models.MatchRecord) ([]models.EnrichedMatchRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(p.cfg.Data.BirthdateSeed))
	combine.AssignBirthdates(roster, rng)

	combined := combine.Symmetrize(combine.Merge(matches, roster))

	if err := export.WriteCombined(p.processedPath(CombinedFile), combined); err != nil {
		return nil, fmt.Errorf("combine stage: %w", err)
	}
	return combined, nil
}

func (p *Pipeline) deriveFeatures(combined []models.EnrichedMatchRow) ([]models.FeatureRow, error) {
	feats, err := features.Derive(combined)
	if err != nil {
		return nil, fmt.Errorf("features stage: %w", err)
	}
	if err := export.WriteFeatures(p.processedPath(FeaturesFile), feats); err != nil {
		return nil, fmt.Errorf("features stage: %w", err)
	}
	return feats, nil
}

func (p *Pipeline) processedPath(name string) string {
	return filepath.Join(p.cfg.Data.ProcessedDir, name)
}
