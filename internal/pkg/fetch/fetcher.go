package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Tournament is the slice of the tournaments listing we keep.
type Tournament struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Slug         string   `json:"slug"`
	TennisPoints int      `json:"tennisPoints"`
	Category     Category `json:"category"`
}

type Category struct {
	Name string `json:"name"`
}

type Season struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Year string `json:"year"`
}

// Fetcher walks tournaments -> seasons -> cup trees and caches every
// response under saveDir, so interrupted runs resume without re-fetching.
type Fetcher struct {
	client   *Client
	saveDir  string
	category string
}

func NewFetcher(client *Client, saveDir, category string) *Fetcher {
	return &Fetcher{client: client, saveDir: saveDir, category: category}
}

// Tournaments lists tournaments of the configured tour category.
func (f *Fetcher) Tournaments(ctx context.Context) ([]Tournament, error) {
	var resp struct {
		UniqueTournaments []Tournament `json:"uniqueTournaments"`
	}
	if err := f.client.GetJSON(ctx, "/config/default-unique-tournaments/NL/tennis", &resp); err != nil {
		return nil, err
	}

	var filtered []Tournament
	for _, t := range resp.UniqueTournaments {
		if t.Category.Name == f.category {
			filtered = append(filtered, t)
		}
	}

	if err := f.saveJSON(filtered, "tournaments.json"); err != nil {
		return nil, err
	}
	return filtered, nil
}

// Seasons lists the seasons of one tournament, using the cached file when
// it exists.
func (f *Fetcher) Seasons(ctx context.Context, tournamentID int64) ([]Season, error) {
	name := fmt.Sprintf("seasons_%d.json", tournamentID)
	if data, err := os.ReadFile(filepath.Join(f.saveDir, name)); err == nil {
		var cached []Season
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	var resp struct {
		Seasons []Season `json:"seasons"`
	}
	endpoint := fmt.Sprintf("/unique-tournament/%d/seasons", tournamentID)
	if err := f.client.GetJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	if err := f.saveJSON(resp.Seasons, name); err != nil {
		return nil, err
	}
	return resp.Seasons, nil
}

// CupTrees fetches the cup trees of one tournament season and saves them
// as a cuptrees_<tournament>_<season>.json file, the shape the flatten
// stage consumes. The raw document is kept verbatim.
func (f *Fetcher) CupTrees(ctx context.Context, tournamentID, seasonID int64) error {
	name := fmt.Sprintf("cuptrees_%d_%d.json", tournamentID, seasonID)
	if _, err := os.Stat(filepath.Join(f.saveDir, name)); err == nil {
		return nil
	}

	var resp struct {
		CupTrees json.RawMessage `json:"cupTrees"`
	}
	endpoint := fmt.Sprintf("/unique-tournament/%d/season/%d/cuptrees", tournamentID, seasonID)
	if err := f.client.GetJSON(ctx, endpoint, &resp); err != nil {
		return err
	}
	if len(resp.CupTrees) == 0 {
		return fmt.Errorf("missing cupTrees key for tournament %d season %d", tournamentID, seasonID)
	}

	return f.saveJSON(resp.CupTrees, name)
}

// FetchAll collects cup trees for up to maxTournaments tournaments.
// Per-season failures are logged and skipped so one missing season does
// not lose the whole crawl.
func (f *Fetcher) FetchAll(ctx context.Context, maxTournaments int) error {
	if err := os.MkdirAll(f.saveDir, 0o755); err != nil {
		return fmt.Errorf("failed to create save dir: %w", err)
	}

	tournaments, err := f.Tournaments(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch tournaments: %w", err)
	}
	if maxTournaments > 0 && len(tournaments) > maxTournaments {
		tournaments = tournaments[:maxTournaments]
	}
	slog.Info("fetching cup trees", "tournaments", len(tournaments))

	for _, t := range tournaments {
		if err := ctx.Err(); err != nil {
			return err
		}
		seasons, err := f.Seasons(ctx, t.ID)
		if err != nil {
			slog.Warn("failed to fetch seasons", "tournament", t.Name, "error", err)
			continue
		}
		for _, season := range seasons {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := f.CupTrees(ctx, t.ID, season.ID); err != nil {
				slog.Warn("failed to fetch cup trees",
					"tournament", t.Name, "season", season.Year, "error", err)
			}
		}
	}
	return nil
}

func (f *Fetcher) saveJSON(v any, name string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	path := filepath.Join(f.saveDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to save %s: %w", name, err)
	}
	slog.Info("data saved", "file", name)
	return nil
}
