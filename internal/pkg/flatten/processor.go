package flatten

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dkoromyslov/tennispipe/internal/pkg/models"
)

// cuptreePrefix marks the raw files the fetch stage produces.
const cuptreePrefix = "cuptrees"

// ProcessDir flattens every cuptrees*.json file under rawDir into a single
// Output. Files are processed in parallel but concatenated in sorted file
// name order, so the result is deterministic and repeated runs produce
// identical tables. The roster is de-duplicated across files, keeping the
// first occurrence of each player id.
func ProcessDir(ctx context.Context, rawDir string) (*Output, error) {
	files, err := listCuptreeFiles(rawDir)
	if err != nil {
		return nil, err
	}

	results := make([]*Output, len(files))
	g, gCtx := errgroup.WithContext(ctx)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			slog.Info("processing cuptree file", "file", filepath.Base(file))
			out, err := processFile(file)
			if err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(file), err)
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := &Output{}
	seen := make(map[int64]bool)
	for _, out := range results {
		for _, p := range out.Participants {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			merged.Participants = append(merged.Participants, p)
		}
		merged.Matches = append(merged.Matches, out.Matches...)
	}

	slog.Info("flattening finished",
		"files", len(files),
		"participants", len(merged.Participants),
		"matches", len(merged.Matches))
	return merged, nil
}

func listCuptreeFiles(rawDir string) ([]string, error) {
	entries, err := os.ReadDir(rawDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read raw data dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		if !strings.HasPrefix(name, cuptreePrefix) {
			continue
		}
		files = append(files, filepath.Join(rawDir, name))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files starting with %q found in %s", cuptreePrefix, rawDir)
	}
	sort.Strings(files)
	return files, nil
}

// processFile decodes one cuptrees file (a JSON array of brackets) and
// flattens every bracket in it, in document order.
func processFile(path string) (*Output, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cuptree file: %w", err)
	}

	var brackets []models.Bracket
	if err := json.Unmarshal(data, &brackets); err != nil {
		return nil, fmt.Errorf("failed to parse cuptree file: %w", err)
	}

	merged := &Output{}
	seen := make(map[int64]bool)
	for i := range brackets {
		out, err := Flatten(&brackets[i])
		if err != nil {
			return nil, err
		}
		for _, p := range out.Participants {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			merged.Participants = append(merged.Participants, p)
		}
		merged.Matches = append(merged.Matches, out.Matches...)
	}
	return merged, nil
}
