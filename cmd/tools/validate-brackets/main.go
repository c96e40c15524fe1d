// validate-brackets scans raw cuptree files and reports the anomalies the
// pipeline would hit, without producing any output tables. Useful before a
// long run: unknown round labels listed here would abort processing.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dkoromyslov/tennispipe/internal/pkg/models"
	"github.com/dkoromyslov/tennispipe/internal/pkg/rounds"
	"github.com/dkoromyslov/tennispipe/internal/pkg/scores"
)

type report struct {
	files         int
	brackets      int
	blocks        int
	terminal      int
	byes          int
	empty         int
	invalidScores []string
	unknownLabels map[string]int
}

func main() {
	rawDir := flag.String("raw", "data/raw", "directory with cuptrees*.json files")
	flag.Parse()

	if err := run(*rawDir); err != nil {
		fmt.Fprintf(os.Stderr, "validate-brackets: %v\n", err)
		os.Exit(1)
	}
}

func run(rawDir string) error {
	files, err := filepath.Glob(filepath.Join(rawDir, "cuptrees*.json"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no cuptrees*.json files in %s", rawDir)
	}
	sort.Strings(files)

	rep := &report{unknownLabels: make(map[string]int)}
	for _, file := range files {
		if err := checkFile(file, rep); err != nil {
			return err
		}
	}

	printReport(rep)
	return nil
}

func checkFile(path string, rep *report) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var brackets []models.Bracket
	if err := json.Unmarshal(data, &brackets); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	rep.files++
	rep.brackets += len(brackets)

	for _, bracket := range brackets {
		for _, round := range bracket.Rounds {
			if _, err := rounds.Classify(round.Description); err != nil {
				if errors.Is(err, rounds.ErrUnknownRoundLabel) {
					rep.unknownLabels[round.Description] += len(round.Blocks)
				}
			}
			for _, block := range round.Blocks {
				rep.blocks++
				result := block.Result
				switch strings.ToLower(result) {
				case "retired", "walkover", "0:0":
					rep.terminal++
					continue
				}
				switch result {
				case "home won", "away won", "on-going":
					result = block.HomeTeamScore + ":" + block.AwayTeamScore
				}
				if !scores.Validate(result) {
					rep.invalidScores = append(rep.invalidScores,
						fmt.Sprintf("block %d: %q", block.ID, result))
				}
				switch len(block.Participants) {
				case 0:
					rep.empty++
				case 1:
					rep.byes++
				}
			}
		}
	}
	return nil
}

func printReport(rep *report) {
	fmt.Printf("files:            %d\n", rep.files)
	fmt.Printf("brackets:         %d\n", rep.brackets)
	fmt.Printf("blocks:           %d\n", rep.blocks)
	fmt.Printf("terminal results: %d\n", rep.terminal)
	fmt.Printf("byes:             %d\n", rep.byes)
	fmt.Printf("empty blocks:     %d\n", rep.empty)

	fmt.Printf("invalid scores:   %d\n", len(rep.invalidScores))
	for _, s := range rep.invalidScores {
		fmt.Printf("  %s\n", s)
	}

	fmt.Printf("unknown round labels: %d\n", len(rep.unknownLabels))
	labels := make([]string, 0, len(rep.unknownLabels))
	for label := range rep.unknownLabels {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		fmt.Printf("  %q (%d blocks) -- processing would abort here\n", label, rep.unknownLabels[label])
	}
}
