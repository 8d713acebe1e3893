// Package main provides a batch CLI that classifies provider transaction
// JSON files and prints the results.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"solana-swap-classifier/internal/classifier"
	"solana-swap-classifier/internal/domain"
	"solana-swap-classifier/internal/provider"
)

func main() {
	// Optional .env for local runs
	_ = godotenv.Load()

	providerName := flag.String("provider", envOr("PROVIDER", provider.NameHelius), "Payload provider: helius or quicknode")
	input := flag.String("input", "", "Transaction JSON file or directory of .json files")
	minValueSOL := flag.String("min-value-sol", "", "Minimum quote-leg value in SOL (empty disables the filter)")
	pretty := flag.Bool("pretty", false, "Indent JSON output")
	flag.Parse()

	logger := log.New(os.Stdout, "[classify] ", log.LstdFlags)

	if *input == "" {
		logger.Fatal("--input is required")
	}

	adapter, err := adapterByName(*providerName)
	if err != nil {
		logger.Fatalf("Error: %v", err)
	}

	cfg := classifier.Config{}
	if *minValueSOL != "" {
		min, err := decimal.NewFromString(*minValueSOL)
		if err != nil {
			logger.Fatalf("Invalid --min-value-sol: %v", err)
		}
		cfg.MinValueSOL = min
	}
	c := classifier.New(cfg)

	files, err := collectFiles(*input)
	if err != nil {
		logger.Fatalf("Error: %v", err)
	}
	if len(files) == 0 {
		logger.Fatalf("No .json files found under %s", *input)
	}

	ctx := context.Background()
	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}

	var swaps, splits, erases int
	for _, file := range files {
		payload, err := os.ReadFile(file)
		if err != nil {
			logger.Fatalf("Read %s: %v", file, err)
		}

		tx, err := adapter.Normalize(payload)
		if err != nil {
			logger.Printf("Skipping %s: %v", file, err)
			continue
		}

		result := c.Classify(ctx, tx)
		switch {
		case result.Swap() != nil:
			swaps++
		case result.Split() != nil:
			splits++
		default:
			erases++
		}

		if err := enc.Encode(newOutput(file, result)); err != nil {
			logger.Fatalf("Encode result: %v", err)
		}
	}

	logger.Printf("Done: %d swaps, %d split pairs, %d erases (%d files)",
		swaps, splits, erases, len(files))
}

// output is the printed shape of one classification.
type output struct {
	File             string                `json:"file"`
	Outcome          string                `json:"outcome"`
	ProcessingTimeMs float64               `json:"processing_time_ms"`
	Swap             *domain.ParsedSwap    `json:"swap,omitempty"`
	Split            *domain.SplitSwapPair `json:"split,omitempty"`
	Erase            *domain.EraseResult   `json:"erase,omitempty"`
}

func newOutput(file string, r domain.Result) output {
	out := output{File: file, ProcessingTimeMs: r.ProcessingTimeMs}
	switch {
	case r.Swap() != nil:
		out.Outcome = "swap"
		out.Swap = r.Swap()
	case r.Split() != nil:
		out.Outcome = "split"
		out.Split = r.Split()
	default:
		out.Outcome = "erase"
		out.Erase = r.Erase()
	}
	return out
}

func adapterByName(name string) (provider.Adapter, error) {
	plog := logrus.New()
	plog.SetLevel(logrus.WarnLevel)

	switch strings.ToLower(name) {
	case provider.NameHelius:
		return provider.NewHeliusAdapter(plog), nil
	case provider.NameQuickNode:
		return provider.NewQuickNodeAdapter(plog), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}

// collectFiles resolves the input path to a sorted list of .json files.
func collectFiles(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{input}, nil
	}

	entries, err := os.ReadDir(input)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			files = append(files, filepath.Join(input, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
