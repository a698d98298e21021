package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"galaxy/config"
	"galaxy/internal/adapter/embedding"
	"galaxy/internal/adapter/fs"
	"galaxy/internal/adapter/retriever"
	"galaxy/internal/usecase"
)

type scored struct {
	path    string
	preview string
	score   float64
}

func main() {
	dir := flag.String("dir", ".", "Directory to search")
	query := flag.String("q", "", "Query to test")
	pattern := flag.String("p", "", "File pattern (default from config)")
	topK := flag.Int("k", 10, "Number of candidates to show")
	flag.Parse()

	if *query == "" {
		fmt.Println("Usage: go run cmd/benchmark/main.go -dir ./notes -q \"query\" [-p md]")
		fmt.Println("\nShows:")
		fmt.Println("  1. Collection and model load timings")
		fmt.Println("  2. Similarity of every candidate, not only the winner")
		fmt.Println("  3. Score spread between the best and the runner-up")
		os.Exit(1)
	}

	cfg, err := config.LoadFromDir(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *pattern == "" {
		*pattern = cfg.Search.Pattern
	}
	ctx := context.Background()

	if err := usecase.ValidateRoot(*dir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()
	collection, err := fs.NewWalker(nil).Collect(ctx, *dir, usecase.NormalizePattern(*pattern))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Collect error: %v\n", err)
		os.Exit(1)
	}
	collectTime := time.Since(start)

	if len(collection.Candidates) == 0 {
		fmt.Println("No files found matching the pattern.")
		return
	}

	start = time.Now()
	embedder, err := embedding.NewLoader(cfg.Embedding, nil).Embedder(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Model not available: %v\n", err)
		os.Exit(1)
	}
	loadTime := time.Since(start)

	fmt.Println("SEMANTIC RANKING BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Candidates: %d (skipped %d)\n", len(collection.Candidates), collection.Skipped)
	fmt.Printf("Model: %s (%s)\n", cfg.Embedding.Model, cfg.Embedding.Provider)
	fmt.Printf("Dimension: %d\n", embedder.Dimension())
	fmt.Println()

	fmt.Printf("Query: \"%s\"\n", *query)
	fmt.Println(strings.Repeat("-", 70))

	start = time.Now()
	texts := make([]string, 0, len(collection.Candidates)+1)
	texts = append(texts, *query)
	for _, c := range collection.Candidates {
		texts = append(texts, retriever.Truncate(c.Content, cfg.Search.PrefixChars))
	}
	vectors, err := embedder.Embed(ctx, texts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Embedding error: %v\n", err)
		os.Exit(1)
	}
	embedTime := time.Since(start)

	results := make([]scored, len(collection.Candidates))
	for i, c := range collection.Candidates {
		preview := strings.ReplaceAll(retriever.Truncate(c.Content, 150), "\n", " ")
		results[i] = scored{
			path:    c.Path,
			preview: preview,
			score:   retriever.CosineSimilarity(vectors[0], vectors[i+1]),
		}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].score > results[j].score })

	shown := results
	if len(shown) > *topK {
		shown = shown[:*topK]
	}
	fmt.Printf("Top %d of %d candidates:\n\n", len(shown), len(results))

	for i, r := range shown {
		rating := "LOW"
		if r.score > 0.7 {
			rating = "HIGH"
		} else if r.score > 0.5 {
			rating = "GOOD"
		} else if r.score > 0.3 {
			rating = "OK"
		}

		fmt.Printf("%d. [%s %.3f] %s\n", i+1, rating, r.score, shortPath(*dir, r.path))
		fmt.Printf("   %s\n\n", r.preview)
	}

	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("TIMINGS:\n")
	fmt.Printf("  Collect:     %v\n", collectTime)
	fmt.Printf("  Model load:  %v\n", loadTime)
	fmt.Printf("  Embed:       %v\n", embedTime)
	fmt.Printf("QUALITY:\n")
	fmt.Printf("  Top-1 similarity: %.3f\n", results[0].score)
	if len(results) > 1 {
		margin := results[0].score - results[1].score
		fmt.Printf("  Margin to #2:     %.3f\n", margin)
		if margin < 0.02 {
			fmt.Println("  Status: AMBIGUOUS - the winner barely beats the runner-up")
		} else {
			fmt.Println("  Status: CLEAR - the winner stands out")
		}
	}
}

func shortPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}
