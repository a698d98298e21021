package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"galaxy/internal/adapter/clipboard"
	"galaxy/internal/logger"
	"galaxy/internal/usecase"
)

var (
	findQuery      string
	findPattern    string
	findJSON       bool
	findCopy       bool
	findNoProgress bool
)

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Find the most relevant file without opening the form",
	Long: `Scan --dir for files matching the pattern and print the one whose content
is semantically closest to the query.

Examples:
  galaxy find -q "how to bake a dessert"
  galaxy find -q "meeting notes" -p md --copy
  galaxy find -q "error budget" -p "*.log" --json`,
	RunE: runFind,
}

func init() {
	rootCmd.AddCommand(findCmd)
	findCmd.Flags().StringVarP(&findQuery, "query", "q", "", "search query (required)")
	findCmd.Flags().StringVarP(&findPattern, "pattern", "p", "", "file pattern such as txt or *.md (default from config)")
	findCmd.Flags().BoolVar(&findJSON, "json", false, "output as JSON")
	findCmd.Flags().BoolVar(&findCopy, "copy", false, "copy the result path to the clipboard")
	findCmd.Flags().BoolVar(&findNoProgress, "no-progress", false, "do not show the progress bar")
	findCmd.MarkFlagRequired("query")
}

func runFind(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	ctx = logger.ContextWithLogger(ctx, GetLogger())

	pattern := findPattern
	if pattern == "" {
		pattern = cfg.Search.Pattern
	}

	var progress usecase.ProgressCallback
	if !findNoProgress && !findJSON {
		progress = newProgressPrinter(errOut)
	}

	outcome, err := newSearchUseCase(ctx, cfg).Search(ctx, usecase.Request{
		Root:    GetRootDir(),
		Pattern: pattern,
		Query:   findQuery,
	}, progress)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("search cancelled")
		}
		return fmt.Errorf("search failed: %w", err)
	}

	if findJSON {
		output, _ := json.MarshalIndent(outcome, "", "  ")
		fmt.Fprintln(out, string(output))
	} else {
		fmt.Fprintln(out, outcome.Summary())
		if outcome.Skipped > 0 {
			fmt.Fprintf(errOut, "%d matching files were skipped (unreadable or not UTF-8)\n", outcome.Skipped)
		}
	}

	if findCopy && outcome.Found() {
		if err := clipboard.New().Copy(outcome.Result.Path); err != nil {
			return err
		}
		fmt.Fprintln(errOut, "File path copied to clipboard!")
	}

	return nil
}

// newProgressPrinter reports stage changes as text and embedding progress as a bar.
func newProgressPrinter(w io.Writer) usecase.ProgressCallback {
	var bar *progressbar.ProgressBar

	return func(p usecase.Progress) {
		switch p.Stage {
		case usecase.StageCollecting:
			fmt.Fprintln(w, "Scanning files...")
		case usecase.StageLoadingModel:
			fmt.Fprintln(w, "Loading model (this may take a few seconds)...")
		case usecase.StageEmbedding:
			if bar == nil {
				bar = progressbar.NewOptions(p.Total,
					progressbar.OptionSetWriter(w),
					progressbar.OptionEnableColorCodes(true),
					progressbar.OptionShowBytes(false),
					progressbar.OptionSetWidth(40),
					progressbar.OptionShowCount(),
					progressbar.OptionSetDescription("[cyan]Embedding[reset]"),
					progressbar.OptionSetTheme(progressbar.Theme{
						Saucer:        "[green]=[reset]",
						SaucerHead:    "[green]>[reset]",
						SaucerPadding: " ",
						BarStart:      "[",
						BarEnd:        "]",
					}),
					progressbar.OptionOnCompletion(func() {
						fmt.Fprintln(w)
					}),
				)
			}
			_ = bar.Set(p.Done)
		}
	}
}
