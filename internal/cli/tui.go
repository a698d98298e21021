package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"galaxy/internal/adapter/clipboard"
	"galaxy/internal/logger"
	"galaxy/internal/tui"
)

func runTUI(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	log := GetLogger()
	ctx := logger.ContextWithLogger(cmd.Context(), log)

	model := tui.NewModel(newSearchUseCase(ctx, cfg), clipboard.New(), tui.Options{
		Title:   cfg.UI.Title,
		Dir:     GetRootDir(),
		Pattern: cfg.Search.Pattern,
		Context: ctx,
		Logger:  log,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("form failed: %w", err)
	}
	return nil
}
