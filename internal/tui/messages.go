package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"galaxy/internal/domain"
	"galaxy/internal/usecase"
)

// searchProgressMsg carries one progress report from a running search.
type searchProgressMsg struct {
	id       int
	progress usecase.Progress
	events   <-chan tea.Msg
}

// searchDoneMsg is sent once when a search returns.
type searchDoneMsg struct {
	id      int
	outcome domain.Outcome
	err     error
}

type dirChosenMsg struct {
	path string
}

type dirCancelledMsg struct{}
