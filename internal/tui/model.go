// Package tui provides the interactive search form.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"galaxy/internal/domain"
	"galaxy/internal/port"
	"galaxy/internal/usecase"
)

const (
	dirField = iota
	patternField
	queryField
	fieldCount
)

const (
	msgInvalidDirectory = "Please select a valid directory."
	msgCopied           = "File path copied to clipboard!"
	msgNothingToCopy    = "Nothing to copy yet."
	msgCancelled        = "Search cancelled."
)

// dialog is a modal message that must be dismissed before the form accepts input again.
type dialog struct {
	title   string
	body    string
	isError bool
}

// Options configures a new Model.
type Options struct {
	Title   string
	Dir     string
	Pattern string
	Context context.Context
	Logger  *zap.Logger
}

// Model is the bubbletea model of the search form.
type Model struct {
	searcher  Searcher
	clipboard port.Clipboard
	ctx       context.Context
	logger    *zap.Logger

	title   string
	styles  *Styles
	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	bar     progress.Model

	inputs []textinput.Model
	focus  int
	picker *DirPicker
	dialog *dialog

	running  bool
	cancel   context.CancelFunc
	searchID int
	progress usecase.Progress

	outcome *domain.Outcome
	err     error
	status  string
}

// NewModel creates the form.
func NewModel(searcher Searcher, clipboard port.Clipboard, opts Options) *Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Title == "" {
		opts.Title = "Galaxy Search"
	}

	styles := DefaultStyles()

	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Width = 50
		inputs[i] = ti
	}
	inputs[dirField].Placeholder = "directory to search"
	inputs[dirField].SetValue(opts.Dir)
	inputs[patternField].Placeholder = "txt"
	inputs[patternField].SetValue(opts.Pattern)
	inputs[queryField].Placeholder = "what are you looking for?"

	m := &Model{
		searcher:  searcher,
		clipboard: clipboard,
		ctx:       opts.Context,
		logger:    opts.Logger,
		title:     opts.Title,
		styles:    styles,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		inputs:    inputs,
	}

	// Start on the query when the directory is already filled in.
	if opts.Dir != "" {
		m.focus = queryField
	}
	m.inputs[m.focus].Focus()

	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		width := msg.Width - 30
		if width > 10 {
			for i := range m.inputs {
				m.inputs[i].Width = width
			}
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case searchProgressMsg:
		if msg.id == m.searchID && m.running {
			m.progress = msg.progress
		}
		return m, listen(msg.events)

	case searchDoneMsg:
		m.finishSearch(msg)
		return m, nil

	case dirChosenMsg:
		m.picker = nil
		m.inputs[dirField].SetValue(msg.path)
		return m, nil

	case dirCancelledMsg:
		m.picker = nil
		return m, nil

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit
	}

	if m.dialog != nil {
		switch msg.String() {
		case "enter", "esc", " ":
			m.dialog = nil
		}
		return m, nil
	}

	if m.picker != nil {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Cancel):
		if m.running && m.cancel != nil {
			m.cancel()
			m.status = "Cancelling..."
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		if m.running {
			return m, nil
		}
		return m, m.submit()

	case key.Matches(msg, m.keys.Browse):
		if m.running {
			return m, nil
		}
		m.picker = NewDirPicker(strings.TrimSpace(m.inputs[dirField].Value()), m.styles)
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		m.copyPath()
		return m, nil

	case key.Matches(msg, m.keys.Next):
		return m, m.setFocus((m.focus + 1) % fieldCount)

	case key.Matches(msg, m.keys.Prev):
		return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[m.focus].Focus()
}

// submit validates the form and starts a background search.
func (m *Model) submit() tea.Cmd {
	root := strings.TrimSpace(m.inputs[dirField].Value())
	if err := usecase.ValidateRoot(root); err != nil {
		m.logger.Debug("rejected directory", zap.String("root", root), zap.Error(err))
		m.dialog = &dialog{title: "Error", body: msgInvalidDirectory, isError: true}
		return nil
	}

	req := usecase.Request{
		Root:    root,
		Pattern: strings.TrimSpace(m.inputs[patternField].Value()),
		Query:   m.inputs[queryField].Value(),
	}

	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	m.searchID++
	m.running = true
	m.outcome = nil
	m.err = nil
	m.status = ""
	m.progress = usecase.Progress{Stage: usecase.StageCollecting}

	events := make(chan tea.Msg, 8)
	go runSearch(ctx, m.searcher, m.searchID, req, events)

	return tea.Batch(m.spinner.Tick, listen(events))
}

// runSearch executes one search and streams its progress and result to events.
func runSearch(ctx context.Context, searcher Searcher, id int, req usecase.Request, events chan tea.Msg) {
	defer close(events)

	outcome, err := searcher.Search(ctx, req, func(p usecase.Progress) {
		select {
		case events <- searchProgressMsg{id: id, progress: p, events: events}:
		case <-ctx.Done():
		}
	})
	events <- searchDoneMsg{id: id, outcome: outcome, err: err}
}

func listen(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

func (m *Model) finishSearch(msg searchDoneMsg) {
	if msg.id != m.searchID {
		return
	}
	m.running = false
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	switch {
	case msg.err == nil:
		outcome := msg.outcome
		m.outcome = &outcome
	case errors.Is(msg.err, context.Canceled):
		m.status = msgCancelled
	case errors.Is(msg.err, domain.ErrInvalidDirectory):
		m.dialog = &dialog{title: "Error", body: msgInvalidDirectory, isError: true}
	default:
		m.logger.Error("search failed", zap.Error(msg.err))
		m.err = msg.err
	}
}

func (m *Model) canCopy() bool {
	return m.outcome != nil && m.outcome.Found()
}

func (m *Model) copyPath() {
	if !m.canCopy() {
		m.status = msgNothingToCopy
		return
	}
	if err := m.clipboard.Copy(m.outcome.Result.Path); err != nil {
		m.dialog = &dialog{title: "Error", body: err.Error(), isError: true}
		return
	}
	m.dialog = &dialog{title: "Copied", body: msgCopied}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.dialog != nil {
		return m.renderDialog()
	}
	if m.picker != nil {
		return m.picker.View()
	}

	sections := make([]string, 0, 12)
	sections = append(sections, m.styles.Title.Render(m.title))

	labels := [fieldCount]string{"Directory:", "File Pattern (e.g. txt, md):", "Search Query:"}
	for i, label := range labels {
		style := m.styles.Label
		if i == m.focus {
			style = m.styles.Focused
		}
		row := lipgloss.JoinHorizontal(lipgloss.Center,
			style.Render(label),
			m.styles.InputField.Render(m.inputs[i].View()),
		)
		sections = append(sections, row)
	}

	sections = append(sections, m.renderButtons(), m.styles.Result.Render(m.renderResult()))

	if m.status != "" {
		sections = append(sections, m.styles.Muted.Render(m.status))
	}

	sections = append(sections, "", m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderButtons() string {
	search := "[ Search ]"
	browse := "[ Browse ]"
	if m.running {
		search = m.styles.Disabled.Render(search)
		browse = m.styles.Disabled.Render(browse)
	}
	copyBtn := "[ Copy Path ]"
	if !m.canCopy() {
		copyBtn = m.styles.Disabled.Render(copyBtn)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, search, "  ", browse, "  ", copyBtn)
}

func (m *Model) renderResult() string {
	switch {
	case m.running:
		line := m.spinner.View() + " "
		switch m.progress.Stage {
		case usecase.StageCollecting:
			line += "Scanning files..."
		case usecase.StageLoadingModel:
			line += "Loading model (this may take a few seconds)..."
		case usecase.StageEmbedding:
			line += fmt.Sprintf("Embedding %d/%d files", m.progress.Done, m.progress.Total)
			if m.progress.Total > 0 {
				line += "\n" + m.bar.ViewAs(float64(m.progress.Done)/float64(m.progress.Total))
			}
		}
		return line
	case m.err != nil:
		return m.styles.Error.Render("Error: " + m.err.Error())
	case m.outcome != nil:
		text := m.outcome.Summary()
		if m.outcome.Skipped > 0 {
			text += "\n" + m.styles.Muted.Render(fmt.Sprintf("%d unreadable files skipped", m.outcome.Skipped))
		}
		if m.outcome.Found() {
			return m.styles.Success.Render(text)
		}
		return text
	default:
		return m.styles.Muted.Render("Result will appear here.")
	}
}

func (m *Model) renderDialog() string {
	title := m.styles.Title.Render(m.dialog.title)
	body := m.dialog.body
	if m.dialog.isError {
		body = m.styles.Error.Render(body)
	}
	hint := m.styles.Muted.Render("press enter to dismiss")
	return m.styles.Dialog.Render(lipgloss.JoinVertical(lipgloss.Left, title, body, "", hint))
}
