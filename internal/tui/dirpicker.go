package tui

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const pickerHeight = 12

type pickerKeys struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Parent key.Binding
	Choose key.Binding
	Cancel key.Binding
}

func defaultPickerKeys() pickerKeys {
	return pickerKeys{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:   key.NewBinding(key.WithKeys("enter", "right", "l"), key.WithHelp("enter", "open")),
		Parent: key.NewBinding(key.WithKeys("backspace", "left", "h"), key.WithHelp("backspace", "parent")),
		Choose: key.NewBinding(key.WithKeys(" ", "ctrl+s"), key.WithHelp("space", "select this directory")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// DirPicker browses the filesystem one directory at a time and lists only subdirectories.
type DirPicker struct {
	styles   *Styles
	keys     pickerKeys
	current  string
	entries  []string
	selected int
	offset   int
	err      error
}

// NewDirPicker opens a picker at start. Falls back to the working directory when start is not a directory.
func NewDirPicker(start string, styles *Styles) *DirPicker {
	if styles == nil {
		styles = DefaultStyles()
	}
	if info, err := os.Stat(start); err != nil || !info.IsDir() {
		start, _ = os.Getwd()
	}
	if abs, err := filepath.Abs(start); err == nil {
		start = abs
	}
	p := &DirPicker{styles: styles, keys: defaultPickerKeys()}
	p.chdir(start)
	return p
}

// Current returns the directory being shown.
func (p *DirPicker) Current() string { return p.current }

// Entries returns the subdirectory names of the current directory.
func (p *DirPicker) Entries() []string { return p.entries }

func (p *DirPicker) chdir(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		p.err = err
		return
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	p.current = dir
	p.entries = names
	p.selected = 0
	p.offset = 0
	p.err = nil
}

func pickerChosen(path string) tea.Cmd {
	return func() tea.Msg { return dirChosenMsg{path: path} }
}

func pickerCancelled() tea.Msg { return dirCancelledMsg{} }

// Update handles navigation keys. Selecting or cancelling is reported as a message.
func (p *DirPicker) Update(msg tea.Msg) (*DirPicker, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch {
	case key.Matches(keyMsg, p.keys.Cancel):
		return p, pickerCancelled
	case key.Matches(keyMsg, p.keys.Choose):
		return p, pickerChosen(p.current)
	case key.Matches(keyMsg, p.keys.Up):
		if p.selected > 0 {
			p.selected--
		}
	case key.Matches(keyMsg, p.keys.Down):
		if p.selected < len(p.entries)-1 {
			p.selected++
		}
	case key.Matches(keyMsg, p.keys.Open):
		if len(p.entries) > 0 {
			p.chdir(filepath.Join(p.current, p.entries[p.selected]))
		}
	case key.Matches(keyMsg, p.keys.Parent):
		parent := filepath.Dir(p.current)
		if parent != p.current {
			p.chdir(parent)
		}
	}

	if p.selected < p.offset {
		p.offset = p.selected
	}
	if p.selected >= p.offset+pickerHeight {
		p.offset = p.selected - pickerHeight + 1
	}
	return p, nil
}

// View renders the current directory and its visible subdirectories.
func (p *DirPicker) View() string {
	var b strings.Builder

	b.WriteString(p.styles.Title.Render("Select a directory"))
	b.WriteString("\n")
	b.WriteString(p.current)
	b.WriteString("\n\n")

	if p.err != nil {
		b.WriteString(p.styles.Error.Render(p.err.Error()))
		b.WriteString("\n")
	}

	if len(p.entries) == 0 {
		b.WriteString(p.styles.Muted.Render("  (no subdirectories)"))
		b.WriteString("\n")
	}

	end := p.offset + pickerHeight
	if end > len(p.entries) {
		end = len(p.entries)
	}
	for i := p.offset; i < end; i++ {
		name := p.entries[i] + string(filepath.Separator)
		if i == p.selected {
			b.WriteString(p.styles.Selected.Render("> " + name))
		} else {
			b.WriteString("  " + name)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(p.styles.Muted.Render("enter open • backspace parent • space select • esc cancel"))
	return b.String()
}
