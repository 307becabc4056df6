package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/snowrun/internal/storage"
)

// maxNameLen bounds the player name shown in the leaderboard.
const maxNameLen = 16

// NameModel is the Bubble Tea model for entering the player name.
type NameModel struct {
	input textinput.Model
	prefs storage.Prefs
	width int
	done  bool
	saved bool
	err   error
}

// NewNameModel creates a name entry prefilled with the stored name.
func NewNameModel(prefs storage.Prefs, width int) NameModel {
	if prefs == nil {
		prefs = storage.NewMemPrefs()
	}
	current, _ := prefs.GetString(storage.KeyPlayerName, "Player")

	ti := textinput.New()
	ti.Placeholder = "Player"
	ti.CharLimit = maxNameLen
	ti.Width = maxNameLen + 1
	ti.SetValue(current)
	ti.Focus()

	return NameModel{input: ti, prefs: prefs, width: width}
}

// Init starts the cursor blink.
func (m NameModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the name entry.
func (m NameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			m.err = SavePlayerName(m.prefs, m.input.Value())
			m.saved = m.err == nil
			m.done = true
			return m, tea.Quit
		case "esc", "ctrl+c":
			m.done = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the name entry.
func (m NameModel) View() string {
	if m.done {
		return ""
	}
	title := lipgloss.NewStyle().Bold(true).Render("Rider name")
	hint := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("Enter: save  |  Esc: cancel")

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerStyled(title, m.width))
	b.WriteString("\n\n")
	b.WriteString(centerStyled(m.input.View(), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerStyled(hint, m.width))
	b.WriteString("\n")
	return b.String()
}

// Done reports whether the entry was confirmed or cancelled.
func (m NameModel) Done() bool {
	return m.done
}

// Saved reports whether a new name was stored.
func (m NameModel) Saved() bool {
	return m.saved
}

// Err returns the error from saving, if any.
func (m NameModel) Err() error {
	return m.err
}

// SavePlayerName trims name and stores it, keeping the old name when the
// result is empty.
func SavePlayerName(prefs storage.Prefs, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	if r := []rune(name); len(r) > maxNameLen {
		name = string(r[:maxNameLen])
	}
	return prefs.SetString(storage.KeyPlayerName, name)
}

// RunNameEntry runs the name entry screen.
func RunNameEntry(prefs storage.Prefs, width int) (bool, error) {
	p := tea.NewProgram(NewNameModel(prefs, width), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(NameModel)
	if !ok {
		return false, nil
	}
	return m.Saved(), m.Err()
}
