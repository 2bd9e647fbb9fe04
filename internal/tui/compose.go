// Package tui holds the terminal composer used by `auto-linkedin post --interactive`.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// MaxCommentaryLength is LinkedIn's limit for share commentary.
const MaxCommentaryLength = 3000

// counterWarnAt is how close to the limit the counter turns red.
const counterWarnAt = 100

// ErrAborted is returned by RunComposer when the user leaves without posting.
var ErrAborted = errors.New("post composition aborted")

// ComposeModel is a textarea for writing a post.
type ComposeModel struct {
	textarea  textarea.Model
	status    string
	width     int
	submitted bool
	aborted   bool
}

// NewComposeModel creates a focused composer prefilled with initial.
func NewComposeModel(initial string) ComposeModel {
	ta := textarea.New()
	ta.Placeholder = "What do you want to talk about?"
	ta.CharLimit = MaxCommentaryLength
	ta.ShowLineNumbers = false
	ta.SetWidth(72)
	ta.SetHeight(10)
	ta.SetValue(initial)
	ta.Focus()

	return ComposeModel{textarea: ta}
}

// Init starts the cursor blink.
func (m ComposeModel) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles key presses and resizes.
func (m ComposeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		case tea.KeyCtrlS:
			if strings.TrimSpace(m.textarea.Value()) == "" {
				m.status = "Post cannot be empty"
				return m, nil
			}
			m.submitted = true
			return m, tea.Quit
		}
		m.status = ""

	case tea.WindowSizeMsg:
		h, _ := docStyle.GetFrameSize()
		m.width = msg.Width - h
		if m.width > 0 {
			m.textarea.SetWidth(m.width)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// View renders the composer.
func (m ComposeModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("New LinkedIn post"))
	b.WriteString("\n\n")
	b.WriteString(m.textarea.View())
	b.WriteString("\n")
	b.WriteString(m.counter())
	if m.status != "" {
		b.WriteString("  ")
		b.WriteString(statusMessageStyle(m.status))
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle("ctrl+s publish • esc cancel"))
	return docStyle.Render(b.String())
}

func (m ComposeModel) counter() string {
	n := m.Length()
	text := fmt.Sprintf("%d/%d", n, MaxCommentaryLength)
	if MaxCommentaryLength-n <= counterWarnAt {
		return counterWarnStyle.Render(text)
	}
	return counterStyle.Render(text)
}

// Content returns the text as typed.
func (m ComposeModel) Content() string {
	return m.textarea.Value()
}

// Length is the number of characters typed.
func (m ComposeModel) Length() int {
	return utf8.RuneCountInString(m.textarea.Value())
}

// Submitted reports whether the user pressed ctrl+s on non-empty content.
func (m ComposeModel) Submitted() bool {
	return m.submitted
}

// Aborted reports whether the user left with esc or ctrl+c.
func (m ComposeModel) Aborted() bool {
	return m.aborted
}

// RunComposer shows the composer and returns the submitted text.
func RunComposer(initial string, opts ...tea.ProgramOption) (string, error) {
	final, err := tea.NewProgram(NewComposeModel(initial), opts...).Run()
	if err != nil {
		return "", fmt.Errorf("composer failed: %w", err)
	}

	m, ok := final.(ComposeModel)
	if !ok || !m.Submitted() {
		return "", ErrAborted
	}
	return m.Content(), nil
}
