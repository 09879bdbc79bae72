package tui

import (
	"bytes"
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/eugenenazirov/pallet-planner/internal/presentation"
	"github.com/eugenenazirov/pallet-planner/internal/render"
)

// Model is the bubbletea model for browsing a session's ranking. Moving the
// cursor only changes the session's selection; the ranking is never recomputed.
type Model struct {
	session *presentation.Session
	view    presentation.View
	err     error
}

// NewModel creates a model over an already computed session.
func NewModel(session *presentation.Session) Model {
	return Model{session: session, view: session.View()}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "home", "g":
		m.move(-m.view.Selected)
	}
	return m, nil
}

func (m *Model) move(delta int) {
	next := m.view.Selected + delta
	if next < 0 || next >= len(m.view.Results) || delta == 0 {
		return
	}
	view, err := m.session.Select(next)
	if err != nil {
		m.err = err
		return
	}
	m.view = view
	m.err = nil
}

// Selected returns the index of the highlighted result.
func (m Model) Selected() int {
	return m.view.Selected
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(Report(m.view, TopView(m.session)))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(styleError.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(styleDim.Render("up/down navigate  q quit"))
	b.WriteString("\n")
	return b.String()
}

// TopView renders the session's selected result as text. An empty ranking
// yields an empty string; a layout too dense to draw yields its caption.
func TopView(session *presentation.Session) string {
	var buf bytes.Buffer
	err := session.Render(context.Background(), render.KindText, &buf)
	if errors.Is(err, render.ErrTooManyBoxes) {
		if layout, lerr := session.Layout(); lerr == nil {
			return styleWarning.Render("too many boxes to draw") + "\n" + layout.Caption() + "\n"
		}
	}
	if err != nil {
		return ""
	}
	return buf.String()
}
