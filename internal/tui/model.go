// Package tui renders the weather widget in a terminal with Bubble Tea.
// Mouse motion over the card drives the hover highlight.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/i474232898/weather-widget/internal/widget"
)

var (
	borderHovered = lipgloss.Color("#000000")
	borderIdle    = lipgloss.Color("#FFFFFF")

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2).
			Align(lipgloss.Center)

	buttonStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#3B82F6"))

	disabledButtonStyle = buttonStyle.Copy().Background(lipgloss.Color("#93C5FD"))

	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#111827"))
	descriptionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	lineStyle        = lipgloss.NewStyle().Align(lipgloss.Left)
	helpStyle        = lipgloss.NewStyle().Faint(true)
)

// settledMsg is delivered when a submitted search has been applied.
type settledMsg struct{}

// Model is the Bubble Tea model wrapping one widget instance.
type Model struct {
	ctx    context.Context
	widget *widget.Widget
	clock  widget.Clock
	input  textinput.Model
}

// New builds a model around w. Searches run under ctx.
func New(ctx context.Context, w *widget.Widget, clock widget.Clock) Model {
	if clock == nil {
		clock = widget.RealClock{}
	}

	ti := textinput.New()
	ti.Placeholder = widget.Placeholder
	ti.CharLimit = 156
	ti.Width = 30
	ti.Focus()

	return Model{
		ctx:    ctx,
		widget: w,
		clock:  clock,
		input:  ti,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			// The submit button is disabled while loading.
			if m.widget.State().IsLoading {
				return m, nil
			}
			return m, waitFor(m.widget.SubmitSearch(m.ctx, m.input.Value()))
		case tea.KeyCtrlR:
			m.widget.ResetSearch()
			m.input.Reset()
			return m, nil
		}

	case tea.MouseMsg:
		card := m.card()
		inside := msg.X >= 0 && msg.Y >= 0 &&
			msg.X < lipgloss.Width(card) && msg.Y < lipgloss.Height(card)
		if inside != m.widget.State().IsHovered {
			m.widget.SetHovered(inside)
		}
		return m, nil

	case settledMsg:
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.widget.SetQuery(m.input.Value())
	return m, cmd
}

func (m Model) View() string {
	return m.card() + "\n" + helpStyle.Render("enter: search • ctrl+r: reset • esc: quit") + "\n"
}

func (m Model) card() string {
	v := widget.Render(m.widget.State(), m.clock.Now())

	button := buttonStyle
	if v.Form.SubmitDisabled {
		button = disabledButtonStyle
	}

	rows := []string{
		titleStyle.Render(v.Title),
		descriptionStyle.Render(v.Description),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center, m.input.View(), " ", button.Render(v.Form.SubmitLabel)),
		"",
		buttonStyle.Render(v.ResetLabel),
	}

	if v.Error != "" {
		rows = append(rows, "", errorStyle.Render(v.Error))
	}
	if v.Result != nil {
		lines := make([]string, 0, len(v.Result.Lines))
		for _, l := range v.Result.Lines {
			lines = append(lines, l.Icon.Glyph()+" "+l.Text)
		}
		rows = append(rows, "", lineStyle.Render(strings.Join(lines, "\n")))
	}

	border := borderIdle
	if v.Highlighted {
		border = borderHovered
	}
	return cardStyle.Copy().BorderForeground(border).Render(lipgloss.JoinVertical(lipgloss.Center, rows...))
}

func waitFor(done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-done
		return settledMsg{}
	}
}
