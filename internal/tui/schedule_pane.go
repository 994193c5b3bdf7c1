package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verdant/landplan/internal/events"
	"github.com/verdant/landplan/internal/schedule"
)

// SchedulePaneModel shows the persisted schedules and a scrollable task
// detail view for the selected one.
type SchedulePaneModel struct {
	schedules   []*schedule.Schedule
	selectedIdx int
	viewport    viewport.Model
	width       int
	height      int
	focused     bool
}

// NewSchedulePaneModel creates a new schedule pane model.
func NewSchedulePaneModel() SchedulePaneModel {
	vp := viewport.New(0, 0)
	return SchedulePaneModel{viewport: vp}
}

// Update handles messages for the schedule pane.
func (m SchedulePaneModel) Update(msg tea.Msg) (SchedulePaneModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewport()

	case tea.KeyMsg:
		if !m.focused {
			break
		}

		switch msg.String() {
		case KeyJ, KeyDown:
			if m.selectedIdx < len(m.schedules)-1 {
				m.selectedIdx++
				m.updateViewportContent()
			}
		case KeyK, KeyUp:
			if m.selectedIdx > 0 {
				m.selectedIdx--
				m.updateViewportContent()
			}
		default:
			// Delegate other keys to viewport for scrolling
			m.viewport, cmd = m.viewport.Update(msg)
		}

	case events.TaskUpdatedEvent:
		for _, s := range m.schedules {
			if s.ID != msg.ID {
				continue
			}
			for _, task := range s.Tasks {
				if task.ID == msg.TaskID {
					task.Progress = msg.Progress
					task.Status = msg.Status
					task.AssignedTo = msg.AssignedTo
				}
			}
		}
		m.updateViewportContent()
	}

	return m, cmd
}

// SetSchedules replaces the schedule list, keeping the selection on the same
// schedule id where possible.
func (m *SchedulePaneModel) SetSchedules(schedules []*schedule.Schedule) {
	selectedID := ""
	if s := m.Selected(); s != nil {
		selectedID = s.ID
	}

	m.schedules = schedules
	m.selectedIdx = 0
	for i, s := range schedules {
		if s.ID == selectedID {
			m.selectedIdx = i
			break
		}
	}
	m.updateViewportContent()
}

// Selected returns the currently selected schedule, or nil.
func (m SchedulePaneModel) Selected() *schedule.Schedule {
	if m.selectedIdx >= 0 && m.selectedIdx < len(m.schedules) {
		return m.schedules[m.selectedIdx]
	}
	return nil
}

// View renders the schedule pane.
func (m SchedulePaneModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	listWidth := 30
	viewportWidth := m.width - listWidth - 4 // account for borders and padding

	listContent := m.renderScheduleList(listWidth)
	viewportContent := m.viewport.View()

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		listContent,
		lipgloss.NewStyle().
			Width(viewportWidth).
			Height(m.height-2).
			Render(viewportContent),
	)

	style := StyleUnfocusedBorder
	if m.focused {
		style = StyleFocusedBorder
	}

	return style.
		Width(m.width - 2).
		Height(m.height - 2).
		Render(content)
}

// renderScheduleList renders the schedule list column.
func (m SchedulePaneModel) renderScheduleList(width int) string {
	var b strings.Builder

	title := StyleTitle.Render("Schedules")
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", min(width, lipgloss.Width(title))))
	b.WriteString("\n\n")

	if len(m.schedules) == 0 {
		b.WriteString(StyleStatusPlanned.Render("No schedules yet"))
	} else {
		for i, s := range m.schedules {
			name := s.Name
			if len(name) > width-4 {
				name = name[:width-7] + "..."
			}

			line := fmt.Sprintf("%s %s", scheduleIcon(s), name)
			if i == m.selectedIdx {
				line = lipgloss.NewStyle().
					Background(lipgloss.Color("62")).
					Foreground(lipgloss.Color("0")).
					Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
			b.WriteString(StyleHelp.Render(fmt.Sprintf("  %s → %s",
				schedule.DateString(s.Start), schedule.DateStringCeil(s.End))))
			b.WriteString("\n")
		}
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(m.height - 2).
		Render(b.String())
}

// scheduleIcon summarizes a schedule's task statuses as one indicator.
func scheduleIcon(s *schedule.Schedule) string {
	done := 0
	for _, t := range s.Tasks {
		switch t.Status {
		case schedule.StatusDelayed:
			return StyleStatusDelayed.Render("!")
		case schedule.StatusCompleted:
			done++
		}
	}
	if len(s.Tasks) > 0 && done == len(s.Tasks) {
		return StyleStatusCompleted.Render("✓")
	}
	if done > 0 {
		return StyleStatusInProgress.Render("●")
	}
	return StyleStatusPlanned.Render("○")
}

// updateViewportContent updates the viewport with the selected schedule's tasks.
func (m *SchedulePaneModel) updateViewportContent() {
	s := m.Selected()
	if s == nil {
		m.viewport.SetContent("No schedule selected")
		return
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render(s.Name))
	b.WriteString("\n")
	b.WriteString(StyleHelp.Render(fmt.Sprintf("mode: %s  template: %s", s.Mode, s.TemplateID)))
	b.WriteString("\n\n")

	for _, task := range s.Tasks {
		b.WriteString(fmt.Sprintf("%s %-28s %s → %s  %3d%%",
			StatusIcon(task.Status),
			task.Name,
			schedule.DateString(task.Start),
			schedule.DateStringCeil(task.End),
			task.Progress,
		))
		if task.AssignedTo != "" {
			b.WriteString("  " + task.AssignedTo)
		}
		b.WriteString("\n")
	}

	m.viewport.SetContent(b.String())
}

// resizeViewport resizes the viewport based on pane dimensions.
func (m *SchedulePaneModel) resizeViewport() {
	listWidth := 30
	viewportWidth := m.width - listWidth - 4
	viewportHeight := m.height - 4 // account for borders

	if viewportWidth < 10 {
		viewportWidth = 10
	}
	if viewportHeight < 5 {
		viewportHeight = 5
	}

	m.viewport.Width = viewportWidth
	m.viewport.Height = viewportHeight
}

// SetSize updates the pane dimensions.
func (m *SchedulePaneModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.resizeViewport()
}

// SetFocused updates the focus state.
func (m *SchedulePaneModel) SetFocused(focused bool) {
	m.focused = focused
}
