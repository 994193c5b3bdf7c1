package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verdant/landplan/internal/events"
	"github.com/verdant/landplan/internal/schedule"
)

const ganttNameWidth = 22

// GanttPaneModel renders the selected schedule as a per-task timeline.
// Each bar is positioned by its day offset from the schedule start and
// colored by task category.
type GanttPaneModel struct {
	sched      *schedule.Schedule
	total      int
	planned    int
	inProgress int
	completed  int
	delayed    int
	width      int
	height     int
	focused    bool
}

// NewGanttPaneModel creates a new Gantt pane model.
func NewGanttPaneModel() GanttPaneModel {
	return GanttPaneModel{}
}

// Update handles messages for the Gantt pane.
func (m GanttPaneModel) Update(msg tea.Msg) (GanttPaneModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case events.ScheduleProgressEvent:
		if m.sched != nil && m.sched.ID == msg.ID {
			m.total = msg.Total
			m.planned = msg.Planned
			m.inProgress = msg.InProgress
			m.completed = msg.Completed
			m.delayed = msg.Delayed
		}
	}

	return m, nil
}

// SetSchedule switches the pane to a different schedule.
func (m *GanttPaneModel) SetSchedule(s *schedule.Schedule) {
	m.sched = s
	m.total, m.planned, m.inProgress, m.completed, m.delayed = 0, 0, 0, 0, 0
	if s == nil {
		return
	}
	ev := events.Progress(s)
	m.total = ev.Total
	m.planned = ev.Planned
	m.inProgress = ev.InProgress
	m.completed = ev.Completed
	m.delayed = ev.Delayed
}

// View renders the Gantt pane.
func (m GanttPaneModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var b strings.Builder

	title := StyleTitle.Render("Timeline")
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", lipgloss.Width(title)))
	b.WriteString("\n\n")

	if m.sched == nil || len(m.sched.Tasks) == 0 {
		b.WriteString(StyleStatusPlanned.Render("No schedule selected"))
	} else {
		b.WriteString(StyleHelp.Render(fmt.Sprintf("%s → %s",
			schedule.DateString(m.sched.Start), schedule.DateStringCeil(m.sched.End))))
		b.WriteString("\n\n")

		barArea := m.width - ganttNameWidth - 8
		if barArea < 10 {
			barArea = 10
		}

		for _, task := range m.sched.Tasks {
			b.WriteString(m.renderBar(task, barArea))
			b.WriteString("\n")
		}

		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("Done: %s  Active: %s  Delayed: %s  Planned: %s\n",
			StyleStatusCompleted.Render(fmt.Sprintf("%d", m.completed)),
			StyleStatusInProgress.Render(fmt.Sprintf("%d", m.inProgress)),
			StyleStatusDelayed.Render(fmt.Sprintf("%d", m.delayed)),
			StyleStatusPlanned.Render(fmt.Sprintf("%d", m.planned)),
		))

		if m.total > 0 {
			barWidth := min(m.width-4, 40)
			completedWidth := (m.completed * barWidth) / m.total
			delayedWidth := (m.delayed * barWidth) / m.total
			activeWidth := (m.inProgress * barWidth) / m.total
			pendingWidth := barWidth - completedWidth - delayedWidth - activeWidth

			bar := StyleStatusCompleted.Render(strings.Repeat("=", max(0, completedWidth)))
			bar += StyleStatusDelayed.Render(strings.Repeat("!", max(0, delayedWidth)))
			bar += StyleStatusInProgress.Render(strings.Repeat("-", max(0, activeWidth)))
			bar += StyleStatusPlanned.Render(strings.Repeat(".", max(0, pendingWidth)))

			b.WriteString(fmt.Sprintf("[%s]  %d/%d\n", bar, m.completed, m.total))
		}
	}

	content := b.String()

	style := StyleUnfocusedBorder
	if m.focused {
		style = StyleFocusedBorder
	}

	return style.
		Width(m.width - 2).
		Height(m.height - 2).
		Render(content)
}

// renderBar renders one task row: name, offset-positioned bar, progress.
func (m GanttPaneModel) renderBar(task *schedule.ProjectedTask, barArea int) string {
	name := task.Name
	if len(name) > ganttNameWidth-2 {
		name = name[:ganttNameWidth-5] + "..."
	}

	totalDays := schedule.DayOffset(m.sched.Start, m.sched.End)
	if totalDays <= 0 {
		totalDays = 1
	}
	perDay := float64(barArea) / totalDays

	offset := int(schedule.DayOffset(m.sched.Start, task.Start) * perDay)
	length := int(task.DurationDays * perDay)
	if length < 1 {
		length = 1
	}
	if offset > barArea {
		offset = barArea
	}
	if offset+length > barArea {
		length = barArea - offset
		if length < 1 {
			length = 1
		}
	}

	bar := strings.Repeat(" ", offset) + CategoryStyle(task.Category).Render(strings.Repeat("█", length))

	return fmt.Sprintf("%s %-*s %s %3d%%", StatusIcon(task.Status), ganttNameWidth-2, name, bar, task.Progress)
}

// SetSize updates the pane dimensions.
func (m *GanttPaneModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetFocused updates the focus state.
func (m *GanttPaneModel) SetFocused(focused bool) {
	m.focused = focused
}
