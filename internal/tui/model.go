package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verdant/landplan/internal/config"
	"github.com/verdant/landplan/internal/events"
	"github.com/verdant/landplan/internal/persistence"
	"github.com/verdant/landplan/internal/schedule"
)

// PaneID identifies which pane is focused.
type PaneID int

const (
	PaneSchedules PaneID = iota
	PaneGantt
)

// schedulesLoadedMsg carries the result of an async store read.
type schedulesLoadedMsg struct {
	schedules []*schedule.Schedule
	err       error
}

// Model is the root Bubble Tea model for the TUI.
type Model struct {
	schedulePane      SchedulePaneModel
	ganttPane         GanttPaneModel
	settingsPane      SettingsPaneModel
	focusedPane       PaneID
	eventSub          <-chan events.Event
	store             persistence.Store
	width             int
	height            int
	quitting          bool
	showSettings      bool
	statusLine        string
	config            *config.Config
	globalConfigPath  string
	projectConfigPath string
}

// New creates a new TUI model.
// It subscribes to all events from the event bus using SubscribeAll.
func New(eventBus *events.EventBus, store persistence.Store, cfg *config.Config, globalPath, projectPath string) Model {
	return Model{
		schedulePane:      NewSchedulePaneModel(),
		ganttPane:         NewGanttPaneModel(),
		settingsPane:      NewSettingsPaneModel(cfg, globalPath, projectPath),
		focusedPane:       PaneSchedules,
		eventSub:          eventBus.SubscribeAll(256),
		store:             store,
		showSettings:      false,
		config:            cfg,
		globalConfigPath:  globalPath,
		projectConfigPath: projectPath,
	}
}

// Init initializes the model and returns the initial command.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.eventSub), loadSchedules(m.store))
}

// waitForEvent returns a command that waits for the next event from the event bus.
func waitForEvent(sub <-chan events.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-sub
		if !ok {
			return nil // bus closed
		}
		return event
	}
}

// loadSchedules returns a command that reads all schedules from the store.
func loadSchedules(store persistence.Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		schedules, err := store.ListSchedules(ctx)
		return schedulesLoadedMsg{schedules: schedules, err: err}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// If settings panel is open, route all keys to it (modal behavior)
		if m.showSettings {
			switch msg.String() {
			case KeySettings, "esc":
				m.showSettings = false
				m.settingsPane.SetVisible(false)
			default:
				var cmd tea.Cmd
				m.settingsPane, cmd = m.settingsPane.Update(msg)
				cmds = append(cmds, cmd)

				// Check if settings pane closed itself (after save)
				if !m.settingsPane.IsVisible() {
					m.showSettings = false
				}
			}
			return m, tea.Batch(cmds...)
		}

		switch msg.String() {
		case KeyQuit, KeyCtrlC:
			m.quitting = true
			return m, tea.Quit

		case KeySettings:
			m.showSettings = true
			m.settingsPane.SetVisible(true)
			cmds = append(cmds, m.settingsPane.Init())

		case KeyReload:
			cmds = append(cmds, loadSchedules(m.store))

		case KeyTab:
			m.focusedPane = (m.focusedPane + 1) % 2
			m.updateFocusStates()

		case KeyShiftTab:
			m.focusedPane = (m.focusedPane + 1) % 2
			m.updateFocusStates()

		case KeyPane1:
			m.focusedPane = PaneSchedules
			m.updateFocusStates()

		case KeyPane2:
			m.focusedPane = PaneGantt
			m.updateFocusStates()

		default:
			// Delegate to focused pane
			switch m.focusedPane {
			case PaneSchedules:
				var cmd tea.Cmd
				m.schedulePane, cmd = m.schedulePane.Update(msg)
				cmds = append(cmds, cmd)
				// Selection may have moved
				m.ganttPane.SetSchedule(m.schedulePane.Selected())
			case PaneGantt:
				var cmd tea.Cmd
				m.ganttPane, cmd = m.ganttPane.Update(msg)
				cmds = append(cmds, cmd)
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.computeLayout()
		m.settingsPane.SetSize(msg.Width, msg.Height)

	case schedulesLoadedMsg:
		if msg.err != nil {
			m.statusLine = fmt.Sprintf("load failed: %v", msg.err)
		} else {
			m.schedulePane.SetSchedules(msg.schedules)
			m.ganttPane.SetSchedule(m.schedulePane.Selected())
		}

	case events.ScheduleGeneratedEvent:
		m.statusLine = fmt.Sprintf("generated %s (%d tasks)", msg.Name, msg.TaskCount)
		cmds = append(cmds, loadSchedules(m.store))
		cmds = append(cmds, waitForEvent(m.eventSub))

	case events.GenerationFailedEvent:
		m.statusLine = fmt.Sprintf("generation failed: %v", msg.Err)
		cmds = append(cmds, waitForEvent(m.eventSub))

	case events.TemplateWarningEvent:
		m.statusLine = fmt.Sprintf("template %s: task %d dep %d: %s",
			msg.TemplateID, msg.Warning.TaskIndex, msg.Warning.DepIndex, msg.Warning.Reason)
		cmds = append(cmds, waitForEvent(m.eventSub))

	case events.TaskUpdatedEvent:
		var cmd tea.Cmd
		m.schedulePane, cmd = m.schedulePane.Update(msg)
		cmds = append(cmds, cmd)
		m.ganttPane.SetSchedule(m.schedulePane.Selected())
		cmds = append(cmds, waitForEvent(m.eventSub))

	case events.ScheduleProgressEvent:
		var cmd tea.Cmd
		m.ganttPane, cmd = m.ganttPane.Update(msg)
		cmds = append(cmds, cmd)
		cmds = append(cmds, waitForEvent(m.eventSub))
	}

	return m, tea.Batch(cmds...)
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	// If settings panel is visible, render it full-screen
	if m.showSettings {
		return m.settingsPane.View()
	}

	left := m.schedulePane.View()
	right := m.ganttPane.View()

	mainContent := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	bottom := HelpView()
	if m.statusLine != "" {
		bottom = lipgloss.JoinHorizontal(lipgloss.Top, bottom, StyleHelp.Render("  |  "+m.statusLine))
	}

	return lipgloss.JoinVertical(lipgloss.Left, mainContent, bottom)
}

// computeLayout calculates pane dimensions and updates all child models.
func (m *Model) computeLayout() {
	leftWidth := (m.width * 45) / 100
	rightWidth := m.width - leftWidth
	availableHeight := m.height - 1 // reserve 1 line for help bar

	m.schedulePane.SetSize(leftWidth, availableHeight)
	m.ganttPane.SetSize(rightWidth, availableHeight)

	m.updateFocusStates()
}

// updateFocusStates updates the focus state of all panes.
func (m *Model) updateFocusStates() {
	m.schedulePane.SetFocused(m.focusedPane == PaneSchedules)
	m.ganttPane.SetFocused(m.focusedPane == PaneGantt)
}
