package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/verdant/landplan/internal/catalog"
	"github.com/verdant/landplan/internal/schedule"
)

// Border styles
var (
	StyleFocusedBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62"))

	StyleUnfocusedBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240"))
)

// Status styles
var (
	StyleStatusInProgress = lipgloss.NewStyle().
				Foreground(lipgloss.Color("yellow")).
				Bold(true)

	StyleStatusCompleted = lipgloss.NewStyle().
				Foreground(lipgloss.Color("green")).
				Bold(true)

	StyleStatusDelayed = lipgloss.NewStyle().
				Foreground(lipgloss.Color("red")).
				Bold(true)

	StyleStatusPlanned = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	StyleStatusCancelled = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				Strikethrough(true)
)

// UI element styles
var (
	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	StyleHelp = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// categoryColors maps task categories to timeline bar colors.
var categoryColors = map[string]lipgloss.Color{
	catalog.CategorySurvey:    lipgloss.Color("6"),   // cyan
	catalog.CategoryEarthwork: lipgloss.Color("130"), // brown
	catalog.CategoryPlanting:  lipgloss.Color("34"),  // green
	catalog.CategoryPaving:    lipgloss.Color("245"), // gray
	catalog.CategoryFacility:  lipgloss.Color("63"),  // violet
	catalog.CategoryFinishing: lipgloss.Color("170"), // magenta
}

// CategoryStyle returns the bar style for a task category.
// Unknown categories fall back to a neutral color.
func CategoryStyle(category string) lipgloss.Style {
	color, ok := categoryColors[category]
	if !ok {
		color = lipgloss.Color("250")
	}
	return lipgloss.NewStyle().Foreground(color)
}

// StatusStyle returns the style for a task status.
func StatusStyle(status schedule.TaskStatus) lipgloss.Style {
	switch status {
	case schedule.StatusInProgress:
		return StyleStatusInProgress
	case schedule.StatusCompleted:
		return StyleStatusCompleted
	case schedule.StatusDelayed:
		return StyleStatusDelayed
	case schedule.StatusCancelled:
		return StyleStatusCancelled
	default:
		return StyleStatusPlanned
	}
}

// StatusIcon returns a styled one-character status indicator.
func StatusIcon(status schedule.TaskStatus) string {
	switch status {
	case schedule.StatusInProgress:
		return StyleStatusInProgress.Render("●")
	case schedule.StatusCompleted:
		return StyleStatusCompleted.Render("✓")
	case schedule.StatusDelayed:
		return StyleStatusDelayed.Render("!")
	case schedule.StatusCancelled:
		return StyleStatusCancelled.Render("✗")
	default:
		return StyleStatusPlanned.Render("○")
	}
}
