package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Schedule is the generated aggregate of dated tasks, ready for display or
// persistence.
type Schedule struct {
	ID          string // Placeholder until the store assigns a durable id
	ProjectID   string
	Name        string
	Description string
	Start       time.Time
	End         time.Time
	Tasks       []*ProjectedTask
	TemplateID  string
	Mode        Mode
}

// placeholderPrefix marks schedule ids that have not been persisted yet.
const placeholderPrefix = "local-"

// PlaceholderID returns a time-based schedule id used until persistence
// assigns a durable one.
func PlaceholderID() string {
	return fmt.Sprintf("%s%d", placeholderPrefix, time.Now().UnixNano())
}

// IsPlaceholderID reports whether an id is a pre-persistence placeholder.
func IsPlaceholderID(id string) bool {
	return strings.HasPrefix(id, placeholderPrefix)
}

// Assemble projects a template against an anchor date and wraps the result
// into a Schedule.
//
// The schedule's end is the end of the LAST task in template order, not the
// maximum end across tasks; consumers key off that date as-is. An empty
// template yields an empty task list with End == Start == anchor.
func Assemble(tpl *Template, anchor time.Time, projectName string, mode Mode) (*Schedule, []Warning, error) {
	tasks, warnings, err := Project(tpl, anchor, mode)
	if err != nil {
		return nil, warnings, err
	}

	end := anchor
	if len(tasks) > 0 {
		end = tasks[len(tasks)-1].End
	}

	return &Schedule{
		ID:          PlaceholderID(),
		Name:        fmt.Sprintf("%s - %s", projectName, tpl.Name),
		Description: tpl.Description,
		Start:       anchor,
		End:         end,
		Tasks:       tasks,
		TemplateID:  tpl.ID,
		Mode:        mode,
	}, warnings, nil
}

// Clone returns a deep copy of the schedule.
func (s *Schedule) Clone() *Schedule {
	if s == nil {
		return nil
	}

	cp := *s
	if s.Tasks != nil {
		cp.Tasks = make([]*ProjectedTask, len(s.Tasks))
		for i, t := range s.Tasks {
			cp.Tasks[i] = cloneProjectedTask(t)
		}
	}
	return &cp
}
