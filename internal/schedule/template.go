package schedule

import (
	"fmt"

	"github.com/gammazero/toposort"
)

// TemplateTask is one entry in a process template: a named unit of work with a
// duration and zero or more dependencies on earlier entries in the same template.
type TemplateTask struct {
	Name         string  `json:"name"`
	DurationDays float64 `json:"duration_days"`          // Fractional days allowed (0.5 = half day)
	Category     string  `json:"category"`               // Display tag; no effect on projection
	DependsOn    []int   `json:"depends_on,omitempty"`   // Zero-based indices of earlier entries
}

// Template is a fixed, named catalog entry describing an ordered sequence of
// task definitions. Templates are static configuration, not user-created data.
type Template struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Tasks       []TemplateTask `json:"tasks"`
}

// Warning describes a non-fatal template configuration problem found during
// validation or projection. Bad dependency references never abort generation;
// they are skipped and reported.
type Warning struct {
	TaskIndex int    // Index of the entry carrying the bad reference
	DepIndex  int    // The offending dependency index (-1 when not index-specific)
	Reason    string
}

func (w Warning) String() string {
	return fmt.Sprintf("template task %d: %s", w.TaskIndex, w.Reason)
}

// Validate checks a template's dependency references and returns the
// topological task order along with warnings for every bad reference.
// A dependency must point at an earlier entry in the template; self, forward,
// negative, and out-of-range references are reported but never fatal.
func (t *Template) Validate() ([]int, []Warning) {
	var warnings []Warning

	// Build edges from the references that are structurally sound.
	var edges []toposort.Edge
	for i, task := range t.Tasks {
		valid := 0
		for _, dep := range task.DependsOn {
			if bad := checkDepIndex(i, dep, len(t.Tasks)); bad != "" {
				warnings = append(warnings, Warning{TaskIndex: i, DepIndex: dep, Reason: bad})
				continue
			}
			edges = append(edges, toposort.Edge{dep, i})
			valid++
		}
		if valid == 0 {
			// Entry with no usable dependencies - edge from nil so the sort still includes it
			edges = append(edges, toposort.Edge{nil, i})
		}
	}

	sorted, err := toposort.Toposort(edges)
	if err != nil {
		// Unreachable while every edge points backwards, kept as a guard
		warnings = append(warnings, Warning{TaskIndex: -1, DepIndex: -1, Reason: fmt.Sprintf("dependency cycle: %v", err)})
		order := make([]int, len(t.Tasks))
		for i := range order {
			order[i] = i
		}
		return order, warnings
	}

	order := make([]int, 0, len(t.Tasks))
	for _, v := range sorted {
		if v != nil {
			order = append(order, v.(int))
		}
	}
	return order, warnings
}

// checkDepIndex returns a non-empty reason when a dependency reference cannot
// constrain entry i.
func checkDepIndex(i, dep, n int) string {
	switch {
	case dep < 0:
		return fmt.Sprintf("negative dependency index %d", dep)
	case dep >= n:
		return fmt.Sprintf("dependency index %d out of range (%d tasks)", dep, n)
	case dep == i:
		return "task depends on itself"
	case dep > i:
		return fmt.Sprintf("forward dependency on later task %d", dep)
	}
	return ""
}
