package schedule

import (
	"errors"
	"fmt"
	"time"
)

// Mode selects how projection treats dependency references: the office
// workflow honors them, the field workflow staggers tasks by position only.
type Mode int

const (
	// ModeDependencies starts each task no earlier than the latest candidate
	// end among its dependencies.
	ModeDependencies Mode = iota
	// ModePosition ignores dependencies and staggers every task by its
	// position in the template.
	ModePosition
)

// String returns the config/CLI spelling of a mode.
func (m Mode) String() string {
	if m == ModePosition {
		return "position"
	}
	return "dependencies"
}

// ParseMode converts a config/CLI spelling into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "dependencies", "":
		return ModeDependencies, nil
	case "position":
		return ModePosition, nil
	}
	return ModeDependencies, fmt.Errorf("unknown projection mode %q", s)
}

// ErrInvalidAnchor is returned when the caller passes a zero anchor date.
var ErrInvalidAnchor = errors.New("anchor date must be a non-zero calendar date")

// days converts a fractional day count to a duration on the day-granularity
// timeline (0.5 days = 12h).
func days(d float64) time.Duration {
	return time.Duration(d * 24 * float64(time.Hour))
}

// Project computes concrete start/end instants for every entry of a template
// against an anchor date, in template order.
//
// The date rules are position-based, not chained: a dependency's candidate end
// is recomputed as anchor + depIndex + depDuration rather than read from the
// dependency's already-projected end, and a task without dependencies starts at
// anchor + its own index. Downstream consumers round-trip against the dates
// these rules produce.
//
// Bad dependency references (negative, out of range, self, forward) never
// abort projection; they are skipped and reported as warnings. A zero anchor
// is a caller error and fails fast.
func Project(tpl *Template, anchor time.Time, mode Mode) ([]*ProjectedTask, []Warning, error) {
	if anchor.IsZero() {
		return nil, nil, ErrInvalidAnchor
	}

	tasks := make([]*ProjectedTask, 0, len(tpl.Tasks))
	var warnings []Warning

	for i, entry := range tpl.Tasks {
		start := anchor.Add(days(float64(i)))

		if mode == ModeDependencies && len(entry.DependsOn) > 0 {
			constrained := false
			var latest time.Time
			for _, dep := range entry.DependsOn {
				if bad := checkDepIndex(i, dep, len(tpl.Tasks)); bad != "" {
					warnings = append(warnings, Warning{TaskIndex: i, DepIndex: dep, Reason: bad})
					continue
				}
				candidate := anchor.Add(days(float64(dep) + tpl.Tasks[dep].DurationDays))
				if !constrained || candidate.After(latest) {
					latest = candidate
					constrained = true
				}
			}
			// When every reference was unusable the position fallback above stands.
			if constrained {
				start = latest
			}
		}

		tasks = append(tasks, &ProjectedTask{
			ID:           i + 1,
			Name:         entry.Name,
			Category:     entry.Category,
			Start:        start,
			End:          start.Add(days(entry.DurationDays)),
			DurationDays: entry.DurationDays,
			Progress:     0,
			Status:       StatusPlanned,
			DependsOn:    append([]int(nil), entry.DependsOn...),
		})
	}

	return tasks, warnings, nil
}
