package schedule

import "time"

// TaskStatus represents the current state of a projected task.
type TaskStatus int

const (
	StatusPlanned    TaskStatus = iota // Not yet started
	StatusInProgress                   // Work underway
	StatusCompleted                    // Finished
	StatusDelayed                      // Behind plan
	StatusCancelled                    // Will not be done
)

// String returns the display label for a status.
func (s TaskStatus) String() string {
	switch s {
	case StatusPlanned:
		return "planned"
	case StatusInProgress:
		return "in_progress"
	case StatusCompleted:
		return "completed"
	case StatusDelayed:
		return "delayed"
	case StatusCancelled:
		return "cancelled"
	}
	return "unknown"
}

// ProjectedTask is one dated task produced by projecting a template entry.
// Start and End carry fractional-day instants (a 0.5-day duration is 12 hours);
// rounding to whole calendar days happens only at serialization time.
type ProjectedTask struct {
	ID           int       // 1-based position in template order
	Name         string    // Copied from the template entry
	Category     string    // Display tag, keys into the renderer's color table
	Start        time.Time
	End          time.Time
	DurationDays float64
	Progress     int        // 0-100
	Status       TaskStatus
	DependsOn    []int      // Template indices, copied verbatim for downstream display
	AssignedTo   string
}

func cloneProjectedTask(t *ProjectedTask) *ProjectedTask {
	if t == nil {
		return nil
	}

	cp := *t
	if t.DependsOn != nil {
		cp.DependsOn = append([]int(nil), t.DependsOn...)
	}
	return &cp
}
