package events

import (
	"time"

	"github.com/verdant/landplan/internal/schedule"
)

// Event is the base interface for all events.
type Event interface {
	EventType() string
	ScheduleID() string
}

// Topic groups related events on the bus.
type Topic string

const (
	TopicSchedule Topic = "schedule"
	TopicTask     Topic = "task"
)

// Event type constants
const (
	EventTypeScheduleGenerated = "schedule.generated"
	EventTypeGenerationFailed  = "schedule.generation_failed"
	EventTypeTemplateWarning   = "schedule.template_warning"
	EventTypeScheduleProgress  = "schedule.progress"
	EventTypeTaskUpdated       = "task.updated"
)

// ScheduleGeneratedEvent is published when a schedule is generated and persisted.
type ScheduleGeneratedEvent struct {
	ID          string
	ProjectID   string
	Name        string
	TemplateID  string
	TaskCount   int
	Warnings    int
	Timestamp   time.Time
}

func (e ScheduleGeneratedEvent) EventType() string  { return EventTypeScheduleGenerated }
func (e ScheduleGeneratedEvent) ScheduleID() string { return e.ID }

// GenerationFailedEvent is published when schedule generation or persistence fails.
type GenerationFailedEvent struct {
	ProjectID  string
	TemplateID string
	Err        error
	Timestamp  time.Time
}

func (e GenerationFailedEvent) EventType() string  { return EventTypeGenerationFailed }
func (e GenerationFailedEvent) ScheduleID() string { return "" }

// TemplateWarningEvent is published for each bad dependency reference found
// while projecting a template.
type TemplateWarningEvent struct {
	ID         string // Schedule the warning surfaced for
	TemplateID string
	Warning    schedule.Warning
	Timestamp  time.Time
}

func (e TemplateWarningEvent) EventType() string  { return EventTypeTemplateWarning }
func (e TemplateWarningEvent) ScheduleID() string { return e.ID }

// TaskUpdatedEvent is published when a task's progress, status, or assignee changes.
type TaskUpdatedEvent struct {
	ID         string // Schedule id
	TaskID     int
	Progress   int
	Status     schedule.TaskStatus
	AssignedTo string
	Timestamp  time.Time
}

func (e TaskUpdatedEvent) EventType() string  { return EventTypeTaskUpdated }
func (e TaskUpdatedEvent) ScheduleID() string { return e.ID }

// ScheduleProgressEvent carries status counts for one schedule, consumed by
// the timeline view.
type ScheduleProgressEvent struct {
	ID         string
	Total      int
	Planned    int
	InProgress int
	Completed  int
	Delayed    int
	Cancelled  int
	Timestamp  time.Time
}

func (e ScheduleProgressEvent) EventType() string  { return EventTypeScheduleProgress }
func (e ScheduleProgressEvent) ScheduleID() string { return e.ID }

// Progress summarizes a schedule's tasks into a progress event.
func Progress(s *schedule.Schedule) ScheduleProgressEvent {
	ev := ScheduleProgressEvent{ID: s.ID, Total: len(s.Tasks), Timestamp: time.Now()}
	for _, t := range s.Tasks {
		switch t.Status {
		case schedule.StatusPlanned:
			ev.Planned++
		case schedule.StatusInProgress:
			ev.InProgress++
		case schedule.StatusCompleted:
			ev.Completed++
		case schedule.StatusDelayed:
			ev.Delayed++
		case schedule.StatusCancelled:
			ev.Cancelled++
		}
	}
	return ev
}
