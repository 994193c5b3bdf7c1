package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/verdant/landplan/internal/schedule"
)

// RemoteStore implements Store against the back-office schedule service:
// POST /schedules creates, PUT /schedules/{id} updates, keyed on whether the
// schedule already carries a durable id.
type RemoteStore struct {
	baseURL string
	client  *http.Client
}

// NewRemoteStore creates a store client for the given base URL.
func NewRemoteStore(baseURL string) *RemoteStore {
	return &RemoteStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// scheduleDoc is the wire shape of a schedule. Dates travel as ISO-8601
// calendar dates; fractional instants ride along as day offsets from start.
type scheduleDoc struct {
	ID           string    `json:"id,omitempty"`
	ProjectID    string    `json:"project_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	EndDayOffset float64   `json:"end_day_offset"`
	TemplateID   string    `json:"template_id"`
	Mode         string    `json:"mode"`
	Tasks        []taskDoc `json:"tasks"`
}

type taskDoc struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	Category       string  `json:"category,omitempty"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	StartDayOffset float64 `json:"start_day_offset"`
	DurationDays   float64 `json:"duration_days"`
	Progress       int     `json:"progress"`
	Status         string  `json:"status"`
	DependsOn      []int   `json:"depends_on,omitempty"`
	AssignedTo     string  `json:"assigned_to,omitempty"`
}

func toDoc(s *schedule.Schedule) scheduleDoc {
	doc := scheduleDoc{
		ProjectID:    s.ProjectID,
		Name:         s.Name,
		Description:  s.Description,
		StartDate:    schedule.DateString(s.Start),
		EndDate:      schedule.DateStringCeil(s.End),
		EndDayOffset: schedule.DayOffset(s.Start, s.End),
		TemplateID:   s.TemplateID,
		Mode:         s.Mode.String(),
		Tasks:        make([]taskDoc, 0, len(s.Tasks)),
	}
	if !schedule.IsPlaceholderID(s.ID) {
		doc.ID = s.ID
	}
	for _, t := range s.Tasks {
		doc.Tasks = append(doc.Tasks, taskDoc{
			ID:             t.ID,
			Name:           t.Name,
			Category:       t.Category,
			StartDate:      schedule.DateString(t.Start),
			EndDate:        schedule.DateStringCeil(t.End),
			StartDayOffset: schedule.DayOffset(s.Start, t.Start),
			DurationDays:   t.DurationDays,
			Progress:       t.Progress,
			Status:         t.Status.String(),
			DependsOn:      t.DependsOn,
			AssignedTo:     t.AssignedTo,
		})
	}
	return doc
}

func fromDoc(doc scheduleDoc) (*schedule.Schedule, error) {
	start, err := schedule.ParseDate(doc.StartDate)
	if err != nil {
		return nil, fmt.Errorf("bad start date %q: %w", doc.StartDate, err)
	}
	mode, err := schedule.ParseMode(doc.Mode)
	if err != nil {
		return nil, err
	}

	s := &schedule.Schedule{
		ID:          doc.ID,
		ProjectID:   doc.ProjectID,
		Name:        doc.Name,
		Description: doc.Description,
		Start:       start,
		End:         schedule.AddDays(start, doc.EndDayOffset),
		TemplateID:  doc.TemplateID,
		Mode:        mode,
	}
	for _, td := range doc.Tasks {
		status, err := parseStatus(td.Status)
		if err != nil {
			return nil, err
		}
		taskStart := schedule.AddDays(start, td.StartDayOffset)
		s.Tasks = append(s.Tasks, &schedule.ProjectedTask{
			ID:           td.ID,
			Name:         td.Name,
			Category:     td.Category,
			Start:        taskStart,
			End:          schedule.AddDays(taskStart, td.DurationDays),
			DurationDays: td.DurationDays,
			Progress:     td.Progress,
			Status:       status,
			DependsOn:    td.DependsOn,
			AssignedTo:   td.AssignedTo,
		})
	}
	return s, nil
}

func parseStatus(s string) (schedule.TaskStatus, error) {
	for _, st := range []schedule.TaskStatus{
		schedule.StatusPlanned, schedule.StatusInProgress, schedule.StatusCompleted,
		schedule.StatusDelayed, schedule.StatusCancelled,
	} {
		if st.String() == s {
			return st, nil
		}
	}
	return schedule.StatusPlanned, fmt.Errorf("unknown task status %q", s)
}

// SaveSchedule creates or updates the schedule on the remote service and
// returns the durable id it was stored under.
func (r *RemoteStore) SaveSchedule(ctx context.Context, s *schedule.Schedule) (string, error) {
	doc := toDoc(s)

	method, url := http.MethodPost, r.baseURL+"/schedules"
	if doc.ID != "" {
		method, url = http.MethodPut, r.baseURL+"/schedules/"+doc.ID
	}

	var saved scheduleDoc
	if err := r.do(ctx, method, url, doc, &saved); err != nil {
		return "", err
	}
	if saved.ID == "" {
		return "", fmt.Errorf("service returned no schedule id")
	}
	return saved.ID, nil
}

// GetSchedule retrieves a schedule by id.
func (r *RemoteStore) GetSchedule(ctx context.Context, id string) (*schedule.Schedule, error) {
	var doc scheduleDoc
	if err := r.do(ctx, http.MethodGet, r.baseURL+"/schedules/"+id, nil, &doc); err != nil {
		return nil, err
	}
	return fromDoc(doc)
}

// ListSchedules retrieves all schedules.
func (r *RemoteStore) ListSchedules(ctx context.Context) ([]*schedule.Schedule, error) {
	var docs []scheduleDoc
	if err := r.do(ctx, http.MethodGet, r.baseURL+"/schedules", nil, &docs); err != nil {
		return nil, err
	}

	schedules := make([]*schedule.Schedule, 0, len(docs))
	for _, doc := range docs {
		s, err := fromDoc(doc)
		if err != nil {
			return nil, fmt.Errorf("schedule %s: %w", doc.ID, err)
		}
		schedules = append(schedules, s)
	}
	return schedules, nil
}

// DeleteSchedule removes a schedule.
func (r *RemoteStore) DeleteSchedule(ctx context.Context, id string) error {
	return r.do(ctx, http.MethodDelete, r.baseURL+"/schedules/"+id, nil, nil)
}

// UpdateTask updates one task's progress, status, and assignee.
func (r *RemoteStore) UpdateTask(ctx context.Context, scheduleID string, taskID int, progress int, status schedule.TaskStatus, assignedTo string) error {
	body := struct {
		Progress   int    `json:"progress"`
		Status     string `json:"status"`
		AssignedTo string `json:"assigned_to"`
	}{progress, status.String(), assignedTo}

	url := fmt.Sprintf("%s/schedules/%s/tasks/%d", r.baseURL, scheduleID, taskID)
	return r.do(ctx, http.MethodPut, url, body, nil)
}

// Close is a no-op; the HTTP client holds no resources needing release.
func (r *RemoteStore) Close() error {
	return nil
}

// do executes one JSON request/response round trip.
func (r *RemoteStore) do(ctx context.Context, method, url string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s %s", ErrNotFound, method, url)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", method, url, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
