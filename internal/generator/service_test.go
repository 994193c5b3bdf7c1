package generator

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/verdant/landplan/internal/catalog"
	"github.com/verdant/landplan/internal/events"
	"github.com/verdant/landplan/internal/persistence"
	"github.com/verdant/landplan/internal/schedule"
)

func testService(t *testing.T) (*Service, *events.EventBus) {
	t.Helper()

	store, err := persistence.NewMemoryStore(context.Background())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	bus := events.NewEventBus()
	t.Cleanup(bus.Close)

	svc := NewService(Config{Retry: fastRetryConfig()}, catalog.Default(), store, bus)
	return svc, bus
}

func anchorDate(t *testing.T, iso string) time.Time {
	t.Helper()
	anchor, err := schedule.ParseDate(iso)
	if err != nil {
		t.Fatal(err)
	}
	return anchor
}

func TestGenerate(t *testing.T) {
	svc, bus := testService(t)
	ch := bus.Subscribe(events.TopicSchedule, 10)

	sched, err := svc.Generate(context.Background(), Request{
		ProjectID:   "proj-1",
		ProjectName: "Sato Residence",
		TemplateID:  "garden-installation",
		Anchor:      anchorDate(t, "2025-05-01"),
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if schedule.IsPlaceholderID(sched.ID) {
		t.Errorf("expected durable id, got %q", sched.ID)
	}
	if sched.ProjectID != "proj-1" {
		t.Errorf("project id = %q", sched.ProjectID)
	}
	if sched.Name != "Sato Residence - Garden Installation" {
		t.Errorf("name = %q", sched.Name)
	}

	select {
	case ev := <-ch:
		gen, ok := ev.(events.ScheduleGeneratedEvent)
		if !ok {
			t.Fatalf("expected ScheduleGeneratedEvent, got %T", ev)
		}
		if gen.ID != sched.ID || gen.TemplateID != "garden-installation" {
			t.Errorf("event = %+v", gen)
		}
		if gen.TaskCount != len(sched.Tasks) {
			t.Errorf("task count = %d, want %d", gen.TaskCount, len(sched.Tasks))
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for generated event")
	}
}

func TestGenerateUnknownTemplate(t *testing.T) {
	svc, bus := testService(t)
	ch := bus.Subscribe(events.TopicSchedule, 10)

	_, err := svc.Generate(context.Background(), Request{
		ProjectID:   "proj-1",
		ProjectName: "Sato Residence",
		TemplateID:  "no-such-template",
		Anchor:      anchorDate(t, "2025-05-01"),
	})
	if err == nil {
		t.Fatal("expected error for unknown template")
	}

	select {
	case ev := <-ch:
		failed, ok := ev.(events.GenerationFailedEvent)
		if !ok {
			t.Fatalf("expected GenerationFailedEvent, got %T", ev)
		}
		if failed.TemplateID != "no-such-template" {
			t.Errorf("event = %+v", failed)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for failure event")
	}
}

func TestGenerateInvalidAnchor(t *testing.T) {
	svc, _ := testService(t)

	_, err := svc.Generate(context.Background(), Request{
		ProjectID:   "proj-1",
		ProjectName: "Sato Residence",
		TemplateID:  "garden-installation",
	})
	if !errors.Is(err, schedule.ErrInvalidAnchor) {
		t.Errorf("err = %v, want ErrInvalidAnchor", err)
	}
}

func TestGeneratePublishesTemplateWarnings(t *testing.T) {
	store, err := persistence.NewMemoryStore(context.Background())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	bus := events.NewEventBus()
	t.Cleanup(bus.Close)

	// Catalog with one broken template: forward and out-of-range references.
	cat := catalog.New([]*schedule.Template{
		{
			ID:   "broken",
			Name: "Broken",
			Tasks: []schedule.TemplateTask{
				{Name: "A", DurationDays: 1, DependsOn: []int{1}},
				{Name: "B", DurationDays: 1, DependsOn: []int{0, 9}},
			},
		},
	})

	svc := NewService(Config{Retry: fastRetryConfig()}, cat, store, bus)
	ch := bus.Subscribe(events.TopicSchedule, 10)

	sched, err := svc.Generate(context.Background(), Request{
		ProjectID:   "proj-1",
		ProjectName: "Warning Test",
		TemplateID:  "broken",
		Anchor:      anchorDate(t, "2025-05-01"),
	})
	if err != nil {
		t.Fatalf("Generate failed despite warnings: %v", err)
	}
	if len(sched.Tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(sched.Tasks))
	}

	warnings := 0
	deadline := time.After(200 * time.Millisecond)
	for warnings < 2 {
		select {
		case ev := <-ch:
			if _, ok := ev.(events.TemplateWarningEvent); ok {
				warnings++
			}
		case <-deadline:
			t.Fatalf("received %d warning events, want 2", warnings)
		}
	}
}

func TestGenerateBatch(t *testing.T) {
	svc, _ := testService(t)

	reqs := make([]Request, 6)
	for i := range reqs {
		reqs[i] = Request{
			ProjectID:   fmt.Sprintf("proj-%d", i+1),
			ProjectName: fmt.Sprintf("Project %d", i+1),
			TemplateID:  "lawn-renovation",
			Anchor:      anchorDate(t, "2025-05-01"),
		}
	}
	// One bad request must not sink the batch.
	reqs[3].TemplateID = "no-such-template"

	results, err := svc.GenerateBatch(context.Background(), reqs)
	if err != nil {
		t.Fatalf("GenerateBatch failed: %v", err)
	}
	if len(results) != 6 {
		t.Fatalf("results = %d, want 6", len(results))
	}

	for i, res := range results {
		if i == 3 {
			if res.Err == nil {
				t.Errorf("result %d: expected error for unknown template", i)
			}
			continue
		}
		if res.Err != nil {
			t.Errorf("result %d: unexpected error: %v", i, res.Err)
			continue
		}
		if res.Schedule == nil || schedule.IsPlaceholderID(res.Schedule.ID) {
			t.Errorf("result %d: missing durable schedule", i)
		}
		if res.Schedule.ProjectID != res.Request.ProjectID {
			t.Errorf("result %d: project id %q", i, res.Schedule.ProjectID)
		}
	}
}

func TestGenerateBatchCancelled(t *testing.T) {
	svc, _ := testService(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reqs := []Request{{
		ProjectID:   "proj-1",
		ProjectName: "Project",
		TemplateID:  "lawn-renovation",
		Anchor:      anchorDate(t, "2025-05-01"),
	}}

	if _, err := svc.GenerateBatch(ctx, reqs); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestUpdateTaskPublishes(t *testing.T) {
	svc, bus := testService(t)

	sched, err := svc.Generate(context.Background(), Request{
		ProjectID:   "proj-1",
		ProjectName: "Sato Residence",
		TemplateID:  "planting-works",
		Anchor:      anchorDate(t, "2025-05-01"),
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	taskCh := bus.Subscribe(events.TopicTask, 10)

	if err := svc.UpdateTask(context.Background(), sched.ID, 1, 75, schedule.StatusInProgress, "tanaka"); err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}

	select {
	case ev := <-taskCh:
		upd, ok := ev.(events.TaskUpdatedEvent)
		if !ok {
			t.Fatalf("expected TaskUpdatedEvent, got %T", ev)
		}
		if upd.ID != sched.ID || upd.TaskID != 1 || upd.Progress != 75 || upd.AssignedTo != "tanaka" {
			t.Errorf("event = %+v", upd)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for task event")
	}
}
