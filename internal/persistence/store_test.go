package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/verdant/landplan/internal/catalog"
	"github.com/verdant/landplan/internal/schedule"
)

// testStore creates an in-memory store for testing and registers cleanup.
func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewMemoryStore(context.Background())
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// testSchedule assembles a schedule from a built-in template.
func testSchedule(t *testing.T, templateID string) *schedule.Schedule {
	t.Helper()
	tpl, err := catalog.Default().Get(templateID)
	if err != nil {
		t.Fatalf("template %s: %v", templateID, err)
	}
	anchor, err := schedule.ParseDate("2025-04-01")
	if err != nil {
		t.Fatal(err)
	}
	sched, _, err := schedule.Assemble(tpl, anchor, "Test Project", schedule.ModeDependencies)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	sched.ProjectID = "proj-1"
	return sched
}

func TestSaveAndGetSchedule(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	sched := testSchedule(t, "garden-installation")

	id, err := store.SaveSchedule(ctx, sched)
	if err != nil {
		t.Fatalf("SaveSchedule failed: %v", err)
	}
	if schedule.IsPlaceholderID(id) || id == "" {
		t.Errorf("expected durable id, got %q", id)
	}

	loaded, err := store.GetSchedule(ctx, id)
	if err != nil {
		t.Fatalf("GetSchedule failed: %v", err)
	}

	if loaded.Name != sched.Name {
		t.Errorf("name = %q, want %q", loaded.Name, sched.Name)
	}
	if loaded.ProjectID != "proj-1" {
		t.Errorf("project id = %q", loaded.ProjectID)
	}
	if loaded.TemplateID != sched.TemplateID {
		t.Errorf("template id = %q, want %q", loaded.TemplateID, sched.TemplateID)
	}
	if !loaded.Start.Equal(sched.Start) {
		t.Errorf("start = %v, want %v", loaded.Start, sched.Start)
	}
	if !loaded.End.Equal(sched.End) {
		t.Errorf("end = %v, want %v", loaded.End, sched.End)
	}
	if len(loaded.Tasks) != len(sched.Tasks) {
		t.Fatalf("tasks = %d, want %d", len(loaded.Tasks), len(sched.Tasks))
	}

	// Fractional instants must survive the round trip exactly.
	for i, task := range loaded.Tasks {
		want := sched.Tasks[i]
		if !task.Start.Equal(want.Start) || !task.End.Equal(want.End) {
			t.Errorf("task %d dates = %v..%v, want %v..%v", task.ID, task.Start, task.End, want.Start, want.End)
		}
		if task.DurationDays != want.DurationDays {
			t.Errorf("task %d duration = %v, want %v", task.ID, task.DurationDays, want.DurationDays)
		}
		if len(task.DependsOn) != len(want.DependsOn) {
			t.Errorf("task %d deps = %v, want %v", task.ID, task.DependsOn, want.DependsOn)
		}
	}
}

func TestSaveScheduleAssignsDurableID(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	sched := testSchedule(t, "lawn-renovation")
	if !schedule.IsPlaceholderID(sched.ID) {
		t.Fatalf("fresh schedule should carry a placeholder id, got %q", sched.ID)
	}

	first, err := store.SaveSchedule(ctx, sched)
	if err != nil {
		t.Fatalf("SaveSchedule failed: %v", err)
	}

	// Re-saving under the durable id must update, not duplicate.
	sched.ID = first
	sched.Name = "Renamed"
	second, err := store.SaveSchedule(ctx, sched)
	if err != nil {
		t.Fatalf("second SaveSchedule failed: %v", err)
	}
	if second != first {
		t.Errorf("re-save changed id: %q -> %q", first, second)
	}

	all, err := store.ListSchedules(ctx)
	if err != nil {
		t.Fatalf("ListSchedules failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("schedules = %d, want 1", len(all))
	}
	if all[0].Name != "Renamed" {
		t.Errorf("update not applied, name = %q", all[0].Name)
	}
}

func TestListSchedules(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if _, err := store.SaveSchedule(ctx, testSchedule(t, "garden-installation")); err != nil {
		t.Fatalf("save 1 failed: %v", err)
	}
	if _, err := store.SaveSchedule(ctx, testSchedule(t, "exterior-paving")); err != nil {
		t.Fatalf("save 2 failed: %v", err)
	}

	all, err := store.ListSchedules(ctx)
	if err != nil {
		t.Fatalf("ListSchedules failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("schedules = %d, want 2", len(all))
	}
	for _, s := range all {
		if len(s.Tasks) == 0 {
			t.Errorf("schedule %s listed without tasks", s.ID)
		}
	}
}

func TestDeleteSchedule(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	id, err := store.SaveSchedule(ctx, testSchedule(t, "planting-works"))
	if err != nil {
		t.Fatalf("SaveSchedule failed: %v", err)
	}

	if err := store.DeleteSchedule(ctx, id); err != nil {
		t.Fatalf("DeleteSchedule failed: %v", err)
	}

	if _, err := store.GetSchedule(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetSchedule after delete = %v, want ErrNotFound", err)
	}
	if err := store.DeleteSchedule(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
}

func TestUpdateTask(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	id, err := store.SaveSchedule(ctx, testSchedule(t, "lawn-renovation"))
	if err != nil {
		t.Fatalf("SaveSchedule failed: %v", err)
	}

	if err := store.UpdateTask(ctx, id, 2, 60, schedule.StatusInProgress, "kobayashi"); err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}

	loaded, err := store.GetSchedule(ctx, id)
	if err != nil {
		t.Fatalf("GetSchedule failed: %v", err)
	}
	var task *schedule.ProjectedTask
	for _, tk := range loaded.Tasks {
		if tk.ID == 2 {
			task = tk
		}
	}
	if task == nil {
		t.Fatal("task 2 not found")
	}
	if task.Progress != 60 || task.Status != schedule.StatusInProgress || task.AssignedTo != "kobayashi" {
		t.Errorf("update not applied: %+v", task)
	}

	// Unknown task id is a not-found error.
	if err := store.UpdateTask(ctx, id, 99, 10, schedule.StatusPlanned, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateTask unknown task = %v, want ErrNotFound", err)
	}
}

func TestGetScheduleNotFound(t *testing.T) {
	store := testStore(t)

	if _, err := store.GetSchedule(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestIndexSerialization(t *testing.T) {
	tests := []struct {
		name    string
		indices []int
		joined  string
	}{
		{name: "empty", indices: []int{}, joined: ""},
		{name: "single", indices: []int{0}, joined: "0"},
		{name: "multiple", indices: []int{0, 2, 5}, joined: "0,2,5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := joinIndices(tt.indices); got != tt.joined {
				t.Errorf("joinIndices = %q, want %q", got, tt.joined)
			}
			back, err := splitIndices(tt.joined)
			if err != nil {
				t.Fatalf("splitIndices failed: %v", err)
			}
			if len(back) != len(tt.indices) {
				t.Errorf("splitIndices = %v, want %v", back, tt.indices)
			}
		})
	}

	if _, err := splitIndices("1,x,3"); err == nil {
		t.Error("expected error for corrupt index list")
	}
}
