package manager

import (
	"context"
	"errors"
	"testing"

	"kanban-backend/internal/models"
	"kanban-backend/internal/storage"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newManager() *TaskManager {
	return NewTaskManager(storage.NewMemoryStorage())
}

func TestCreateTask(t *testing.T) {
	tm := newManager()
	ctx := context.Background()

	task, err := tm.CreateTask(ctx, models.CreateTaskRequest{Text: models.Ptr("a"), Status: models.Ptr("todo")})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.ID != 1 || task.Text != "a" || task.Status != "todo" {
		t.Errorf("unexpected task: %+v", task)
	}

	got, err := tm.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if *got != *task {
		t.Errorf("got %+v, want %+v", got, task)
	}
}

func TestCreateTaskMissingFields(t *testing.T) {
	tm := newManager()
	ctx := context.Background()

	tests := []struct {
		name  string
		req   models.CreateTaskRequest
		field string
	}{
		{"no text", models.CreateTaskRequest{Status: models.Ptr("todo")}, "text"},
		{"no status", models.CreateTaskRequest{Text: models.Ptr("a")}, "status"},
		{"empty", models.CreateTaskRequest{}, "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tm.CreateTask(ctx, tt.req)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, verr.Field)
			}
		})
	}

	tasks, _ := tm.ListTasks(ctx)
	if len(tasks) != 0 {
		t.Errorf("invalid requests stored %d tasks", len(tasks))
	}
}

func TestCreateTaskAllowsEmptyStrings(t *testing.T) {
	tm := newManager()
	if _, err := tm.CreateTask(context.Background(), models.CreateTaskRequest{Text: models.Ptr(""), Status: models.Ptr("")}); err != nil {
		t.Errorf("presence is the only check, got %v", err)
	}
}

func TestReplaceAndPatchPreserveMissingFields(t *testing.T) {
	tm := newManager()
	ctx := context.Background()
	task, _ := tm.CreateTask(ctx, models.CreateTaskRequest{Text: models.Ptr("a"), Status: models.Ptr("todo")})

	replaced, err := tm.ReplaceTask(ctx, task.ID, models.UpdateTaskRequest{})
	if err != nil {
		t.Fatalf("ReplaceTask: %v", err)
	}
	if *replaced != *task {
		t.Errorf("empty PUT changed task: %+v", replaced)
	}

	patched, err := tm.PatchTask(ctx, task.ID, models.UpdateTaskRequest{Status: models.Ptr("done")})
	if err != nil {
		t.Fatalf("PatchTask: %v", err)
	}
	if patched.Text != "a" || patched.Status != "done" {
		t.Errorf("unexpected patched task: %+v", patched)
	}

	replaced, err = tm.ReplaceTask(ctx, task.ID, models.UpdateTaskRequest{Text: models.Ptr("b")})
	if err != nil {
		t.Fatalf("ReplaceTask: %v", err)
	}
	if replaced.Text != "b" || replaced.Status != "done" {
		t.Errorf("unexpected replaced task: %+v", replaced)
	}
}

func TestNotFound(t *testing.T) {
	tm := newManager()
	ctx := context.Background()

	if _, err := tm.GetTask(ctx, 99); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("GetTask: expected ErrTaskNotFound, got %v", err)
	}
	if _, err := tm.ReplaceTask(ctx, 99, models.UpdateTaskRequest{}); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("ReplaceTask: expected ErrTaskNotFound, got %v", err)
	}
	if _, err := tm.PatchTask(ctx, 99, models.UpdateTaskRequest{}); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("PatchTask: expected ErrTaskNotFound, got %v", err)
	}
	if err := tm.DeleteTask(ctx, 99); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("DeleteTask: expected ErrTaskNotFound, got %v", err)
	}
}

func TestTaskMetrics(t *testing.T) {
	tm := newManager()
	ctx := context.Background()

	successBefore := testutil.ToFloat64(taskOperationCount.WithLabelValues(opCreate, "success"))
	invalidBefore := testutil.ToFloat64(taskOperationCount.WithLabelValues(opCreate, "invalid"))
	notFoundBefore := testutil.ToFloat64(taskOperationCount.WithLabelValues(opDelete, "not_found"))

	if _, err := tm.CreateTask(ctx, models.CreateTaskRequest{Text: models.Ptr("a"), Status: models.Ptr("todo")}); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	_, _ = tm.CreateTask(ctx, models.CreateTaskRequest{})
	_ = tm.DeleteTask(ctx, 99)

	if got := testutil.ToFloat64(taskOperationCount.WithLabelValues(opCreate, "success")) - successBefore; got != 1 {
		t.Errorf("expected 1 success, got %v", got)
	}
	if got := testutil.ToFloat64(taskOperationCount.WithLabelValues(opCreate, "invalid")) - invalidBefore; got != 1 {
		t.Errorf("expected 1 invalid, got %v", got)
	}
	if got := testutil.ToFloat64(taskOperationCount.WithLabelValues(opDelete, "not_found")) - notFoundBefore; got != 1 {
		t.Errorf("expected 1 not_found, got %v", got)
	}
	if n := testutil.CollectAndCount(taskTextLength); n != 1 {
		t.Errorf("expected text length histogram to be collected, got %d", n)
	}
}
