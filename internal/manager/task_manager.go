package manager

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"kanban-backend/internal/models"
	"kanban-backend/internal/storage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	taskOperationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kanban_task_operations_total",
			Help: "Total number of task operations by outcome",
		},
		[]string{"operation", "status"},
	)

	taskOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kanban_task_operation_duration_seconds",
			Help:    "Duration of task operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	taskTextLength = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kanban_task_text_length_chars",
			Help:    "Length distribution of task text on create",
			Buckets: []float64{10, 25, 50, 100},
		},
	)
)

const (
	opList    = "list"
	opGet     = "get"
	opCreate  = "create"
	opReplace = "replace"
	opPatch   = "patch"
	opDelete  = "delete"
)

// ErrTaskNotFound is returned for ids that do not resolve to a task.
var ErrTaskNotFound = storage.ErrNotFound

// ValidationError reports a required field missing from a create request.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "missing required field: " + e.Field
}

// TaskStore is the persistence TaskManager needs.
type TaskStore interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	GetTask(ctx context.Context, id int) (*models.Task, error)
	AddTask(ctx context.Context, text, status string) (*models.Task, error)
	UpdateTask(ctx context.Context, id int, req models.UpdateTaskRequest) (*models.Task, error)
	DeleteTask(ctx context.Context, id int) error
}

type TaskManager struct {
	store TaskStore
}

func NewTaskManager(store TaskStore) *TaskManager {
	return &TaskManager{store: store}
}

func observe(op string, start time.Time, err error) {
	taskOperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	status := "success"
	switch {
	case err == nil:
	case errors.Is(err, ErrTaskNotFound):
		status = "not_found"
	default:
		var verr *ValidationError
		if errors.As(err, &verr) {
			status = "invalid"
		} else {
			status = "error"
		}
	}
	taskOperationCount.WithLabelValues(op, status).Inc()
}

func (tm *TaskManager) ListTasks(ctx context.Context) (tasks []models.Task, err error) {
	defer func(start time.Time) { observe(opList, start, err) }(time.Now())

	return tm.store.ListTasks(ctx)
}

func (tm *TaskManager) GetTask(ctx context.Context, id int) (task *models.Task, err error) {
	defer func(start time.Time) { observe(opGet, start, err) }(time.Now())

	return tm.store.GetTask(ctx, id)
}

// CreateTask stores a new task. Both text and status must be present; no
// other validation is done.
func (tm *TaskManager) CreateTask(ctx context.Context, req models.CreateTaskRequest) (task *models.Task, err error) {
	defer func(start time.Time) { observe(opCreate, start, err) }(time.Now())

	if req.Text == nil {
		return nil, &ValidationError{Field: "text"}
	}
	if req.Status == nil {
		return nil, &ValidationError{Field: "status"}
	}

	task, err = tm.store.AddTask(ctx, *req.Text, *req.Status)
	if err != nil {
		return nil, err
	}
	taskTextLength.Observe(float64(utf8.RuneCountInString(task.Text)))
	return task, nil
}

// ReplaceTask handles PUT. Fields missing from req keep their stored values,
// so it behaves exactly like PatchTask.
func (tm *TaskManager) ReplaceTask(ctx context.Context, id int, req models.UpdateTaskRequest) (task *models.Task, err error) {
	defer func(start time.Time) { observe(opReplace, start, err) }(time.Now())

	return tm.store.UpdateTask(ctx, id, req)
}

// PatchTask handles PATCH. Only fields present in req are changed.
func (tm *TaskManager) PatchTask(ctx context.Context, id int, req models.UpdateTaskRequest) (task *models.Task, err error) {
	defer func(start time.Time) { observe(opPatch, start, err) }(time.Now())

	return tm.store.UpdateTask(ctx, id, req)
}

func (tm *TaskManager) DeleteTask(ctx context.Context, id int) (err error) {
	defer func(start time.Time) { observe(opDelete, start, err) }(time.Now())

	return tm.store.DeleteTask(ctx, id)
}
