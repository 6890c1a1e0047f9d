package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"kanban-backend/internal/models"
)

// ErrNotFound is returned when no task row has the requested id.
var ErrNotFound = errors.New("task not found")

// Storage abstracts the task table.
type Storage interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	GetTask(ctx context.Context, id int) (*models.Task, error)
	AddTask(ctx context.Context, text, status string) (*models.Task, error)
	// UpdateTask applies the present fields of req and commits. Fields left
	// nil keep their stored values.
	UpdateTask(ctx context.Context, id int, req models.UpdateTaskRequest) (*models.Task, error)
	DeleteTask(ctx context.Context, id int) error

	Ping(ctx context.Context) error
	Close() error
}

// Drivers accepted by Open.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

// Open returns the Storage for driver. dsn is ignored for the memory driver.
func Open(ctx context.Context, driver, dsn string) (Storage, error) {
	switch driver {
	case DriverSQLite, DriverMySQL:
		return NewSQLStorage(ctx, driver, dsn)
	case DriverMemory:
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

// MemoryStorage keeps tasks in a map. Ids are never reused.
type MemoryStorage struct {
	tasks  map[int]models.Task
	nextID int
	mu     sync.Mutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		tasks:  make(map[int]models.Task),
		nextID: 1,
	}
}

func (m *MemoryStorage) ListTasks(ctx context.Context) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tasks := make([]models.Task, 0, len(m.tasks))
	for _, task := range m.tasks {
		tasks = append(tasks, task)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

func (m *MemoryStorage) GetTask(ctx context.Context, id int) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &task, nil
}

func (m *MemoryStorage) AddTask(ctx context.Context, text, status string) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task := models.Task{ID: m.nextID, Text: text, Status: status}
	m.tasks[task.ID] = task
	m.nextID++
	return &task, nil
}

func (m *MemoryStorage) UpdateTask(ctx context.Context, id int, req models.UpdateTaskRequest) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	req.Apply(&task)
	m.tasks[id] = task
	return &task, nil
}

func (m *MemoryStorage) DeleteTask(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(m.tasks, id)
	return nil
}

func (m *MemoryStorage) Ping(ctx context.Context) error { return nil }

func (m *MemoryStorage) Close() error { return nil }
