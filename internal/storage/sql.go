package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"kanban-backend/internal/logger"
	"kanban-backend/internal/models"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

var createTaskTable = map[string]string{
	DriverSQLite: `
	CREATE TABLE IF NOT EXISTS task (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		text VARCHAR(100) NOT NULL,
		status VARCHAR(20) NOT NULL
	)`,
	DriverMySQL: `
	CREATE TABLE IF NOT EXISTS task (
		id INT PRIMARY KEY AUTO_INCREMENT,
		text VARCHAR(100) NOT NULL,
		status VARCHAR(20) NOT NULL
	)`,
}

// SQLStorage stores tasks in a single SQL table.
type SQLStorage struct {
	db     *sql.DB
	driver string
}

// NewSQLStorage opens dsn with the given database/sql driver and creates the
// task table if it does not exist yet.
func NewSQLStorage(ctx context.Context, driver, dsn string) (*SQLStorage, error) {
	schema, ok := createTaskTable[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	// One connection: SQLite has a single writer, and this keeps
	// read-modify-write updates serialized for every driver.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to %s database: %w", driver, err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create task table: %w", err)
	}

	logger.Info(ctx, "database initialized", "driver", driver)
	return &SQLStorage{db: db, driver: driver}, nil
}

func (s *SQLStorage) Close() error {
	return s.db.Close()
}

func (s *SQLStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStorage) ListTasks(ctx context.Context) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, text, status FROM task")
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(&task.ID, &task.Text, &task.Status); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getTask(ctx context.Context, q queryRower, id int) (*models.Task, error) {
	var task models.Task
	err := q.QueryRowContext(ctx, "SELECT id, text, status FROM task WHERE id = ?", id).
		Scan(&task.ID, &task.Text, &task.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return &task, nil
}

func (s *SQLStorage) GetTask(ctx context.Context, id int) (*models.Task, error) {
	return getTask(ctx, s.db, id)
}

func (s *SQLStorage) AddTask(ctx context.Context, text, status string) (*models.Task, error) {
	result, err := s.db.ExecContext(ctx, "INSERT INTO task (text, status) VALUES (?, ?)", text, status)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return &models.Task{ID: int(id), Text: text, Status: status}, nil
}

func (s *SQLStorage) UpdateTask(ctx context.Context, id int, req models.UpdateTaskRequest) (*models.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	defer tx.Rollback()

	task, err := getTask(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	req.Apply(task)

	_, err = tx.ExecContext(ctx, "UPDATE task SET text = ?, status = ? WHERE id = ?", task.Text, task.Status, id)
	if err != nil {
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	return task, nil
}

func (s *SQLStorage) DeleteTask(ctx context.Context, id int) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM task WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
