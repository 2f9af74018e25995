package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/phase2/todo-api/internal/models"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository and bootstraps the schema
func NewRepository(db *sql.DB) (*Repository, error) {
	r := &Repository{db: db}
	if err := r.init(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return r, nil
}

func (r *Repository) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS tasks (
		id SERIAL PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users (id),
		title VARCHAR(200) NOT NULL,
		description TEXT,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks (user_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_completed ON tasks (completed);`
	_, err := r.db.Exec(schema)
	return err
}

// CreateUser inserts a new user. The unique index on email is the duplicate
// signal: a 23505 from Postgres maps to ErrEmailTaken, so concurrent signups
// with the same address cannot both succeed.
func (r *Repository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, name, created_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
		RETURNING created_at`
	name := sql.NullString{String: user.Name, Valid: user.Name != ""}
	err := r.db.QueryRow(query, user.ID, user.Email, user.PasswordHash, name).
		Scan(&user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	var name sql.NullString
	query := `
		SELECT id, email, password_hash, name, created_at
		FROM users
		WHERE email = $1`
	err := r.db.QueryRow(query, email).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &name, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	user.Name = name.String
	return user, nil
}

// ListTasks returns all tasks owned by a user, newest first
func (r *Repository) ListTasks(userID string) ([]*models.Task, error) {
	query := `
		SELECT id, user_id, title, description, completed, created_at, updated_at
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at DESC`
	return r.queryTasks(query, userID)
}

// ListOpenTasks returns a user's incomplete tasks, newest first
func (r *Repository) ListOpenTasks(userID string) ([]*models.Task, error) {
	query := `
		SELECT id, user_id, title, description, completed, created_at, updated_at
		FROM tasks
		WHERE user_id = $1 AND completed = FALSE
		ORDER BY created_at DESC`
	return r.queryTasks(query, userID)
}

func (r *Repository) queryTasks(query string, args ...interface{}) ([]*models.Task, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task := &models.Task{}
		err := rows.Scan(&task.ID, &task.UserID, &task.Title, &task.Description,
			&task.Completed, &task.CreatedAt, &task.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListOpenTaskOwners returns the users who have at least one incomplete task
func (r *Repository) ListOpenTaskOwners() ([]*models.User, error) {
	query := `
		SELECT DISTINCT u.id, u.email, u.name
		FROM users u
		JOIN tasks t ON t.user_id = u.id
		WHERE t.completed = FALSE`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list open task owners: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		var name sql.NullString
		if err := rows.Scan(&user.ID, &user.Email, &name); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		user.Name = name.String
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list open task owners: %w", err)
	}
	return users, nil
}

// CreateTask inserts a new task for its owner
func (r *Repository) CreateTask(task *models.Task) error {
	query := `
		INSERT INTO tasks (user_id, title, description, completed, created_at, updated_at)
		VALUES ($1, $2, $3, FALSE, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, completed, created_at, updated_at`
	err := r.db.QueryRow(query, task.UserID, task.Title, task.Description).
		Scan(&task.ID, &task.Completed, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// GetTask retrieves a task by id regardless of owner; callers compare the
// owner themselves when the operation is owner-scoped
func (r *Repository) GetTask(taskID int64) (*models.Task, error) {
	task := &models.Task{}
	query := `
		SELECT id, user_id, title, description, completed, created_at, updated_at
		FROM tasks
		WHERE id = $1`
	err := r.db.QueryRow(query, taskID).
		Scan(&task.ID, &task.UserID, &task.Title, &task.Description,
			&task.Completed, &task.CreatedAt, &task.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// UpdateTask applies the supplied fields to a task in a single statement
// filtered by owner. A nil title or description leaves the column unchanged.
func (r *Repository) UpdateTask(taskID int64, userID string, title, description *string) (*models.Task, error) {
	task := &models.Task{}
	query := `
		UPDATE tasks
		SET title = COALESCE($3, title),
		    description = COALESCE($4, description),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, title, description, completed, created_at, updated_at`
	err := r.db.QueryRow(query, taskID, userID, title, description).
		Scan(&task.ID, &task.UserID, &task.Title, &task.Description,
			&task.Completed, &task.CreatedAt, &task.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, r.classifyMiss(taskID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// ToggleTask flips a task's completion flag in a single owner-filtered statement
func (r *Repository) ToggleTask(taskID int64, userID string) (*models.Task, error) {
	task := &models.Task{}
	query := `
		UPDATE tasks
		SET completed = NOT completed,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, title, description, completed, created_at, updated_at`
	err := r.db.QueryRow(query, taskID, userID).
		Scan(&task.ID, &task.UserID, &task.Title, &task.Description,
			&task.Completed, &task.CreatedAt, &task.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, r.classifyMiss(taskID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to toggle task: %w", err)
	}
	return task, nil
}

// DeleteTask removes a task permanently, filtered by owner
func (r *Repository) DeleteTask(taskID int64, userID string) error {
	res, err := r.db.Exec("DELETE FROM tasks WHERE id = $1 AND user_id = $2", taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if affected == 0 {
		return r.classifyMiss(taskID)
	}
	return nil
}

// classifyMiss explains why an owner-filtered write matched no rows: either
// the task is gone or it belongs to someone else.
func (r *Repository) classifyMiss(taskID int64) error {
	var ownerID string
	err := r.db.QueryRow("SELECT user_id FROM tasks WHERE id = $1", taskID).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return ErrTaskNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check task owner: %w", err)
	}
	return ErrNotTaskOwner
}
