package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Otszy/Bear-App/internal/model"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrAttemptNotFound  = errors.New("task attempt not found")
	ErrUserTaskNotFound = errors.New("user task not found")
)

// GetActiveTask resolves a task id against the registry. Inactive or unknown
// tasks are indistinguishable to the caller.
func (r *Repository) GetActiveTask(ctx context.Context, taskID string, taskType model.TaskType) (*model.Task, error) {
	var task model.Task
	query := "SELECT * FROM tasks WHERE id = $1 AND task_type = $2 AND is_active"
	err := r.db.GetContext(ctx, &task, query, taskID, taskType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *Repository) GetTaskAttempt(ctx context.Context, userID uuid.UUID, taskType model.TaskType, taskID string) (*model.TaskAttempt, error) {
	var attempt model.TaskAttempt
	query := "SELECT * FROM task_attempts WHERE user_id = $1 AND task_type = $2 AND task_id = $3"
	err := r.db.GetContext(ctx, &attempt, query, userID, taskType, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, err
	}
	return &attempt, nil
}

func (r *Repository) GetTaskAttempts(ctx context.Context, userID uuid.UUID) ([]model.TaskAttempt, error) {
	var attempts []model.TaskAttempt
	query := "SELECT * FROM task_attempts WHERE user_id = $1 ORDER BY task_id"
	err := r.db.SelectContext(ctx, &attempts, query, userID)
	return attempts, err
}

// HasRecentAttempt reports whether the user attempted this task on or after
// the given cutoff, regardless of outcome.
func (r *Repository) HasRecentAttempt(ctx context.Context, userID uuid.UUID, taskType model.TaskType, taskID string, since time.Time) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM task_attempts
			WHERE user_id = $1 AND task_type = $2 AND task_id = $3 AND last_attempt_at >= $4
		)`
	err := r.db.GetContext(ctx, &exists, query, userID, taskType, taskID, since)
	return exists, err
}

func (r *Repository) GetUserTask(ctx context.Context, userID uuid.UUID, taskType model.TaskType, taskID string) (*model.UserTask, error) {
	var task model.UserTask
	query := "SELECT * FROM user_tasks WHERE user_id = $1 AND task_type = $2 AND task_id = $3"
	err := r.db.GetContext(ctx, &task, query, userID, taskType, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

// HasRecentUserTask reports whether the user touched any one-shot task of
// this type on or after the cutoff. The cooldown is deliberately per
// task-type, not per task.
func (r *Repository) HasRecentUserTask(ctx context.Context, userID uuid.UUID, taskType model.TaskType, since time.Time) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM user_tasks
			WHERE user_id = $1 AND task_type = $2 AND created_at >= $3
		)`
	err := r.db.GetContext(ctx, &exists, query, userID, taskType, since)
	return exists, err
}
