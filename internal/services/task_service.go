package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/flowfocus/internal/models"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	pgPool Pool
}

func NewTaskService(
	logger zerolog.Logger,
	pgPool Pool,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *taskServiceImpl) GetTasks(ctx context.Context, params GetTasksParams) ([]*models.Task, error) {
	if params.Status != nil && !models.IsValidStatus(*params.Status) {
		return nil, ErrInvalidTaskStatus
	}

	const selectTasksByUserIDQuery = `
SELECT t.id,
       t.category_id,
       t.title,
       t.description,
       t.status,
       t.created_at,
       t.updated_at,
       c.name,
       c.color,
       c.icon
FROM tasks t
LEFT JOIN categories c ON c.id = t.category_id
WHERE t.user_id = $1
  AND ($2::text IS NULL OR t.category_id = $2)
  AND ($3::text IS NULL OR t.status = $3)
ORDER BY t.created_at DESC
`
	rows, err := s.pgPool.Query(
		ctx,
		selectTasksByUserIDQuery,
		params.UserID,
		params.CategoryID,
		params.Status,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks by user id")
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task := &models.Task{UserID: params.UserID}
		err = scanJoinedTask(rows, task)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Str("user_id", params.UserID).
		Msg("selected tasks by user id")
	return tasks, nil
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	err := ValidateCreateTask(&params)
	if err != nil {
		return nil, err
	}

	taskUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task uuid")
		return nil, err
	}

	now := time.Now()
	task := &models.Task{
		ID:          taskUUID.String(),
		UserID:      params.UserID,
		CategoryID:  &params.CategoryID,
		Title:       params.Title,
		Description: params.Description,
		Status:      models.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const selectCategoryQuery = `
SELECT name,
       color,
       icon
FROM categories
WHERE id = $1 AND user_id = $2
FOR SHARE
`
	ref := new(models.CategoryRef)
	err = tx.QueryRow(
		ctx,
		selectCategoryQuery,
		params.CategoryID,
		params.UserID,
	).Scan(
		&ref.Name,
		&ref.Color,
		&ref.Icon,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("category_id", params.CategoryID).
				Str("user_id", params.UserID).
				Msg("category not found")
			return nil, ErrCategoryNotFound
		}

		s.logger.Error().
			Err(err).
			Msg("failed to select category")
		return nil, err
	}
	task.Category = ref

	const insertTaskQuery = `
INSERT INTO tasks (id,
                   user_id,
                   category_id,
                   title,
                   description,
                   status,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`
	_, err = tx.Exec(
		ctx,
		insertTaskQuery,
		task.ID,
		task.UserID,
		task.CategoryID,
		task.Title,
		task.Description,
		task.Status,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			s.logger.Error().
				Str("category_id", params.CategoryID).
				Msg("category was deleted")
			return nil, ErrCategoryNotFound
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return nil, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	patch := params.Patch
	err := ValidateTaskPatch(patch)
	if err != nil {
		return nil, err
	}

	var title *string
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		title = &t
	}
	// A blank description clears the column, so "set it" and
	// "the new value" travel as separate arguments.
	setDescription := patch.Description != nil
	description := models.NormalizeDescription(patch.Description)

	task := &models.Task{
		ID:        params.ID,
		UserID:    params.UserID,
		UpdatedAt: time.Now(),
	}

	const updateTaskQuery = `
WITH updated AS (
    UPDATE tasks
    SET title = COALESCE($1, title),
        description = CASE WHEN $2::boolean THEN $3 ELSE description END,
        status = COALESCE($4, status),
        category_id = COALESCE($5, category_id),
        updated_at = $6
    WHERE id = $7 AND user_id = $8
      AND ($5::text IS NULL OR EXISTS (SELECT 1 FROM categories WHERE id = $5 AND user_id = $8))
    RETURNING id, category_id, title, description, status, created_at, updated_at
)
SELECT u.id,
       u.category_id,
       u.title,
       u.description,
       u.status,
       u.created_at,
       u.updated_at,
       c.name,
       c.color,
       c.icon
FROM updated u
LEFT JOIN categories c ON c.id = u.category_id
`
	err = scanJoinedTask(s.pgPool.QueryRow(
		ctx,
		updateTaskQuery,
		title,
		setDescription,
		description,
		patch.Status,
		patch.CategoryID,
		task.UpdatedAt,
		task.ID,
		task.UserID,
	), task)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("task_id", task.ID).
				Str("user_id", task.UserID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to update task")
		return nil, err
	}
	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Str("status", task.Status).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, params DeleteTaskParams) error {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1 AND user_id = $2
`
	tag, err := s.pgPool.Exec(
		ctx,
		deleteTaskQuery,
		params.ID,
		params.UserID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", params.ID).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Error().
			Str("task_id", params.ID).
			Str("user_id", params.UserID).
			Msg("task not found")
		return ErrTaskNotFound
	}

	s.logger.Info().
		Str("task_id", params.ID).
		Str("user_id", params.UserID).
		Msg("deleted task")
	return nil
}

// scanJoinedTask scans a task row followed by the nullable
// category display columns.
func scanJoinedTask(row pgx.Row, task *models.Task) error {
	var name, color, icon *string
	err := row.Scan(
		&task.ID,
		&task.CategoryID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.CreatedAt,
		&task.UpdatedAt,
		&name,
		&color,
		&icon,
	)
	if err != nil {
		return err
	}

	task.Category = nil
	if name != nil {
		task.Category = &models.CategoryRef{Name: *name}
		if color != nil {
			task.Category.Color = *color
		}
		if icon != nil {
			task.Category.Icon = *icon
		}
	}
	return nil
}
