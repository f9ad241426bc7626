package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/flowfocus/internal/models"
)

type categoryServiceImpl struct {
	logger zerolog.Logger
	pgPool Pool
}

func NewCategoryService(
	logger zerolog.Logger,
	pgPool Pool,
) CategoryService {
	return &categoryServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *categoryServiceImpl) ListCategories(ctx context.Context, userID string) ([]*models.Category, error) {
	const selectCategoriesByUserIDQuery = `
SELECT id,
       name,
       color,
       icon,
       created_at
FROM categories
WHERE user_id = $1
ORDER BY created_at
`
	rows, err := s.pgPool.Query(
		ctx,
		selectCategoriesByUserIDQuery,
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select categories by user id")
		return nil, err
	}
	defer rows.Close()

	categories := make([]*models.Category, 0)
	for rows.Next() {
		category := &models.Category{UserID: userID}
		err = rows.Scan(
			&category.ID,
			&category.Name,
			&category.Color,
			&category.Icon,
			&category.CreatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan category")
			return nil, err
		}
		categories = append(categories, category)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(categories)).
		Str("user_id", userID).
		Msg("selected categories by user id")
	return categories, nil
}

func (s *categoryServiceImpl) CreateCategory(ctx context.Context, params CreateCategoryParams) (*models.Category, error) {
	err := ValidateCreateCategory(&params)
	if err != nil {
		return nil, err
	}

	categoryUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate category uuid")
		return nil, err
	}

	category := &models.Category{
		ID:        categoryUUID.String(),
		UserID:    params.UserID,
		Name:      params.Name,
		Color:     params.Color,
		Icon:      models.DefaultCategoryIcon,
		CreatedAt: time.Now(),
	}

	const insertCategoryQuery = `
INSERT INTO categories (id,
                        user_id,
                        name,
                        color,
                        icon,
                        created_at)
VALUES ($1, $2, $3, $4, $5, $6)
`
	_, err = s.pgPool.Exec(
		ctx,
		insertCategoryQuery,
		category.ID,
		category.UserID,
		category.Name,
		category.Color,
		category.Icon,
		category.CreatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert category")
		return nil, err
	}

	s.logger.Info().
		Str("category_id", category.ID).
		Str("user_id", category.UserID).
		Msg("created category")
	return category, nil
}

func (s *categoryServiceImpl) DeleteCategory(ctx context.Context, params DeleteCategoryParams) error {
	// tasks.category_id references categories with ON DELETE RESTRICT,
	// so the statement fails while any task still points here.
	const deleteCategoryQuery = `
DELETE FROM categories
WHERE id = $1 AND user_id = $2
`
	tag, err := s.pgPool.Exec(
		ctx,
		deleteCategoryQuery,
		params.ID,
		params.UserID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return s.categoryInUse(ctx, params)
		}

		s.logger.Error().
			Err(err).
			Str("category_id", params.ID).
			Msg("failed to delete category")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Error().
			Str("category_id", params.ID).
			Str("user_id", params.UserID).
			Msg("category not found")
		return ErrCategoryNotFound
	}

	s.logger.Info().
		Str("category_id", params.ID).
		Str("user_id", params.UserID).
		Msg("deleted category")
	return nil
}

func (s *categoryServiceImpl) categoryInUse(ctx context.Context, params DeleteCategoryParams) error {
	inUse := &CategoryInUseError{CategoryID: params.ID}

	const selectCategoryUsageQuery = `
SELECT c.name,
       (SELECT COUNT(*) FROM tasks t WHERE t.category_id = c.id)
FROM categories c
WHERE c.id = $1 AND c.user_id = $2
`
	err := s.pgPool.QueryRow(
		ctx,
		selectCategoryUsageQuery,
		params.ID,
		params.UserID,
	).Scan(
		&inUse.Name,
		&inUse.Tasks,
	)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		s.logger.Error().
			Err(err).
			Str("category_id", params.ID).
			Msg("failed to count category tasks")
		return err
	}

	s.logger.Warn().
		Str("category_id", params.ID).
		Int("tasks", inUse.Tasks).
		Msg("category is in use")
	return inUse
}
