package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/flowfocus/internal/models"
)

type profileServiceImpl struct {
	logger zerolog.Logger
	pgPool Pool
}

func NewProfileService(
	logger zerolog.Logger,
	pgPool Pool,
) ProfileService {
	return &profileServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *profileServiceImpl) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	user := &models.User{ID: userID}
	var total, active, paused, completed int

	const selectProfileQuery = `
SELECT u.email,
       u.name,
       u.created_at,
       u.updated_at,
       COUNT(t.id),
       COUNT(t.id) FILTER (WHERE t.status = 'active'),
       COUNT(t.id) FILTER (WHERE t.status = 'paused'),
       COUNT(t.id) FILTER (WHERE t.status = 'completed')
FROM users u
LEFT JOIN tasks t ON t.user_id = u.id
WHERE u.id = $1
GROUP BY u.id
`
	err := s.pgPool.QueryRow(
		ctx,
		selectProfileQuery,
		user.ID,
	).Scan(
		&user.Email,
		&user.Name,
		&user.CreatedAt,
		&user.UpdatedAt,
		&total,
		&active,
		&paused,
		&completed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("user_id", user.ID).
				Msg("user not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to select profile")
		return nil, err
	}

	profile := &Profile{
		User:  user,
		Stats: models.NewStats(total, active, paused, completed),
	}
	s.logger.Debug().
		Str("user_id", user.ID).
		Int("tasks", total).
		Int("completion_rate", profile.Stats.CompletionRate).
		Msg("selected profile")
	return profile, nil
}

func (s *profileServiceImpl) UpdateProfile(ctx context.Context, params UpdateProfileParams) (*models.User, error) {
	user := &models.User{
		ID:        params.UserID,
		Name:      strings.TrimSpace(params.Name),
		UpdatedAt: time.Now(),
	}

	const updateUserNameQuery = `
UPDATE users
SET name = $1,
    updated_at = $2
WHERE id = $3
RETURNING email, created_at
`
	err := s.pgPool.QueryRow(
		ctx,
		updateUserNameQuery,
		user.Name,
		user.UpdatedAt,
		user.ID,
	).Scan(
		&user.Email,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("user_id", user.ID).
				Msg("user not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to update user name")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("updated profile")
	return user, nil
}
