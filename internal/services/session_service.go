package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/flowfocus/internal/models"
)

type sessionServiceImpl struct {
	logger zerolog.Logger
	pgPool Pool
}

func NewSessionService(
	logger zerolog.Logger,
	pgPool Pool,
) SessionService {
	return &sessionServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *sessionServiceImpl) GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error) {
	const selectSessionQuery = `
SELECT id, user_id, fingerprint, refresh_token, expires_at, created_at, updated_at
FROM sessions
WHERE id = $1
`
	session, err := scanSession(s.pgPool.QueryRow(ctx, selectSessionQuery, sessionID))
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		s.logger.Warn().
			Str("session_id", sessionID).
			Msg("session not found")
		return nil, ErrSessionNotFound
	case err != nil:
		s.logger.Error().
			Err(err).
			Str("session_id", sessionID).
			Msg("failed to select session")
		return nil, err
	}

	// An access token can outlive its session by up to its TTL.
	if !session.ExpiresAt.After(time.Now()) {
		s.logger.Warn().
			Str("session_id", session.ID).
			Time("expires_at", session.ExpiresAt).
			Msg("session expired")
		return nil, ErrSessionExpired
	}
	return session, nil
}

func scanSession(row pgx.Row) (*models.Session, error) {
	session := new(models.Session)
	err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.Fingerprint,
		&session.RefreshToken,
		&session.ExpiresAt,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return session, nil
}
