package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/flowfocus/internal/api"
	"github.com/adanyl0v/flowfocus/internal/services"
)

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

func (h *handlerImpl) HandleLogin(c *gin.Context) {
	var req api.LoginRequest
	err := c.ShouldBind(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	fingerprint, err := generateFingerprint(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to generate fingerprint")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	result, err := h.auth.Login(c, services.LoginParams{
		Email:       req.Email,
		Password:    req.Password,
		Fingerprint: fingerprint,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to login")
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			abort(c, newUnauthorizedError(services.ErrUserNotFound.Error()))
		case errors.Is(err, services.ErrUserPasswordMismatch):
			abort(c, newUnauthorizedError(services.ErrUserPasswordMismatch.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	writeTokens(c, http.StatusOK, result)
}

func (h *handlerImpl) HandleRefresh(c *gin.Context) {
	result, ok := h.refresh(c)
	if !ok {
		return
	}
	writeTokens(c, http.StatusOK, result)
}

// refresh rotates the session named by the refresh token cookie and sets
// the new cookies. On failure it aborts the request and returns false.
func (h *handlerImpl) refresh(c *gin.Context) (*services.LoginResult, bool) {
	refreshToken, err := c.Cookie(refreshTokenCookie)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get refresh token cookie")
		abort(c, newUnauthorizedError(errMandatoryCookieNotFound.Error()))
		return nil, false
	}

	fingerprint, err := generateFingerprint(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to generate fingerprint")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return nil, false
	}

	result, err := h.auth.Refresh(c, services.RefreshParams{
		RefreshToken: refreshToken,
		Fingerprint:  fingerprint,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to refresh session")
		switch {
		case errors.Is(err, services.ErrSessionNotFound):
			abort(c, newUnauthorizedError(services.ErrSessionNotFound.Error()))
		case errors.Is(err, services.ErrSessionExpired):
			abort(c, newUnauthorizedError(services.ErrSessionExpired.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return nil, false
	}

	setTokenCookies(c, result)
	return result, true
}

func (h *handlerImpl) HandleRegister(c *gin.Context) {
	var req api.RegisterRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}
	h.logger.Info().
		Str("email", req.Email).
		Msg("register request")

	fingerprint, err := generateFingerprint(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to generate fingerprint")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	result, err := h.auth.Register(c, services.RegisterParams{
		Name: req.Name,
		LoginParams: services.LoginParams{
			Email:       req.Email,
			Password:    req.Password,
			Fingerprint: fingerprint,
		},
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to register user")
		abortWithServiceError(c, err)
		return
	}

	writeTokens(c, http.StatusCreated, result)
}

func (h *handlerImpl) HandleLogout(c *gin.Context) {
	sessionID, _ := getStringFromContext(c, sessionIDCtxKey)

	err := h.auth.Logout(c, sessionID)
	if err != nil && !errors.Is(err, services.ErrSessionNotFound) {
		h.logger.Error().
			Err(err).
			Msg("failed to logout")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	clearCookie(c, accessTokenCookie)
	clearCookie(c, refreshTokenCookie)

	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleGetSession(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)
	sessionID, _ := getStringFromContext(c, sessionIDCtxKey)

	c.JSON(http.StatusOK, api.SessionResponse{
		UserID:    userID,
		SessionID: sessionID,
	})
}

func writeTokens(c *gin.Context, status int, result *services.LoginResult) {
	setTokenCookies(c, result)
	c.JSON(status, api.TokenResponse{
		UserID:               result.UserID,
		SessionID:            result.SessionID,
		AccessToken:          result.AccessToken,
		AccessTokenExpiresAt: result.AccessTokenExpiresAt,
	})
}

func generateFingerprint(c *gin.Context) (string, error) {
	fingerprintBytes, err := json.Marshal(map[string]string{
		"client_ip":  c.ClientIP(),
		"user_agent": c.Request.UserAgent(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal json: %w", err)
	}
	return string(fingerprintBytes), nil
}

func getStringFromContext(c *gin.Context, key string) (string, bool) {
	value, exists := c.Get(key)
	if !exists {
		return "", false
	}
	str, ok := value.(string)
	return str, ok
}

func setTokenCookies(c *gin.Context, result *services.LoginResult) {
	now := time.Now()
	setAccessTokenCookie(c, result.AccessToken, result.AccessTokenExpiresAt.Sub(now))
	setRefreshTokenCookie(c, result.RefreshToken, result.RefreshTokenExpiresAt.Sub(now))
}

func setAccessTokenCookie(c *gin.Context, token string, maxAge time.Duration) {
	// Not httpOnly: browser code reads it to build the Authorization header.
	const secure, httpOnly = false, false
	c.SetCookie(accessTokenCookie, token, int(maxAge.Seconds()),
		"/", "", secure, httpOnly)
}

func setRefreshTokenCookie(c *gin.Context, token string, maxAge time.Duration) {
	const secure, httpOnly = false, true
	c.SetCookie(refreshTokenCookie, token, int(maxAge.Seconds()),
		"/", "", secure, httpOnly)
}

func clearCookie(c *gin.Context, name string) {
	c.SetCookie(name, "", -1,
		"/", "", false, false)
}
