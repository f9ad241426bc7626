package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/flowfocus/internal/api"
	"github.com/adanyl0v/flowfocus/internal/services"
)

var (
	errInvalidRequestBody      = errors.New("invalid request body")
	errMandatoryCookieNotFound = errors.New("mandatory cookie not found")
	errMissingID               = errors.New("missing id")
)

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, api.ErrorResponse{Error: err.Message})
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

func newConflictError(message string) apiError {
	return newAPIError(http.StatusConflict, message)
}

// abortWithServiceError translates a service error into its HTTP status.
// Anything unrecognised becomes a bare 500.
func abortWithServiceError(c *gin.Context, err error) {
	var inUse *services.CategoryInUseError
	if errors.As(err, &inUse) {
		tasks := inUse.Tasks
		c.AbortWithStatusJSON(http.StatusConflict, api.ErrorResponse{
			Error: inUse.Error(),
			Name:  inUse.Name,
			Tasks: &tasks,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrEmptyTaskTitle),
		errors.Is(err, services.ErrCategoryRequired),
		errors.Is(err, services.ErrInvalidTaskStatus),
		errors.Is(err, services.ErrNothingToUpdate),
		errors.Is(err, services.ErrEmptyCategoryName),
		errors.Is(err, services.ErrInvalidCategoryColor):
		abort(c, newBadRequestError(err.Error()))
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrCategoryNotFound),
		errors.Is(err, services.ErrUserNotFound):
		abort(c, newNotFoundError(err.Error()))
	case errors.Is(err, services.ErrUserAlreadyExists):
		abort(c, newConflictError(err.Error()))
	case errors.Is(err, services.ErrUserPasswordMismatch),
		errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrSessionExpired):
		abort(c, newUnauthorizedError(err.Error()))
	default:
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}
