package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/adanyl0v/flowfocus/internal/models"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserPasswordMismatch = errors.New("user password mismatch")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionExpired       = errors.New("session expired")

	ErrTaskNotFound      = errors.New("task not found")
	ErrInvalidTaskStatus = errors.New("invalid task status")
	ErrEmptyTaskTitle    = errors.New("please enter a task title")
	ErrCategoryRequired  = errors.New("please select a category")
	ErrNothingToUpdate   = errors.New("no fields to update")

	ErrCategoryNotFound     = errors.New("category not found")
	ErrEmptyCategoryName    = errors.New("please enter a category name")
	ErrInvalidCategoryColor = errors.New("invalid category color")
	ErrCategoryInUse        = errors.New("category is in use")
)

// CategoryInUseError reports a category delete that was refused
// because tasks still reference the category.
type CategoryInUseError struct {
	CategoryID string
	Name       string
	Tasks      int
}

func (e *CategoryInUseError) Error() string {
	return fmt.Sprintf("%q is being used by %d task(s)", e.Name, e.Tasks)
}

func (e *CategoryInUseError) Is(target error) bool {
	return target == ErrCategoryInUse
}

// Pool is the part of *pgxpool.Pool the services depend on.
type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type AuthService interface {
	// Login authenticates the user by email and password.
	//
	// It replaces the user's session with the same fingerprint
	// and generates a new JWT token pair.
	//
	// It returns ErrUserNotFound if the user with the given
	// email doesn't exist or ErrUserPasswordMismatch if the
	// given password doesn't match the user's password.
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Refresh updates the session with the given refresh token.
	//
	// It returns ErrSessionNotFound if the session with the
	// given refresh token doesn't exist or ErrSessionExpired
	// if the session is expired.
	Refresh(ctx context.Context, params RefreshParams) (*LoginResult, error)

	// Register a user with the given email and password.
	//
	// It hashes the password, generates a unique ID and creates a
	// session with the given fingerprint and a fresh JWT token pair.
	//
	// It returns ErrUserAlreadyExists if the user
	// with the given email already exists.
	Register(ctx context.Context, params RegisterParams) (*LoginResult, error)

	// Logout invalidates the session with the given ID, leaving the
	// user's other devices signed in.
	//
	// It returns ErrSessionNotFound if the session is already gone.
	Logout(ctx context.Context, sessionID string) error

	// ParseJWTToken parses the given JWT token and returns the registered
	// claims or jwt.ErrTokenExpired if the token is expired.
	ParseJWTToken(token string) (*jwt.RegisteredClaims, error)
}

type SessionService interface {
	// GetSessionByID returns ErrSessionNotFound for an unknown or
	// logged out session and ErrSessionExpired once it has expired.
	GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error)
}

type CategoryService interface {
	// ListCategories returns the user's categories, oldest first.
	ListCategories(ctx context.Context, userID string) ([]*models.Category, error)

	// CreateCategory validates the params with ValidateCreateCategory
	// and stores a category with the default icon.
	CreateCategory(ctx context.Context, params CreateCategoryParams) (*models.Category, error)

	// DeleteCategory deletes the category only if no task references it.
	// The check and the delete are one statement, so a concurrent insert
	// can't slip in between them.
	//
	// It returns ErrCategoryNotFound if the category doesn't exist and a
	// *CategoryInUseError (matching ErrCategoryInUse) if tasks reference it.
	DeleteCategory(ctx context.Context, params DeleteCategoryParams) error
}

type TaskService interface {
	// GetTasks returns the user's tasks joined with their category,
	// newest first.
	GetTasks(ctx context.Context, params GetTasksParams) ([]*models.Task, error)

	// CreateTask creates an active task in one of the user's categories.
	//
	// It returns ErrCategoryNotFound if the category doesn't
	// belong to the user.
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	// UpdateTask applies a partial patch. Status transitions are not
	// restricted.
	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)

	DeleteTask(ctx context.Context, params DeleteTaskParams) error
}

type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	UpdateProfile(ctx context.Context, params UpdateProfileParams) (*models.User, error)
}

type LoginParams struct {
	Email       string
	Password    string
	Fingerprint string
}

type RegisterParams struct {
	Name string
	LoginParams
}

type LoginResult struct {
	UserID                string
	SessionID             string
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

type RefreshParams struct {
	RefreshToken string
	Fingerprint  string
}

type CreateCategoryParams struct {
	UserID string
	Name   string
	Color  string
}

type DeleteCategoryParams struct {
	ID     string
	UserID string
}

type GetTasksParams struct {
	UserID     string
	CategoryID *string
	Status     *string
}

type CreateTaskParams struct {
	UserID      string
	CategoryID  string
	Title       string
	Description *string
}

type UpdateTaskParams struct {
	ID     string
	UserID string
	Patch  models.TaskPatch
}

type DeleteTaskParams struct {
	ID     string
	UserID string
}

type Profile struct {
	User  *models.User
	Stats models.Stats
}

type UpdateProfileParams struct {
	UserID string
	Name   string
}

// ValidateCreateCategory trims the name and fills in the default color.
func ValidateCreateCategory(params *CreateCategoryParams) error {
	params.Name = strings.TrimSpace(params.Name)
	if params.Name == "" {
		return ErrEmptyCategoryName
	}
	if params.Color == "" {
		params.Color = models.DefaultCategoryColor
	}
	if !models.IsValidColor(params.Color) {
		return ErrInvalidCategoryColor
	}
	return nil
}

// ValidateCreateTask trims the title and description.
func ValidateCreateTask(params *CreateTaskParams) error {
	params.Title = strings.TrimSpace(params.Title)
	if params.Title == "" {
		return ErrEmptyTaskTitle
	}
	if strings.TrimSpace(params.CategoryID) == "" {
		return ErrCategoryRequired
	}
	params.Description = models.NormalizeDescription(params.Description)
	return nil
}

func ValidateTaskPatch(patch models.TaskPatch) error {
	if patch.IsEmpty() {
		return ErrNothingToUpdate
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return ErrEmptyTaskTitle
	}
	if patch.Status != nil && !models.IsValidStatus(*patch.Status) {
		return ErrInvalidTaskStatus
	}
	if patch.CategoryID != nil && strings.TrimSpace(*patch.CategoryID) == "" {
		return ErrCategoryRequired
	}
	return nil
}
