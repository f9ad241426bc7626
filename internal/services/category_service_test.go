package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/flowfocus/internal/models"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestCategoryServiceListCategories(t *testing.T) {
	mock := newMockPool(t)
	svc := NewCategoryService(zerolog.Nop(), mock)

	older := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)
	mock.ExpectQuery(`FROM categories\s+WHERE user_id = \$1\s+ORDER BY created_at`).
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "color", "icon", "created_at"}).
			AddRow("c1", "Errands", "#6366f1", "folder", older).
			AddRow("c2", "Work", "#ef4444", "folder", newer))

	categories, err := svc.ListCategories(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Errands", categories[0].Name)
	assert.Equal(t, "u1", categories[0].UserID)
	assert.Equal(t, "Work", categories[1].Name)
}

func TestCategoryServiceCreateCategory(t *testing.T) {
	mock := newMockPool(t)
	svc := NewCategoryService(zerolog.Nop(), mock)

	mock.ExpectExec(`INSERT INTO categories`).
		WithArgs(pgxmock.AnyArg(), "u1", "Errands", models.DefaultCategoryColor, models.DefaultCategoryIcon, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	category, err := svc.CreateCategory(context.Background(), CreateCategoryParams{
		UserID: "u1",
		Name:   "  Errands ",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, category.ID)
	assert.Equal(t, "Errands", category.Name)
	assert.Equal(t, models.DefaultCategoryColor, category.Color)
	assert.Equal(t, models.DefaultCategoryIcon, category.Icon)
}

func TestCategoryServiceCreateCategoryValidation(t *testing.T) {
	mock := newMockPool(t)
	svc := NewCategoryService(zerolog.Nop(), mock)

	_, err := svc.CreateCategory(context.Background(), CreateCategoryParams{UserID: "u1", Name: "   "})
	assert.ErrorIs(t, err, ErrEmptyCategoryName)

	_, err = svc.CreateCategory(context.Background(), CreateCategoryParams{UserID: "u1", Name: "Home", Color: "blue"})
	assert.ErrorIs(t, err, ErrInvalidCategoryColor)
}

func TestCategoryServiceDeleteCategory(t *testing.T) {
	mock := newMockPool(t)
	svc := NewCategoryService(zerolog.Nop(), mock)

	mock.ExpectExec(`DELETE FROM categories`).
		WithArgs("c1", "u1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := svc.DeleteCategory(context.Background(), DeleteCategoryParams{ID: "c1", UserID: "u1"})
	assert.NoError(t, err)
}

func TestCategoryServiceDeleteCategoryNotFound(t *testing.T) {
	mock := newMockPool(t)
	svc := NewCategoryService(zerolog.Nop(), mock)

	mock.ExpectExec(`DELETE FROM categories`).
		WithArgs("missing", "u1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := svc.DeleteCategory(context.Background(), DeleteCategoryParams{ID: "missing", UserID: "u1"})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCategoryServiceDeleteCategoryInUse(t *testing.T) {
	mock := newMockPool(t)
	svc := NewCategoryService(zerolog.Nop(), mock)

	mock.ExpectExec(`DELETE FROM categories`).
		WithArgs("c1", "u1").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation})
	mock.ExpectQuery(`SELECT c.name`).
		WithArgs("c1", "u1").
		WillReturnRows(pgxmock.NewRows([]string{"name", "count"}).AddRow("Errands", 2))

	err := svc.DeleteCategory(context.Background(), DeleteCategoryParams{ID: "c1", UserID: "u1"})
	require.ErrorIs(t, err, ErrCategoryInUse)

	var inUse *CategoryInUseError
	require.True(t, errors.As(err, &inUse))
	assert.Equal(t, "Errands", inUse.Name)
	assert.Equal(t, 2, inUse.Tasks)
	assert.Equal(t, `"Errands" is being used by 2 task(s)`, inUse.Error())
}
