package postgres

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newMockStores returns stores backed by sqlmock through GORM.
func newMockStores(t *testing.T) (*EmployeeStore, *TaskStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := NewGorm(db, quietLogger())
	require.NoError(t, err)

	return NewEmployeeStore(gormDB, quietLogger()), NewTaskStore(gormDB, quietLogger()), mock
}

func TestTaskStore_UpdateScalarFields(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

	newTask := func() *domain.Task {
		return &domain.Task{
			ID:                 7,
			Title:              "Write docs",
			Status:             domain.TaskStatusWorking,
			AssignedEmployeeID: 1,
			ReviewerID:         2,
			StartDate:          start,
			DeadlineDate:       start.Add(48 * time.Hour),
			Version:            3,
		}
	}

	t.Run("success bumps version", func(t *testing.T) {
		_, tasks, mock := newMockStores(t)
		mock.ExpectExec(`UPDATE "tasks" SET`).WillReturnResult(sqlmock.NewResult(0, 1))

		task := newTask()
		require.NoError(t, tasks.UpdateScalarFields(ctx, task))
		assert.Equal(t, 4, task.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale version is a conflict", func(t *testing.T) {
		_, tasks, mock := newMockStores(t)
		mock.ExpectExec(`UPDATE "tasks" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "tasks"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		task := newTask()
		err := tasks.UpdateScalarFields(ctx, task)
		assert.ErrorIs(t, err, store.ErrVersionConflict)
		assert.Equal(t, 3, task.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row is not found", func(t *testing.T) {
		_, tasks, mock := newMockStores(t)
		mock.ExpectExec(`UPDATE "tasks" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "tasks"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		err := tasks.UpdateStatus(ctx, newTask())
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTaskStore_Delete(t *testing.T) {
	_, tasks, mock := newMockStores(t)
	mock.ExpectExec(`DELETE FROM "tasks"`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := tasks.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeStore_GetByIDNotFound(t *testing.T) {
	employees, _, mock := newMockStores(t)
	mock.ExpectQuery(`SELECT \* FROM "employees"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := employees.GetByID(context.Background(), 999)
	assert.Equal(t, store.ErrEmployeeNotFound, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeStore_CreateDuplicateEmail(t *testing.T) {
	employees, _, mock := newMockStores(t)
	mock.ExpectQuery(`INSERT INTO "employees"`).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "employees_email_key"})

	err := employees.Create(context.Background(), &domain.Employee{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Role:         domain.RoleAdmin,
		Email:        "ada@example.com",
		MobileNumber: "123",
		PasswordHash: "hash",
	})
	assert.Equal(t, store.ErrEmailExists, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeStore_EmailExistsExcludesSelf(t *testing.T) {
	employees, _, mock := newMockStores(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "employees" WHERE email = \$1 AND id <> \$2`).
		WithArgs("ada@example.com", int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	exists, err := employees.EmailExists(context.Background(), "ada@example.com", 5)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
