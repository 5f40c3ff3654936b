package service_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/workforce-api/internal/cache"
	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/mocks"
	"github.com/phrazzld/workforce-api/internal/service"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func ptr[T any](v T) *T {
	return &v
}

// fixture wires both services over in-memory stores, a memory cache and a
// sqlmock-backed gorm handle used only for BEGIN/COMMIT/ROLLBACK.
type fixture struct {
	sql       sqlmock.Sqlmock
	employees *mocks.MockEmployeeStore
	tasks     *mocks.MockTaskStore
	empCache  *cache.EmployeeCache
	taskCache *cache.TaskCache
	hasher    *mocks.MockPasswordHasher
	notifier  *mocks.MockNotifier
	people    *service.EmployeeServiceImpl
	svc       *service.TaskServiceImpl
}

func seedEmployees() []*domain.Employee {
	return []*domain.Employee{
		{ID: 1, FirstName: "Ada", LastName: "Lovelace", Role: domain.RoleAdmin, Email: "ada@example.com", MobileNumber: "555-0001", PasswordHash: "hashed:ada-pass"},
		{ID: 2, FirstName: "Grace", LastName: "Hopper", Role: domain.RoleEmployee, Email: "grace@example.com", MobileNumber: "555-0002", PasswordHash: "hashed:grace-pass"},
		{ID: 3, FirstName: "Alan", LastName: "Turing", Role: domain.RoleManager, Email: "alan@example.com", MobileNumber: "555-0003", PasswordHash: "hashed:alan-pass"},
	}
}

// Task fixtures, relative to now.
const (
	workingTaskID    int64 = 10
	notStartedTaskID int64 = 11
	completedTaskID  int64 = 12
	overdueTaskID    int64 = 13
)

func seedTasks() []*domain.Task {
	return []*domain.Task{
		{
			ID: workingTaskID, Title: "Write report", Status: domain.TaskStatusWorking,
			AssignedEmployeeID: 2, ReviewerID: 3,
			StartDate: now.Add(-48 * time.Hour), DeadlineDate: now.Add(48 * time.Hour),
			StatusChangedAt: ptr(now.Add(-24 * time.Hour)), Version: 1,
		},
		{
			ID: notStartedTaskID, Title: "Plan sprint", Status: domain.TaskStatusNotStarted,
			AssignedEmployeeID: 2, ReviewerID: 1,
			StartDate: now.Add(24 * time.Hour), DeadlineDate: now.Add(72 * time.Hour), Version: 1,
		},
		{
			ID: completedTaskID, Title: "Archive logs", Status: domain.TaskStatusCompleted,
			AssignedEmployeeID: 3, ReviewerID: 2,
			StartDate: now.Add(-240 * time.Hour), DeadlineDate: now.Add(-48 * time.Hour),
			StatusChangedAt: ptr(now.Add(-72 * time.Hour)), Version: 3,
		},
		{
			ID: overdueTaskID, Title: "Fix login bug", Status: domain.TaskStatusWorking,
			AssignedEmployeeID: 2, ReviewerID: 1,
			StartDate: now.Add(-120 * time.Hour), DeadlineDate: now.Add(-time.Hour),
			StatusChangedAt: ptr(now.Add(-100 * time.Hour)), Version: 1,
		},
	}
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithBackend(t, cache.NewMemoryBackend())
}

func newFixtureWithBackend(t *testing.T, backend cache.Backend) *fixture {
	t.Helper()

	sqlDB, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	logger := testLogger()
	employees := mocks.NewMockEmployeeStore(seedEmployees()...)
	tasks := mocks.NewMockTaskStore(employees, seedTasks()...)
	tasks.Now = func() time.Time { return now }

	f := &fixture{
		sql:       sqlMock,
		employees: employees,
		tasks:     tasks,
		empCache:  cache.NewEmployeeCache(backend, cache.DefaultTTL, logger),
		taskCache: cache.NewTaskCache(backend, cache.DefaultTTL, logger),
		hasher:    &mocks.MockPasswordHasher{},
		notifier:  &mocks.MockNotifier{},
	}
	f.people = service.NewEmployeeService(db, employees, tasks, f.empCache, f.taskCache, f.hasher, logger)
	f.svc = service.NewTaskService(db, tasks, employees, f.people, f.taskCache, f.notifier, logger,
		service.WithClock(func() time.Time { return now }))

	t.Cleanup(func() {
		require.NoError(t, sqlMock.ExpectationsWereMet())
	})
	return f
}

// expectTx registers one transaction that ends in a commit or a rollback.
func (f *fixture) expectTx(commit bool) {
	f.sql.ExpectBegin()
	if commit {
		f.sql.ExpectCommit()
	} else {
		f.sql.ExpectRollback()
	}
}

// failingBackend is a cache backend whose every call fails.
type failingBackend struct{}

var errCacheDown = errors.New("cache down")

func (failingBackend) Get(context.Context, string) ([]byte, error) {
	return nil, errCacheDown
}

func (failingBackend) MGet(context.Context, []string) ([][]byte, error) {
	return nil, errCacheDown
}

func (failingBackend) Set(context.Context, string, []byte, time.Duration) error {
	return errCacheDown
}

func (failingBackend) Del(context.Context, ...string) error {
	return errCacheDown
}
