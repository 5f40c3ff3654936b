package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/store"
	"gorm.io/gorm"
)

// MockTaskStore implements store.TaskStore in memory, including the
// optimistic version check. When Employees is set, Create and the update
// methods reject unknown assignees or reviewers with store.ErrInvalidEntity
// and loaded tasks carry their navigation.
type MockTaskStore struct {
	GetByIDFn            func(ctx context.Context, id int64) (*domain.Task, error)
	GetAllFn             func(ctx context.Context) ([]*domain.Task, error)
	CreateFn             func(ctx context.Context, task *domain.Task) (*domain.Task, error)
	UpdateScalarFieldsFn func(ctx context.Context, task *domain.Task) error
	UpdateStatusFn       func(ctx context.Context, task *domain.Task) error
	DeleteFn             func(ctx context.Context, id int64) error

	Err       error
	Employees *MockEmployeeStore
	Now       func() time.Time

	mu     sync.Mutex
	tasks  map[int64]*domain.Task
	nextID int64
	calls  map[string]int
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates a store seeded with tasks.
func NewMockTaskStore(employees *MockEmployeeStore, seed ...*domain.Task) *MockTaskStore {
	m := &MockTaskStore{
		Employees: employees,
		Now:       time.Now,
		tasks:     make(map[int64]*domain.Task),
		calls:     make(map[string]int),
	}
	for _, t := range seed {
		m.Seed(t)
	}
	return m
}

// Seed stores a copy of t as-is. A zero version is stored as 1.
func (m *MockTaskStore) Seed(t *domain.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *t
	c.Assignee, c.Reviewer = nil, nil
	if c.Version == 0 {
		c.Version = 1
	}
	m.tasks[c.ID] = &c
	if c.ID > m.nextID {
		m.nextID = c.ID
	}
}

// Stored returns a copy of the stored row without navigation, or nil.
func (m *MockTaskStore) Stored(id int64) *domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil
	}
	c := *t
	return &c
}

// CallCount returns how many times method was called.
func (m *MockTaskStore) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *MockTaskStore) record(method string) {
	m.mu.Lock()
	m.calls[method]++
	m.mu.Unlock()
}

func (m *MockTaskStore) load(t *domain.Task) *domain.Task {
	c := *t
	if m.Employees != nil {
		c.Assignee = m.Employees.Stored(c.AssignedEmployeeID)
		c.Reviewer = m.Employees.Stored(c.ReviewerID)
	}
	return &c
}

func (m *MockTaskStore) employeesExist(t *domain.Task) bool {
	if m.Employees == nil {
		return true
	}
	return m.Employees.Stored(t.AssignedEmployeeID) != nil && m.Employees.Stored(t.ReviewerID) != nil
}

func (m *MockTaskStore) list(keep func(*domain.Task) bool) []*domain.Task {
	m.mu.Lock()
	rows := make([]*domain.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		if keep(t) {
			c := *t
			rows = append(rows, &c)
		}
	}
	m.mu.Unlock()

	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	for i, t := range rows {
		rows[i] = m.load(t)
	}
	return rows
}

// GetByID implements store.TaskStore
func (m *MockTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	m.record("GetByID")
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	t := m.Stored(id)
	if t == nil {
		return nil, store.ErrTaskNotFound
	}
	return m.load(t), nil
}

// GetAll implements store.TaskStore
func (m *MockTaskStore) GetAll(ctx context.Context) ([]*domain.Task, error) {
	m.record("GetAll")
	if m.GetAllFn != nil {
		return m.GetAllFn(ctx)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.list(func(*domain.Task) bool { return true }), nil
}

// GetByAssignee implements store.TaskStore
func (m *MockTaskStore) GetByAssignee(ctx context.Context, employeeID int64) ([]*domain.Task, error) {
	m.record("GetByAssignee")
	if m.Err != nil {
		return nil, m.Err
	}
	return m.list(func(t *domain.Task) bool { return t.AssignedEmployeeID == employeeID }), nil
}

// GetIDsByEmployee implements store.TaskStore
func (m *MockTaskStore) GetIDsByEmployee(ctx context.Context, employeeID int64) ([]int64, error) {
	m.record("GetIDsByEmployee")
	if m.Err != nil {
		return nil, m.Err
	}
	rows := m.list(func(t *domain.Task) bool {
		return t.AssignedEmployeeID == employeeID || t.ReviewerID == employeeID
	})
	ids := make([]int64, len(rows))
	for i, t := range rows {
		ids[i] = t.ID
	}
	return ids, nil
}

// Create implements store.TaskStore
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	m.record("Create")
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if !m.employeesExist(task) {
		return nil, store.ErrInvalidEntity
	}

	now := m.Now().UTC()
	m.mu.Lock()
	m.nextID++
	c := *task
	c.ID = m.nextID
	c.Version = 1
	c.CreatedAt = now
	c.UpdatedAt = now
	c.Assignee, c.Reviewer = nil, nil
	m.tasks[c.ID] = &c
	m.mu.Unlock()

	return m.load(&c), nil
}

// checkVersion returns the stored row when task can be written.
func (m *MockTaskStore) checkVersion(task *domain.Task) (*domain.Task, error) {
	row, ok := m.tasks[task.ID]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	if row.Version != task.Version {
		return nil, store.ErrVersionConflict
	}
	return row, nil
}

// UpdateScalarFields implements store.TaskStore
func (m *MockTaskStore) UpdateScalarFields(ctx context.Context, task *domain.Task) error {
	m.record("UpdateScalarFields")
	if m.UpdateScalarFieldsFn != nil {
		return m.UpdateScalarFieldsFn(ctx, task)
	}
	if m.Err != nil {
		return m.Err
	}
	if !m.employeesExist(task) {
		return store.ErrInvalidEntity
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	row, err := m.checkVersion(task)
	if err != nil {
		return err
	}
	row.Title = task.Title
	row.Description = task.Description
	row.Status = task.Status
	row.AssignedEmployeeID = task.AssignedEmployeeID
	row.ReviewerID = task.ReviewerID
	row.StartDate = task.StartDate
	row.DeadlineDate = task.DeadlineDate
	row.StatusChangedAt = task.StatusChangedAt
	row.Version++
	row.UpdatedAt = m.Now().UTC()
	task.Version = row.Version
	task.UpdatedAt = row.UpdatedAt
	return nil
}

// UpdateStatus implements store.TaskStore
func (m *MockTaskStore) UpdateStatus(ctx context.Context, task *domain.Task) error {
	m.record("UpdateStatus")
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, task)
	}
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	row, err := m.checkVersion(task)
	if err != nil {
		return err
	}
	row.Status = task.Status
	row.StatusChangedAt = task.StatusChangedAt
	row.Version++
	row.UpdatedAt = m.Now().UTC()
	task.Version = row.Version
	task.UpdatedAt = row.UpdatedAt
	return nil
}

// Delete implements store.TaskStore
func (m *MockTaskStore) Delete(ctx context.Context, id int64) error {
	m.record("Delete")
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

// ExistsByID implements store.TaskStore
func (m *MockTaskStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	m.record("ExistsByID")
	if m.Err != nil {
		return false, m.Err
	}
	return m.Stored(id) != nil, nil
}

// WithTx implements store.TaskStore. The mock ignores transactions.
func (m *MockTaskStore) WithTx(*gorm.DB) store.TaskStore {
	return m
}
