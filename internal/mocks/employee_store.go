package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/store"
	"gorm.io/gorm"
)

// MockEmployeeStore implements store.EmployeeStore in memory. Function
// fields override the default behaviour per method; Err makes every
// method without an override fail.
type MockEmployeeStore struct {
	GetByIDFn     func(ctx context.Context, id int64) (*domain.Employee, error)
	GetByEmailFn  func(ctx context.Context, email string) (*domain.Employee, error)
	GetAllFn      func(ctx context.Context) ([]*domain.Employee, error)
	CreateFn      func(ctx context.Context, employee *domain.Employee) error
	UpdateFn      func(ctx context.Context, employee *domain.Employee) error
	DeleteFn      func(ctx context.Context, id int64) error
	ExistsByIDFn  func(ctx context.Context, id int64) (bool, error)
	EmailExistsFn func(ctx context.Context, email string, excludeID int64) (bool, error)

	Err error

	mu        sync.Mutex
	employees map[int64]*domain.Employee
	nextID    int64
	calls     map[string]int
}

var _ store.EmployeeStore = (*MockEmployeeStore)(nil)

// NewMockEmployeeStore creates a store seeded with employees.
func NewMockEmployeeStore(seed ...*domain.Employee) *MockEmployeeStore {
	m := &MockEmployeeStore{
		employees: make(map[int64]*domain.Employee),
		calls:     make(map[string]int),
	}
	for _, e := range seed {
		m.Seed(e)
	}
	return m
}

// Seed stores a copy of e as-is, keeping its ID.
func (m *MockEmployeeStore) Seed(e *domain.Employee) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *e
	m.employees[c.ID] = &c
	if c.ID > m.nextID {
		m.nextID = c.ID
	}
}

// Stored returns a copy of the stored employee, or nil.
func (m *MockEmployeeStore) Stored(id int64) *domain.Employee {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.employees[id]
	if !ok {
		return nil
	}
	c := *e
	return &c
}

// CallCount returns how many times method was called.
func (m *MockEmployeeStore) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *MockEmployeeStore) record(method string) {
	m.mu.Lock()
	m.calls[method]++
	m.mu.Unlock()
}

// GetByID implements store.EmployeeStore
func (m *MockEmployeeStore) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	m.record("GetByID")
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if e := m.Stored(id); e != nil {
		return e, nil
	}
	return nil, store.ErrEmployeeNotFound
}

// GetByEmail implements store.EmployeeStore
func (m *MockEmployeeStore) GetByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	m.record("GetByEmail")
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.employees {
		if e.Email == email {
			c := *e
			return &c, nil
		}
	}
	return nil, store.ErrEmployeeNotFound
}

// GetAll implements store.EmployeeStore
func (m *MockEmployeeStore) GetAll(ctx context.Context) ([]*domain.Employee, error) {
	m.record("GetAll")
	if m.GetAllFn != nil {
		return m.GetAllFn(ctx)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		c := *e
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Create implements store.EmployeeStore
func (m *MockEmployeeStore) Create(ctx context.Context, employee *domain.Employee) error {
	m.record("Create")
	if m.CreateFn != nil {
		return m.CreateFn(ctx, employee)
	}
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.employees {
		if e.Email == employee.Email {
			return store.ErrEmailExists
		}
	}
	m.nextID++
	employee.ID = m.nextID
	c := *employee
	m.employees[c.ID] = &c
	return nil
}

// Update implements store.EmployeeStore
func (m *MockEmployeeStore) Update(ctx context.Context, employee *domain.Employee) error {
	m.record("Update")
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, employee)
	}
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.employees[employee.ID]; !ok {
		return store.ErrEmployeeNotFound
	}
	c := *employee
	m.employees[c.ID] = &c
	return nil
}

// Delete implements store.EmployeeStore
func (m *MockEmployeeStore) Delete(ctx context.Context, id int64) error {
	m.record("Delete")
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.employees[id]; !ok {
		return store.ErrEmployeeNotFound
	}
	delete(m.employees, id)
	return nil
}

// ExistsByID implements store.EmployeeStore
func (m *MockEmployeeStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	m.record("ExistsByID")
	if m.ExistsByIDFn != nil {
		return m.ExistsByIDFn(ctx, id)
	}
	if m.Err != nil {
		return false, m.Err
	}
	return m.Stored(id) != nil, nil
}

// EmailExists implements store.EmployeeStore
func (m *MockEmployeeStore) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	m.record("EmailExists")
	if m.EmailExistsFn != nil {
		return m.EmailExistsFn(ctx, email, excludeID)
	}
	if m.Err != nil {
		return false, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.employees {
		if e.Email == email && e.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// WithTx implements store.EmployeeStore. The mock ignores transactions.
func (m *MockEmployeeStore) WithTx(*gorm.DB) store.EmployeeStore {
	return m
}
