package mapper

import (
	"github.com/phrazzld/workforce-api/internal/domain"
)

// EmployeeToDTO converts an employee for output. The password hash is
// dropped.
func EmployeeToDTO(e *domain.Employee) *EmployeeDTO {
	if e == nil {
		return nil
	}
	return &EmployeeDTO{
		ID:           e.ID,
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		Role:         string(e.Role),
		Email:        e.Email,
		MobileNumber: e.MobileNumber,
	}
}

// EmployeesToDTO converts a slice, never returning nil.
func EmployeesToDTO(employees []*domain.Employee) []*EmployeeDTO {
	out := make([]*EmployeeDTO, 0, len(employees))
	for _, e := range employees {
		if dto := EmployeeToDTO(e); dto != nil {
			out = append(out, dto)
		}
	}
	return out
}

// EmployeeFromDTO converts input into an employee. The role must be one of
// the canonical names (case-insensitive); anything else is a validation
// error.
func EmployeeFromDTO(dto *EmployeeDTO) (*domain.Employee, error) {
	if dto == nil {
		return nil, nil
	}
	role, err := domain.ParseRole(dto.Role)
	if err != nil {
		return nil, err
	}
	return &domain.Employee{
		ID:           dto.ID,
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		Role:         role,
		Email:        dto.Email,
		MobileNumber: dto.MobileNumber,
		Password:     dto.Password,
	}, nil
}
