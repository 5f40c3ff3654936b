package domain

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Role is the access level of an employee.
type Role string

// Supported roles.
const (
	RoleAdmin    Role = "Admin"
	RoleManager  Role = "Manager"
	RoleEmployee Role = "Employee"
)

// MinPasswordLength is the shortest accepted plaintext password.
const MinPasswordLength = 8

// Field limits, matching the employees table. MaxPasswordBytes is the
// bcrypt input limit and counts bytes, the others count characters.
const (
	MaxNameLength    = 100
	MaxEmailLength   = 255
	MaxMobileLength  = 32
	MaxPasswordBytes = 72
)

// Employee validation errors.
var (
	ErrEmptyFirstName   = NewValidationError("first_name", "Please enter your first name", nil)
	ErrEmptyLastName    = NewValidationError("last_name", "Please enter your last name", nil)
	ErrInvalidRole      = NewValidationError("role", "Please select a valid role", nil)
	ErrEmptyEmail       = NewValidationError("email", "Please enter your email", nil)
	ErrInvalidEmail     = NewValidationError("email", "Please enter a valid email address", nil)
	ErrEmptyMobile      = NewValidationError("mobile_number", "Please enter your mobile number", nil)
	ErrEmptyPassword    = NewValidationError("password", "Please enter your password", nil)
	ErrPasswordTooShort = NewValidationError("password", "Password must be at least 8 characters long", nil)
	ErrPasswordTooLong  = NewValidationError("password", "Password can't be longer than 72 bytes", nil)
	ErrFirstNameTooLong = NewValidationError("first_name", "First name can't be longer than 100 characters", nil)
	ErrLastNameTooLong  = NewValidationError("last_name", "Last name can't be longer than 100 characters", nil)
	ErrEmailTooLong     = NewValidationError("email", "Email can't be longer than 255 characters", nil)
	ErrMobileTooLong    = NewValidationError("mobile_number", "Mobile number can't be longer than 32 characters", nil)
)

// ParseRole converts the canonical role name into a Role. Matching is
// case-insensitive; the returned value is always canonical.
func ParseRole(s string) (Role, error) {
	for _, r := range []Role{RoleAdmin, RoleManager, RoleEmployee} {
		if strings.EqualFold(s, string(r)) {
			return r, nil
		}
	}
	return "", ErrInvalidRole
}

// Valid reports whether r is one of the supported roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	default:
		return false
	}
}

// CanManageTasks reports whether the role may create, edit and delete tasks.
func (r Role) CanManageTasks() bool {
	return r == RoleAdmin || r == RoleManager
}

// Employee is a person who can be assigned or review tasks.
type Employee struct {
	ID           int64
	FirstName    string
	LastName     string
	Role         Role
	Email        string
	MobileNumber string

	// Password holds a plaintext password only while a create or update is
	// in flight. PasswordHash is what gets persisted.
	Password     string
	PasswordHash string
}

// FullName joins first and last name.
func (e *Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Validate checks the employee's scalar fields. A plaintext password is
// length-checked when present; otherwise an existing hash is required.
func (e *Employee) Validate() error {
	if strings.TrimSpace(e.FirstName) == "" {
		return ErrEmptyFirstName
	}
	if utf8.RuneCountInString(e.FirstName) > MaxNameLength {
		return ErrFirstNameTooLong
	}
	if strings.TrimSpace(e.LastName) == "" {
		return ErrEmptyLastName
	}
	if utf8.RuneCountInString(e.LastName) > MaxNameLength {
		return ErrLastNameTooLong
	}
	if !e.Role.Valid() {
		return ErrInvalidRole
	}
	if e.Email == "" {
		return ErrEmptyEmail
	}
	if utf8.RuneCountInString(e.Email) > MaxEmailLength {
		return ErrEmailTooLong
	}
	if addr, err := mail.ParseAddress(e.Email); err != nil || addr.Address != e.Email {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(e.MobileNumber) == "" {
		return ErrEmptyMobile
	}
	if utf8.RuneCountInString(e.MobileNumber) > MaxMobileLength {
		return ErrMobileTooLong
	}

	if e.Password != "" {
		if len(e.Password) < MinPasswordLength {
			return ErrPasswordTooShort
		}
		if len(e.Password) > MaxPasswordBytes {
			return ErrPasswordTooLong
		}
	} else if e.PasswordHash == "" {
		return ErrEmptyPassword
	}

	return nil
}
