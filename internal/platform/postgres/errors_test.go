package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/workforce-api/internal/store"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		expectedErr error
		expectedMsg string
	}{
		{name: "nil_error", err: nil},
		{name: "sql_no_rows", err: sql.ErrNoRows, expectedErr: store.ErrNotFound},
		{name: "gorm_record_not_found", err: gorm.ErrRecordNotFound, expectedErr: store.ErrNotFound},
		{
			name:        "unique_violation",
			err:         &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "employees_email_key"},
			expectedErr: store.ErrDuplicate,
		},
		{
			name:        "foreign_key_violation",
			err:         &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "tasks_reviewer_id_fkey"},
			expectedErr: store.ErrInvalidEntity,
			expectedMsg: "foreign key violation (tasks_reviewer_id_fkey)",
		},
		{
			name:        "check_constraint_violation",
			err:         &pgconn.PgError{Code: checkViolationCode, ConstraintName: "tasks_deadline_after_start"},
			expectedErr: store.ErrInvalidEntity,
			expectedMsg: "check constraint violation",
		},
		{
			name:        "not_null_violation",
			err:         &pgconn.PgError{Code: notNullViolationCode, ColumnName: "title"},
			expectedErr: store.ErrInvalidEntity,
			expectedMsg: "not null violation (title)",
		},
		{
			name:        "string_too_long",
			err:         &pgconn.PgError{Code: stringTooLongCode, Message: "value too long for type character varying(32)"},
			expectedErr: store.ErrInvalidEntity,
			expectedMsg: "value too long",
		},
		{
			name:        "wrapped_pg_error",
			err:         fmt.Errorf("exec: %w", &pgconn.PgError{Code: uniqueViolationCode}),
			expectedErr: store.ErrDuplicate,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := MapError(tc.err)
			if tc.err == nil {
				assert.NoError(t, got)
				return
			}
			if tc.expectedErr != nil {
				assert.ErrorIs(t, got, tc.expectedErr)
			}
			if tc.expectedMsg != "" {
				assert.Contains(t, got.Error(), tc.expectedMsg)
			}
		})
	}

	t.Run("unmapped_error_passes_through", func(t *testing.T) {
		orig := errors.New("connection reset")
		assert.Equal(t, orig, MapError(orig))
	})
}

func TestViolationHelpers(t *testing.T) {
	unique := &pgconn.PgError{Code: uniqueViolationCode}
	fk := &pgconn.PgError{Code: foreignKeyViolationCode}

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsUniqueViolation(fk))
	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsForeignKeyViolation(errors.New("other")))
}

func TestMapNotFound(t *testing.T) {
	assert.Equal(t, store.ErrTaskNotFound, mapNotFound(gorm.ErrRecordNotFound, store.ErrTaskNotFound))
	assert.ErrorIs(t, mapNotFound(&pgconn.PgError{Code: uniqueViolationCode}, store.ErrTaskNotFound), store.ErrDuplicate)
}
