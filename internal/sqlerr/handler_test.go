package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/formrequest/internal/errs"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)

	return httpErr
}

func TestHandleError_PgErrors(t *testing.T) {
	tests := []struct {
		name       string
		pgErr      *pgconn.PgError
		wantStatus int
		wantCode   string
		wantFields []errs.FieldError
	}{
		{
			name: "unique violation names the column",
			pgErr: &pgconn.PgError{
				Code:           pgerrcode.UniqueViolation,
				Severity:       "ERROR",
				TableName:      "contacts",
				ConstraintName: "contacts_email_key",
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "CONTACT_ALREADY_EXISTS",
			wantFields: []errs.FieldError{{Field: "email", Error: "is already taken"}},
		},
		{
			name: "not null violation",
			pgErr: &pgconn.PgError{
				Code:       pgerrcode.NotNullViolation,
				TableName:  "contacts",
				ColumnName: "Name",
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "CONTACT_REQUIRED",
			wantFields: []errs.FieldError{{Field: "name", Error: "is required"}},
		},
		{
			name:       "foreign key violation",
			pgErr:      &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, TableName: "contacts", ColumnName: "owner_id"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "CONTACT_NOT_FOUND",
		},
		{
			name:       "check violation",
			pgErr:      &pgconn.PgError{Code: pgerrcode.CheckViolation, TableName: "contacts", ColumnName: "age"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "CONTACT_INVALID",
		},
		{
			name:       "invalid text",
			pgErr:      &pgconn.PgError{Code: pgerrcode.InvalidTextRepresentation},
			wantStatus: http.StatusBadRequest,
			wantCode:   "RECORD_INVALID",
		},
		{
			name:       "anything else is internal",
			pgErr:      &pgconn.PgError{Code: pgerrcode.DiskFull},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := HandleError(fmt.Errorf("insert: %w", tt.pgErr))

			httpErr := asHTTPError(t, err)
			assert.Equal(t, tt.wantStatus, httpErr.Status)
			assert.Equal(t, tt.wantCode, httpErr.Code)
			assert.Equal(t, tt.wantFields, httpErr.Errors)
		})
	}
}

func TestHandleError_UniqueMessage(t *testing.T) {
	err := HandleError(&pgconn.PgError{
		Code:           pgerrcode.UniqueViolation,
		TableName:      "contacts",
		ConstraintName: "unique_contacts_phone",
	})

	assert.Equal(t, "A Contact with this phone already exists", asHTTPError(t, err).Message)
}

func TestHandleError_NoRows(t *testing.T) {
	t.Run("with table", func(t *testing.T) {
		err := HandleError(WithTable("contacts", pgx.ErrNoRows))

		httpErr := asHTTPError(t, err)
		assert.Equal(t, http.StatusNotFound, httpErr.Status)
		assert.Equal(t, "CONTACT_NOT_FOUND", httpErr.Code)
		assert.Equal(t, "Contact not found", httpErr.Message)
	})

	t.Run("without table", func(t *testing.T) {
		httpErr := asHTTPError(t, HandleError(pgx.ErrNoRows))
		assert.Equal(t, "Resource not found", httpErr.Message)
	})
}

func TestHandleError_KeepsHTTPError(t *testing.T) {
	original := errs.NewForbiddenError("nope", false)
	assert.Same(t, original, HandleError(original))
}

func TestHandleError_UnknownIsInternal(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(errors.New("connection reset")))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
}

func TestErrCode(t *testing.T) {
	pgErr := &pgconn.PgError{Code: pgerrcode.UniqueViolation, Severity: "ERROR", Message: "duplicate"}

	assert.Equal(t, UniqueViolation, ErrCode(pgErr))
	assert.Equal(t, UniqueViolation, ErrCode(ConvertPgError(pgErr)))
	assert.Equal(t, Other, ErrCode(errors.New("x")))
}

func TestConvertPgError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: pgerrcode.CheckViolation, Severity: "SHOUT", Message: "age_check", TableName: "contacts"}

	sqlErr := ConvertPgError(pgErr)

	assert.Equal(t, CheckViolation, sqlErr.Code)
	assert.Equal(t, SeverityError, sqlErr.Severity)
	assert.Equal(t, "contacts", sqlErr.TableName)
	assert.ErrorIs(t, sqlErr, pgErr)
	assert.Equal(t, "ERROR 23514: age_check", sqlErr.Error())
}

func TestWithTable_Nil(t *testing.T) {
	assert.NoError(t, WithTable("contacts", nil))
}
