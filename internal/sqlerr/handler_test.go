package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/blog-articles/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nul byte in text",
			err:         fmt.Errorf("inserting article: %w", &pgconn.PgError{Code: "22021", Severity: "ERROR"}),
			wantStatus:  http.StatusBadRequest,
			wantCode:    "RECORD_INVALID",
			wantMessage: "The record contains values with an invalid format",
		},
		{
			name:        "invalid text representation on a known table",
			err:         &pgconn.PgError{Code: "22P02", Severity: "ERROR", TableName: "articles"},
			wantStatus:  http.StatusBadRequest,
			wantCode:    "ARTICLE_INVALID",
			wantMessage: "The article contains values with an invalid format",
		},
		{
			name:        "undefined table is internal",
			err:         &pgconn.PgError{Code: "42P01", Severity: "ERROR"},
			wantStatus:  http.StatusInternalServerError,
			wantCode:    "INTERNAL_SERVER_ERROR",
			wantMessage: "Internal Server Error",
		},
		{
			name:        "no rows",
			err:         fmt.Errorf("select: %w", pgx.ErrNoRows),
			wantStatus:  http.StatusNotFound,
			wantCode:    "NOT_FOUND",
			wantMessage: "Resource not found",
		},
		{
			name:        "unknown error",
			err:         errors.New("connection reset by peer"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    "INTERNAL_SERVER_ERROR",
			wantMessage: "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := asHTTPError(t, HandleError(tt.err))
			assert.Equal(t, tt.wantStatus, httpErr.Status)
			assert.Equal(t, tt.wantCode, httpErr.Code)
			assert.Equal(t, tt.wantMessage, httpErr.Message)
		})
	}
}

func TestHandleErrorPassesHTTPErrorThrough(t *testing.T) {
	original := errs.NewNotFoundError("Article not found", false, nil)
	assert.Same(t, original, HandleError(original))
}

func TestMapCode(t *testing.T) {
	assert.Equal(t, InvalidText, MapCode("22021"))
	assert.Equal(t, InvalidText, MapCode("22P02"))
	assert.Equal(t, InvalidText, MapCode("22P05"))
	assert.Equal(t, UndefinedTable, MapCode("42P01"))
	assert.Equal(t, Other, MapCode("23505"))
}

func TestErrCode(t *testing.T) {
	converted := ConvertPgError(&pgconn.PgError{Code: "22021", Severity: "ERROR"})
	assert.Equal(t, InvalidText, ErrCode(fmt.Errorf("insert: %w", converted)))
	assert.Equal(t, Other, ErrCode(errors.New("plain")))

	var pgErr *pgconn.PgError
	assert.True(t, errors.As(converted, &pgErr))
}
