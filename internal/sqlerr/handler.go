package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/blog-articles/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrCode reports the Code of the first *Error in err's chain, or Other.
func ErrCode(err error) Code {
	var pgerr *Error
	if errors.As(err, &pgerr) {
		return pgerr.Code
	}
	return Other
}

// ConvertPgError converts a raw *pgconn.PgError into an *Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// entityName singularizes and humanizes a table name: "articles" -> "Article".
func entityName(tableName string) string {
	if tableName == "" {
		return "Record"
	}

	entity := strings.TrimSuffix(tableName, "s")
	return cases.Title(language.English).String(strings.ReplaceAll(entity, "_", " "))
}

// errorCode builds "<ENTITY>_INVALID", e.g. ARTICLE_INVALID.
func errorCode(tableName string) string {
	return fmt.Sprintf("%s_INVALID", strings.ToUpper(strings.ReplaceAll(entityName(tableName), " ", "_")))
}

// HandleError converts a low-level database error into an *errs.HTTPError.
//
//   - *errs.HTTPError is returned unchanged
//   - text the database refuses to store becomes a 400
//   - ErrNoRows becomes a generic 404
//   - everything else becomes a 500 that does not leak driver details
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		sqlErr := ConvertPgError(pgerr)

		if sqlErr.Code == InvalidText {
			code := errorCode(sqlErr.TableName)
			message := fmt.Sprintf("The %s contains values with an invalid format", strings.ToLower(entityName(sqlErr.TableName)))
			return errs.NewBadRequestError(message, true, &code, nil, nil)
		}

		return errs.NewInternalServerError()
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewInternalServerError()
}
