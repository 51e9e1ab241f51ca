// Package sqlerr handles database driver errors.
//
// It parses SQLSTATE codes from the PostgreSQL driver and converts them
// into application errors (e.g. text the database cannot store becomes a
// Bad Request).
package sqlerr

import "fmt"

// Code is the coarse category of a database error.
type Code string

const (
	Other          Code = "other"
	InvalidText    Code = "invalid_text_representation"
	UndefinedTable Code = "undefined_table"
)

// Severity mirrors the PostgreSQL severity levels.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

// Error is a normalized database error.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string

	driverErr error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (SQLSTATE %s)", e.Severity, e.Message, e.DatabaseCode)
}

func (e *Error) Unwrap() error {
	return e.driverErr
}

// MapCode maps a SQLSTATE to a Code.
//
// Only states the article statements can raise from client input are
// distinguished; the articles table has no foreign, unique or check
// constraints and every column is always bound.
func MapCode(sqlState string) Code {
	switch sqlState {
	// invalid_text_representation, character_not_in_repertoire (a NUL
	// byte in text), untranslatable_character
	case "22P02", "22021", "22P05":
		return InvalidText
	case "42P01":
		return UndefinedTable
	default:
		return Other
	}
}

// MapSeverity maps the driver's severity string. Unknown values become ERROR.
func MapSeverity(severity string) Severity {
	switch Severity(severity) {
	case SeverityError, SeverityFatal, SeverityPanic, SeverityWarning,
		SeverityNotice, SeverityDebug, SeverityInfo, SeverityLog:
		return Severity(severity)
	default:
		return SeverityError
	}
}
