// Package errs defines the error taxonomy shared by the reshape and load
// stages.
//
// Three classes of failure exist:
//
//   - configuration errors (unresolved catalog column, missing join key):
//     always fatal, never retried;
//   - schema drift (a well-known natural-key column vanished from an input
//     table): fatal and reported as a configuration error as well;
//   - load integrity errors (storage failure mid-transaction): the load is
//     rolled back and may be retried from the same long-format input.
//
// Incomplete observations (missing year or value) are not errors; the
// reshape stage counts and drops them.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration matches every configuration-class error.
	ErrConfiguration = errors.New("configuration error")

	// ErrSchemaDrift matches errors raised when an expected input column is absent.
	ErrSchemaDrift = errors.New("schema drift")

	// ErrLoadIntegrity matches errors that aborted a load transaction.
	ErrLoadIntegrity = errors.New("load integrity error")
)

// ConfigError reports a catalog or pipeline misconfiguration. Code names the
// offending catalog entry when there is one.
type ConfigError struct {
	Code string
	Msg  string
	Err  error
}

func (e *ConfigError) Error() string {
	var s string
	if e.Code != "" {
		s = fmt.Sprintf("configuration error: indicator %q: %s", e.Code, e.Msg)
	} else {
		s = "configuration error: " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Is reports whether target is ErrConfiguration.
func (e *ConfigError) Is(target error) bool { return target == ErrConfiguration }

// Configf builds a ConfigError for the given indicator code.
func Configf(code, format string, a ...any) *ConfigError {
	return &ConfigError{Code: code, Msg: fmt.Sprintf(format, a...)}
}

// SchemaDriftError reports that a well-known column is missing from an input
// table.
type SchemaDriftError struct {
	Table  string
	Column string
}

func (e *SchemaDriftError) Error() string {
	return fmt.Sprintf("schema drift: table %q has no column %q", e.Table, e.Column)
}

// Is matches both ErrSchemaDrift and ErrConfiguration.
func (e *SchemaDriftError) Is(target error) bool {
	return target == ErrSchemaDrift || target == ErrConfiguration
}

// LoadIntegrityError wraps the storage failure that forced a rollback.
type LoadIntegrityError struct {
	Stage string
	Err   error
}

func (e *LoadIntegrityError) Error() string {
	if e.Err == nil {
		return "load integrity error: " + e.Stage
	}
	return fmt.Sprintf("load integrity error: %s: %v", e.Stage, e.Err)
}

func (e *LoadIntegrityError) Unwrap() error { return e.Err }

// Is reports whether target is ErrLoadIntegrity.
func (e *LoadIntegrityError) Is(target error) bool { return target == ErrLoadIntegrity }
