// Package errs defines the three terminal error categories of the analysis
// pipeline: input validation, numerical, and configuration errors. Every
// failure aborts the run; callers use errors.Is to report which category
// (and message text to report which stage) failed.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrInput covers malformed files, non-numeric cells, and missing values.
	ErrInput = errors.New("input validation error")
	// ErrNumerical covers singular or degenerate linear algebra (PCA on
	// rank-deficient data, unrecoverable empty clusters).
	ErrNumerical = errors.New("numerical error")
	// ErrConfig covers impossible requests (more clusters than points,
	// empty candidate grids, out-of-range split fractions).
	ErrConfig = errors.New("configuration error")
)

func Inputf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInput}, args...)...)
}

func Numericalf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrNumerical}, args...)...)
}

func Configf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrConfig}, args...)...)
}
