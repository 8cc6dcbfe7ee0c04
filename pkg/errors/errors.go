// Package errors defines the error taxonomy shared by all repod packages.
package errors

import "fmt"

// Common error types.
var (
	// Ingestion errors.
	ErrMissingField        = fmt.Errorf("required metadata field missing")
	ErrInconsistentPkgbase = fmt.Errorf("packages of one pkgbase disagree on shared fields")
	ErrVersionNotIncreased = fmt.Errorf("version not increased")
	ErrBadSignature        = fmt.Errorf("signature verification failed")

	// Store errors.
	ErrUnknownRepo   = fmt.Errorf("unknown repository")
	ErrNotFound      = fmt.Errorf("pkgbase not found")
	ErrAlreadyExists = fmt.Errorf("pkgbase already exists")

	// Usage errors.
	ErrInvalidArgument = fmt.Errorf("invalid argument")

	// Config errors.
	ErrConfigParse      = fmt.Errorf("failed to parse config")
	ErrConfigValidation = fmt.Errorf("invalid configuration")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
