package services

import (
	"errors"
	"strings"
)

// Sentinel errors for business-rule failures. Services wrap these with
// fmt.Errorf("...: %w", ...) for context; handlers map them to HTTP statuses
// with errors.Is. Anything that doesn't match is an internal error.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrNoLinkedUser       = errors.New("scientist has no linked user account")
)

// isUniqueViolation reports whether err is a sqlite UNIQUE constraint
// failure. Matched by message because the driver exports no typed error
// for constraint violations.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
