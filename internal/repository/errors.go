// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios: ErrForbidden
// indicates the current user is not authorized to act on a resource owned
// by someone else, while ErrDuplicate signals a uniqueness violation such
// as a second review for the same listing by the same user.
package repository

import (
	"errors"
	"strings"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own or manage.  Handlers translate this into an
// HTTP 403 response, distinct from sql.ErrNoRows which maps to 404 so the
// two cases never leak into each other.
var ErrForbidden = errors.New("forbidden")

// ErrDuplicate is returned when an insert violates a uniqueness
// constraint (review per listing/user pair, favorite pair, email).
// Handlers translate this into an HTTP 409 response.
var ErrDuplicate = errors.New("duplicate")

// ErrEmailExists is returned by user creation when the email is taken.
var ErrEmailExists = errors.New("email already exists")

// isDuplicateKey detects the MySQL duplicate-entry error (1062) without
// depending on driver error types.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
