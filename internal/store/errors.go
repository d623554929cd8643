package store

import "errors"

var (
	// ErrCaseNotFound is returned when no case matches the id within the
	// caller's scope. Out-of-scope cases are reported the same way.
	ErrCaseNotFound = errors.New("case not found")
	// ErrDuplicateCase is returned when a case id is already taken.
	ErrDuplicateCase = errors.New("case id already exists")
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateUser is returned when the username is already registered.
	ErrDuplicateUser = errors.New("username already exists")
)
