// Package repository contains all database access for the back-office
// API: one file per table, raw SQL, no business logic. The sentinel
// errors below are shared across repositories so higher layers can map
// failure scenarios to HTTP responses without string matching.
package repository

import "errors"

// ErrNotFound is returned when a requested row does not exist (or is not
// visible under the caller's account scope). Handlers map it to 404.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource owned by someone else. Handlers map it to 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state, such as a duplicate directory name. Handlers map it
// to 409.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned by user creation when the email is already
// registered.
var ErrEmailExists = errors.New("email already exists")
