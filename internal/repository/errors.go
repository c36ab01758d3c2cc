// Package repository defines sentinel errors shared by the concrete
// repositories so handlers can translate failure scenarios into HTTP
// statuses without inspecting driver errors.
package repository

import "errors"

// ErrDuplicateAccount is returned when an insert violates the
// uniqueness of username or email. Handlers translate it into an
// HTTP 409 response.
var ErrDuplicateAccount = errors.New("username or email already exists")

// ErrNotFound is returned when a requested row does not exist.
// Handlers translate it into an HTTP 404 response.
var ErrNotFound = errors.New("not found")
