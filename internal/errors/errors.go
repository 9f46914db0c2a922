package errors

import "errors"

var ErrUnauthorized = errors.New("user is not authorized")
var ErrValidation = errors.New("invalid request data")
var ErrNotFound = errors.New("no such id found")

// ErrConflict covers foreign key violations: a show pointing at a missing
// theatre, or a theatre that still owns shows being deleted.
var ErrConflict = errors.New("operation conflicts with existing data")
