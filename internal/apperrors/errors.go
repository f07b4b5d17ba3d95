package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the resource is in a state that forbids the requested transition.
var ErrConflict = errors.New("resource state conflict")

// ErrForbidden indicates that the authenticated user lacks the required role.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthenticated indicates a missing or invalid credential.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrBadSignature indicates a webhook payload whose signature did not verify.
var ErrBadSignature = errors.New("invalid webhook signature")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")
