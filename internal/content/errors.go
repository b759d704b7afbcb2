// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import "errors"

// ValidationError reports a missing or malformed input field, or an input
// that references records that do not exist.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// NotFoundError reports an operation addressed to an id absent from the store.
type NotFoundError struct {
	Reason string
}

func (e *NotFoundError) Error() string { return e.Reason }

// ConflictError reports a duplicate category name or a delete blocked by
// referencing posts.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

func invalid(reason string) error  { return &ValidationError{Reason: reason} }
func notFound(reason string) error { return &NotFoundError{Reason: reason} }
func conflict(reason string) error { return &ConflictError{Reason: reason} }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsConflict reports whether err is (or wraps) a ConflictError.
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsExpected reports whether err is one of the typed errors whose message
// is safe to show to the caller. Anything else is an internal fault.
func IsExpected(err error) bool {
	return IsValidation(err) || IsNotFound(err) || IsConflict(err)
}

// Reason returns the caller-facing message of the typed error err wraps.
// ok is false for internal faults.
func Reason(err error) (reason string, ok bool) {
	var (
		v *ValidationError
		n *NotFoundError
		c *ConflictError
	)
	switch {
	case errors.As(err, &v):
		return v.Reason, true
	case errors.As(err, &n):
		return n.Reason, true
	case errors.As(err, &c):
		return c.Reason, true
	}
	return "", false
}
