// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"fmt"
	"log/slog"
)

// Result is the uniform envelope every content operation is reported in.
// Callers check Success before trusting Data.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK wraps v in a success envelope.
func OK[T any](v T) Result[T] {
	return Result[T]{Success: true, Data: v}
}

// Fail returns a failure envelope carrying reason.
func Fail[T any](reason string) Result[T] {
	return Result[T]{Error: reason}
}

// Respond converts a service return pair into an envelope. Typed errors keep
// their reason; internal faults are logged and replaced with a generic
// message built from op, e.g. "Failed to create post. Please try again later."
func Respond[T any](op string, v T, err error) Result[T] {
	if err == nil {
		return OK(v)
	}
	if reason, ok := Reason(err); ok {
		return Fail[T](reason)
	}
	slog.Error("content operation failed", "op", op, "error", err)
	return Fail[T](fmt.Sprintf("Failed to %s. Please try again later.", op))
}
