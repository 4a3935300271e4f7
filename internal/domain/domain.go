// Package domain holds types shared across the storefront domain packages.
package domain

import "fmt"

// InvalidArgumentError is the single validation failure kind raised by the
// domain. Every rejected constructor argument, stock mutation, or order line
// surfaces as one of these; nothing is retried or recovered internally.
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return e.Reason
}

// Invalidf builds an InvalidArgumentError from a format string.
func Invalidf(format string, args ...any) error {
	return &InvalidArgumentError{Reason: fmt.Sprintf(format, args...)}
}
