// Package errs provides the error taxonomy used across the gateway: every
// error the gateway originates (as opposed to one it merely relays from a
// remote service) carries a Category and a Type alongside the usual message.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Category is the broad class of an error: who is at fault.
type Category uint32

const (
	// CatUnknown is the zero value and should not be used.
	CatUnknown Category = iota
	// CatUser marks an error caused by bad input from the Arrow peer.
	CatUser
	// CatInternal marks an error in the gateway's own operation, e.g. a
	// failed dial or an exhausted buffer.
	CatInternal
)

func (c Category) String() string {
	switch c {
	case CatUser:
		return "User"
	case CatInternal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// Type narrows a Category down to a specific kind of failure.
type Type uint16

const (
	// TypeUnknown is the zero value and should not be used.
	TypeUnknown Type = iota
	// TypeBug marks a violated invariant: a code path that should be
	// unreachable.
	TypeBug
	// TypeParameter marks a rejected value, such as a buffer limit
	// violation.
	TypeParameter
	// TypeConn marks a failure establishing or maintaining a connection.
	TypeConn
	// TypeTimeout marks a timeout or cancellation.
	TypeTimeout
)

func (t Type) String() string {
	switch t {
	case TypeBug:
		return "Bug"
	case TypeParameter:
		return "Parameter"
	case TypeConn:
		return "Conn"
	case TypeTimeout:
		return "TimeoutOrCancel"
	default:
		return "Unknown"
	}
}

// Error is the error type returned by every gateway-originated failure.
type Error struct {
	Category Category
	Type     Type
	cause    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s/%s: %v", e.Category, e.Type, e.cause)
}

// Unwrap lets errors.Is/errors.As see through to the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// E builds a classified Error, wrapping msg with a stack trace via
// github.com/pkg/errors so the origin of internal failures survives to the
// log line that reports them.
func E(c Category, t Type, msg error) *Error {
	return &Error{Category: c, Type: t, cause: errors.WithStack(msg)}
}

// Newf builds a classified Error from a format string.
func Newf(c Category, t Type, format string, args ...any) *Error {
	return E(c, t, fmt.Errorf(format, args...))
}
