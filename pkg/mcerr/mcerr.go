// Package mcerr defines the single tagged error type shared by the NBT
// codec and the region file engine, so that callers can switch on one
// Kind enumeration instead of juggling sentinel errors per package.
package mcerr

import "fmt"

// Kind identifies the category of a region/NBT failure.
type Kind int

const (
	KindIO Kind = iota
	KindTruncatedRead
	KindTruncatedPayload
	KindInvalidScheme
	KindUnknownTagID
	KindUnexpectedEnd
	KindInvalidUTF8
	KindStringTooLong
	KindListOverflow
	KindChunkTooLarge
	KindChunkNotFound
	KindOverlappingSectors
	KindRegionAllocationFailure
	KindStreamSectorBoundary
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindTruncatedRead:
		return "truncated read"
	case KindTruncatedPayload:
		return "truncated payload"
	case KindInvalidScheme:
		return "invalid compression scheme"
	case KindUnknownTagID:
		return "unknown tag id"
	case KindUnexpectedEnd:
		return "unexpected end tag"
	case KindInvalidUTF8:
		return "invalid utf-8"
	case KindStringTooLong:
		return "string too long"
	case KindListOverflow:
		return "list length overflow"
	case KindChunkTooLarge:
		return "chunk too large"
	case KindChunkNotFound:
		return "chunk not found"
	case KindOverlappingSectors:
		return "overlapping sectors"
	case KindRegionAllocationFailure:
		return "region allocation failure"
	case KindStreamSectorBoundary:
		return "stream not on sector boundary"
	default:
		return "unknown error"
	}
}

// Error is the tagged error type produced by every package in this
// module. It wraps an optional underlying cause and, for the tag/scheme
// byte errors, the offending byte value.
type Error struct {
	Kind Kind
	Byte byte // valid when Kind is KindInvalidScheme or KindUnknownTagID
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidScheme:
		return fmt.Sprintf("%s: %d", e.Kind, e.Byte)
	case KindUnknownTagID:
		return fmt.Sprintf("%s: %d", e.Kind, e.Byte)
	}
	if e.Msg != "" {
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, allowing
// callers to write errors.Is(err, mcerr.New(mcerr.KindChunkNotFound, "")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New builds an *Error of the given kind with a plain message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap builds an *Error of the given kind wrapping an underlying cause.
func Wrap(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// WithByte builds an *Error carrying the offending byte value (used for
// KindInvalidScheme and KindUnknownTagID).
func WithByte(kind Kind, b byte) *Error {
	return &Error{Kind: kind, Byte: b}
}
