package arkerr

import (
	"errors"
	"fmt"
)

// Error is the error type returned across the compressor/extractor package
// boundary. It carries a stable Kind (§7 of the governing spec), an
// optional filesystem/archive path for context, and the underlying cause.
type Error struct {
	Kind  Kind
	Path  string
	Cause error
}

func New(kind Kind, path string, cause error) *Error {
	return &Error{Kind: kind, Path: path, Cause: cause}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	msg := e.Kind.String()
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is lets errors.Is(err, arkerr.New(KindIO, "", nil)) match on Kind alone,
// ignoring Path/Cause, the way the host is expected to branch.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf extracts the Kind of err if it is (or wraps) an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return KindUnknown, false
}

// IsKind reports whether err is (or wraps) an *Error of the given Kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// displayName resolves the Open Question in spec.md §9: a helper to obtain a
// displayable name for a file handle used inside Codec(...) error
// construction. Returns the path if known, otherwise a URI-style fallback.
func displayName(path string) string {
	if path != "" {
		return path
	}
	return "data://unnamed-stream"
}

// Codec builds a KindCodec error, resolving a display name when path is
// unknown, mirroring the codec library's (errno, message, path) triple
// from spec.md §7.
func Codec(path string, cause error) *Error {
	return New(KindCodec, displayName(path), cause)
}

// Sticky is a first-error-wins slot shared by the engine's codec callbacks
// (spec.md §4.3, §7): set at most once per run, read many times.
type Sticky struct {
	err error
}

// Set records err if the slot is still empty. No-op otherwise (first error
// wins). Returns true if this call set the slot.
func (s *Sticky) Set(err error) bool {
	if err == nil || s.err != nil {
		return false
	}
	s.err = err
	return true
}

// Err returns the sticky error, or nil if none was set.
func (s *Sticky) Err() error {
	return s.err
}

// IsSet reports whether an error was already recorded.
func (s *Sticky) IsSet() bool {
	return s.err != nil
}
