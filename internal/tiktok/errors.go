package tiktok

import (
	"errors"
	"fmt"
)

// Kind classifies where in the posting flow an error occurred, so the
// orchestrator and tests can tell outcomes apart without string matching.
type Kind string

const (
	// KindValidation covers locally or remotely rejected metadata:
	// schedule in the past, empty file, unsupported privacy level.
	KindValidation Kind = "validation"
	// KindFile means the video path did not resolve to a readable file.
	KindFile Kind = "file"
	// KindAuth means the API rejected the credentials (401/403).
	KindAuth Kind = "auth"
	// KindNetwork covers transport failures and timeouts.
	KindNetwork Kind = "network"
	// KindUpload means the API rejected a chunk or the finalize call.
	KindUpload Kind = "upload"
)

// Error wraps a failure with its Kind and the operation that produced it.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is a tiktok.Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var te *Error
	return errors.As(err, &te) && te.Kind == kind
}

func errf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}
