package message

import (
	"errors"
	"fmt"

	"github.com/zostay/go-mimelite/message/transfer"
)

var (
	// ErrConfig is returned by Build when the Config is contradictory or
	// incomplete, such as giving both a body source and parts, or neither for
	// a non-multipart type.
	ErrConfig = errors.New("invalid entity configuration")

	// ErrState is returned when an operation would leave the entity tree in an
	// illegal shape, such as attaching a part that already has a parent or
	// attaching to a container whose type is not multipart. It is also
	// returned when serializing a part whose body can only be read once.
	ErrState = errors.New("illegal entity state")

	// ErrUnreadablePath is matched by every *PathError.
	ErrUnreadablePath = errors.New("unreadable path")

	// ErrUnsupportedEncoding is returned when the Content-transfer-encoding
	// is not one this library knows how to apply.
	ErrUnsupportedEncoding = transfer.ErrUnsupportedEncoding
)

// PathError is returned when a Path body source cannot be opened or read. It
// may be returned at Build (with ReadNow), at Finalize (with
// WithVerifyPaths), or when the body is written.
type PathError struct {
	Path string // the path that could not be read
	Err  error  // the underlying error
}

// Error returns the error message.
func (e *PathError) Error() string {
	return fmt.Sprintf("unreadable path %q: %v", e.Path, e.Err)
}

// Is returns true for ErrUnreadablePath.
func (e *PathError) Is(target error) bool {
	return target == ErrUnreadablePath
}

// Unwrap returns the underlying error.
func (e *PathError) Unwrap() error {
	return e.Err
}
