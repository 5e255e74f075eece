package content

import (
	"errors"
	"fmt"

	"spacetraveling/internal/cms"
)

var (
	ErrNotFound  = errors.New("content: not found")
	ErrTransport = errors.New("content: transport failure")
)

// NotFoundError reports an unknown uid.
type NotFoundError struct {
	ContentType string
	UID         string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("content: %s %q not found", e.ContentType, e.UID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// TransportError reports a failed or undecodable fetch. It is retryable.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("content: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// translate maps wire client errors onto the content taxonomy.
func translate(op, contentType, uid string, err error) error {
	if err == nil {
		return nil
	}
	var nf *cms.NotFoundError
	if errors.As(err, &nf) {
		return &NotFoundError{ContentType: contentType, UID: uid}
	}
	return &TransportError{Op: op, Err: err}
}
