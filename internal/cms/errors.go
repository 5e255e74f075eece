package cms

import (
	"fmt"
)

// NotFoundError reports a query that matched no document.
type NotFoundError struct {
	Type string
	UID  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("cms: no %s document with uid %q", e.Type, e.UID)
}

// TransportError covers everything between us and a decoded response:
// dial failures, timeouts, unexpected status codes and malformed bodies.
type TransportError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("cms: %s %s: status %d: %v", e.Op, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("cms: %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
