package directory

import (
	"errors"
	"fmt"
)

// NetworkError wraps a transport-level failure: dial errors, timeouts, cancelled contexts.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ProtocolError reports a non-2xx status or a body with the wrong shape.
type ProtocolError struct {
	Op         string
	StatusCode int
	Reason     string
}

func (e *ProtocolError) Error() string {
	return e.Reason
}

// ApplicationError carries the server's own explanation for a rejected request.
type ApplicationError struct {
	Message string
}

func (e *ApplicationError) Error() string {
	if e.Message == "" {
		return "request rejected"
	}
	return e.Message
}

// Message returns the text a surface should show for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var appErr *ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Error()
	}
	var protoErr *ProtocolError
	if errors.As(err, &protoErr) {
		return protoErr.Error()
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Err.Error()
	}
	return err.Error()
}
