package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorCode classifies a transport failure.
type ErrorCode string

const (
	CodeRequestFailed ErrorCode = "request_failed"
	CodeTimeout       ErrorCode = "timeout"
	CodeStatus        ErrorCode = "unexpected_status"
	CodeEncodeFailed  ErrorCode = "encode_failed"
	CodeDecodeFailed  ErrorCode = "decode_failed"
)

// TransportError reports a failed call to a remote collaborator. StatusCode
// is zero when no response was received.
type TransportError struct {
	Code       ErrorCode
	Op         string
	StatusCode int
	Message    string
	Cause      error
}

func (e *TransportError) Error() string {
	if e == nil {
		return "transport failed"
	}
	detail := e.Message
	if detail == "" && e.Cause != nil {
		detail = e.Cause.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s failed (code=%s status=%d): %s", e.Op, e.Code, e.StatusCode, detail)
	}
	if detail == "" {
		return fmt.Sprintf("%s failed (code=%s)", e.Op, e.Code)
	}
	return fmt.Sprintf("%s failed (code=%s): %s", e.Op, e.Code, detail)
}

func (e *TransportError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// IsStatus reports whether err is a TransportError carrying the given HTTP status.
func IsStatus(err error, status int) bool {
	var terr *TransportError
	return errors.As(err, &terr) && terr.StatusCode == status
}

func opErr(op string, code ErrorCode, msg string, cause error) error {
	return &TransportError{Code: code, Op: op, Message: msg, Cause: cause}
}

func classifyCallError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return opErr(op, CodeTimeout, "request timed out", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return opErr(op, CodeTimeout, "request timed out", err)
	}
	return opErr(op, CodeRequestFailed, "", err)
}
