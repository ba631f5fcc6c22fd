package pipeline

import (
	"errors"
	"fmt"
)

// Failure kinds. Every error returned by Convert matches exactly one of them
// with errors.Is.
var (
	ErrInvalidInvocation = errors.New("invalid invocation")
	ErrUnreadable        = errors.New("input not readable")
	ErrNotIRIS           = errors.New("input is not an IRIS file")
	ErrDecode            = errors.New("IRIS decode failed")
	ErrUnsupportedShape  = errors.New("unsupported IRIS product")
	ErrPopulate          = errors.New("populate failed")
	ErrPersist           = errors.New("save failed")
)

var kindLabels = map[error]string{
	ErrInvalidInvocation: "invalid_invocation",
	ErrUnreadable:        "unreadable",
	ErrNotIRIS:           "not_iris",
	ErrDecode:            "decode_failure",
	ErrUnsupportedShape:  "unsupported_shape",
	ErrPopulate:          "populate_failure",
	ErrPersist:           "persist_failure",
}

// Error is a conversion failure of one Kind on one Path.
type Error struct {
	Kind error
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the kind and the cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func fail(kind error, path string, cause error) error {
	return &Error{Kind: kind, Path: path, Err: cause}
}

// Outcome returns the metric label for err: "success" for nil, the failure
// kind otherwise.
func Outcome(err error) string {
	if err == nil {
		return "success"
	}
	var perr *Error
	if errors.As(err, &perr) {
		if label, ok := kindLabels[perr.Kind]; ok {
			return label
		}
	}
	return "unknown"
}
