package errs

import (
	stderr "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// CodeError is the wire-level error shape: a stable code, a short message
// and an optional detail chain accumulated while the error travels up.
type CodeError struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Detail string `json:"detail,omitempty"`
}

func NewCodeError(code int, msg string) *CodeError {
	return &CodeError{
		Code: code,
		Msg:  msg,
	}
}

func (e *CodeError) Error() string {
	v := make([]string, 0, 3)
	v = append(v, strconv.Itoa(e.Code), e.Msg)
	if e.Detail != "" {
		v = append(v, e.Detail)
	}
	return strings.Join(v, " ")
}

func (e *CodeError) clone() *CodeError {
	return &CodeError{
		Code:   e.Code,
		Msg:    e.Msg,
		Detail: e.Detail,
	}
}

// WithDetail returns a copy carrying an extra detail segment.
func (e *CodeError) WithDetail(detail string) *CodeError {
	out := e.clone()
	if out.Detail == "" {
		out.Detail = detail
	} else {
		out.Detail += ", " + detail
	}
	return out
}

// WrapMsg returns a stack-carrying copy with msg and key/value pairs folded
// into the detail. The original predefined error is never mutated.
func (e *CodeError) WrapMsg(msg string, kv ...any) error {
	out := e.clone()
	if msg != "" || len(kv) > 0 {
		detail := toString(msg, kv)
		if out.Detail == "" {
			out.Detail = detail
		} else {
			out.Detail += ", " + detail
		}
	}
	return errors.WithStack(out)
}

// Wrap returns a stack-carrying copy of the error itself.
func (e *CodeError) Wrap() error {
	return errors.WithStack(e.clone())
}

// Is matches by code so that errors.Is(err, ErrRecordNotFound) works on
// wrapped copies.
func (e *CodeError) Is(target error) bool {
	var coded *CodeError
	if !stderr.As(target, &coded) {
		return false
	}
	return e.Code == coded.Code
}

// CodeOf extracts the coded error from an error chain; nil if the chain
// carries no CodeError.
func CodeOf(err error) *CodeError {
	var coded *CodeError
	if stderr.As(err, &coded) {
		return coded
	}
	return nil
}

// New creates a plain error with key/value detail, no code attached.
func New(msg string, kv ...any) error {
	return errors.New(toString(msg, kv))
}

// Wrap attaches a stack to err if it has none.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	return errors.WithStack(err)
}

// WrapMsg annotates err with msg and key/value pairs plus a stack.
func WrapMsg(err error, msg string, kv ...any) error {
	if err == nil {
		return nil
	}
	return errors.WithStack(errors.WithMessage(err, toString(msg, kv)))
}

func toString(msg string, kv []any) string {
	var sb strings.Builder
	sb.WriteString(msg)
	for i := 0; i < len(kv); i += 2 {
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(fmt.Sprintf("%v", kv[i]))
		sb.WriteString("=")
		if i+1 < len(kv) {
			sb.WriteString(fmt.Sprintf("%v", kv[i+1]))
		}
	}
	return sb.String()
}
