package response

import (
	"errors"
)

// Error is an error that knows which HTTP status it maps to.
type Error struct {
	Code    int
	ErrCode string
	Err     error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	var t *Error
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Err.Error() == t.Err.Error()
}

func NewCodedError(code int, errCode string, err string) error {
	return &Error{Code: code, ErrCode: errCode, Err: errors.New(err)}
}
