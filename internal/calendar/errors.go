package calendar

import (
	"errors"
	"fmt"
)

// ErrUnavailable matches every UnavailableError via errors.Is.
var ErrUnavailable = errors.New("calendar unavailable")

// UnavailableError reports a failed calendar call (transport, authorization or quota).
type UnavailableError struct {
	Op   string // list, insert, delete
	Auth bool   // credentials were rejected; refreshing them may help
	Err  error
}

func (e *UnavailableError) Error() string {
	kind := "unavailable"
	if e.Auth {
		kind = "unauthorized"
	}
	return fmt.Sprintf("calendar %s %s: %v", e.Op, kind, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func (e *UnavailableError) Is(target error) bool { return target == ErrUnavailable }

// Unavailable wraps err for op. A nil err stays nil.
func Unavailable(op string, auth bool, err error) error {
	if err == nil {
		return nil
	}
	return &UnavailableError{Op: op, Auth: auth, Err: err}
}

// IsAuth reports whether err is an UnavailableError caused by rejected credentials.
func IsAuth(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue) && ue.Auth
}
