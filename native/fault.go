package native

import (
	"errors"
	"fmt"
)

// Fault represents an abnormal failure raised inside the native layer
type Fault struct {
	Detail string
	Cause  error
}

func (f *Fault) Error() string {
	if f.Detail == "" && f.Cause != nil {
		return f.Cause.Error()
	}
	return f.Detail
}

func (f *Fault) Unwrap() error {
	return f.Cause
}

// NewFault creates a fault with a formatted detail
func NewFault(format string, args ...interface{}) *Fault {
	return &Fault{Detail: fmt.Sprintf(format, args...)}
}

// Recovered converts a recovered panic value into a fault
func Recovered(value interface{}) *Fault {
	switch actual := value.(type) {
	case *Fault:
		return actual
	case error:
		return &Fault{Detail: actual.Error(), Cause: actual}
	default:
		return &Fault{Detail: fmt.Sprintf("%v", actual)}
	}
}

// AsFault converts any error into a fault
func AsFault(err error) *Fault {
	if err == nil {
		return nil
	}
	var fault *Fault
	if errors.As(err, &fault) {
		return fault
	}
	return &Fault{Detail: err.Error(), Cause: err}
}
