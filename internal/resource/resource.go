package resource

import "fmt"

// Status is the state carried by a [Resource].
type Status int

const (
	StatusLoading Status = iota
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Resource is one emission of a resolution.
//
// Data is only meaningful for [StatusSuccess]; its zero value means "absent". Err is only set for [StatusError].
type Resource[T any] struct {
	Status Status
	Data   T
	Err    error
}

// Loading returns a [StatusLoading] resource.
func Loading[T any]() Resource[T] {
	return Resource[T]{Status: StatusLoading}
}

// Success returns a [StatusSuccess] resource carrying data.
func Success[T any](data T) Resource[T] {
	return Resource[T]{Status: StatusSuccess, Data: data}
}

// Failure returns a [StatusError] resource carrying err.
func Failure[T any](err error) Resource[T] {
	return Resource[T]{Status: StatusError, Err: err}
}

// IsTerminal reports whether no further emission follows this one.
func (r Resource[T]) IsTerminal() bool {
	return r.Status != StatusLoading
}
