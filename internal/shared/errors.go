package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Resolution errors
	ErrStorageUnavailable = fmt.Errorf("local store unavailable")
	ErrConversion         = fmt.Errorf("type conversion failed")
	ErrNetwork            = fmt.Errorf("network request failed")
	ErrParse              = fmt.Errorf("unable to parse path")

	// API and service errors
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrHymnNotFound       = fmt.Errorf("hymn not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
