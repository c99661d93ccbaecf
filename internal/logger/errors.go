package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"
)

var (
	// ErrAppNameIsEmpty is returned when log.appName is missing.
	ErrAppNameIsEmpty = errors.New("config log.appName can not be empty")

	// ErrServiceNameIsEmpty is returned when log.serviceName is missing.
	ErrServiceNameIsEmpty = errors.New("config log.serviceName can not be empty")
)

var (
	writeFailures atomic.Int64 //nolint:gochecknoglobals

	fallback io.Writer = os.Stderr //nolint:gochecknoglobals
)

// WriteFailures returns how many log events could not be written.
func WriteFailures() int64 {
	return writeFailures.Load()
}

// ErrorHandler is installed as zerolog.ErrorHandler. It counts the failed
// write and reports it on stderr.
func ErrorHandler(err error) {
	writeFailures.Add(1)

	_, _ = fmt.Fprintf(fallback, "estatecms: could not write log event: %v\n", err)
}
