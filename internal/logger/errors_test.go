package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorHandler(t *testing.T) {
	var buf bytes.Buffer

	prev := fallback
	fallback = &buf

	t.Cleanup(func() { fallback = prev })

	before := WriteFailures()

	ErrorHandler(errors.New("disk full"))

	assert.Equal(t, before+1, WriteFailures())
	assert.Contains(t, buf.String(), "disk full")
}
