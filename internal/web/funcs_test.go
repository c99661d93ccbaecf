package web

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWhatsAppLink(t *testing.T) {
	tests := []struct {
		number  string
		message string
		want    string
	}{
		{"+62 812-3456-789", "", "https://wa.me/628123456789"},
		{"0812 345", "Hello there", "https://wa.me/0812345?text=Hello+there"},
		{"", "", "https://wa.me/"},
	}

	for _, tc := range tests {
		t.Run(tc.number, func(t *testing.T) {
			assert.Equal(t, tc.want, WhatsAppLink(tc.number, tc.message))
		})
	}
}

func TestFormatDate(t *testing.T) {
	day := time.Date(2025, time.March, 4, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "2025-03-04", formatDate(day, time.DateOnly))
	assert.Equal(t, "4 March 2025", formatDate(&day, "2 January 2006"))
	assert.Empty(t, formatDate((*time.Time)(nil), time.DateOnly))
	assert.Empty(t, formatDate(time.Time{}, time.DateOnly))
	assert.Empty(t, formatDate("2025-03-04", time.DateOnly))
}

func TestDict(t *testing.T) {
	assert.Equal(t, map[string]any{"a": 1, "b": "x"}, dict("a", 1, "b", "x", "dangling"))
	assert.Empty(t, dict())
}

func TestIterate(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2}, iterate(3))
	assert.Empty(t, iterate(0))
}
