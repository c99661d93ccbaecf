package web

import (
	"html/template"
	"net/url"
	"strings"
	"time"
	"unicode"
)

// TemplateFuncs are the helpers available to the site and dashboard templates.
func TemplateFuncs() map[string]any {
	return map[string]any{
		"iterate":  iterate,
		"add":      func(a, b int) int { return a + b },
		"sub":      func(a, b int) int { return a - b },
		"safeHTML": func(s string) template.HTML { return template.HTML(s) }, //nolint:gosec
		"date":     formatDate,
		"dict":     dict,
		"waLink":   WhatsAppLink,
	}
}

func iterate(count int) []int {
	result := make([]int, count)
	for i := range result {
		result[i] = i
	}

	return result
}

// formatDate formats a time.Time or *time.Time. Nil and zero times are "".
func formatDate(v any, layout string) string {
	var t time.Time

	switch x := v.(type) {
	case time.Time:
		t = x
	case *time.Time:
		if x == nil {
			return ""
		}

		t = *x
	default:
		return ""
	}

	if t.IsZero() {
		return ""
	}

	return t.Format(layout)
}

// dict builds a map from key value pairs for passing several values to a
// nested template. A trailing key without value is dropped.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2) //nolint:mnd

	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			m[k] = kv[i+1]
		}
	}

	return m
}

// WhatsAppLink returns the wa.me chat link of number with an optional
// prefilled message. Non-digits are stripped from number.
func WhatsAppLink(number, message string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}

		return -1
	}, number)

	link := "https://wa.me/" + digits
	if message != "" {
		link += "?text=" + url.QueryEscape(message)
	}

	return link
}
