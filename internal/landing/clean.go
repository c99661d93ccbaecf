package landing

import (
	"encoding/json"
	"strings"
)

var inlineImageKeys = []string{"desktopImage", "mobileImage"} //nolint:gochecknoglobals

// Clean returns a copy of content with inline data: images removed from
// custom image components. Those must be uploaded and replaced by URLs.
func Clean(content Content) Content {
	out := make(Content, len(content))

	for i, c := range content {
		out[i] = c

		if c.Type != CustomImage {
			continue
		}

		cfg := c.ConfigMap()
		changed := false

		for _, key := range inlineImageKeys {
			if s, ok := cfg[key].(string); ok && strings.HasPrefix(s, "data:") {
				cfg[key] = ""
				changed = true
			}
		}

		if !changed {
			continue
		}

		if b, err := json.Marshal(cfg); err == nil {
			out[i].Config = b
		}
	}

	return out
}

// Normalize fills a missing config with the type default and renumbers
// order to follow the slice position when every order is zero.
func Normalize(content Content) Content {
	out := make(Content, len(content))
	allZero := true

	for i, c := range content {
		if len(c.Config) == 0 || string(c.Config) == "null" {
			c.Config = DefaultConfig(c.Type)
		}

		if c.Order != 0 {
			allZero = false
		}

		out[i] = c
	}

	if allZero {
		for i := range out {
			out[i].Order = i
		}
	}

	return out
}
