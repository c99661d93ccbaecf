package landing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrInvalidContent is the root of every content validation error.
var ErrInvalidContent = errors.New("invalid landing page content")

// Problem is one failed check of one component.
type Problem struct {
	Index   int    `json:"index"`
	ID      string `json:"id,omitempty"`
	Type    Type   `json:"type,omitempty"`
	Message string `json:"message"`
}

// ContentError lists every problem found in a content array.
type ContentError struct {
	Problems []Problem
}

func (e *ContentError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = fmt.Sprintf("component %d (%s): %s", p.Index, p.Type, p.Message)
	}

	return strings.Join(msgs, "; ")
}

// Unwrap makes errors.Is(err, ErrInvalidContent) true.
func (e *ContentError) Unwrap() error {
	return ErrInvalidContent
}

type checkFunc func(cfg gjson.Result) string

var checks = map[Type]checkFunc{ //nolint:gochecknoglobals
	Form:    checkForm,
	Gallery: checkArray("images"),
	FAQ:     checkFAQ,
	Pricing: checkArray("plans"),
}

// publishChecks only apply to pages going live. Drafts may hold empty media.
var publishChecks = map[Type]checkFunc{ //nolint:gochecknoglobals
	Video:       checkVideo,
	CustomImage: checkCustomImage,
}

// Validate checks ids, types and config shape of every component.
func Validate(content Content) error {
	return validate(content, false)
}

// ValidateForPublish runs Validate and also requires media on video and
// custom image components.
func ValidateForPublish(content Content) error {
	return validate(content, true)
}

func validate(content Content, publish bool) error {
	var problems []Problem

	seen := make(map[string]bool, len(content))

	for i, c := range content {
		add := func(msg string) {
			problems = append(problems, Problem{Index: i, ID: c.ID, Type: c.Type, Message: msg})
		}

		switch {
		case c.ID == "":
			add("missing id")
		case seen[c.ID]:
			add("duplicate id")
		}

		seen[c.ID] = true

		if !c.Type.Known() {
			add(fmt.Sprintf("unknown component type %q", c.Type))

			continue
		}

		if len(c.Config) == 0 || !gjson.ValidBytes(c.Config) {
			add("config must be valid JSON")

			continue
		}

		cfg := gjson.ParseBytes(c.Config)
		if !cfg.IsObject() {
			add("config must be an object")

			continue
		}

		if check, ok := checks[c.Type]; ok {
			if msg := check(cfg); msg != "" {
				add(msg)
			}
		}

		if check, ok := publishChecks[c.Type]; ok && publish {
			if msg := check(cfg); msg != "" {
				add(msg)
			}
		}
	}

	if len(problems) > 0 {
		return &ContentError{Problems: problems}
	}

	return nil
}

func checkArray(path string) checkFunc {
	return func(cfg gjson.Result) string {
		if v := cfg.Get(path); v.Exists() && !v.IsArray() {
			return path + " must be an array"
		}

		return ""
	}
}

func checkForm(cfg gjson.Result) string {
	fields := cfg.Get("fields")
	if !fields.IsArray() {
		return "fields must be an array"
	}

	msg := ""

	fields.ForEach(func(_, f gjson.Result) bool {
		for _, key := range []string{"name", "type", "label"} {
			if f.Get(key).String() == "" {
				msg = "every form field needs name, type and label"

				return false
			}
		}

		return true
	})

	return msg
}

func checkFAQ(cfg gjson.Result) string {
	items := cfg.Get("items")
	if !items.Exists() {
		return ""
	}

	if !items.IsArray() {
		return "items must be an array"
	}

	msg := ""

	items.ForEach(func(_, it gjson.Result) bool {
		if it.Get("question").String() == "" || it.Get("answer").String() == "" {
			msg = "every FAQ item needs a question and an answer"

			return false
		}

		return true
	})

	return msg
}

func checkVideo(cfg gjson.Result) string {
	if cfg.Get("videoId").String() == "" && cfg.Get("videoUrl").String() == "" && cfg.Get("url").String() == "" {
		return "video needs a videoId or videoUrl"
	}

	return ""
}

func checkCustomImage(cfg gjson.Result) string {
	if cfg.Get("desktopImage").String() == "" && cfg.Get("mobileImage").String() == "" {
		return "custom image needs a desktop or mobile image"
	}

	return ""
}
