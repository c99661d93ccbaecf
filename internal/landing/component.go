// Package landing implements the landing page component model: the closed
// set of component types, their default configs, validation and rendering.
package landing

import (
	"encoding/json"
	"sort"
)

// Type names a component kind.
type Type string

// Component types.
const (
	Hero             Type = "hero"
	Form             Type = "form"
	Features         Type = "features"
	Testimonial      Type = "testimonial"
	CTA              Type = "cta"
	ContentBlock     Type = "content"
	Gallery          Type = "gallery"
	Pricing          Type = "pricing"
	FAQ              Type = "faq"
	Statistics       Type = "statistics"
	Video            Type = "video"
	Timeline         Type = "timeline"
	Location         Type = "location"
	CustomImage      Type = "custom-image"
	Copyright        Type = "copyright"
	Footer           Type = "footer"
	Facilities       Type = "facilities"
	UnitSlider       Type = "unit-slider"
	ProgressSlider   Type = "progress-slider"
	BankPartnership  Type = "bank-partnership"
	AgentContact     Type = "agent-contact"
	TitleDescription Type = "title-description"
	LocationAccess   Type = "location-access"
	Promo            Type = "promo"
)

// Types lists every known component type in builder palette order.
var Types = []Type{ //nolint:gochecknoglobals
	Hero, Form, Features, Testimonial, CTA, ContentBlock, Gallery, Pricing,
	FAQ, Statistics, Video, Timeline, Location, CustomImage, Copyright, Footer,
	Facilities, UnitSlider, ProgressSlider, BankPartnership, AgentContact,
	TitleDescription, LocationAccess, Promo,
}

// Known reports whether t is one of Types.
func (t Type) Known() bool {
	for _, k := range Types {
		if k == t {
			return true
		}
	}

	return false
}

// Component is one block of a landing page.
type Component struct {
	ID     string          `json:"id"`
	Type   Type            `json:"type"`
	Config json.RawMessage `json:"config"`
	Order  int             `json:"order"`
}

// Content is the ordered component list stored on a landing page.
type Content []Component

// Sorted returns a copy ordered by Order. Equal orders keep their position.
func (c Content) Sorted() Content {
	out := make(Content, len(c))
	copy(out, c)

	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })

	return out
}

// ConfigMap decodes the component config into a generic map for templates.
// Invalid or empty configs yield an empty map.
func (c Component) ConfigMap() map[string]any {
	m := map[string]any{}

	if len(c.Config) == 0 {
		return m
	}

	if err := json.Unmarshal(c.Config, &m); err != nil {
		return map[string]any{}
	}

	return m
}
