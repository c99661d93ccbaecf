package landing

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func comp(id string, t Type, cfg string, order int) Component {
	return Component{ID: id, Type: t, Config: json.RawMessage(cfg), Order: order}
}

func TestSorted(t *testing.T) {
	c := Content{comp("c", Hero, `{}`, 2), comp("a", CTA, `{}`, 0), comp("b", FAQ, `{}`, 0)}

	got := c.Sorted()

	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, "c", c[0].ID, "original untouched")
}

func TestDefaultConfigCoversEveryType(t *testing.T) {
	require.NoError(t, DefaultsErr())

	for _, typ := range Types {
		cfg := DefaultConfig(typ)

		var m map[string]any
		require.NoError(t, json.Unmarshal(cfg, &m), typ)
		assert.NotEmpty(t, m, typ)
	}

	assert.JSONEq(t, `{}`, string(DefaultConfig("marquee")))
}

func TestDefaultContentValidates(t *testing.T) {
	content := make(Content, 0, len(Types))
	for i, typ := range Types {
		content = append(content, NewComponent(string(typ), typ, i))
	}

	require.NoError(t, Validate(content))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		content Content
		publish bool
		wantMsg string
	}{
		{name: "empty", content: Content{}},
		{name: "missing id", content: Content{comp("", Hero, `{}`, 0)}, wantMsg: "missing id"},
		{name: "duplicate id", content: Content{comp("a", Hero, `{}`, 0), comp("a", CTA, `{}`, 1)}, wantMsg: "duplicate id"},
		{name: "unknown type", content: Content{comp("a", "marquee", `{}`, 0)}, wantMsg: "unknown component type"},
		{name: "config not object", content: Content{comp("a", Hero, `[1]`, 0)}, wantMsg: "config must be an object"},
		{name: "config not json", content: Content{comp("a", Hero, `{`, 0)}, wantMsg: "valid JSON"},
		{name: "form without fields", content: Content{comp("a", Form, `{"title":"x"}`, 0)}, wantMsg: "fields must be an array"},
		{
			name:    "form field without label",
			content: Content{comp("a", Form, `{"fields":[{"name":"n","type":"text"}]}`, 0)},
			wantMsg: "name, type and label",
		},
		{name: "faq item without answer", content: Content{comp("a", FAQ, `{"items":[{"question":"q"}]}`, 0)}, wantMsg: "question and an answer"},
		{name: "gallery images not array", content: Content{comp("a", Gallery, `{"images":"x"}`, 0)}, wantMsg: "images must be an array"},
		{name: "draft video without url", content: Content{comp("a", Video, `{"type":"youtube"}`, 0)}},
		{name: "published video without url", content: Content{comp("a", Video, `{"type":"youtube"}`, 0)}, publish: true, wantMsg: "videoId or videoUrl"},
		{name: "published custom image", content: Content{comp("a", CustomImage, `{"desktopImage":"https://x/y.jpg"}`, 0)}, publish: true},
		{name: "published custom image empty", content: Content{comp("a", CustomImage, `{}`, 0)}, publish: true, wantMsg: "desktop or mobile image"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var err error
			if tc.publish {
				err = ValidateForPublish(tc.content)
			} else {
				err = Validate(tc.content)
			}

			if tc.wantMsg == "" {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, ErrInvalidContent)
			assert.Contains(t, err.Error(), tc.wantMsg)

			var ce *ContentError
			require.True(t, errors.As(err, &ce))
			assert.NotEmpty(t, ce.Problems)
		})
	}
}

func TestClean(t *testing.T) {
	content := Content{
		comp("img", CustomImage, `{"desktopImage":"data:image/png;base64,AAA","mobileImage":"https://cdn/m.jpg","altText":"a"}`, 0),
		comp("hero", Hero, `{"backgroundImage":"data:image/png;base64,AAA"}`, 1),
	}

	got := Clean(content)

	cfg := got[0].ConfigMap()
	assert.Equal(t, "", cfg["desktopImage"])
	assert.Equal(t, "https://cdn/m.jpg", cfg["mobileImage"])
	assert.Equal(t, "a", cfg["altText"])
	assert.JSONEq(t, `{"backgroundImage":"data:image/png;base64,AAA"}`, string(got[1].Config))
	assert.Contains(t, string(content[0].Config), "data:image", "input untouched")
}

func TestNormalize(t *testing.T) {
	got := Normalize(Content{{ID: "a", Type: Hero}, {ID: "b", Type: CTA, Config: json.RawMessage(`{"title":"x"}`)}})

	assert.Equal(t, 0, got[0].Order)
	assert.Equal(t, 1, got[1].Order)
	assert.Contains(t, string(got[0].Config), "ctaText")
	assert.JSONEq(t, `{"title":"x"}`, string(got[1].Config))
}

func TestSystemPresets(t *testing.T) {
	presets, err := SystemPresets()
	require.NoError(t, err)

	byID := map[string]Preset{}
	for _, p := range presets {
		assert.True(t, p.Type.Known(), p.ID)
		byID[p.ID] = p
	}

	require.Contains(t, byID, "hero-1")
	require.Contains(t, byID, "form-1")
	require.Contains(t, byID, "features-1")

	assert.Equal(t, "Hero Section - Property Focus", byID["hero-1"].Name)

	hero := Component{Config: byID["hero-1"].Config}.ConfigMap()
	assert.Equal(t, "Find Your Dream Property", hero["title"])
	assert.Equal(t, true, hero["overlay"])

	form := Component{ID: "f", Type: Form, Config: byID["form-1"].Config}
	require.NoError(t, Validate(Content{form}))
	assert.Contains(t, string(form.Config), `"> 5M"`)
}

func TestRender(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	content := Content{
		comp("faq", FAQ, `{"title":"FAQ","items":[{"question":"Is it <safe>?","answer":"Yes"}]}`, 2),
		comp("hero", Hero, `{"title":"Dream <Home>","ctaText":"Go","overlay":true}`, 0),
		comp("x", "marquee", `{}`, 1),
		comp("txt", ContentBlock, `{"content":"<p>Hi</p><script>alert(1)</script>"}`, 3),
	}

	out, err := r.Render(content, Options{ProjectID: "p1", Year: 2025})
	require.NoError(t, err)

	html := string(out)

	hero := strings.Index(html, `id="hero"`)
	unknown := strings.Index(html, "Unknown component type: marquee")
	faq := strings.Index(html, `id="faq"`)

	require.NotEqual(t, -1, hero)
	require.NotEqual(t, -1, unknown)
	require.NotEqual(t, -1, faq)
	assert.Less(t, hero, unknown)
	assert.Less(t, unknown, faq)

	assert.Contains(t, html, "Dream &lt;Home&gt;")
	assert.Contains(t, html, "lp-hero__overlay")
	assert.Contains(t, html, `"@type":"FAQPage"`)
	assert.Contains(t, html, "<p>Hi</p>")
	assert.NotContains(t, html, "alert(1)")
}

func TestRenderEveryDefault(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	for i, typ := range Types {
		_, err := r.Render(Content{NewComponent("c", typ, i)}, Options{})
		require.NoError(t, err, typ)
	}
}
