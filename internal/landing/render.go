package landing

import (
	"bytes"
	"embed"
	"html/template"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	pkgerrors "github.com/pkg/errors"

	"github.com/EstateCMS/EstateCMS/internal/schemaorg"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options carries page level values the components need.
type Options struct {
	// ProjectID is posted with form submissions.
	ProjectID string
	// Year is shown by copyright components without a fixed year.
	Year int
}

type view struct {
	ID        string
	Type      Type
	C         map[string]any
	ProjectID string
	Year      int
	JSONLD    template.HTML
}

// Renderer turns landing page content into HTML through one template per type.
type Renderer struct {
	templates map[Type]*template.Template
	policy    *bluemonday.Policy
}

// NewRenderer parses the embedded component templates.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{
		templates: make(map[Type]*template.Template, len(Types)),
		policy:    bluemonday.UGCPolicy(),
	}

	funcs := r.funcs()

	for _, t := range Types {
		name := path.Join("templates", string(t)+".html")

		tpl, err := template.New(string(t)+".html").Funcs(funcs).ParseFS(templateFS, name)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "failed to parse %s template", t)
		}

		r.templates[t] = tpl
	}

	return r, nil
}

// Render renders the components ordered by Order.
func (r *Renderer) Render(content Content, opts Options) (template.HTML, error) {
	if opts.Year == 0 {
		opts.Year = time.Now().Year()
	}

	var buf bytes.Buffer

	for _, c := range content.Sorted() {
		if err := r.renderOne(&buf, c, opts); err != nil {
			return "", err
		}
	}

	return template.HTML(buf.String()), nil //nolint:gosec
}

func (r *Renderer) renderOne(buf *bytes.Buffer, c Component, opts Options) error {
	tpl, ok := r.templates[c.Type]
	if !ok {
		buf.WriteString(`<div class="lp-unknown">Unknown component type: `)
		buf.WriteString(template.HTMLEscapeString(string(c.Type)))
		buf.WriteString(`</div>`)

		return nil
	}

	v := view{ID: c.ID, Type: c.Type, C: c.ConfigMap(), ProjectID: opts.ProjectID, Year: opts.Year}

	if c.Type == FAQ {
		if qa := FAQItems(c); len(qa) > 0 {
			v.JSONLD = schemaorg.Script(schemaorg.FAQPage(qa))
		}
	}

	return pkgerrors.Wrapf(tpl.Execute(buf, v), "failed to render %s component %s", c.Type, c.ID)
}

// FAQItems returns the complete question and answer pairs of an FAQ component.
func FAQItems(c Component) []schemaorg.QA {
	var out []schemaorg.QA

	for _, it := range items(c.ConfigMap(), "items") {
		q, a := str(it, "question"), str(it, "answer")
		if q != "" && a != "" {
			out = append(out, schemaorg.QA{Question: q, Answer: a})
		}
	}

	return out
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"str":   str,
		"bool":  boolean,
		"num":   num,
		"items": items,
		"strs":  strs,
		"obj":   obj,
		"stars": func(n int) string { return strings.Repeat("★", min(max(n, 0), 5)) }, //nolint:mnd
		"rawHTML": func(m map[string]any, key string) template.HTML {
			return template.HTML(r.policy.Sanitize(str(m, key))) //nolint:gosec
		},
	}
}

// lookup walks a dotted path through nested objects.
func lookup(m map[string]any, key string) any {
	var cur any = m

	for _, part := range strings.Split(key, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}

		cur = obj[part]
	}

	return cur
}

func str(m map[string]any, key string) string {
	switch v := lookup(m, key).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func boolean(m map[string]any, key string) bool {
	switch v := lookup(m, key).(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}

func num(m map[string]any, key string, def int) int {
	switch v := lookup(m, key).(type) {
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}

	return def
}

func obj(m map[string]any, key string) map[string]any {
	o, _ := lookup(m, key).(map[string]any)

	return o
}

func items(m map[string]any, key string) []map[string]any {
	list, _ := lookup(m, key).([]any)
	out := make([]map[string]any, 0, len(list))

	for _, it := range list {
		if o, ok := it.(map[string]any); ok {
			out = append(out, o)
		}
	}

	return out
}

func strs(m map[string]any, key string) []string {
	list, _ := lookup(m, key).([]any)
	out := make([]string, 0, len(list))

	for _, it := range list {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}

	return out
}
