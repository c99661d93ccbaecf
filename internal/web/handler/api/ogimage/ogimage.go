// Package ogimage renders the SVG social card used as og:image.
package ogimage

import (
	"bytes"
	"html/template"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/EstateCMS/EstateCMS/internal/web/handler"
)

const (
	// Path is the social card route.
	Path = handler.APIPath + "/og-image"

	// MIMEImageSVG is the content type of the card.
	MIMEImageSVG = "image/svg+xml"

	maxTitle    = 60
	maxSubtitle = 90
	cacheHeader = "public, max-age=86400, s-maxage=86400"
)

var card = template.Must(template.New("card").Parse(`<svg xmlns="http://www.w3.org/2000/svg" width="1200" height="630" viewBox="0 0 1200 630">
<defs><linearGradient id="bg" x1="0" y1="0" x2="1" y2="1"><stop offset="0" stop-color="#0f172a"/><stop offset="1" stop-color="#1e3a8a"/></linearGradient></defs>
<rect width="1200" height="630" fill="url(#bg)"/>
<rect x="80" y="250" width="120" height="8" rx="4" fill="#f59e0b"/>
<text x="80" y="340" font-family="Inter, Arial, sans-serif" font-size="64" font-weight="700" fill="#ffffff">{{.Title}}</text>
{{- if .Subtitle}}
<text x="80" y="410" font-family="Inter, Arial, sans-serif" font-size="32" fill="#cbd5e1">{{.Subtitle}}</text>
{{- end}}
<text x="80" y="560" font-family="Inter, Arial, sans-serif" font-size="28" fill="#94a3b8">{{.Site}}</text>
</svg>`)) //nolint:gochecknoglobals

// Card holds the text of a social card.
type Card struct {
	Title    string
	Subtitle string
	Site     string
}

// Service is the social card handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the social card handler.
var Handler = Service{}

// Init registers the social card route.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrNilDeps
	}

	if err := deps.Check(); err != nil {
		return err
	}

	s.deps = deps

	app.Get(Path, s.Get)

	return nil
}

// truncate shortens s to n runes with an ellipsis.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	r := []rune(s)

	return strings.TrimSpace(string(r[:n-1])) + "…"
}

// Render writes the SVG of c.
func Render(c Card) ([]byte, error) {
	c.Title = truncate(c.Title, maxTitle)
	c.Subtitle = truncate(c.Subtitle, maxSubtitle)

	var buf bytes.Buffer
	if err := card.Execute(&buf, c); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Get renders a card for the title and subtitle query parameters.
func (s *Service) Get(c *fiber.Ctx) error {
	site := s.deps.Cfg.Title

	out, err := Render(Card{
		Title:    c.Query("title", site),
		Subtitle: c.Query("subtitle"),
		Site:     site,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to render social card")

		return c.SendStatus(fiber.StatusInternalServerError)
	}

	c.Set(fiber.HeaderContentType, MIMEImageSVG)
	c.Set(fiber.HeaderCacheControl, cacheHeader)

	return c.Send(out)
}
