package site

import (
	"html/template"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/EstateCMS/EstateCMS/internal/db/controller/analytics"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/landingpage"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/landing"
	"github.com/EstateCMS/EstateCMS/internal/tracking"
	"github.com/EstateCMS/EstateCMS/internal/web/navigation"
)

const (
	// LandingPrefix is the path of published landing pages.
	LandingPrefix = "/lp/"

	pageKey = "landingPage"
)

// Now is the clock used for expiry checks and visit days.
var Now = time.Now //nolint:gochecknoglobals

// TrackVisit loads the published page and counts a visit with its UTM
// source and device class. Unknown and expired pages get the 404 page.
func (s *Service) TrackVisit(c *fiber.Ctx) error {
	now := Now()

	p, err := landingpage.GetPublished(s.deps.DB, c.Params("slug"), now)
	if err != nil {
		return s.notFound(c, err)
	}

	c.Locals(pageKey, p)

	// bots prefetching link previews are not visitors
	if c.Get("Purpose") == "prefetch" {
		return c.Next()
	}

	utm := tracking.Parse(c.Query)
	device := tracking.Device(c.Get(fiber.HeaderUserAgent))

	if err := analytics.TrackVisit(s.deps.DB, p.ID, utm.TrafficSource(), device, now); err != nil {
		log.Warn().Err(err).Str("page", p.ID).Msg("failed to track visit")
	}

	return c.Next()
}

// Landing renders a published landing page.
func (s *Service) Landing(c *fiber.Ctx) error {
	p, ok := c.Locals(pageKey).(*models.LandingPage)
	if !ok {
		var err error
		if p, err = landingpage.GetPublished(s.deps.DB, c.Params("slug"), Now()); err != nil {
			return s.notFound(c, err)
		}
	}

	projectID, _ := p.Settings["projectId"].(string)

	body, err := s.deps.Landing.Render(p.Content, landing.Options{ProjectID: projectID, Year: Now().Year()})
	if err != nil {
		return s.notFound(c, err)
	}

	title := p.MetaTitle
	if title == "" {
		title = p.Title
	}

	description := p.MetaDescription
	if description == "" {
		description = p.Description
	}

	image := p.OGImage
	if image == "" {
		image = ogImage(s.BaseURL(c), title, description)
	}

	nav := navigation.NewContext(title, "landing", p.Slug)

	return s.render(c, "site/landing", nav, fiber.Map{
		"Page":        p,
		"Body":        body,
		"Title":       title,
		"Description": description,
		"OGImage":     image,
		"TrackingJS":  template.HTML(p.TrackingCode), //nolint:gosec
	})
}
