// Package analytics records landing page visits and conversions and
// reports them to the dashboard.
package analytics

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/EstateCMS/EstateCMS/internal/auth"
	lpanalytics "github.com/EstateCMS/EstateCMS/internal/db/controller/analytics"
	"github.com/EstateCMS/EstateCMS/internal/db/controller/landingpage"
	"github.com/EstateCMS/EstateCMS/internal/tracking"
	"github.com/EstateCMS/EstateCMS/internal/web/handler"
	"github.com/EstateCMS/EstateCMS/internal/web/response"
)

// Path is the prefix of the analytics routes.
const Path = handler.APIPath + "/analytics"

// Now is the clock used for counter days.
var Now = time.Now //nolint:gochecknoglobals

// Service is the analytics handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the analytics handler.
var Handler = Service{}

// Init registers the analytics routes. Tracking is public, reading needs a login.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil {
		return handler.ErrNilDeps
	}

	if err := deps.Check(); err != nil {
		return err
	}

	s.deps = deps

	app.Route(Path, func(router fiber.Router) {
		router.Post(handler.RouterRootPath, deps.Limiter(), s.Track)
		router.Get(handler.RouterRootPath, auth.RequireAuth(deps.Auth), s.Get)
		router.Post("/events", deps.Limiter(), s.Event)
	})

	return nil
}

type trackRequest struct {
	LandingPageID string            `json:"landingPageId"`
	EventType     string            `json:"eventType"`
	UTMParams     map[string]string `json:"utmParams"`
	DeviceType    string            `json:"deviceType"`
}

// Track counts a visit or a conversion. The traffic source comes from the
// posted UTM parameters, or the query string when none are posted.
func (s *Service) Track(c *fiber.Ctx) error {
	var req trackRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if req.LandingPageID == "" || req.EventType == "" {
		return response.Fail(c, fiber.StatusBadRequest, "missing landingPageId or eventType")
	}

	counter := lpanalytics.Counter(strings.ToLower(req.EventType))
	if counter != lpanalytics.Visit && counter != lpanalytics.Conversion {
		return response.Error(c, lpanalytics.ErrInvalidCounter)
	}

	device := req.DeviceType
	if device == "" {
		device = tracking.Device(c.Get(fiber.HeaderUserAgent))
	}

	if _, err := landingpage.Get(s.deps.DB, req.LandingPageID); err != nil {
		return response.Error(c, err)
	}

	utm := tracking.FromMap(req.UTMParams)
	if utm.Empty() {
		utm = tracking.Parse(c.Query)
	}

	err := lpanalytics.Track(s.deps.DB, counter, req.LandingPageID, utm.TrafficSource(), device, Now())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Message(c, string(counter)+" tracked")
}

// Get returns the counters of a page over timeRange (7d, 30d, 90d or all).
// Only the page owner and admins may read them.
func (s *Service) Get(c *fiber.Ctx) error {
	response.NoCache(c)

	id := c.Query("landingPageId")
	if id == "" {
		return response.Error(c, lpanalytics.ErrMissingPage)
	}

	p, err := landingpage.Get(s.deps.DB, id)
	if err != nil {
		return response.Error(c, err)
	}

	if !landingpage.CanEdit(p, auth.CurrentUser(c)) {
		return response.Error(c, response.ErrForbidden)
	}

	now := Now()

	from, err := lpanalytics.RangeStart(c.Query("timeRange"), now)
	if err != nil {
		return response.Error(c, err)
	}

	summary, err := lpanalytics.Summarize(s.deps.DB, p.ID, from, now.Format(lpanalytics.DayLayout))
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, summary)
}

// Event logs a client side interaction such as a WhatsApp click.
func (s *Service) Event(c *fiber.Ctx) error {
	var e lpanalytics.Event
	if err := c.BodyParser(&e); err != nil {
		return response.Fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if e.EventType == "" {
		return response.Fail(c, fiber.StatusBadRequest, "missing eventType")
	}

	e.UserAgent = c.Get(fiber.HeaderUserAgent)
	e.Referer = c.Get(fiber.HeaderReferer)

	lpanalytics.RecordEvent(e)

	return response.Message(c, "event tracked")
}
