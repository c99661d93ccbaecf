// Package analytics keeps daily landing page visit and conversion counters.
package analytics

import (
	"errors"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EstateCMS/EstateCMS/internal/db/models"
	"github.com/EstateCMS/EstateCMS/internal/tracking"
)

// Counter names a tracked metric.
type Counter string

// Counters.
const (
	Visit      Counter = "visit"
	Conversion Counter = "conversion"
)

// Defaults for untagged traffic.
const (
	DefaultSource = "direct"
	DefaultDevice = "desktop"
	DefaultRange  = "30d"
)

// MaxSourceLen is the width of the source column. Longer sources are cut.
const MaxSourceLen = 100

// DayLayout formats the date column.
const DayLayout = time.DateOnly

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrInvalidCounter is returned for an event type other than visit or conversion.
	ErrInvalidCounter = errors.New("invalid eventType. Use 'visit' or 'conversion'")
	// ErrInvalidRange is returned for an unknown time range.
	ErrInvalidRange = errors.New("invalid timeRange. Use 7d, 30d, 90d or all")
	// ErrMissingPage is returned when no landing page id is given.
	ErrMissingPage = errors.New("missing landingPageId")
	// ErrInvalidDevice is returned for a device other than mobile, tablet or desktop.
	ErrInvalidDevice = errors.New("invalid deviceType. Use 'mobile', 'tablet' or 'desktop'")
)

// NormalizeDevice lowercases device and checks it is a known class.
// Empty selects DefaultDevice.
func NormalizeDevice(device string) (string, error) {
	device = strings.ToLower(strings.TrimSpace(device))

	switch device {
	case "":
		return DefaultDevice, nil
	case tracking.DeviceMobile, tracking.DeviceTablet, tracking.DeviceDesktop:
		return device, nil
	default:
		return "", ErrInvalidDevice
	}
}

// NormalizeSource trims source to MaxSourceLen characters. Empty selects
// DefaultSource.
func NormalizeSource(source string) string {
	source = strings.TrimSpace(source)
	if source == "" {
		return DefaultSource
	}

	if r := []rune(source); len(r) > MaxSourceLen {
		return string(r[:MaxSourceLen])
	}

	return source
}

var columns = map[Counter]string{ //nolint:gochecknoglobals
	Visit:      "visit_count",
	Conversion: "conversion_count",
}

// Track adds one to counter for the page, day, source and device row.
func Track(db *gorm.DB, counter Counter, pageID, source, device string, day time.Time) error {
	if db == nil {
		return ErrDBNil
	}

	col, ok := columns[counter]
	if !ok {
		return ErrInvalidCounter
	}

	if pageID == "" {
		return ErrMissingPage
	}

	device, err := NormalizeDevice(device)
	if err != nil {
		return err
	}

	source = NormalizeSource(source)

	row := models.LandingPageAnalytics{
		LandingPageID: pageID,
		Date:          day.Format(DayLayout),
		Source:        source,
		DeviceType:    device,
	}

	if counter == Visit {
		row.VisitCount = 1
	} else {
		row.ConversionCount = 1
	}

	err = db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "landing_page_id"}, {Name: "date"}, {Name: "source"}, {Name: "device_type"}},
		DoUpdates: clause.Assignments(map[string]any{
			col: gorm.Expr("landing_page_analytics." + col + " + 1"),
		}),
	}).Create(&row).Error

	return pkgerrors.Wrapf(err, "failed to track %s", counter)
}

// TrackVisit counts a visit.
func TrackVisit(db *gorm.DB, pageID, source, device string, day time.Time) error {
	return Track(db, Visit, pageID, source, device, day)
}

// TrackConversion counts a conversion.
func TrackConversion(db *gorm.DB, pageID, source, device string, day time.Time) error {
	return Track(db, Conversion, pageID, source, device, day)
}

// RangeStart returns the first day covered by timeRange ending at now.
// "all" returns an empty string.
func RangeStart(timeRange string, now time.Time) (string, error) {
	days := map[string]int{"7d": 7, "30d": 30, "90d": 90}

	if timeRange == "" {
		timeRange = DefaultRange
	}

	if timeRange == "all" {
		return "", nil
	}

	n, ok := days[timeRange]
	if !ok {
		return "", ErrInvalidRange
	}

	return now.AddDate(0, 0, -n).Format(DayLayout), nil
}

// Totals sums counters.
type Totals struct {
	Visits      int64   `json:"visits"`
	Conversions int64   `json:"conversions"`
	Rate        float64 `json:"conversionRate"`
}

func (t *Totals) add(visits, conversions int64) {
	t.Visits += visits
	t.Conversions += conversions

	if t.Visits > 0 {
		t.Rate = float64(t.Conversions) / float64(t.Visits) * 100 //nolint:mnd
	}
}

// Summary is the analytics of one page over a date window.
type Summary struct {
	Rows     []models.LandingPageAnalytics `json:"rows"`
	Totals   Totals                        `json:"totals"`
	BySource map[string]*Totals            `json:"bySource"`
	ByDevice map[string]*Totals            `json:"byDevice"`
	ByDate   map[string]*Totals            `json:"byDate"`
}

// Summarize returns rows between from and to inclusive, newest first.
// Empty bounds are open.
func Summarize(db *gorm.DB, pageID, from, to string) (*Summary, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if pageID == "" {
		return nil, ErrMissingPage
	}

	q := db.Where("landing_page_id = ?", pageID)
	if from != "" {
		q = q.Where("date >= ?", from)
	}

	if to != "" {
		q = q.Where("date <= ?", to)
	}

	s := &Summary{
		Rows:     []models.LandingPageAnalytics{},
		BySource: map[string]*Totals{},
		ByDevice: map[string]*Totals{},
		ByDate:   map[string]*Totals{},
	}

	if err := q.Order("date DESC").Find(&s.Rows).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "failed to load analytics")
	}

	bucket := func(m map[string]*Totals, key string) *Totals {
		if m[key] == nil {
			m[key] = &Totals{}
		}

		return m[key]
	}

	for _, r := range s.Rows {
		s.Totals.add(r.VisitCount, r.ConversionCount)
		bucket(s.BySource, r.Source).add(r.VisitCount, r.ConversionCount)
		bucket(s.ByDevice, r.DeviceType).add(r.VisitCount, r.ConversionCount)
		bucket(s.ByDate, r.Date).add(r.VisitCount, r.ConversionCount)
	}

	return s, nil
}

// Event is a client side interaction such as a WhatsApp click.
type Event struct {
	EventType  string            `json:"eventType"`
	TrackingID string            `json:"trackingId"`
	UTMParams  map[string]string `json:"utmParams"`
	Timestamp  string            `json:"timestamp"`
	UserAgent  string            `json:"-"`
	Referer    string            `json:"-"`
}

// RecordEvent logs e. Events are not stored.
func RecordEvent(e Event) {
	log.Info().
		Str("event", e.EventType).
		Str("trackingId", e.TrackingID).
		Interface("utm", e.UTMParams).
		Str("timestamp", e.Timestamp).
		Str("userAgent", e.UserAgent).
		Str("referer", e.Referer).
		Msg("event tracked")
}
