package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/EstateCMS/EstateCMS/internal/landing"
)

// LandingPageStatus is the publication state of a landing page.
type LandingPageStatus string

// Landing page statuses.
const (
	LandingDraft     LandingPageStatus = "draft"
	LandingPublished LandingPageStatus = "published"
	LandingArchived  LandingPageStatus = "archived"
)

// Valid reports whether s is a known status.
func (s LandingPageStatus) Valid() bool {
	switch s {
	case LandingDraft, LandingPublished, LandingArchived:
		return true
	}

	return false
}

// LandingPage is a campaign page built from components.
type LandingPage struct {
	ID              string            `gorm:"primaryKey;size:36" json:"id"`
	Title           string            `gorm:"size:255;not null" json:"title"`
	Slug            string            `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Description     string            `gorm:"type:text" json:"description"`
	Content         landing.Content   `gorm:"serializer:json;type:text" json:"content"`
	MetaTitle       string            `gorm:"size:255" json:"meta_title"`
	MetaDescription string            `gorm:"type:text" json:"meta_description"`
	OGImage         string            `gorm:"size:1024" json:"og_image"`
	Status          LandingPageStatus `gorm:"size:20;index;not null;default:'draft'" json:"status"`
	TemplateType    string            `gorm:"size:50;not null;default:'custom'" json:"template_type"`
	TargetAudience  string            `gorm:"size:255" json:"target_audience"`
	CampaignSource  string            `gorm:"size:255;index" json:"campaign_source"`
	TrackingCode    string            `gorm:"type:text" json:"tracking_code"`
	Settings        map[string]any    `gorm:"serializer:json;type:text" json:"settings"`
	PublishedAt     *time.Time        `json:"published_at"`
	ExpiresAt       *time.Time        `json:"expires_at"`
	CreatedBy       string            `gorm:"size:255;index" json:"created_by"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `gorm:"index" json:"updated_at"`
}

// BeforeCreate assigns an ID and defaults.
func (p *LandingPage) BeforeCreate(_ *gorm.DB) error {
	ensureID(&p.ID)

	if p.Status == "" {
		p.Status = LandingDraft
	}

	if p.TemplateType == "" {
		p.TemplateType = "custom"
	}

	return nil
}

// Live reports whether the page is published and not expired at now.
func (p *LandingPage) Live(now time.Time) bool {
	if p.Status != LandingPublished {
		return false
	}

	return p.ExpiresAt == nil || p.ExpiresAt.After(now)
}

// LandingPageComponent is a reusable component preset shown in the builder.
type LandingPageComponent struct {
	ID           string          `gorm:"primaryKey;size:64" json:"id"`
	Name         string          `gorm:"size:255;not null" json:"name"`
	Type         landing.Type    `gorm:"size:50;index;not null" json:"type"`
	Config       json.RawMessage `gorm:"type:text" json:"config"`
	PreviewImage string          `gorm:"size:1024" json:"preview_image"`
	IsSystem     bool            `json:"is_system"`
	CreatedBy    string          `gorm:"size:255" json:"created_by"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// BeforeCreate assigns an ID.
func (c *LandingPageComponent) BeforeCreate(_ *gorm.DB) error {
	ensureID(&c.ID)

	return nil
}

// LandingPageAnalytics holds daily counters per page, source and device.
type LandingPageAnalytics struct {
	ID              string `gorm:"primaryKey;size:36" json:"id"`
	LandingPageID   string `gorm:"uniqueIndex:idx_lp_analytics_key;size:36;not null" json:"landing_page_id"`
	Date            string `gorm:"uniqueIndex:idx_lp_analytics_key;size:10;not null" json:"date"`
	Source          string `gorm:"uniqueIndex:idx_lp_analytics_key;size:100;not null;default:'direct'" json:"source"`
	DeviceType      string `gorm:"uniqueIndex:idx_lp_analytics_key;size:20;not null;default:'desktop'" json:"device_type"`
	VisitCount      int64  `gorm:"not null;default:0" json:"visit_count"`
	ConversionCount int64  `gorm:"not null;default:0" json:"conversion_count"`
}

// BeforeCreate assigns an ID.
func (a *LandingPageAnalytics) BeforeCreate(_ *gorm.DB) error {
	ensureID(&a.ID)

	return nil
}
