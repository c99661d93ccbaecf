// Package websitesettings stores the site wide identity, contact and SEO settings.
package websitesettings

import (
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/EstateCMS/EstateCMS/internal/db/controller/setting"
	"github.com/EstateCMS/EstateCMS/internal/validation"
)

// SettingName is the key in the settings table.
const SettingName = "website_settings"

// ID of the single settings record.
const ID = "main"

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// Hours is the opening time of one day.
type Hours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed"`
}

// Settings holds every site wide setting.
type Settings struct {
	ID string `json:"id"`

	SiteTitle       string `json:"siteTitle" validate:"required"`
	SiteDescription string `json:"siteDescription"`
	SiteFavicon     string `json:"siteFavicon"`

	LogoLight  string `json:"logoLight"`
	LogoDark   string `json:"logoDark"`
	LogoFooter string `json:"logoFooter"`

	Address        string `json:"address"`
	PhoneNumber    string `json:"phoneNumber"`
	WhatsappNumber string `json:"whatsappNumber"`
	Email          string `json:"email" validate:"omitempty,email"`

	FacebookURL  string `json:"facebookUrl" validate:"omitempty,url"`
	InstagramURL string `json:"instagramUrl" validate:"omitempty,url"`
	TwitterURL   string `json:"twitterUrl" validate:"omitempty,url"`
	LinkedinURL  string `json:"linkedinUrl" validate:"omitempty,url"`
	YoutubeURL   string `json:"youtubeUrl" validate:"omitempty,url"`
	TiktokURL    string `json:"tiktokUrl" validate:"omitempty,url"`

	MetaKeywords string `json:"metaKeywords"`
	MetaAuthor   string `json:"metaAuthor"`
	OGImage      string `json:"ogImage"`

	CopyrightText     string `json:"copyrightText"`
	FooterDescription string `json:"footerDescription"`

	GoogleAnalyticsID  string `json:"googleAnalyticsId"`
	GoogleTagManagerID string `json:"googleTagManagerId"`
	FacebookPixelID    string `json:"facebookPixelId"`

	BusinessHours map[string]Hours `json:"businessHours,omitempty"`

	MaintenanceMode    bool   `json:"maintenanceMode"`
	MaintenanceMessage string `json:"maintenanceMessage"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Now is the clock used for timestamps.
var Now = time.Now //nolint:gochecknoglobals

// Defaults returns the settings shown before anything was saved.
func Defaults() Settings {
	now := Now()

	return Settings{
		ID:              ID,
		SiteTitle:       "Paramount Land",
		SiteDescription: "Premium Property Developer",
		SiteFavicon:     "https://res.cloudinary.com/dx7xttb8a/image/upload/v1754146325/logo_xhylzg.jpg",
		CopyrightText:   "© 2024 Paramount Land. All rights reserved.",
		MetaAuthor:      "Paramount Land",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Load returns the stored settings or the defaults.
func Load(db *gorm.DB) (Settings, error) {
	if db == nil {
		return Settings{}, ErrDBNil
	}

	var s Settings

	err := setting.LoadJSON(db, SettingName, &s)
	if errors.Is(err, setting.ErrSettingNotFound) {
		return Defaults(), nil
	}

	if err != nil {
		return Settings{}, pkgerrors.Wrap(err, "failed to load website settings")
	}

	s.ID = ID

	return s, nil
}

// Save validates s and replaces the stored settings.
func Save(db *gorm.DB, s Settings) (Settings, error) {
	if db == nil {
		return Settings{}, ErrDBNil
	}

	if err := validation.Struct(&s); err != nil {
		return Settings{}, err //nolint:wrapcheck
	}

	prev, err := Load(db)
	if err != nil {
		return Settings{}, err
	}

	s.ID = ID
	s.CreatedAt = prev.CreatedAt
	s.UpdatedAt = Now()

	if err := setting.SaveJSON(db, SettingName, s); err != nil {
		return Settings{}, pkgerrors.Wrap(err, "failed to save website settings")
	}

	return s, nil
}
