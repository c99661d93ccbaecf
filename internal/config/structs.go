package config

import (
	"time"

	"github.com/EstateCMS/EstateCMS/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode    bool       `mapstructure:"devMode"` // enable dev mode for development
	Title      string     `mapstructure:"title"`
	DB         DB         `mapstructure:"db"`
	Log        logger.Log `mapstructure:"log"`
	Webserver  Webserver  `mapstructure:"webserver"`
	Auth       Auth       `mapstructure:"auth"`
	Cloudinary Cloudinary `mapstructure:"cloudinary"`
	Scheduler  Scheduler  `mapstructure:"scheduler"`
}

// Webserver settings.
type Webserver struct {
	BrowseStatic   bool          `mapstructure:"browseStatic"`   // static directory listing, development only
	CacheEnabled   bool          `mapstructure:"cacheEnabled"`   // cache rendered public pages
	CacheTTL       time.Duration `mapstructure:"cacheTTL"`       // lifetime of a cached public page
	DisableRecover bool          `mapstructure:"disableRecover"` // disable the recover middleware
	Port           int           `mapstructure:"port"`
	ShutDownTime   int           `mapstructure:"shutDownTime"` // seconds to wait for open requests
	URL            string        `mapstructure:"url"`          // public base url, used for links and schema.org
	UploadDir      string        `mapstructure:"uploadDir"`    // local uploads when cloudinary is not configured
	MaxUploadSize  int           `mapstructure:"maxUploadSize"`
	RateLimit      RateLimit     `mapstructure:"rateLimit"`
}

// RateLimit for the public write endpoints (contact form, login, analytics).
type RateLimit struct {
	Max        int           `mapstructure:"max"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// Auth settings.
type Auth struct {
	JWTSecret     string        `mapstructure:"jwtSecret"`
	TokenTTL      time.Duration `mapstructure:"tokenTTL"`
	CookieName    string        `mapstructure:"cookieName"`
	CookieSecure  bool          `mapstructure:"cookieSecure"`
	ResetTokenTTL time.Duration `mapstructure:"resetTokenTTL"`
	AdminEmail    string        `mapstructure:"adminEmail"` // seeded admin account
	AdminPassword string        `mapstructure:"adminPassword"`
}

// Cloudinary credentials. Uploads fall back to local disk when CloudName is empty.
type Cloudinary struct {
	CloudName string `mapstructure:"cloudName"`
	APIKey    string `mapstructure:"apiKey"`
	APISecret string `mapstructure:"apiSecret"`
	Folder    string `mapstructure:"folder"` // prefix for all upload folders
}

// Scheduler cron specs.
type Scheduler struct {
	Enabled             bool   `mapstructure:"enabled"`
	PurgeResetsSpec     string `mapstructure:"purgeResetsSpec"`
	ArchiveLandingPages string `mapstructure:"archiveLandingPages"`
	PurgeStorageSpec    string `mapstructure:"purgeStorageSpec"`
}
