// Package dsn builds data source names for the supported database engines.
package dsn

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/EstateCMS/EstateCMS/internal/config"
)

// Create builds the DSN for cfg.Engine. A configured URL wins.
func Create(cfg config.DB) string {
	if cfg.URL != "" {
		return fromURL(cfg)
	}

	switch cfg.Engine {
	case config.EngineMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name, cfg.Extras)
	case config.EnginePostgres:
		out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)
		if cfg.Extras != "" {
			out += " " + cfg.Extras
		}

		return out
	default:
		return cfg.Path
	}
}

// fromURL normalizes DATABASE_URL style values.
// SQLite accepts "file:" prefixed paths; the auth token only applies to
// remote URLs and is passed as authToken.
func fromURL(cfg config.DB) string {
	if cfg.Engine == config.EngineSQLite || cfg.Engine == "" {
		return strings.TrimPrefix(cfg.URL, "file:")
	}

	if cfg.AuthToken == "" {
		return cfg.URL
	}

	u, err := url.Parse(cfg.URL)
	if err != nil || u.Scheme == "" {
		return cfg.URL
	}

	q := u.Query()
	q.Set("authToken", cfg.AuthToken)
	u.RawQuery = q.Encode()

	return u.String()
}
