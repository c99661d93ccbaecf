// Package config reads etc/main.toml, .env and environment overrides.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	// JSONEnv holds a JSON document merged over the file config.
	JSONEnv = "ESTATECMS_CONFIG_JSON"

	// DevJWTSecret is used in dev mode when no secret is configured.
	DevJWTSecret = "dev-secret-key"

	defaultShutDownTime = 5
)

// env variables bound to config keys.
var envBindings = map[string]string{ //nolint:gochecknoglobals
	"db.url":               "DATABASE_URL",
	"db.authToken":         "DATABASE_AUTH_TOKEN",
	"cloudinary.cloudName": "CLOUDINARY_CLOUD_NAME",
	"cloudinary.apiKey":    "CLOUDINARY_API_KEY",
	"cloudinary.apiSecret": "CLOUDINARY_API_SECRET",
	"auth.jwtSecret":       "JWT_SECRET",
	"webserver.port":       "PORT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("title", "EstateCMS")
	v.SetDefault("db.engine", EngineSQLite)
	v.SetDefault("db.path", "./data/estatecms.db")
	v.SetDefault("db.logLevel", "warn")
	v.SetDefault("webserver.shutDownTime", defaultShutDownTime)
	v.SetDefault("webserver.cacheTTL", "5m")
	v.SetDefault("webserver.uploadDir", "./data/uploads")
	v.SetDefault("webserver.maxUploadSize", 5<<20) //nolint:mnd
	v.SetDefault("webserver.rateLimit.max", 20)    //nolint:mnd
	v.SetDefault("webserver.rateLimit.expiration", "1m")
	v.SetDefault("auth.tokenTTL", "24h")
	v.SetDefault("auth.cookieName", "auth_token")
	v.SetDefault("auth.resetTokenTTL", "1h")
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.purgeResetsSpec", "@hourly")
	v.SetDefault("scheduler.archiveLandingPages", "@every 15m")
	v.SetDefault("scheduler.purgeStorageSpec", "@every 10m")
	v.SetDefault("log.logLevel", "info")
	v.SetDefault("log.appName", "estatecms")
	v.SetDefault("log.serviceName", "web")
}

// ReadConfig reads main.toml from path (default ./etc/).
// A .env file in the working directory is loaded first if present.
func ReadConfig(path string) (Config, error) {
	var c Config

	if path == "" {
		path = "./etc/"
	}

	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("main")
	v.SetConfigType("toml")
	v.AddConfigPath(path)
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, errors.Wrapf(err, "failed to bind env %s", env)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	if raw := os.Getenv(JSONEnv); raw != "" {
		var err error

		if c, err = decodeAndMergeConfig(c, raw); err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	if err := json.Unmarshal([]byte(configAsJSON), &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode "+JSONEnv)
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer

	if err := toml.NewEncoder(&buffer).Encode(c); err != nil {
		return "", err //nolint:wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer

	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint:wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings the daemon can not start without and fills gaps.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	switch c.DB.Engine {
	case "":
		c.DB.Engine = EngineSQLite
	case EngineSQLite, EngineMySQL, EnginePostgres:
	default:
		return errors.Wrap(ErrUnknownEngine, invalidErrMessage)
	}

	if c.Auth.JWTSecret == "" {
		if !c.DevMode {
			return errors.Wrap(ErrEmptyJWTSecret, invalidErrMessage)
		}

		log.Warn().Msg("auth.jwtSecret not set, using the development secret")
		c.Auth.JWTSecret = DevJWTSecret
	}

	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = 24 * time.Hour //nolint:mnd
	}

	if c.Auth.ResetTokenTTL == 0 {
		c.Auth.ResetTokenTTL = time.Hour
	}

	if c.Auth.CookieName == "" {
		c.Auth.CookieName = "auth_token"
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	return nil
}

// Masked replaces secrets in dumps.
const Masked = "********"

// Redact returns a copy of c with passwords, tokens and API secrets masked.
func Redact(c Config) Config {
	for _, s := range []*string{
		&c.DB.Password,
		&c.DB.AuthToken,
		&c.Auth.JWTSecret,
		&c.Auth.AdminPassword,
		&c.Cloudinary.APISecret,
	} {
		if *s != "" {
			*s = Masked
		}
	}

	if c.DB.URL != "" {
		c.DB.URL = Masked
	}

	return c
}
