// Package response writes the JSON envelope shared by every API route
// and the cache headers of dynamic pages.
package response

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/EstateCMS/EstateCMS/internal/landing"
	"github.com/EstateCMS/EstateCMS/internal/validation"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// OK writes data with status 200.
func OK(c *fiber.Ctx, data any) error {
	return c.JSON(Envelope{Success: true, Data: data})
}

// Created writes data with status 201.
func Created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(Envelope{Success: true, Data: data})
}

// Message writes a success message without data.
func Message(c *fiber.Ctx, msg string) error {
	return c.JSON(Envelope{Success: true, Message: msg})
}

// Fail writes msg with status.
func Fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(Envelope{Success: false, Error: msg})
}

// Error maps err to a status, logs it and writes the envelope.
// Unknown errors become a 500 with a generic message.
func Error(c *fiber.Ctx, err error) error {
	status := Status(err)

	env := Envelope{Success: false, Error: err.Error()}

	var verr *validation.Error
	if errors.As(err, &verr) {
		env.Details = verr.Fields
	}

	var cerr *landing.ContentError
	if errors.As(err, &cerr) {
		env.Details = cerr.Problems
	}

	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("request failed")

		env.Error = "internal server error"
	} else {
		log.Debug().Err(err).Str("path", c.Path()).Int("status", status).Msg("request rejected")
	}

	return c.Status(status).JSON(env)
}

// NoCache marks the response as never cacheable.
func NoCache(c *fiber.Ctx) {
	c.Set(fiber.HeaderCacheControl, "no-store, no-cache, must-revalidate, max-age=0")
	c.Set(fiber.HeaderPragma, "no-cache")
	c.Set(fiber.HeaderExpires, "0")
}

// Bust appends a v query parameter to raw so browsers refetch it when
// version changes. raw is returned unchanged when it cannot be parsed or
// version is empty.
func Bust(raw, version string) string {
	if raw == "" || version == "" {
		return raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	q := u.Query()
	q.Set("v", version)
	u.RawQuery = q.Encode()

	return u.String()
}
