package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.url is empty.
	ErrEmptyURL = errors.New("config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("config webserver.port listening port can not be 0")

	// ErrUnknownEngine error if db.engine is not supported.
	ErrUnknownEngine = errors.New("config db.engine must be sqlite, mysql or postgres")

	// ErrEmptyJWTSecret error if auth.jwtSecret is empty outside dev mode.
	ErrEmptyJWTSecret = errors.New("config auth.jwtSecret can not be empty")
)
