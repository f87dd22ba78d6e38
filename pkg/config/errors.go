package config

import "errors"

var (
	// ErrReadConfig indicates the config file could not be read or parsed.
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrReadEnvFile indicates a .env file exists but could not be parsed.
	ErrReadEnvFile = errors.New("config: failed to read env file")

	// ErrInvalidValue indicates a value could not be parsed or is out of range.
	ErrInvalidValue = errors.New("config: invalid value")
)
