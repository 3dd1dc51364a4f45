package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrNoTokenSignKey indicates that no JWT signing secret was provided
	// by any configuration source. The server refuses to start rather than
	// fall back to a built-in key.
	ErrNoTokenSignKey = errors.New("token sign key is not configured")

	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an empty database DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")

	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, a negative recovery window or lockout threshold).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
)
