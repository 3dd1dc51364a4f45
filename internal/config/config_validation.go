// SPDX-License-Identifier: Apache-2.0

package config

// validate checks the merged [StructuredConfig] against the application's
// startup invariants and fills in defaults for tunables left unset.
//
// The token sign key is the one setting with no default: operating with a
// guessable signing secret would let anyone mint valid bearer tokens, so a
// missing key aborts startup.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.TokenSignKey == "" {
		return ErrNoTokenSignKey
	}

	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.App.BcryptCost < 0 ||
		cfg.App.TokenDuration < 0 ||
		cfg.App.ResetTokenTTL < 0 ||
		cfg.App.AdminResetTokenTTL < 0 ||
		cfg.App.OTPTTL < 0 ||
		cfg.App.LockoutThreshold < 0 ||
		cfg.App.LockoutWindow < 0 {
		return ErrInvalidAppConfigs
	}

	cfg.applyDefaults()

	return nil
}

func (cfg *StructuredConfig) applyDefaults() {
	if cfg.App.TokenIssuer == "" {
		cfg.App.TokenIssuer = DefaultTokenIssuer
	}
	if cfg.App.TokenDuration == 0 {
		cfg.App.TokenDuration = DefaultTokenDuration
	}
	if cfg.App.BcryptCost == 0 {
		cfg.App.BcryptCost = DefaultBcryptCost
	}
	if cfg.App.ResetTokenTTL == 0 {
		cfg.App.ResetTokenTTL = DefaultResetTokenTTL
	}
	if cfg.App.AdminResetTokenTTL == 0 {
		cfg.App.AdminResetTokenTTL = DefaultAdminResetTokenTTL
	}
	if cfg.App.OTPTTL == 0 {
		cfg.App.OTPTTL = DefaultOTPTTL
	}
	if cfg.App.LockoutThreshold == 0 {
		cfg.App.LockoutThreshold = DefaultLockoutThreshold
	}
	if cfg.App.LockoutWindow == 0 {
		cfg.App.LockoutWindow = DefaultLockoutWindow
	}
	if cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = DefaultHTTPAddress
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = DefaultRequestTimeout
	}
}
