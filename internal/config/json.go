package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly durations, so an operator-written config file can use
// values like "15m" instead of nanosecond integers.
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey       string   `json:"token_sign_key"`
		TokenIssuer        string   `json:"token_issuer"`
		TokenDuration      Duration `json:"token_duration"`
		BcryptCost         int      `json:"bcrypt_cost"`
		ResetTokenTTL      Duration `json:"reset_token_ttl"`
		AdminResetTokenTTL Duration `json:"admin_reset_token_ttl"`
		OTPTTL             Duration `json:"otp_ttl"`
		LockoutThreshold   int      `json:"lockout_threshold"`
		LockoutWindow      Duration `json:"lockout_window"`
		Version            string   `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Adapter struct {
		Mail struct {
			BaseURL      string   `json:"base_url"`
			APIKey       string   `json:"api_key"`
			From         string   `json:"from"`
			ResetURLBase string   `json:"reset_url_base"`
			Timeout      Duration `json:"timeout"`
		} `json:"mail,omitempty"`
	} `json:"adapter,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:       jsonCfg.App.TokenSignKey,
			TokenIssuer:        jsonCfg.App.TokenIssuer,
			TokenDuration:      time.Duration(jsonCfg.App.TokenDuration),
			BcryptCost:         jsonCfg.App.BcryptCost,
			ResetTokenTTL:      time.Duration(jsonCfg.App.ResetTokenTTL),
			AdminResetTokenTTL: time.Duration(jsonCfg.App.AdminResetTokenTTL),
			OTPTTL:             time.Duration(jsonCfg.App.OTPTTL),
			LockoutThreshold:   jsonCfg.App.LockoutThreshold,
			LockoutWindow:      time.Duration(jsonCfg.App.LockoutWindow),
			Version:            jsonCfg.App.Version,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Adapter: Adapter{
			Mail: Mail{
				BaseURL:      jsonCfg.Adapter.Mail.BaseURL,
				APIKey:       jsonCfg.Adapter.Mail.APIKey,
				From:         jsonCfg.Adapter.Mail.From,
				ResetURLBase: jsonCfg.Adapter.Mail.ResetURLBase,
				Timeout:      time.Duration(jsonCfg.Adapter.Mail.Timeout),
			},
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
