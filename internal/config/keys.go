package config

import "os"

// APIKeySource tells where a configured key came from.
type APIKeySource string

const (
	KeySourceEnv    APIKeySource = "env"
	KeySourceConfig APIKeySource = "config"
	KeySourceNone   APIKeySource = "none"
)

// KeyStatus describes one credential for the series command's status block.
type KeyStatus struct {
	Name   string       `json:"name"`
	Source APIKeySource `json:"source"`
	IsSet  bool         `json:"is_set"`
	Masked string       `json:"masked,omitempty"`
}

// CheckAPIKeys reports the status of every credential the pipeline uses.
// FRED is the only one. The env vars win over the config file during Load,
// so a set env var decides the reported source.
func CheckAPIKeys(cfg *Config) []KeyStatus {
	fred := KeyStatus{Name: "FRED API Key", IsSet: cfg.FRED.APIKey != ""}
	switch {
	case !fred.IsSet:
		fred.Source = KeySourceNone
	case os.Getenv("CURVEWATCH_FRED_API_KEY") != "" || os.Getenv("FRED_API_KEY") != "":
		fred.Source = KeySourceEnv
	default:
		fred.Source = KeySourceConfig
	}
	if fred.IsSet {
		fred.Masked = maskKey(cfg.FRED.APIKey)
	}
	return []KeyStatus{fred}
}

// maskKey keeps the first and last three characters of a key for display.
// Anything short masks entirely.
func maskKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:3] + "..." + key[len(key)-3:]
}
