// internal/config/normalize.go
package config

import "strings"

const (
	defaultTCPPort   = "502"
	defaultTimeoutMs = 1000
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	b := &cfg.Bridge

	// Bare hostnames get the well-known Modbus TCP port.
	if !strings.Contains(b.Local.Endpoint, ":") {
		b.Local.Endpoint += ":" + defaultTCPPort
	}
	if !strings.Contains(b.Remote.Endpoint, ":") {
		b.Remote.Endpoint += ":" + defaultTCPPort
	}

	if b.TimeoutMs == 0 {
		b.TimeoutMs = defaultTimeoutMs
	}
}
