package pipeline

import (
	"net/url"
	"strings"
	"time"

	"github.com/mesh-intelligence/bazaar/pkg/types"
)

// Config holds the settings every call shares.
type Config struct {
	BaseAddress          string
	Timeout              time.Duration
	CredentialHeaderName string
	// CredentialScheme is prepended to the token verbatim, so "Bearer "
	// needs its trailing space. Empty sends the raw token.
	CredentialScheme string
}

// DefaultConfig returns the settings of a local marketplace server.
func DefaultConfig() Config {
	return Config{
		BaseAddress:          types.DefaultBaseAddress,
		Timeout:              types.DefaultTimeout,
		CredentialHeaderName: types.DefaultCredentialHeader,
	}
}

// ConfigFrom extracts pipeline settings from the client configuration.
func ConfigFrom(cfg types.Config) Config {
	return Config{
		BaseAddress:          cfg.BaseAddress,
		Timeout:              cfg.Timeout,
		CredentialHeaderName: cfg.CredentialHeader,
		CredentialScheme:     cfg.CredentialScheme,
	}
}

// Validate checks that the configuration can address a server.
func (c Config) Validate() error {
	if c.BaseAddress == "" {
		return types.ErrBaseAddressEmpty
	}
	u, err := url.Parse(c.BaseAddress)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return types.ErrBaseAddressInvalid
	}
	if c.Timeout <= 0 {
		return types.ErrTimeoutInvalid
	}
	if strings.TrimSpace(c.CredentialHeaderName) == "" {
		return types.ErrCredentialHeaderEmpty
	}
	return nil
}
