package types

import (
	"errors"
	"net/url"
	"time"
)

// Config holds everything needed to construct a marketplace client.
type Config struct {
	// BaseAddress is the API root every endpoint path is joined to,
	// for example http://localhost:5000/api.
	BaseAddress string `json:"base_address" yaml:"base_address" mapstructure:"base_address"`

	// Timeout bounds a single call, connection through body read.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// CredentialHeader names the header that carries the token.
	CredentialHeader string `json:"credential_header" yaml:"credential_header" mapstructure:"credential_header"`

	// CredentialScheme is prepended to the token in the credential header.
	// Empty by default: the marketplace API expects the raw token.
	CredentialScheme string `json:"credential_scheme,omitempty" yaml:"credential_scheme,omitempty" mapstructure:"credential_scheme"`

	// Profile scopes durable client state so several accounts can share a
	// data directory or a redis instance.
	Profile string `json:"profile" yaml:"profile" mapstructure:"profile"`

	Storage StorageConfig `json:"storage" yaml:"storage" mapstructure:"storage"`
}

// StorageConfig selects and parameterizes the durable client storage.
type StorageConfig struct {
	Backend   string `json:"backend" yaml:"backend" mapstructure:"backend"`
	DataDir   string `json:"data_dir,omitempty" yaml:"data_dir,omitempty" mapstructure:"data_dir"`
	RedisAddr string `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty" mapstructure:"redis_addr"`
	RedisDB   int    `json:"redis_db,omitempty" yaml:"redis_db,omitempty" mapstructure:"redis_db"`
}

// Supported storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Defaults applied by DefaultConfig and by the CLI config loader.
const (
	DefaultBaseAddress      = "http://localhost:5000/api"
	DefaultTimeout          = 5 * time.Second
	DefaultCredentialHeader = "Authorization"
	DefaultProfile          = "default"
)

// Config validation errors.
var (
	ErrBaseAddressEmpty      = errors.New("base address must not be empty")
	ErrBaseAddressInvalid    = errors.New("base address must be an absolute http(s) URL")
	ErrTimeoutInvalid        = errors.New("timeout must be positive")
	ErrCredentialHeaderEmpty = errors.New("credential header must not be empty")
	ErrBackendEmpty          = errors.New("backend must not be empty")
	ErrBackendUnknown        = errors.New("unknown backend")
	ErrRedisAddrEmpty        = errors.New("redis backend requires redis_addr")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
	BackendRedis:  true,
	BackendMemory: true,
}

// DefaultConfig returns a Config pointing at a local marketplace API with
// SQLite-backed client storage in dataDir.
func DefaultConfig(dataDir string) Config {
	return Config{
		BaseAddress:      DefaultBaseAddress,
		Timeout:          DefaultTimeout,
		CredentialHeader: DefaultCredentialHeader,
		Profile:          DefaultProfile,
		Storage: StorageConfig{
			Backend: BackendSQLite,
			DataDir: dataDir,
		},
	}
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.BaseAddress == "" {
		return ErrBaseAddressEmpty
	}
	u, err := url.Parse(c.BaseAddress)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrBaseAddressInvalid
	}
	if c.Timeout <= 0 {
		return ErrTimeoutInvalid
	}
	if c.CredentialHeader == "" {
		return ErrCredentialHeaderEmpty
	}
	return c.Storage.Validate()
}

// Validate checks the storage section on its own; backends call it from
// Attach.
func (s StorageConfig) Validate() error {
	if s.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[s.Backend] {
		return ErrBackendUnknown
	}
	if s.Backend == BackendRedis && s.RedisAddr == "" {
		return ErrRedisAddrEmpty
	}
	return nil
}
