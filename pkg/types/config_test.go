package types

import (
	"errors"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	valid := DefaultConfig("/tmp/data")

	with := func(mut func(*Config)) Config {
		c := valid
		mut(&c)
		return c
	}

	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "default config is valid",
			config:  valid,
			wantErr: nil,
		},
		{
			name:    "empty base address returns ErrBaseAddressEmpty",
			config:  with(func(c *Config) { c.BaseAddress = "" }),
			wantErr: ErrBaseAddressEmpty,
		},
		{
			name:    "relative base address returns ErrBaseAddressInvalid",
			config:  with(func(c *Config) { c.BaseAddress = "/api" }),
			wantErr: ErrBaseAddressInvalid,
		},
		{
			name:    "non-http scheme returns ErrBaseAddressInvalid",
			config:  with(func(c *Config) { c.BaseAddress = "ftp://example.com/api" }),
			wantErr: ErrBaseAddressInvalid,
		},
		{
			name:    "zero timeout returns ErrTimeoutInvalid",
			config:  with(func(c *Config) { c.Timeout = 0 }),
			wantErr: ErrTimeoutInvalid,
		},
		{
			name:    "empty credential header returns ErrCredentialHeaderEmpty",
			config:  with(func(c *Config) { c.CredentialHeader = "" }),
			wantErr: ErrCredentialHeaderEmpty,
		},
		{
			name:    "empty backend returns ErrBackendEmpty",
			config:  with(func(c *Config) { c.Storage.Backend = "" }),
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend returns ErrBackendUnknown",
			config:  with(func(c *Config) { c.Storage.Backend = "postgres" }),
			wantErr: ErrBackendUnknown,
		},
		{
			name:    "redis without address returns ErrRedisAddrEmpty",
			config:  with(func(c *Config) { c.Storage.Backend = BackendRedis }),
			wantErr: ErrRedisAddrEmpty,
		},
		{
			name: "redis with address is valid",
			config: with(func(c *Config) {
				c.Storage.Backend = BackendRedis
				c.Storage.RedisAddr = "localhost:6379"
			}),
			wantErr: nil,
		},
		{
			name:    "memory backend with empty DataDir is valid",
			config:  with(func(c *Config) { c.Storage = StorageConfig{Backend: BackendMemory} }),
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig("data")
	if c.BaseAddress != "http://localhost:5000/api" {
		t.Errorf("unexpected base address %q", c.BaseAddress)
	}
	if c.Timeout != 5*time.Second {
		t.Errorf("unexpected timeout %v", c.Timeout)
	}
	if c.CredentialHeader != "Authorization" || c.CredentialScheme != "" {
		t.Errorf("expected raw Authorization header, got %q scheme %q", c.CredentialHeader, c.CredentialScheme)
	}
	if c.Storage.Backend != BackendSQLite || c.Storage.DataDir != "data" {
		t.Errorf("unexpected storage %+v", c.Storage)
	}
}
