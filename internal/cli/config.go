package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/bazaar/internal/logging"
	"github.com/mesh-intelligence/bazaar/internal/notify"
	"github.com/mesh-intelligence/bazaar/internal/paths"
	"github.com/mesh-intelligence/bazaar/pkg/bazaar"
	"github.com/mesh-intelligence/bazaar/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "BAZAAR"

	cfgKeyBaseAddress      = "base_address"
	cfgKeyTimeout          = "timeout"
	cfgKeyCredentialHeader = "credential_header"
	cfgKeyCredentialScheme = "credential_scheme"
	cfgKeyProfile          = "profile"
	cfgKeyDataDir          = "data_dir"
	cfgKeyBackend          = "storage.backend"
	cfgKeyRedisAddr        = "storage.redis_addr"
	cfgKeyRedisDB          = "storage.redis_db"
	cfgKeyLogLevel         = "log.level"
	cfgKeyLogFormat        = "log.format"

	defaultLogLevel  = "warn"
	defaultLogFormat = "text"
)

// configFile holds the structure written to config.yaml on first run.
type configFile struct {
	BaseAddress      string         `yaml:"base_address"`
	Timeout          string         `yaml:"timeout"`
	CredentialHeader string         `yaml:"credential_header"`
	CredentialScheme string         `yaml:"credential_scheme"`
	Profile          string         `yaml:"profile"`
	DataDir          string         `yaml:"data_dir,omitempty"`
	Storage          storageSection `yaml:"storage"`
	Log              logSection     `yaml:"log"`
}

type storageSection struct {
	Backend   string `yaml:"backend"`
	RedisAddr string `yaml:"redis_addr,omitempty"`
	RedisDB   int    `yaml:"redis_db,omitempty"`
}

type logSection struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func defaultConfigFile() configFile {
	return configFile{
		BaseAddress:      types.DefaultBaseAddress,
		Timeout:          types.DefaultTimeout.String(),
		CredentialHeader: types.DefaultCredentialHeader,
		Profile:          types.DefaultProfile,
		Storage:          storageSection{Backend: types.BackendSQLite},
		Log:              logSection{Level: defaultLogLevel, Format: defaultLogFormat},
	}
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. An existing file is left alone.
func writeConfigIfMissing(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat config file: %w", err)
	}

	cfg := defaultConfigFile()
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	header := "# bazaar client configuration\n# Any key can be overridden by BAZAAR_<KEY>, for example BAZAAR_BASE_ADDRESS.\n"
	return os.WriteFile(path, append([]byte(header), data...), 0o644)
}

// newViper reads config.yaml from configDir, creating the directory and a
// default file on first run, and layers BAZAAR_* environment overrides on
// top.
func newViper(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	if err := writeConfigIfMissing(paths.ConfigFile(configDir)); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	def := defaultConfigFile()
	v.SetDefault(cfgKeyBaseAddress, def.BaseAddress)
	v.SetDefault(cfgKeyTimeout, def.Timeout)
	v.SetDefault(cfgKeyCredentialHeader, def.CredentialHeader)
	v.SetDefault(cfgKeyCredentialScheme, "")
	v.SetDefault(cfgKeyProfile, def.Profile)
	v.SetDefault(cfgKeyDataDir, "")
	v.SetDefault(cfgKeyBackend, def.Storage.Backend)
	v.SetDefault(cfgKeyRedisAddr, "")
	v.SetDefault(cfgKeyRedisDB, 0)
	v.SetDefault(cfgKeyLogLevel, def.Log.Level)
	v.SetDefault(cfgKeyLogFormat, def.Log.Format)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// loadConfig resolves directories, reads the config, and builds the logger.
func (a *app) loadConfig() error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return systemError{fmt.Errorf("resolve config dir: %w", err)}
	}
	v, err := newViper(configDir)
	if err != nil {
		return systemError{err}
	}

	timeout, err := parseTimeout(v.GetString(cfgKeyTimeout))
	if err != nil {
		return systemError{err}
	}

	cfg := types.Config{
		BaseAddress:      strings.TrimRight(v.GetString(cfgKeyBaseAddress), "/"),
		Timeout:          timeout,
		CredentialHeader: v.GetString(cfgKeyCredentialHeader),
		CredentialScheme: v.GetString(cfgKeyCredentialScheme),
		Profile:          v.GetString(cfgKeyProfile),
		Storage: types.StorageConfig{
			Backend:   v.GetString(cfgKeyBackend),
			RedisAddr: v.GetString(cfgKeyRedisAddr),
			RedisDB:   v.GetInt(cfgKeyRedisDB),
		},
	}
	if a.flags.ephemeral {
		cfg.Storage.Backend = types.BackendMemory
	}
	if cfg.Storage.Backend == types.BackendSQLite {
		dataDir, err := paths.ResolveDataDir(a.flags.dataDir, v.GetString(cfgKeyDataDir))
		if err != nil {
			return systemError{fmt.Errorf("resolve data dir: %w", err)}
		}
		cfg.Storage.DataDir = dataDir
	}
	if err := cfg.Validate(); err != nil {
		return systemError{fmt.Errorf("invalid config in %s: %w", paths.ConfigFile(configDir), err)}
	}

	level := a.flags.logLevel
	if level == "" {
		level = v.GetString(cfgKeyLogLevel)
	}
	a.configDir = configDir
	a.config = cfg
	a.log = logging.New(logging.Config{Level: level, Format: v.GetString(cfgKeyLogFormat), Output: a.stderr})
	return nil
}

// parseTimeout accepts a Go duration ("5s") or a bare number of seconds.
func parseTimeout(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("timeout %q: %w", s, types.ErrTimeoutInvalid)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// openClient wires the marketplace client. API failures are printed to
// stderr by the notifier.
func (a *app) openClient(ctx context.Context) error {
	client, err := bazaar.Open(ctx, a.config, bazaar.Options{
		Logger:   a.log,
		Notifier: notify.NewWriter(a.stderr),
	})
	if err != nil {
		return systemError{err}
	}
	a.client = client
	return nil
}
