// Package config assembles runtime settings from defaults, an optional YAML
// file, an optional .env file and the process environment, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"woopm.dev/internal/api"
	"woopm.dev/internal/obs"
)

// Data source names.
const (
	SourceRemote = "remote"
	SourceDirect = "direct"
)

// ConfigEnv names the variable pointing at the YAML config file.
const ConfigEnv = "WPM_CONFIG"

type Config struct {
	APIURL       string `yaml:"api_url" env:"WPM_API_URL"`
	PublicAPIURL string `yaml:"-" env:"NEXT_PUBLIC_API_URL"`
	UseMock      bool   `yaml:"use_mock" env:"WPM_USE_MOCK"`

	DataSource  string `yaml:"data_source" env:"WPM_DATA_SOURCE"`
	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL"`

	TokenFile string        `yaml:"token_file" env:"WPM_TOKEN_FILE"`
	OrgID     int           `yaml:"org_id" env:"WPM_ORG_ID"`
	Timeout   time.Duration `yaml:"timeout" env:"WPM_HTTP_TIMEOUT"`

	Tracing      bool   `yaml:"tracing" env:"WPM_TRACING"`
	OTLPEndpoint string `yaml:"otlp_endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPInsecure bool   `yaml:"otlp_insecure" env:"OTEL_EXPORTER_OTLP_INSECURE"`

	ListenAddr string `yaml:"listen_addr" env:"WPM_LISTEN_ADDR"`
	AuthSecret string `yaml:"auth_secret" env:"WPM_AUTH_SECRET"`
	RateBurst  int    `yaml:"rate_burst" env:"WPM_RATE_BURST"`
	RatePerSec int    `yaml:"rate_per_sec" env:"WPM_RATE_PER_SEC"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		APIURL:     api.DefaultBaseURL,
		DataSource: SourceRemote,
		OrgID:      1,
		Timeout:    30 * time.Second,
		ListenAddr: ":3001",
		RateBurst:  20,
		RatePerSec: 10,
	}
}

// Options select the files Load reads. Empty fields fall back to ".env" and $WPM_CONFIG.
type Options struct {
	EnvFile    string
	ConfigFile string
}

// Load builds the configuration. Missing files are not an error; malformed ones are.
func Load(opts Options) (Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := Default()

	path := opts.ConfigFile
	if path == "" {
		path = os.Getenv(ConfigEnv)
	}
	if path != "" {
		if err := loadYAML(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}
	if os.Getenv("WPM_API_URL") == "" && strings.TrimSpace(cfg.PublicAPIURL) != "" {
		cfg.APIURL = cfg.PublicAPIURL
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.DataSource {
	case SourceRemote:
	case SourceDirect:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("config: data source \"direct\" requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("config: unknown data source %q", c.DataSource)
	}
	if c.OrgID <= 0 {
		return fmt.Errorf("config: org id must be positive, got %d", c.OrgID)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: timeout must be positive, got %s", c.Timeout)
	}
	return nil
}

// Client returns the API client settings.
func (c Config) Client() api.Config {
	return api.Config{
		BaseURL: c.APIURL,
		UseMock: c.UseMock,
		Timeout: c.Timeout,
		Tracing: c.Tracing,
	}
}

// TracingConfig returns the exporter settings; an empty endpoint disables tracing.
func (c Config) TracingConfig() obs.TracingConfig {
	if !c.Tracing {
		return obs.TracingConfig{}
	}
	return obs.TracingConfig{Endpoint: c.OTLPEndpoint, Insecure: c.OTLPInsecure}
}
