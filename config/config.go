// Package config loads the typed application configuration from YAML files
// with environment-variable overrides.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "100KB"
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	Postgres *PostgresConfig `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	// Identity configures bearer-token verification against the external
	// identity provider.
	Identity *IdentityConfig `json:"identity" yaml:"identity"`

	// ObjectStore configures the bucket holding asset files.
	ObjectStore *ObjectStoreConfig `json:"objectStore" yaml:"objectStore"`

	// PaymentGateway configures the payment processor client.
	PaymentGateway *PaymentGatewayConfig `json:"paymentGateway" yaml:"paymentGateway"`

	// Downloads configures signed-URL issuance policy.
	Downloads *DownloadsConfig `json:"downloads" yaml:"downloads"`
}

// Log defines logging configuration.
type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// PostgresConfig defines the primary database connection and pool settings.
type PostgresConfig struct {
	Host            string        `json:"host" yaml:"host"`
	Port            int           `json:"port" yaml:"port"`
	UserName        string        `json:"userName" yaml:"userName"`
	Password        string        `json:"password" yaml:"password"`
	DBName          string        `json:"dbName" yaml:"dbName"`
	SSLMode         string        `json:"sslMode" yaml:"sslMode"`
	MaxOpenConns    int           `json:"maxOpenConns" yaml:"maxOpenConns"`
	MaxIdleConns    int           `json:"maxIdleConns" yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `json:"connMaxLifetime" yaml:"connMaxLifetime"`
}

// IdentityConfig defines identity-provider token verification settings.
type IdentityConfig struct {
	Issuer   string `json:"issuer" yaml:"issuer"`
	Audience string `json:"audience" yaml:"audience"`
	// Secret verifies HMAC-signed tokens issued by the identity provider.
	Secret string `json:"secret" yaml:"secret"`
}

// ObjectStoreConfig defines the asset bucket settings.
type ObjectStoreConfig struct {
	// BucketURL is a gocloud.dev bucket URL, e.g. "s3://assets?region=us-east-1"
	// or "file:///var/data/assets" for local development.
	BucketURL string `json:"bucketUrl" yaml:"bucketUrl"`

	// RequestTimeout bounds every call to the store.
	RequestTimeout time.Duration `json:"requestTimeout" yaml:"requestTimeout"`
}

// PaymentGatewayConfig defines the payment processor client settings.
type PaymentGatewayConfig struct {
	BaseURL       string        `json:"baseUrl" yaml:"baseUrl"`
	APIKey        string        `json:"apiKey" yaml:"apiKey"`
	WebhookSecret string        `json:"webhookSecret" yaml:"webhookSecret"`
	SuccessURL    string        `json:"successUrl" yaml:"successUrl"`
	CancelURL     string        `json:"cancelUrl" yaml:"cancelUrl"`
	// RequestTimeout bounds checkout-session creation calls.
	RequestTimeout time.Duration `json:"requestTimeout" yaml:"requestTimeout"`
	// SignatureTolerance bounds the age of the timestamp carried in a webhook
	// signature header. Zero disables the age check.
	SignatureTolerance time.Duration `json:"signatureTolerance" yaml:"signatureTolerance"`
}

// DownloadsConfig defines the signed-URL issuance policy.
type DownloadsConfig struct {
	// DefaultExpiry applies when the caller does not request an expiry.
	DefaultExpiry time.Duration `json:"defaultExpiry" yaml:"defaultExpiry"`
	// MinExpiry and MaxExpiry bound the caller-requested expiry.
	MinExpiry time.Duration `json:"minExpiry" yaml:"minExpiry"`
	MaxExpiry time.Duration `json:"maxExpiry" yaml:"maxExpiry"`
	// RateWindow and RateMax define the sliding-window rate limit per
	// (user, asset) pair.
	RateWindow time.Duration `json:"rateWindow" yaml:"rateWindow"`
	RateMax    int           `json:"rateMax" yaml:"rateMax"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: POSTGRES_SSLMODE -> postgres.sslMode (not postgres.sslmode)
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}

	applyDownloadDefaults(cfg)
	applyGatewayDefaults(cfg)

	return cfg, nil
}

// applyDownloadDefaults fills the issuance policy with the documented defaults
// (300s link expiry within [60s, 3600s]; 5 downloads per rolling hour).
func applyDownloadDefaults(cfg *Config) {
	if cfg.Downloads == nil {
		cfg.Downloads = &DownloadsConfig{}
	}
	if cfg.Downloads.DefaultExpiry <= 0 {
		cfg.Downloads.DefaultExpiry = 5 * time.Minute
	}
	if cfg.Downloads.MinExpiry <= 0 {
		cfg.Downloads.MinExpiry = time.Minute
	}
	if cfg.Downloads.MaxExpiry <= 0 {
		cfg.Downloads.MaxExpiry = time.Hour
	}
	if cfg.Downloads.RateWindow <= 0 {
		cfg.Downloads.RateWindow = time.Hour
	}
	if cfg.Downloads.RateMax <= 0 {
		cfg.Downloads.RateMax = 5
	}
}

func applyGatewayDefaults(cfg *Config) {
	if cfg.PaymentGateway == nil {
		return
	}
	if cfg.PaymentGateway.RequestTimeout <= 0 {
		cfg.PaymentGateway.RequestTimeout = 10 * time.Second
	}
	if cfg.ObjectStore != nil && cfg.ObjectStore.RequestTimeout <= 0 {
		cfg.ObjectStore.RequestTimeout = 10 * time.Second
	}
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
