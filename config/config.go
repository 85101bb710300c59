package config

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/awantoch/sitefn/constants"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string         `json:"env"`
	Site     SiteConfig     `json:"site"`
	Assets   AssetsConfig   `json:"assets"`
	Platform PlatformConfig `json:"platform"`
	HTTP     HTTPConfig     `json:"http"`
	Log      LogConfig      `json:"log"`
	Tracing  TracingConfig  `json:"tracing"`
}

// SiteConfig points at the site root holding pages/, public/ and
// site.config.yaml.
type SiteConfig struct {
	Dir string `json:"dir"`
}

// AssetsConfig selects where public assets are read from.
type AssetsConfig struct {
	Driver string `json:"driver"`
	Bucket string `json:"bucket,omitempty"`
	Region string `json:"region,omitempty"`
	Prefix string `json:"prefix,omitempty"`
}

// PlatformConfig is handed to the Firebase Admin SDK. All-empty means the SDK
// resolves its own defaults from FIREBASE_CONFIG and ADC.
type PlatformConfig struct {
	ProjectID        string `json:"project_id,omitempty"`
	CredentialsFile  string `json:"credentials_file,omitempty"`
	DatabaseURL      string `json:"database_url,omitempty"`
	StorageBucket    string `json:"storage_bucket,omitempty"`
	ServiceAccountID string `json:"service_account_id,omitempty"`
}

type HTTPConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

type LogConfig struct {
	Level string `json:"level"`
}

type TracingConfig struct {
	Exporter    string `json:"exporter"`
	Endpoint    string `json:"endpoint,omitempty"`
	ServiceName string `json:"service_name,omitempty"`
}

func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var cfg Config
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromEnv loads .env (if present), then the JSON config named by SITEFN_CONFIG
// (or the default file name, if it exists), then overlays environment
// variables and fills defaults.
func FromEnv() (*Config, error) {
	_ = godotenv.Load()

	path := os.Getenv(constants.EnvConfigPath)
	explicit := path != ""
	if !explicit {
		path = constants.ConfigFileName
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = &Config{}
	}
	cfg.ApplyEnv()
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyEnv overlays non-empty environment variables onto the config.
func (c *Config) ApplyEnv() {
	setFromEnv(&c.Env, constants.EnvAppEnv)
	setFromEnv(&c.Site.Dir, constants.EnvSiteDir)
	setFromEnv(&c.Assets.Driver, constants.EnvAssetsDriver)
	setFromEnv(&c.Assets.Bucket, constants.EnvAssetsBucket)
	setFromEnv(&c.Assets.Region, constants.EnvAssetsRegion)
	setFromEnv(&c.Assets.Prefix, constants.EnvAssetsPrefix)
	setFromEnv(&c.Platform.ProjectID, constants.EnvFirebaseProject)
	setFromEnv(&c.Platform.CredentialsFile, constants.EnvCredentials)
	setFromEnv(&c.Platform.DatabaseURL, constants.EnvFirebaseDB)
	setFromEnv(&c.Platform.StorageBucket, constants.EnvFirebaseBucket)
	setFromEnv(&c.Tracing.Exporter, constants.EnvTracingExporter)
	setFromEnv(&c.Tracing.Endpoint, constants.EnvOTLPEndpoint)
	if os.Getenv(constants.EnvDebug) != "" {
		c.Log.Level = "debug"
	}
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.Site.Dir == "" {
		c.Site.Dir = constants.DefaultSiteDir
	}
	if c.Assets.Driver == "" {
		c.Assets.Driver = constants.AssetsDriverFilesystem
	}
	if c.Tracing.Exporter == "" {
		c.Tracing.Exporter = constants.TracingExporterNone
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = constants.ServiceName
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// IsDev reports whether the site runs in development mode. Anything other than
// an explicit "production" env is development.
func (c *Config) IsDev() bool {
	return c.Env != constants.EnvProduction
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
