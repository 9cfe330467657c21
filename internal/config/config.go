package config

import (
	"log"
	"net/url"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv      = "SHOWCASE_CONFIG"
	defaultFallbackDB  = "data/showcase.db"
	defaultReadUser    = "showcase_reader"
	defaultServiceUser = "showcase_admin"
)

// placeholders are values shipped in sample env files; they never count as configured.
var placeholders = map[string]bool{
	"your_supabase_url_here":      true,
	"your_supabase_anon_key_here": true,
	"https://dummy.supabase.co":   true,
	"dummy-key":                   true,
	"dummy-service-key":           true,
	"changeme":                    true,
}

// Config holds high-level settings required across the application.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Remote   RemoteConfig   `yaml:"remote"`
	Fallback FallbackConfig `yaml:"fallback"`
	Admin    AdminConfig    `yaml:"admin"`
	Site     SiteConfig     `yaml:"site"`
	Features FeatureConfig  `yaml:"features"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
	SecureCookies  bool     `yaml:"secureCookies"`
}

// LoggingConfig sets the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// RemoteConfig points at the PostgreSQL store. The read key authenticates the
// read-scoped role, the service key the elevated one used for admin writes.
type RemoteConfig struct {
	URL         string `yaml:"url"`
	ReadUser    string `yaml:"readUser"`
	ReadKey     string `yaml:"readKey"`
	ServiceUser string `yaml:"serviceUser"`
	ServiceKey  string `yaml:"serviceKey"`
	Migrate     bool   `yaml:"migrate"`
}

// FallbackConfig selects the blob backend used when the remote store is not configured.
type FallbackConfig struct {
	Driver   string `yaml:"driver"`
	Path     string `yaml:"path"`
	RedisURL string `yaml:"redisUrl"`
}

// AdminConfig carries the shared moderation credential.
type AdminConfig struct {
	Password   string `yaml:"password"`
	SessionKey string `yaml:"sessionKey"`
}

// SiteConfig holds labels exposed to the front-end.
type SiteConfig struct {
	Name                string `yaml:"name"`
	Description         string `yaml:"description"`
	SchoolName          string `yaml:"schoolName"`
	SchoolWebsite       string `yaml:"schoolWebsite"`
	ContentType         string `yaml:"contentType"`
	ContentTypeSingular string `yaml:"contentTypeSingular"`
}

// FeatureConfig toggles optional surfaces. Unset flags are enabled.
type FeatureConfig struct {
	Analytics       *bool `yaml:"analytics"`
	Comments        *bool `yaml:"comments"`
	RandomSelection *bool `yaml:"randomSelection"`
	AdminPanel      *bool `yaml:"adminPanel"`
}

func enabled(flag *bool) bool { return flag == nil || *flag }

// AnalyticsEnabled reports whether view tracking and stats are served.
func (f FeatureConfig) AnalyticsEnabled() bool { return enabled(f.Analytics) }

// CommentsEnabled reports whether comment routes are served.
func (f FeatureConfig) CommentsEnabled() bool { return enabled(f.Comments) }

// RandomSelectionEnabled reports whether the random story route is served.
func (f FeatureConfig) RandomSelectionEnabled() bool { return enabled(f.RandomSelection) }

// AdminPanelEnabled reports whether admin routes are served.
func (f FeatureConfig) AdminPanelEnabled() bool { return enabled(f.AdminPanel) }

// Valid reports whether the remote store has a usable endpoint and read key.
func (r RemoteConfig) Valid() bool {
	if !usable(r.URL) || !usable(r.ReadKey) {
		return false
	}
	u, err := url.Parse(r.URL)
	if err != nil {
		return false
	}
	return (u.Scheme == "postgres" || u.Scheme == "postgresql") && u.Host != ""
}

// HasServiceKey reports whether an elevated credential is configured.
func (r RemoteConfig) HasServiceKey() bool {
	return usable(r.ServiceKey)
}

// DSN returns the connection URL authenticated as user with key.
func (r RemoteConfig) DSN(user, key string) string {
	u, err := url.Parse(r.URL)
	if err != nil {
		return r.URL
	}
	u.User = url.UserPassword(user, key)
	return u.String()
}

func usable(value string) bool {
	value = strings.TrimSpace(value)
	return value != "" && !placeholders[value]
}

// envOverrides lists every setting that can come from the environment.
type envOverrides struct {
	Addr             string   `env:"SHOWCASE_ADDR"`
	AllowedOrigins   []string `env:"SHOWCASE_ALLOWED_ORIGINS" envSeparator:","`
	LogLevel         string   `env:"SHOWCASE_LOG_LEVEL"`
	RemoteURL        string   `env:"SHOWCASE_REMOTE_URL"`
	RemoteReadKey    string   `env:"SHOWCASE_REMOTE_READ_KEY"`
	RemoteServiceKey string   `env:"SHOWCASE_REMOTE_SERVICE_KEY"`
	FallbackDriver   string   `env:"SHOWCASE_FALLBACK_DRIVER"`
	FallbackPath     string   `env:"SHOWCASE_FALLBACK_PATH"`
	FallbackRedisURL string   `env:"SHOWCASE_FALLBACK_REDIS_URL"`
	AdminPassword    string   `env:"ADMIN_PASSWORD"`
	SessionKey       string   `env:"SHOWCASE_SESSION_KEY"`
}

// LoadDotEnv reads .env files into the process environment. Earlier files win.
func LoadDotEnv() {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	return load(os.Getenv(configPathEnv), nil)
}

// load is Load with an explicit file path and environment; a nil environment
// means the process environment.
func load(path string, environ map[string]string) Config {
	cfg := defaultConfig()

	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides(environ)
	return cfg
}

func (c *Config) applyEnvOverrides(environ map[string]string) {
	var o envOverrides
	if err := env.ParseWithOptions(&o, env.Options{Environment: environ}); err != nil {
		log.Printf("config: cannot parse environment: %v", err)
		return
	}

	if o.Addr != "" {
		c.Server.Addr = o.Addr
	}
	if len(o.AllowedOrigins) > 0 {
		c.Server.AllowedOrigins = o.AllowedOrigins
	}
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	if o.RemoteURL != "" {
		c.Remote.URL = o.RemoteURL
	}
	if o.RemoteReadKey != "" {
		c.Remote.ReadKey = o.RemoteReadKey
	}
	if o.RemoteServiceKey != "" {
		c.Remote.ServiceKey = o.RemoteServiceKey
	}
	if o.FallbackDriver != "" {
		c.Fallback.Driver = o.FallbackDriver
	}
	if o.FallbackPath != "" {
		c.Fallback.Path = o.FallbackPath
	}
	if o.FallbackRedisURL != "" {
		c.Fallback.RedisURL = o.FallbackRedisURL
	}
	if o.AdminPassword != "" {
		c.Admin.Password = o.AdminPassword
	}
	if o.SessionKey != "" {
		c.Admin.SessionKey = o.SessionKey
	}
}

func mergeConfig(base, override Config) Config {
	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}
	if len(override.Server.AllowedOrigins) > 0 {
		base.Server.AllowedOrigins = override.Server.AllowedOrigins
	}
	if override.Server.SecureCookies {
		base.Server.SecureCookies = true
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Remote.URL != "" {
		base.Remote.URL = override.Remote.URL
	}
	if override.Remote.ReadUser != "" {
		base.Remote.ReadUser = override.Remote.ReadUser
	}
	if override.Remote.ReadKey != "" {
		base.Remote.ReadKey = override.Remote.ReadKey
	}
	if override.Remote.ServiceUser != "" {
		base.Remote.ServiceUser = override.Remote.ServiceUser
	}
	if override.Remote.ServiceKey != "" {
		base.Remote.ServiceKey = override.Remote.ServiceKey
	}
	if override.Remote.Migrate {
		base.Remote.Migrate = true
	}

	if override.Fallback.Driver != "" {
		base.Fallback.Driver = override.Fallback.Driver
	}
	if override.Fallback.Path != "" {
		base.Fallback.Path = override.Fallback.Path
	}
	if override.Fallback.RedisURL != "" {
		base.Fallback.RedisURL = override.Fallback.RedisURL
	}

	if override.Admin.Password != "" {
		base.Admin.Password = override.Admin.Password
	}
	if override.Admin.SessionKey != "" {
		base.Admin.SessionKey = override.Admin.SessionKey
	}

	if override.Site.Name != "" {
		base.Site.Name = override.Site.Name
	}
	if override.Site.Description != "" {
		base.Site.Description = override.Site.Description
	}
	if override.Site.SchoolName != "" {
		base.Site.SchoolName = override.Site.SchoolName
	}
	if override.Site.SchoolWebsite != "" {
		base.Site.SchoolWebsite = override.Site.SchoolWebsite
	}
	if override.Site.ContentType != "" {
		base.Site.ContentType = override.Site.ContentType
	}
	if override.Site.ContentTypeSingular != "" {
		base.Site.ContentTypeSingular = override.Site.ContentTypeSingular
	}

	if override.Features.Analytics != nil {
		base.Features.Analytics = override.Features.Analytics
	}
	if override.Features.Comments != nil {
		base.Features.Comments = override.Features.Comments
	}
	if override.Features.RandomSelection != nil {
		base.Features.RandomSelection = override.Features.RandomSelection
	}
	if override.Features.AdminPanel != nil {
		base.Features.AdminPanel = override.Features.AdminPanel
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
		Logging: LoggingConfig{Level: "info"},
		Remote: RemoteConfig{
			ReadUser:    defaultReadUser,
			ServiceUser: defaultServiceUser,
		},
		Fallback: FallbackConfig{
			Driver:   "sqlite",
			Path:     defaultFallbackDB,
			RedisURL: "redis://localhost:6379/0",
		},
		Site: SiteConfig{
			Name:                "Student Stories",
			Description:         "Stories written by our students",
			ContentType:         "Stories",
			ContentTypeSingular: "Story",
		},
	}
}
