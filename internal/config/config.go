// Package config loads service settings once at startup. Components receive
// the parts they need at construction time and never re-read settings.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// MINDFUL_MEDIA_ENGAGEMENT_ENABLE_LIKES=false
const EnvPrefix = "MINDFUL_MEDIA"

// Config is the full service configuration
type Config struct {
	Environment         string
	KeepDataOnUninstall bool

	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Log        LogConfig
	Auth       AuthConfig
	Telemetry  TelemetryConfig
	Engagement EngagementConfig
	Access     AccessConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	// WritesPerMinute caps engagement writes per viewer; 0 disables the cap
	WritesPerMinute int
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Driver      string // "postgres" or "sqlite"
	URL         string
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	TablePrefix string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type LogConfig struct {
	Level string
	// Format is "console" or "json" for stdout; the rotated file is always JSON.
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	OTLPEndpoint string
	SamplingRate float64
}

// EngagementConfig holds the engagement feature flags and cache settings
type EngagementConfig struct {
	EnableLikes         bool
	EnableComments      bool
	AutoApproveComments bool
	EnableSubscriptions bool
	EnableWatchHistory  bool
	CountCacheTTL       time.Duration
	CacheKeyPrefix      string
	CommentsPerPage     int
}

// AccessConfig holds password and membership gating settings
type AccessConfig struct {
	MembershipGating        bool
	DefaultMembershipLevels []string
	PasswordMessage         string
	MembershipMessage       string
	UnpublishedMessage      string
	UnlockCookieSalt        string
	UnlockCookieTTL         time.Duration
	CookieSecure            bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("keep_data_on_uninstall", true)

	v.SetDefault("server.port", "8787")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.writes_per_minute", 120)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.url", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "mindfulmedia")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.table_prefix", "mm_")

	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "mindfulmedia.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 7)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 30*24*time.Hour)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "mindfulmedia-engagement")
	v.SetDefault("telemetry.otlp_endpoint", "localhost:4318")
	v.SetDefault("telemetry.sampling_rate", 0.1)

	v.SetDefault("engagement.enable_likes", true)
	v.SetDefault("engagement.enable_comments", true)
	v.SetDefault("engagement.auto_approve_comments", false)
	v.SetDefault("engagement.enable_subscriptions", true)
	v.SetDefault("engagement.enable_watch_history", true)
	v.SetDefault("engagement.count_cache_ttl", time.Hour)
	v.SetDefault("engagement.cache_key_prefix", "mindful_media")
	v.SetDefault("engagement.comments_per_page", 20)

	v.SetDefault("access.membership_gating", false)
	v.SetDefault("access.default_membership_levels", []string{})
	v.SetDefault("access.password_message", "This content is password protected. Enter the password to continue.")
	v.SetDefault("access.membership_message", "This content is available to members only.")
	v.SetDefault("access.unpublished_message", "This content is not available.")
	v.SetDefault("access.unlock_cookie_salt", "mindful_media_unlock")
	v.SetDefault("access.unlock_cookie_ttl", 24*time.Hour)
	v.SetDefault("access.cookie_secure", false)
}

// Load reads .env (if present), then mindfulmedia.yaml (if present), then
// MINDFUL_MEDIA_* environment variables, in increasing precedence.
func Load(configPaths ...string) (*Config, error) {
	// .env is optional; a missing file is not an error
	_ = godotenv.Load()

	v := newViper()
	v.SetConfigName("mindfulmedia")
	v.SetConfigType("yaml")
	if len(configPaths) == 0 {
		configPaths = []string{"."}
	}
	for _, p := range configPaths {
		v.AddConfigPath(p)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return fromViper(v), nil
}

// Default returns the built-in defaults without consulting the environment
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	return fromViper(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Environment:         v.GetString("environment"),
		KeepDataOnUninstall: v.GetBool("keep_data_on_uninstall"),
		Server: ServerConfig{
			Port:           v.GetString("server.port"),
			AllowedOrigins: splitList(v.GetStringSlice("server.allowed_origins")),
		},
		Database: DatabaseConfig{
			Driver:      strings.ToLower(v.GetString("database.driver")),
			URL:         v.GetString("database.url"),
			Host:        v.GetString("database.host"),
			Port:        v.GetString("database.port"),
			User:        v.GetString("database.user"),
			Password:    v.GetString("database.password"),
			Name:        v.GetString("database.name"),
			SSLMode:     v.GetString("database.sslmode"),
			TablePrefix: v.GetString("database.table_prefix"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetString("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Log: LogConfig{
			Level:      v.GetString("log.level"),
			Format:     strings.ToLower(v.GetString("log.format")),
			File:       v.GetString("log.file"),
			MaxSizeMB:  v.GetInt("log.max_size_mb"),
			MaxBackups: v.GetInt("log.max_backups"),
			MaxAgeDays: v.GetInt("log.max_age_days"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("auth.jwt_secret"),
			TokenTTL:  v.GetDuration("auth.token_ttl"),
		},
		Telemetry: TelemetryConfig{
			Enabled:      v.GetBool("telemetry.enabled"),
			ServiceName:  v.GetString("telemetry.service_name"),
			OTLPEndpoint: v.GetString("telemetry.otlp_endpoint"),
			SamplingRate: v.GetFloat64("telemetry.sampling_rate"),
		},
		Engagement: EngagementConfig{
			EnableLikes:         v.GetBool("engagement.enable_likes"),
			EnableComments:      v.GetBool("engagement.enable_comments"),
			AutoApproveComments: v.GetBool("engagement.auto_approve_comments"),
			EnableSubscriptions: v.GetBool("engagement.enable_subscriptions"),
			EnableWatchHistory:  v.GetBool("engagement.enable_watch_history"),
			CountCacheTTL:       v.GetDuration("engagement.count_cache_ttl"),
			CacheKeyPrefix:      v.GetString("engagement.cache_key_prefix"),
			CommentsPerPage:     v.GetInt("engagement.comments_per_page"),
		},
		Access: AccessConfig{
			MembershipGating:        v.GetBool("access.membership_gating"),
			DefaultMembershipLevels: splitList(v.GetStringSlice("access.default_membership_levels")),
			PasswordMessage:         v.GetString("access.password_message"),
			MembershipMessage:       v.GetString("access.membership_message"),
			UnpublishedMessage:      v.GetString("access.unpublished_message"),
			UnlockCookieSalt:        v.GetString("access.unlock_cookie_salt"),
			UnlockCookieTTL:         v.GetDuration("access.unlock_cookie_ttl"),
			CookieSecure:            v.GetBool("access.cookie_secure"),
		},
	}
}

// Validate checks the settings the HTTP server cannot run without
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%s_AUTH_JWT_SECRET is required", EnvPrefix)
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unsupported log format %q", c.Log.Format)
	}
	if c.Engagement.CountCacheTTL <= 0 {
		return fmt.Errorf("engagement count cache TTL must be positive")
	}
	return nil
}

// IsDevelopment reports whether the service runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// splitList accepts both YAML lists and comma-separated env values
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
