package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

const envPrefix = "DENTAL"

// DefaultAdminPassword is the well-known bootstrap credential. Anyone who has
// read this file knows it; override it with DENTAL_BOOTSTRAP_ADMIN_PASSWORD.
const DefaultAdminPassword = "admin123"

// DefaultSessionSecret is the placeholder older sample configs shipped with.
// Release mode refuses it like an empty secret.
const DefaultSessionSecret = "change-this-secret"

const (
	DeletePolicyRestrict = "restrict"
	DeletePolicyCascade  = "cascade"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Session   SessionConfig   `mapstructure:"session"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Patients  PatientsConfig  `mapstructure:"patients"`
	Bootstrap BootstrapConfig `mapstructure:"bootstrap"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port" split_words:"true"`
	Mode         string        `mapstructure:"mode" split_words:"true"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" split_words:"true"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" split_words:"true"`

	// RequestTimeout bounds handler work and must be shorter than
	// WriteTimeout for the deadline to matter.
	RequestTimeout time.Duration `mapstructure:"request_timeout" split_words:"true"`
	// TrustedProxies may set X-Forwarded-For. Empty means the peer
	// address is the client.
	TrustedProxies []string      `mapstructure:"trusted_proxies" split_words:"true"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver" split_words:"true"`
	Host         string `mapstructure:"host" split_words:"true"`
	Port         int    `mapstructure:"port" split_words:"true"`
	User         string `mapstructure:"user" split_words:"true"`
	Password     string `mapstructure:"password" split_words:"true"`
	Name         string `mapstructure:"name" split_words:"true"`
	SSLMode      string `mapstructure:"sslmode" split_words:"true"`
	MaxOpenConns int    `mapstructure:"max_open_conns" split_words:"true"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" split_words:"true"`
}

// DSN renders the lib/pq connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.Name,
		c.SSLMode,
	)
}

type SessionConfig struct {
	Secret     string        `mapstructure:"secret" split_words:"true"`
	TTL        time.Duration `mapstructure:"ttl" split_words:"true"`
	CookieName string        `mapstructure:"cookie_name" split_words:"true"`
	Secure     bool          `mapstructure:"secure" split_words:"true"`
}

type RedisConfig struct {
	URL string `mapstructure:"url" split_words:"true"`
}

type RateLimitConfig struct {
	LoginRPS   float64 `mapstructure:"login_rps" split_words:"true"`
	LoginBurst int     `mapstructure:"login_burst" split_words:"true"`
}

type PatientsConfig struct {
	DeletePolicy string `mapstructure:"delete_policy" split_words:"true"`
}

type BootstrapConfig struct {
	AdminPassword string `mapstructure:"admin_password" split_words:"true"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" split_words:"true"`
	Format string `mapstructure:"format" split_words:"true"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.request_timeout", 10*time.Second)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "dental")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("session.ttl", 12*time.Hour)
	v.SetDefault("session.cookie_name", "dental_session")

	v.SetDefault("ratelimit.login_rps", 0.2)
	v.SetDefault("ratelimit.login_burst", 5)

	v.SetDefault("patients.delete_policy", DeletePolicyRestrict)
	v.SetDefault("bootstrap.admin_password", DefaultAdminPassword)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// LoadConfig reads config.yaml (if present) and applies DENTAL_* environment
// overrides on top.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/app/config")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return load(v)
}

// LoadFile reads the given file instead of searching the default paths.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	switch c.Patients.DeletePolicy {
	case DeletePolicyRestrict, DeletePolicyCascade:
	default:
		return fmt.Errorf("unsupported patient delete policy %q", c.Patients.DeletePolicy)
	}

	if c.Server.Mode == "release" {
		switch c.Session.Secret {
		case "":
			return errors.New("session.secret is required in release mode")
		case DefaultSessionSecret:
			return errors.New("session.secret must be changed from the sample value in release mode")
		}
	}
	for _, proxy := range c.Server.TrustedProxies {
		if net.ParseIP(proxy) == nil {
			if _, _, err := net.ParseCIDR(proxy); err != nil {
				return fmt.Errorf("invalid trusted proxy %q", proxy)
			}
		}
	}
	if c.Server.RequestTimeout < 0 {
		return errors.New("server.request_timeout must not be negative")
	}
	if c.Server.WriteTimeout > 0 && c.Server.RequestTimeout >= c.Server.WriteTimeout {
		return errors.New("server.request_timeout must be shorter than server.write_timeout")
	}
	if c.Session.TTL <= 0 {
		return errors.New("session.ttl must be positive")
	}
	return nil
}

// UsesDefaultAdminPassword reports whether the bootstrap admin would be
// created with the published default credential.
func (c *Config) UsesDefaultAdminPassword() bool {
	return c.Bootstrap.AdminPassword == DefaultAdminPassword
}
