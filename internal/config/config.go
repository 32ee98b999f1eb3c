package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppCfg struct {
	Env                 string `mapstructure:"env"`
	Port                int    `mapstructure:"port"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"`
	IdleTimeoutSeconds  int    `mapstructure:"idle_timeout_seconds"`
}

type MongoCfg struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type JWTCfg struct {
	Secret           string `mapstructure:"secret"`
	ExpireDays       int    `mapstructure:"expire_days"`
	CookieExpireDays int    `mapstructure:"cookie_expire_days"`
}

type UploadCfg struct {
	Dir      string `mapstructure:"dir"`
	MaxBytes int64  `mapstructure:"max_bytes"`
}

type MailCfg struct {
	APIKey    string `mapstructure:"api_key"`
	FromEmail string `mapstructure:"from_email"`
	FromName  string `mapstructure:"from_name"`
}

type GeocoderCfg struct {
	Key string `mapstructure:"key"`
}

// RedisCfg is optional; when Addr is empty the rate limiter is not installed.
type RedisCfg struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type RateLimitCfg struct {
	Limit         int `mapstructure:"limit"`
	WindowSeconds int `mapstructure:"window_seconds"`
}

type Config struct {
	App       AppCfg       `mapstructure:"app"`
	Mongo     MongoCfg     `mapstructure:"mongo"`
	JWT       JWTCfg       `mapstructure:"jwt"`
	Upload    UploadCfg    `mapstructure:"upload"`
	Mail      MailCfg      `mapstructure:"mail"`
	Geocoder  GeocoderCfg  `mapstructure:"geocoder"`
	Redis     RedisCfg     `mapstructure:"redis"`
	RateLimit RateLimitCfg `mapstructure:"rate_limit"`

	// Derived
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Load reads config.yaml and applies APP_* environment overrides, e.g.
// APP_MONGO_URI, APP_JWT_SECRET, APP_APP_PORT.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine when everything comes from the environment.
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Mongo.URI == "" {
		return nil, errors.New("mongo.uri is required (APP_MONGO_URI)")
	}
	if cfg.JWT.Secret == "" {
		return nil, errors.New("jwt.secret is required (APP_JWT_SECRET)")
	}

	cfg.ReadTimeout = time.Duration(cfg.App.ReadTimeoutSeconds) * time.Second
	cfg.WriteTimeout = time.Duration(cfg.App.WriteTimeoutSeconds) * time.Second
	cfg.IdleTimeout = time.Duration(cfg.App.IdleTimeoutSeconds) * time.Second
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 5000)
	v.SetDefault("app.read_timeout_seconds", 15)
	v.SetDefault("app.write_timeout_seconds", 15)
	v.SetDefault("app.idle_timeout_seconds", 60)
	v.SetDefault("mongo.database", "devcamp")
	v.SetDefault("jwt.expire_days", 30)
	v.SetDefault("jwt.cookie_expire_days", 30)
	v.SetDefault("upload.dir", "./public/uploads")
	v.SetDefault("upload.max_bytes", 1_000_000)
	v.SetDefault("rate_limit.limit", 100)
	v.SetDefault("rate_limit.window_seconds", 600)
}

// Production reports whether the service runs in production mode; secure
// cookies are only set there.
func (c *Config) Production() bool {
	return c.App.Env == "production"
}
