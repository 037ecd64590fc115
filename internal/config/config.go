package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Scheduler    SchedulerConfig    `mapstructure:"scheduler"`
	Access       AccessConfig       `mapstructure:"access"`
	Identity     IdentityConfig     `mapstructure:"identity"`
	Notification NotificationConfig `mapstructure:"notification"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RateLimit       float64       `mapstructure:"rate_limit"`
	RateBurst       int           `mapstructure:"rate_burst"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
}

// SchedulerConfig drives the periodic jobs. Each lock hold must exceed the
// job's worst-case runtime; it is also the window that absorbs clock skew
// between replicas.
type SchedulerConfig struct {
	NotifyInterval  time.Duration `mapstructure:"notify_interval"`
	NotifyLockHold  time.Duration `mapstructure:"notify_lock_hold"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	CleanupLockHold time.Duration `mapstructure:"cleanup_lock_hold"`
	ReaperInterval  time.Duration `mapstructure:"reaper_interval"`
	ReaperLockHold  time.Duration `mapstructure:"reaper_lock_hold"`
}

type AccessConfig struct {
	// AdminUsers is the externally managed privileged id set.
	AdminUsers []string `mapstructure:"admin_users"`
}

type IdentityConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type NotificationConfig struct {
	Channel string `mapstructure:"channel"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetEnvPrefix("ADMINAPI")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 10*time.Second)
	viper.SetDefault("server.write_timeout", 10*time.Second)
	viper.SetDefault("server.shutdown_timeout", 5*time.Second)
	viper.SetDefault("server.rate_limit", 100)
	viper.SetDefault("server.rate_burst", 200)

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.sslmode", "disable")

	viper.SetDefault("redis.url", "redis://localhost:6379/0")
	viper.SetDefault("redis.max_retries", 3)
	viper.SetDefault("redis.retry_backoff", 100*time.Millisecond)
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.min_idle_conns", 2)

	viper.SetDefault("scheduler.notify_interval", time.Minute)
	viper.SetDefault("scheduler.notify_lock_hold", 30*time.Second)
	viper.SetDefault("scheduler.cleanup_interval", 24*time.Hour)
	viper.SetDefault("scheduler.cleanup_lock_hold", time.Minute)
	viper.SetDefault("scheduler.reaper_interval", 5*time.Minute)
	viper.SetDefault("scheduler.reaper_lock_hold", time.Minute)

	viper.SetDefault("identity.timeout", 5*time.Second)
	viper.SetDefault("identity.cache_ttl", 10*time.Minute)

	viper.SetDefault("notification.channel", "announcements")
}
