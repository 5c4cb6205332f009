// Package config loads server configuration from a .env file and the
// environment. Every key can be set as an environment variable with the
// TANKARENA_ prefix.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the server configuration
type Config struct {
	Host        string `mapstructure:"HOST"`
	Port        int    `mapstructure:"PORT"`
	StorageType string `mapstructure:"STORAGE_TYPE"`
	RedisURL    string `mapstructure:"REDIS_URL"`
	PostgresDSN string `mapstructure:"POSTGRES_DSN"`

	TickIntervalMS      int     `mapstructure:"TICK_INTERVAL_MS"`
	GridSize            int     `mapstructure:"GRID_SIZE"`
	ObstacleProbability float64 `mapstructure:"OBSTACLE_PROBABILITY"`
	DefaultDuration     int     `mapstructure:"DEFAULT_DURATION_SECONDS"`
	CreateTimeoutMS     int     `mapstructure:"CREATE_TIMEOUT_MS"`
	MapWaitTimeoutMS    int     `mapstructure:"MAP_WAIT_TIMEOUT_MS"`

	JanitorIntervalSeconds int `mapstructure:"JANITOR_INTERVAL_SECONDS"`
	IdleRoomTTLMinutes     int `mapstructure:"IDLE_ROOM_TTL_MINUTES"`
}

// Load reads configuration from .env (if present) and the environment
func Load() (*Config, error) {
	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigName(".env")
	v.SetConfigType("env")

	v.SetEnvPrefix("TANKARENA")
	v.AutomaticEnv()

	v.SetDefault("HOST", "")
	v.SetDefault("PORT", 8080)
	v.SetDefault("STORAGE_TYPE", "memory")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("POSTGRES_DSN", "")
	v.SetDefault("TICK_INTERVAL_MS", 300)
	v.SetDefault("GRID_SIZE", 10)
	v.SetDefault("OBSTACLE_PROBABILITY", 0.2)
	v.SetDefault("DEFAULT_DURATION_SECONDS", 120)
	v.SetDefault("CREATE_TIMEOUT_MS", 5000)
	v.SetDefault("MAP_WAIT_TIMEOUT_MS", 2000)
	v.SetDefault("JANITOR_INTERVAL_SECONDS", 60)
	v.SetDefault("IDLE_ROOM_TTL_MINUTES", 30)

	// A missing .env file is fine; the environment covers everything
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

// TickInterval returns the bullet tick interval as a duration
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMS) * time.Millisecond
}

// CreateTimeout returns the room creation timeout as a duration
func (c *Config) CreateTimeout() time.Duration {
	return time.Duration(c.CreateTimeoutMS) * time.Millisecond
}

// MapWaitTimeout returns the snapshot map wait timeout as a duration
func (c *Config) MapWaitTimeout() time.Duration {
	return time.Duration(c.MapWaitTimeoutMS) * time.Millisecond
}

// JanitorInterval returns the sweep interval as a duration
func (c *Config) JanitorInterval() time.Duration {
	return time.Duration(c.JanitorIntervalSeconds) * time.Second
}

// IdleRoomTTL returns the abandoned room TTL as a duration
func (c *Config) IdleRoomTTL() time.Duration {
	return time.Duration(c.IdleRoomTTLMinutes) * time.Minute
}
