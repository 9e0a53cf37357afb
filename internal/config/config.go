// internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Forecast  ForecastConfig
	Scheduler SchedulerConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled           bool
	RedisURL          string
	RedisHost         string
	RedisPort         string
	RedisPassword     string
	RedisDB           int
	ProductTTLSeconds int
}

// ForecastConfig holds the engine defaults. AnchorMode decides where the
// review schedule starts: "last_record" anchors at the newest history date
// (deterministic for a fixed history), "today" anchors at the request date.
type ForecastConfig struct {
	AnchorMode        string
	DefaultMonths     int
	DefaultReviewDays int
	SmoothingFactor   float64
}

type SchedulerConfig struct {
	Enabled bool
	Spec    string
	Workers int
}

const (
	AnchorLastRecord = "last_record"
	AnchorToday      = "today"
)

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "easystock")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_PRODUCT_TTL_SECONDS", 60)
		viper.SetDefault("FORECAST_ANCHOR_MODE", AnchorLastRecord)
		viper.SetDefault("FORECAST_DEFAULT_MONTHS", 3)
		viper.SetDefault("FORECAST_DEFAULT_REVIEW_DAYS", 14)
		viper.SetDefault("FORECAST_SMOOTHING_FACTOR", 0.3)
		viper.SetDefault("SCHEDULER_ENABLED", false)
		viper.SetDefault("SCHEDULER_SPEC", "0 6 * * *")
		viper.SetDefault("SCHEDULER_WORKERS", 4)

		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:           viper.GetBool("CACHE_ENABLED"),
				RedisURL:          viper.GetString("REDIS_URL"),
				RedisHost:         viper.GetString("REDIS_HOST"),
				RedisPort:         viper.GetString("REDIS_PORT"),
				RedisPassword:     viper.GetString("REDIS_PASSWORD"),
				RedisDB:           viper.GetInt("REDIS_DB"),
				ProductTTLSeconds: viper.GetInt("CACHE_PRODUCT_TTL_SECONDS"),
			},
			Forecast: ForecastConfig{
				AnchorMode:        viper.GetString("FORECAST_ANCHOR_MODE"),
				DefaultMonths:     viper.GetInt("FORECAST_DEFAULT_MONTHS"),
				DefaultReviewDays: viper.GetInt("FORECAST_DEFAULT_REVIEW_DAYS"),
				SmoothingFactor:   viper.GetFloat64("FORECAST_SMOOTHING_FACTOR"),
			},
			Scheduler: SchedulerConfig{
				Enabled: viper.GetBool("SCHEDULER_ENABLED"),
				Spec:    viper.GetString("SCHEDULER_SPEC"),
				Workers: viper.GetInt("SCHEDULER_WORKERS"),
			},
		}
	})

	return instance
}
