package config

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	Redis      RedisConfig
	CORS       CORSConfig
	Log        LogConfig
	Engine     EngineConfig
	Efficiency EfficiencyConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// EngineConfig tunes the availability and conflict engine defaults.
type EngineConfig struct {
	SampleStepMinutes int
	AllowedDurations  []int
	MaxAlternatives   int
	OptimalBufferMins int
	MaxOptimalResults int
}

// EfficiencyConfig governs cache behaviour for efficiency reports.
type EfficiencyConfig struct {
	Enabled  bool
	CacheTTL time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Engine = EngineConfig{
		SampleStepMinutes: v.GetInt("ENGINE_SAMPLE_STEP_MINUTES"),
		AllowedDurations:  splitInts(v.GetString("ENGINE_ALLOWED_DURATIONS")),
		MaxAlternatives:   v.GetInt("ENGINE_MAX_ALTERNATIVES"),
		OptimalBufferMins: v.GetInt("ENGINE_OPTIMAL_BUFFER_MINUTES"),
		MaxOptimalResults: v.GetInt("ENGINE_MAX_OPTIMAL_RESULTS"),
	}

	cfg.Efficiency = EfficiencyConfig{
		Enabled:  v.GetBool("ENABLE_EFFICIENCY"),
		CacheTTL: parseDuration(v.GetString("EFFICIENCY_CACHE_TTL"), 10*time.Minute),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "cadenza")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 20)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENGINE_SAMPLE_STEP_MINUTES", 15)
	v.SetDefault("ENGINE_ALLOWED_DURATIONS", "30,45,60")
	v.SetDefault("ENGINE_MAX_ALTERNATIVES", 3)
	v.SetDefault("ENGINE_OPTIMAL_BUFFER_MINUTES", 15)
	v.SetDefault("ENGINE_MAX_OPTIMAL_RESULTS", 5)

	v.SetDefault("ENABLE_EFFICIENCY", true)
	v.SetDefault("EFFICIENCY_CACHE_TTL", "10m")
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return errors.New("PORT must be between 1 and 65535")
	}
	if c.Engine.SampleStepMinutes <= 0 {
		return errors.New("ENGINE_SAMPLE_STEP_MINUTES must be positive")
	}
	if len(c.Engine.AllowedDurations) == 0 {
		return errors.New("ENGINE_ALLOWED_DURATIONS must contain at least one duration")
	}
	return nil
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func splitInts(raw string) []int {
	var result []int
	for _, part := range splitAndTrim(raw) {
		value, err := strconv.Atoi(part)
		if err != nil || value <= 0 {
			continue
		}
		result = append(result, value)
	}
	return result
}
