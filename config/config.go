package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	AuthModeFirebase = "firebase"
	AuthModeJWT      = "jwt"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Mail     MailConfig
	Map      MapConfig
	Geocode  GeocodeConfig
	Limits   LimitsConfig
	App      AppConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

type DatabaseConfig struct {
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

type AuthConfig struct {
	Mode                string
	FirebaseCredentials string
	FirebaseCredsJSON   string
	FirebaseProjectID   string
	JWTSecret           string
	JWTIssuer           string
}

type MailConfig struct {
	Enabled bool
	Region  string
	From    string
}

type MapConfig struct {
	DemoFallback   bool
	DefaultBasemap string
	ClusterCellPx  int
}

type GeocodeConfig struct {
	BaseURL      string
	UserAgent    string
	Interval     time.Duration
	Timeout      time.Duration
	CacheTTL     time.Duration
	CountryCodes []string
}

type LimitsConfig struct {
	WritesPerMinute int
	WriteBurst      int
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
	ServiceName string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 0),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CORSOrigins:     getEnvAsList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DB_DSN", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "ilewa"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 2),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			CacheTTL: getEnvAsDuration("MAP_CACHE_TTL", 2*time.Minute),
		},
		Auth: AuthConfig{
			Mode:                strings.ToLower(getEnv("AUTH_MODE", AuthModeFirebase)),
			FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
			FirebaseCredsJSON:   getEnv("FIREBASE_CREDENTIALS_JSON", ""),
			FirebaseProjectID:   getEnv("FIREBASE_PROJECT_ID", ""),
			JWTSecret:           getEnv("JWT_SECRET", ""),
			JWTIssuer:           getEnv("JWT_ISSUER", "ilewa"),
		},
		Mail: MailConfig{
			Enabled: getEnvAsBool("MAIL_ENABLED", false),
			Region:  getEnv("AWS_REGION", "eu-west-1"),
			From:    getEnv("MAIL_FROM", "no-reply@ilewa.org"),
		},
		Map: MapConfig{
			DemoFallback:   getEnvAsBool("MAP_DEMO_FALLBACK", true),
			DefaultBasemap: getEnv("MAP_DEFAULT_BASEMAP", "OSM"),
			ClusterCellPx:  getEnvAsInt("MAP_CLUSTER_CELL_PX", 60),
		},
		Geocode: GeocodeConfig{
			BaseURL:   getEnv("GEOCODE_BASE_URL", "https://nominatim.openstreetmap.org"),
			UserAgent: getEnv("GEOCODE_USER_AGENT", "ILEWA-App/1.0"),
			Interval:  getEnvAsDuration("GEOCODE_INTERVAL", time.Second),
			Timeout:   getEnvAsDuration("GEOCODE_TIMEOUT", 10*time.Second),
			CacheTTL:  getEnvAsDuration("GEOCODE_CACHE_TTL", 24*time.Hour),
			CountryCodes: getEnvAsList("GEOCODE_COUNTRY_CODES",
				[]string{"bj", "tg", "ci", "sn", "ml", "ne", "bf", "gh", "ng", "cm", "ga", "cg"}),
		},
		Limits: LimitsConfig{
			WritesPerMinute: getEnvAsInt("WRITES_PER_MINUTE", 30),
			WriteBurst:      getEnvAsInt("WRITE_BURST", 10),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			ServiceName: getEnv("SERVICE_NAME", "ilewa-backend"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.DSN == "" && c.Database.Host == "" {
		return fmt.Errorf("DB_DSN or DB_HOST is required")
	}

	switch c.Auth.Mode {
	case AuthModeJWT:
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required when AUTH_MODE=jwt")
		}
	case AuthModeFirebase:
		if c.IsProduction() && c.Auth.FirebaseCredentials == "" && c.Auth.FirebaseCredsJSON == "" {
			return fmt.Errorf("FIREBASE_CREDENTIALS_PATH or FIREBASE_CREDENTIALS_JSON is required in production")
		}
	default:
		return fmt.Errorf("unknown AUTH_MODE %q", c.Auth.Mode)
	}

	// Public Nominatim allows at most one request per second.
	if c.Geocode.Interval < time.Second && strings.Contains(c.Geocode.BaseURL, "nominatim.openstreetmap.org") {
		return fmt.Errorf("GEOCODE_INTERVAL must be at least 1s against the public Nominatim server")
	}

	if c.Mail.Enabled && c.Mail.From == "" {
		return fmt.Errorf("MAIL_FROM is required when MAIL_ENABLED=true")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Int("default", defaultValue).Msg("invalid integer, using default")
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Bool("default", defaultValue).Msg("invalid boolean, using default")
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Dur("default", defaultValue).Msg("invalid duration, using default")
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	out := make([]string, 0, 4)
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
