package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/SethRoll3/AcercateSys-sub001/internal/pkg/logger"
)

// ServerConfig holds server-level config
type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	LogLevel string `yaml:"level"`
}

// MongoDB connection config
type MongoConfig struct {
	Username        string        `yaml:"username"`
	Password        string        `yaml:"password"`
	URI             string        `yaml:"uri"`
	DBName          string        `yaml:"db_name"`
	MaxPoolSize     uint64        `yaml:"max_pool_size"`
	MinPoolSize     uint64        `yaml:"min_pool_size"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_minutes"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout_seconds"`
}

// Redis connection config
type RedisConfig struct {
	Addr           string        `yaml:"addr"`
	Password       string        `yaml:"password"`
	DB             int           `yaml:"db"`
	ConnectTimeout time.Duration `yaml:"connect_timeout_seconds"`
}

// AuthConfig carries the shared secret for internal triggers and the
// signing key used to resolve actors from bearer tokens.
type AuthConfig struct {
	InternalToken string `yaml:"internal_token"`
	JWTSecret     string `yaml:"jwt_secret"`
}

// ProviderConfig is the outbound messaging provider surface (SMS + WhatsApp).
// An empty API key disables the corresponding channel.
type ProviderConfig struct {
	SMSURL          string        `yaml:"sms_url"`
	SMSAPIKey       string        `yaml:"sms_api_key"`
	WhatsAppURL     string        `yaml:"whatsapp_url"`
	WhatsAppAPIKey  string        `yaml:"whatsapp_api_key"`
	HTTPTimeout     time.Duration `yaml:"http_timeout_seconds"`
	DispatchTimeout time.Duration `yaml:"dispatch_timeout_seconds"`
}

// EngineConfig holds engine-level defaults that apply when the settings
// document does not override them.
type EngineConfig struct {
	DefaultLateFee      float64 `yaml:"default_late_fee"`
	DefaultCountryCode  string  `yaml:"default_country_code"`
	DefaultTimezone     string  `yaml:"default_timezone"`
	SweepLockTTLMinutes int     `yaml:"sweep_lock_ttl_minutes"`
}

// AppConfig is the main config struct that holds all configs
type AppConfig struct {
	Server    ServerConfig   `yaml:"server"`
	Mongo     MongoConfig    `yaml:"mongo"`
	Redis     RedisConfig    `yaml:"redis"`
	Logging   LogConfig      `yaml:"logging"`
	Auth      AuthConfig     `yaml:"auth"`
	Providers ProviderConfig `yaml:"providers"`
	Engine    EngineConfig   `yaml:"engine"`
}

func assignDefaultConfigValues(cfg *AppConfig) *AppConfig {

	// server config defaults
	cfg.Server.Port = GetEnvOrDefaultAsInt("SERVER_PORT", 8080)

	// log config defaults
	cfg.Logging.LogLevel = GetEnvOrDefaultAsString("LOGGING_LEVEL", cfg.Logging.LogLevel)

	// MongoDB config defaults
	cfg.Mongo.URI = GetEnvOrDefaultAsString("MONGO_URI", cfg.Mongo.URI)
	cfg.Mongo.DBName = GetEnvOrDefaultAsString("MONGO_DB_NAME", cfg.Mongo.DBName)
	cfg.Mongo.Username = GetEnvOrDefaultAsString("MONGO_USERNAME", cfg.Mongo.Username)
	cfg.Mongo.Password = GetEnvOrDefaultAsString("MONGO_PASSWORD", cfg.Mongo.Password)
	cfg.Mongo.MaxPoolSize = GetEnvOrDefaultAsUint64("MONGO_MAX_POOL_SIZE", cfg.Mongo.MaxPoolSize)
	cfg.Mongo.MinPoolSize = GetEnvOrDefaultAsUint64("MONGO_MIN_POOL_SIZE", cfg.Mongo.MinPoolSize)
	cfg.Mongo.MaxConnIdleTime = time.Duration(GetEnvOrDefaultAsInt("MONGO_MAX_CONN_IDLE_MINUTES", 30)) * time.Minute
	cfg.Mongo.ConnectTimeout = time.Duration(GetEnvOrDefaultAsInt("MONGO_CONNECT_TIMEOUT_SECONDS", 10)) * time.Second

	// Redis config defaults
	cfg.Redis.Addr = GetEnvOrDefaultAsString("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = GetEnvOrDefaultAsString("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = GetEnvOrDefaultAsInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.ConnectTimeout = time.Duration(GetEnvOrDefaultAsInt("REDIS_CONNECT_TIMEOUT_SECONDS", 10)) * time.Second

	// Auth config defaults
	cfg.Auth.InternalToken = GetEnvOrDefaultAsString("INTERNAL_TOKEN", cfg.Auth.InternalToken)
	cfg.Auth.JWTSecret = GetEnvOrDefaultAsString("JWT_SECRET", cfg.Auth.JWTSecret)

	// Provider config defaults
	cfg.Providers.SMSURL = GetEnvOrDefaultAsString("SMS_PROVIDER_URL", cfg.Providers.SMSURL)
	cfg.Providers.SMSAPIKey = GetEnvOrDefaultAsString("SMS_PROVIDER_API_KEY", cfg.Providers.SMSAPIKey)
	cfg.Providers.WhatsAppURL = GetEnvOrDefaultAsString("WHATSAPP_PROVIDER_URL", cfg.Providers.WhatsAppURL)
	cfg.Providers.WhatsAppAPIKey = GetEnvOrDefaultAsString("WHATSAPP_PROVIDER_API_KEY", cfg.Providers.WhatsAppAPIKey)
	cfg.Providers.HTTPTimeout = time.Duration(GetEnvOrDefaultAsInt("PROVIDER_HTTP_TIMEOUT_SECONDS", 10)) * time.Second
	cfg.Providers.DispatchTimeout = time.Duration(GetEnvOrDefaultAsInt("PROVIDER_DISPATCH_TIMEOUT_SECONDS", 15)) * time.Second

	// Engine config defaults
	cfg.Engine.DefaultLateFee = GetEnvOrDefaultAsFloat64("DEFAULT_LATE_FEE", cfg.Engine.DefaultLateFee)
	cfg.Engine.DefaultCountryCode = GetEnvOrDefaultAsString("DEFAULT_COUNTRY_CODE", cfg.Engine.DefaultCountryCode)
	cfg.Engine.DefaultTimezone = GetEnvOrDefaultAsString("DEFAULT_TIMEZONE", cfg.Engine.DefaultTimezone)
	if cfg.Engine.SweepLockTTLMinutes == 0 {
		cfg.Engine.SweepLockTTLMinutes = GetEnvOrDefaultAsInt("SWEEP_LOCK_TTL_MINUTES", 10)
	}

	return cfg
}

// LoadFromConfigFilePath loads and parses config file into AppConfig
func LoadFromConfigFilePath(configPath string) (*AppConfig, error) {

	data, err := os.ReadFile(configPath)
	if err != nil {
		logger.Error("Failed to read config file", err, slog.String("path", configPath))
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logger.Error("Failed to unmarshal config", err)
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	defaultCfg := assignDefaultConfigValues(&cfg)

	if err := validateConfig(defaultCfg); err != nil {
		logger.Error("Config validation failed", err)
		return nil, err
	}

	logger.Info("Configuration loaded successfully", slog.String("path", configPath))

	return defaultCfg, nil
}

func validateConfig(cfg *AppConfig) error {
	if err := validateMongoConfig(cfg.Mongo); err != nil {
		return err
	}
	if err := validateAuthConfig(cfg.Auth); err != nil {
		return err
	}
	return validateEngineConfig(cfg.Engine)
}

func validateMongoConfig(mongo MongoConfig) error {
	if mongo.URI == "" {
		return fmt.Errorf("mongo.uri must not be empty")
	}
	if mongo.DBName == "" {
		return fmt.Errorf("mongo.db_name must not be empty")
	}
	if mongo.MaxPoolSize != 0 && mongo.MaxPoolSize < mongo.MinPoolSize {
		return fmt.Errorf(
			"mongo.max_pool_size (%d) must not be smaller than mongo.min_pool_size (%d)",
			mongo.MaxPoolSize, mongo.MinPoolSize,
		)
	}
	return nil
}

func validateAuthConfig(auth AuthConfig) error {
	if auth.InternalToken == "" {
		return fmt.Errorf("auth.internal_token must not be empty")
	}
	if auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret must not be empty")
	}
	return nil
}

func validateEngineConfig(engine EngineConfig) error {
	if engine.DefaultTimezone == "" {
		return fmt.Errorf("engine.default_timezone must not be empty")
	}
	if _, err := time.LoadLocation(engine.DefaultTimezone); err != nil {
		return fmt.Errorf("engine.default_timezone %q is not a valid IANA timezone: %w", engine.DefaultTimezone, err)
	}
	if engine.SweepLockTTLMinutes < 1 || engine.SweepLockTTLMinutes > 60 {
		return fmt.Errorf("engine.sweep_lock_ttl_minutes must be between 1 and 60, got %d", engine.SweepLockTTLMinutes)
	}
	return nil
}

// GetEnvOrDefaultAsInt returns the value of the given env variable
// as an int or the default value if not set or invalid.
func GetEnvOrDefaultAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return int(value)
}

// GetEnvOrDefaultAsString returns the value of the given env variable or the default value if not set.
func GetEnvOrDefaultAsString(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		if val != "" {
			return val
		}
	}
	return defaultVal
}

func GetEnvOrDefaultAsFloat64(key string, defaultValue float64) float64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func GetEnvOrDefaultAsUint64(key string, defaultValue uint64) uint64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseUint(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// LoadFromConfig resolves the config file path from the environment and loads it.
func LoadFromConfig() (*AppConfig, error) {
	configPath := GetEnvOrDefaultAsString("CONFIG_PATH", "configs/config.yaml")

	cfg, err := LoadFromConfigFilePath(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	return cfg, nil
}
