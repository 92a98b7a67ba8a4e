package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Logger     LoggerConfig     `mapstructure:"logger"`
	Analysis   AnalysisConfig   `mapstructure:"analysis"`
	Reputation ReputationConfig `mapstructure:"reputation"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	Debug       bool   `mapstructure:"debug"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	HTTPPort        int           `mapstructure:"http_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	TimeFormat string `mapstructure:"time_format"`
}

// AnalysisConfig holds the scoring thresholds and engine limits
type AnalysisConfig struct {
	SuspiciousThreshold  int           `mapstructure:"suspicious_threshold"`
	DangerousThreshold   int           `mapstructure:"dangerous_threshold"`
	MaxMessageLength     int           `mapstructure:"max_message_length"`
	NetworkTimeout       time.Duration `mapstructure:"network_timeout"`
	TLSTimeout           time.Duration `mapstructure:"tls_timeout"`
	MaliciousDomainsFile string        `mapstructure:"malicious_domains_file"`
	ConcurrentLinks      bool          `mapstructure:"concurrent_links"`
}

// ReputationConfig holds settings for the external URL reputation service
type ReputationConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	APIURL   string        `mapstructure:"api_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// ClassifierConfig holds settings for the optional prediction service
type ClassifierConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	APIURL  string        `mapstructure:"api_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/guardian-lab")
	}

	setDefaults(v)

	// Environment variables
	v.SetEnvPrefix("GUARDIAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind nested env vars explicitly (viper doesn't auto-bind nested struct fields)
	v.BindEnv("redis.enabled", "GUARDIAN_REDIS_ENABLED")
	v.BindEnv("redis.host", "GUARDIAN_REDIS_HOST")
	v.BindEnv("redis.port", "GUARDIAN_REDIS_PORT")
	v.BindEnv("redis.password", "GUARDIAN_REDIS_PASSWORD")
	v.BindEnv("database.enabled", "GUARDIAN_DATABASE_ENABLED")
	v.BindEnv("database.host", "GUARDIAN_DATABASE_HOST")
	v.BindEnv("database.port", "GUARDIAN_DATABASE_PORT")
	v.BindEnv("database.user", "GUARDIAN_DATABASE_USER")
	v.BindEnv("database.password", "GUARDIAN_DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "GUARDIAN_DATABASE_DBNAME")
	v.BindEnv("classifier.enabled", "GUARDIAN_CLASSIFIER_ENABLED")
	v.BindEnv("classifier.api_url", "GUARDIAN_CLASSIFIER_API_URL")
	v.BindEnv("app.environment", "GUARDIAN_APP_ENVIRONMENT")

	if err := v.ReadInConfig(); err != nil {
		// Missing config file is fine, defaults and env vars still apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadDefault loads configuration with default path
func LoadDefault() (*Config, error) {
	return Load("")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "guardian-lab")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "dev")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Accept", "Content-Type"})

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "guardian")
	v.SetDefault("database.dbname", "guardian")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.key_prefix", "guardian:")

	v.SetDefault("analysis.suspicious_threshold", 5)
	v.SetDefault("analysis.dangerous_threshold", 10)
	v.SetDefault("analysis.max_message_length", 10000)
	v.SetDefault("analysis.network_timeout", 5*time.Second)
	v.SetDefault("analysis.tls_timeout", 3*time.Second)

	v.SetDefault("reputation.api_url", "https://checkurl.phishtank.com/checkurl/")
	v.SetDefault("reputation.timeout", 5*time.Second)
	v.SetDefault("reputation.cache_ttl", 1*time.Hour)

	v.SetDefault("classifier.timeout", 3*time.Second)
}
