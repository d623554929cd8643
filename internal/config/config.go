package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Port                 string
	Origin               string
	Environment          string
	JWTSecret            string
	JWTExpirationMinutes int
	SubmitRatePerMinute  int
	DoctorSeedFile       string
	Database             DatabaseConfig
	AI                   AIConfig
	Pipeline             PipelineConfig
	Monitor              MonitorConfig
	Log                  LogConfig
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// AIConfig selects and configures the generative model
type AIConfig struct {
	Provider     string
	Model        string
	Timeout      time.Duration
	OpenAIKey    string
	AnthropicKey string
}

// PipelineConfig tunes the case pipeline
type PipelineConfig struct {
	DiagnosisPolicy string
	CacheSize       int
	CacheTTL        time.Duration
}

// MonitorConfig configures where inference records go
type MonitorConfig struct {
	CSVPath     string
	RedisURL    string
	RedisStream string
}

// LogConfig configures logrus
type LogConfig struct {
	Level  string
	Format string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	dbConfig := DatabaseConfig{
		Driver:   strings.ToLower(v.GetString("DB_DRIVER")),
		Host:     v.GetString("DB_HOST"),
		Port:     v.GetString("DB_PORT"),
		Username: v.GetString("DB_USERNAME"),
		Password: v.GetString("DB_PASSWORD"),
		Name:     v.GetString("DB_NAME"),
		DSN:      v.GetString("DB_DSN"),
	}
	if dbConfig.DSN == "" {
		dsn, err := dbConfig.buildDSN()
		if err != nil {
			return nil, err
		}
		dbConfig.DSN = dsn
	}

	cfg := &Config{
		Port:                 v.GetString("PORT"),
		Origin:               v.GetString("ORIGIN"),
		Environment:          v.GetString("ENVIRONMENT"),
		JWTSecret:            v.GetString("JWT_SECRET"),
		JWTExpirationMinutes: v.GetInt("JWT_EXPIRATION_MINUTES"),
		SubmitRatePerMinute:  v.GetInt("SUBMIT_RATE_PER_MINUTE"),
		DoctorSeedFile:       v.GetString("DOCTOR_SEED_FILE"),
		Database:             dbConfig,
		AI: AIConfig{
			Provider:     strings.ToLower(v.GetString("AI_PROVIDER")),
			Model:        v.GetString("AI_MODEL"),
			Timeout:      v.GetDuration("AI_TIMEOUT"),
			OpenAIKey:    v.GetString("OPENAI_API_KEY"),
			AnthropicKey: v.GetString("ANTHROPIC_API_KEY"),
		},
		Pipeline: PipelineConfig{
			DiagnosisPolicy: strings.ToLower(v.GetString("DIAGNOSIS_POLICY")),
			CacheSize:       v.GetInt("CASE_CACHE_SIZE"),
			CacheTTL:        v.GetDuration("CASE_CACHE_TTL"),
		},
		Monitor: MonitorConfig{
			CSVPath:     v.GetString("MONITOR_CSV_PATH"),
			RedisURL:    v.GetString("MONITOR_REDIS_URL"),
			RedisStream: v.GetString("MONITOR_REDIS_STREAM"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3001")
	v.SetDefault("ORIGIN", "http://localhost:4200")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("JWT_SECRET", "default_jwt_secret")
	v.SetDefault("JWT_EXPIRATION_MINUTES", 60)
	v.SetDefault("SUBMIT_RATE_PER_MINUTE", 5)
	v.SetDefault("DOCTOR_SEED_FILE", "")

	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_USERNAME", "root")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "mediassist")

	v.SetDefault("AI_PROVIDER", "openai")
	v.SetDefault("AI_MODEL", "")
	v.SetDefault("AI_TIMEOUT", "60s")

	v.SetDefault("DIAGNOSIS_POLICY", "always")
	v.SetDefault("CASE_CACHE_SIZE", 256)
	v.SetDefault("CASE_CACHE_TTL", "15m")

	v.SetDefault("MONITOR_CSV_PATH", "clinical_logs.csv")
	v.SetDefault("MONITOR_REDIS_URL", "")
	v.SetDefault("MONITOR_REDIS_STREAM", "mediassist:inference")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// buildDSN builds the Data Source Name for the configured driver
func (d *DatabaseConfig) buildDSN() (string, error) {
	switch d.Driver {
	case "mysql":
		if d.Port == "" {
			d.Port = "3306"
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			d.Username, d.Password, d.Host, d.Port, d.Name), nil
	case "postgres":
		if d.Port == "" {
			d.Port = "5432"
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			d.Host, d.Username, d.Password, d.Name, d.Port), nil
	default:
		return "", fmt.Errorf("unsupported DB_DRIVER %q", d.Driver)
	}
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	if c.JWTExpirationMinutes <= 0 {
		return fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %d", c.JWTExpirationMinutes)
	}
	if c.Environment == "production" && c.JWTSecret == "default_jwt_secret" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("invalid AI_TIMEOUT: %s", c.AI.Timeout)
	}
	switch c.Pipeline.DiagnosisPolicy {
	case "always", "fallback":
	default:
		return fmt.Errorf("invalid DIAGNOSIS_POLICY %q (want always or fallback)", c.Pipeline.DiagnosisPolicy)
	}
	if c.Pipeline.CacheSize < 0 {
		return fmt.Errorf("invalid CASE_CACHE_SIZE: %d", c.Pipeline.CacheSize)
	}
	if c.SubmitRatePerMinute < 0 {
		return fmt.Errorf("invalid SUBMIT_RATE_PER_MINUTE: %d", c.SubmitRatePerMinute)
	}
	return nil
}

// IsProduction reports whether cookies should be marked Secure.
func (c *Config) IsProduction() bool {
	return c.Environment != "development"
}
