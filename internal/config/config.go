package config

import "time"

// Config is the root configuration for the user-service.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Kafka        KafkaConfig        `mapstructure:"kafka"`
	Token        TokenConfig        `mapstructure:"token"`
	Verification VerificationConfig `mapstructure:"verification"`
	Lockout      LockoutConfig      `mapstructure:"lockout"`
	Cache        CacheConfig        `mapstructure:"cache"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	DBName      string `mapstructure:"dbname"`
	SSLMode     string `mapstructure:"sslmode"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Enabled           bool     `mapstructure:"enabled"`
	Brokers           []string `mapstructure:"brokers"`
	AuthEventsTopic   string   `mapstructure:"auth_events_topic"`
	NotificationTopic string   `mapstructure:"notification_topic"`
}

// TokenConfig controls opaque token lifetimes.
type TokenConfig struct {
	AccessTokenTTL  time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL time.Duration `mapstructure:"refresh_token_ttl"`
}

// VerificationConfig controls verification code issuance.
type VerificationConfig struct {
	CodeTTL    time.Duration `mapstructure:"code_ttl"`
	RateLimit  int           `mapstructure:"rate_limit"`
	RateWindow time.Duration `mapstructure:"rate_window"`
}

// LockoutConfig controls the login failure counter. When Block is false the
// counter resets at the threshold instead of rejecting attempts, which
// preserves the historical behavior of the service this one replaces.
type LockoutConfig struct {
	MaxFailedAttempts int           `mapstructure:"max_failed_attempts"`
	FailureWindow     time.Duration `mapstructure:"failure_window"`
	Block             bool          `mapstructure:"block"`
}

// CacheConfig controls the best-effort Redis summaries.
type CacheConfig struct {
	UserInfoTTL     time.Duration `mapstructure:"user_info_ttl"`
	DeviceRecordTTL time.Duration `mapstructure:"device_record_ttl"`
}

type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Environment string `mapstructure:"environment"`
}
