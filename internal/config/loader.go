package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration from a yaml file and environment variables.
// Environment variables use the USER_ prefix with dots replaced by
// underscores, e.g. USER_REDIS_HOST.
func LoadConfig() (*Config, error) {
	setDefaults()

	env := strings.ToLower(os.Getenv("APP_ENV"))
	if env == "" {
		env = "development"
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName(fmt.Sprintf("config.%s", env))
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/user-service")
	}

	viper.SetEnvPrefix("USER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Missing file is fine, environment variables still apply.
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
	viper.SetDefault("server.read_timeout", "10s")
	viper.SetDefault("server.write_timeout", "10s")
	viper.SetDefault("server.shutdown_timeout", "15s")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.auto_migrate", true)

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("kafka.enabled", false)
	viper.SetDefault("kafka.auth_events_topic", "user.auth-events")
	viper.SetDefault("kafka.notification_topic", "notification.send-code")

	viper.SetDefault("token.access_token_ttl", "2h")
	viper.SetDefault("token.refresh_token_ttl", "168h")

	viper.SetDefault("verification.code_ttl", "5m")
	viper.SetDefault("verification.rate_limit", 5)
	viper.SetDefault("verification.rate_window", "1h")

	viper.SetDefault("lockout.max_failed_attempts", 5)
	viper.SetDefault("lockout.failure_window", "15m")
	viper.SetDefault("lockout.block", false)

	viper.SetDefault("cache.user_info_ttl", "1h")
	viper.SetDefault("cache.device_record_ttl", "720h")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.environment", "development")
}
