package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	AppEnv                    string
	AppPort                   string
	AllowedOrigins            string
	NatsURL                   string
	DBDriver                  string
	DBHost                    string
	DBPort                    string
	DBUser                    string
	DBPassword                string
	DBName                    string
	DBSSLMode                 string
	DBPath                    string
	DBMaxIdleConns            int
	DBMaxOpenConns            int
	JWTSecret                 string
	JWTExpirationHours        int
	EventDispatchInterval     time.Duration
	NotificationRetentionDays int
}

var defaults = map[string]interface{}{
	"APP_ENV":                     "development",
	"APP_PORT":                    "8080",
	"ALLOWED_ORIGINS":             "*",
	"NATS_URL":                    "nats://localhost:4222",
	"DB_DRIVER":                   "postgres",
	"DB_HOST":                     "localhost",
	"DB_PORT":                     "5432",
	"DB_USER":                     "focuslist",
	"DB_PASSWORD":                 "focuslist",
	"DB_NAME":                     "focuslist",
	"DB_SSLMODE":                  "disable",
	"DB_PATH":                     "focuslist.db",
	"DB_MAX_IDLE_CONNS":           10,
	"DB_MAX_OPEN_CONNS":           100,
	"JWT_SECRET":                  "your-super-secret-key-change-this-in-production",
	"JWT_EXPIRATION_HOURS":        24,
	"EVENT_DISPATCH_INTERVAL":     "1s",
	"NOTIFICATION_RETENTION_DAYS": 30,
}

// Load reads configuration from the environment, an optional .env file and an
// optional YAML file named by CONFIG_FILE. Environment variables win.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		zap.L().Debug("loaded .env file")
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			zap.L().Warn("failed to read config file, using environment only",
				zap.String("path", path), zap.Error(err))
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) Config {
	interval := v.GetDuration("EVENT_DISPATCH_INTERVAL")
	if interval <= 0 {
		zap.L().Warn("invalid EVENT_DISPATCH_INTERVAL, defaulting to 1s")
		interval = time.Second
	}

	return Config{
		AppEnv:                    v.GetString("APP_ENV"),
		AppPort:                   v.GetString("APP_PORT"),
		AllowedOrigins:            v.GetString("ALLOWED_ORIGINS"),
		NatsURL:                   v.GetString("NATS_URL"),
		DBDriver:                  strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:                    v.GetString("DB_HOST"),
		DBPort:                    v.GetString("DB_PORT"),
		DBUser:                    v.GetString("DB_USER"),
		DBPassword:                v.GetString("DB_PASSWORD"),
		DBName:                    v.GetString("DB_NAME"),
		DBSSLMode:                 v.GetString("DB_SSLMODE"),
		DBPath:                    v.GetString("DB_PATH"),
		DBMaxIdleConns:            v.GetInt("DB_MAX_IDLE_CONNS"),
		DBMaxOpenConns:            v.GetInt("DB_MAX_OPEN_CONNS"),
		JWTSecret:                 v.GetString("JWT_SECRET"),
		JWTExpirationHours:        v.GetInt("JWT_EXPIRATION_HOURS"),
		EventDispatchInterval:     interval,
		NotificationRetentionDays: v.GetInt("NOTIFICATION_RETENTION_DAYS"),
	}
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}
