package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

const (
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverDynamoDB = "dynamodb"
)

type Config struct {
	AppURL                 string
	StoreDriver            string
	DatabaseDSN            string
	RedisAddr              string
	RedisKeyPrefix         string
	DynamoDBTable          string
	AWSRegion              string
	DynamoDBEndpoint       string
	RateLimit              int
	ShutdownTimeoutSeconds int
	AuditsBaseURL          string
}

func Load() Config {
	appHost := getEnv("APP_HOST", "127.0.0.1")
	appPort := getEnv("APP_PORT", "8080")
	redisHost := getEnv("REDIS_HOST", "127.0.0.1")
	redisPort := getEnv("REDIS_PORT", "6379")

	cfg := Config{
		AppURL:                 fmt.Sprintf("%s:%s", appHost, appPort),
		StoreDriver:            getEnv("STORE_DRIVER", DriverSQLite),
		DatabaseDSN:            getEnv("DATABASE_DSN", "activities.db"),
		RedisAddr:              fmt.Sprintf("%s:%s", redisHost, redisPort),
		RedisKeyPrefix:         getEnv("REDIS_KEY_PREFIX", "activity-tracker:"),
		DynamoDBTable:          getEnv("DYNAMODB_TABLE", "documents"),
		AWSRegion:              getEnv("AWS_REGION", "us-east-1"),
		DynamoDBEndpoint:       os.Getenv("DYNAMODB_ENDPOINT"),
		RateLimit:              getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
		ShutdownTimeoutSeconds: getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 20),
		AuditsBaseURL:          getEnv("AUDITS_BASE_URL", ""),
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	return cfg
}

func (cfg Config) Validate() error {
	switch cfg.StoreDriver {
	case DriverSQLite:
		if cfg.DatabaseDSN == "" {
			return fmt.Errorf("DATABASE_DSN must not be empty")
		}
	case DriverRedis:
		if cfg.RedisAddr == "" {
			return fmt.Errorf("REDIS_HOST and REDIS_PORT must not be empty")
		}
	case DriverDynamoDB:
		if cfg.DynamoDBTable == "" {
			return fmt.Errorf("DYNAMODB_TABLE must not be empty")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be one of %s, %s, %s", DriverSQLite, DriverRedis, DriverDynamoDB)
	}
	if cfg.AppURL == "" {
		return fmt.Errorf("APP_URL must not be empty (e.g. 127.0.0.1:8080)")
	}
	if cfg.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if cfg.ShutdownTimeoutSeconds <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT_SECONDS must be greater than 0")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid integer value for %s", key)
		}
		return i
	}
	return defaultVal
}
