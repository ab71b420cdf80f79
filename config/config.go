package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Occupancy OccupancyConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// OccupancyConfig 佔用率快取的對帳週期與告警門檻
type OccupancyConfig struct {
	ReconcileInterval time.Duration
	WarnRatio         float64 // 佔用率達此比例記 Warn
	CriticalRatio     float64 // 佔用率達此比例記 Error
}

var AppConfig *Config

func LoadConfig() *Config {
	AppConfig = &Config{
		Server:    GetServerConfig(),
		Database:  GetDatabaseConfig(),
		Redis:     GetRedisConfig(),
		Occupancy: GetOccupancyConfig(),
	}

	return AppConfig
}

func LoadTestConfig() *Config {
	testConfig := &DatabaseConfig{
		Host:     "localhost",
		Port:     "5433", // 測試 DB 用 5433 port
		User:     "postgres",
		Password: "postgres",
		DBName:   "test_db",
		SSLMode:  "disable",
	}

	testRedisConfig := RedisConfig{
		Host:     "localhost",
		Port:     "6380", // 測試 Redis 用 6380 port
		Password: "",
		DB:       1,
	}

	return &Config{
		Server:    ServerConfig{Port: "8080"},
		Database:  *testConfig,
		Redis:     testRedisConfig,
		Occupancy: GetOccupancyConfig(),
	}
}

func GetServerConfig() ServerConfig {
	return ServerConfig{
		Port: getEnv("SERVER_PORT", "8080"),
	}
}

func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "postgres"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}
}

func GetRedisConfig() RedisConfig {
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		panic(err)
	}

	return RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
	}
}

func GetOccupancyConfig() OccupancyConfig {
	interval, err := time.ParseDuration(getEnv("OCCUPANCY_RECONCILE_INTERVAL", "1m"))
	if err != nil {
		panic(err)
	}

	warn, err := strconv.ParseFloat(getEnv("OCCUPANCY_WARN_RATIO", "0.8"), 64)
	if err != nil {
		panic(err)
	}

	critical, err := strconv.ParseFloat(getEnv("OCCUPANCY_CRITICAL_RATIO", "0.9"), 64)
	if err != nil {
		panic(err)
	}

	return OccupancyConfig{
		ReconcileInterval: interval,
		WarnRatio:         warn,
		CriticalRatio:     critical,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
