package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/phuslu/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Port        string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	MongoURI    string
	MongoDBName string
	LogLevel    string
	Environment string
	ScanWorkers int
}

var AppConfig *Config
var DB *gorm.DB

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	config := &Config{
		Port:        getEnv("PORT", "8080"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", ""),
		DBName:      getEnv("DB_NAME", "screener_db"),
		MongoURI:    getEnv("MONGODB_URI", ""),
		MongoDBName: getEnv("MONGODB_NAME", "screener_cache"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Environment: getEnv("ENVIRONMENT", "development"),
		ScanWorkers: getEnvInt("SCAN_WORKERS", 10),
	}

	AppConfig = config
	return config, nil
}

// SetupLogger configures the process-wide default logger.
func SetupLogger(cfg *Config) {
	log.DefaultLogger = log.Logger{
		Level:      log.ParseLevel(cfg.LogLevel),
		TimeFormat: "15:04:05",
		Writer: &log.ConsoleWriter{
			ColorOutput: cfg.Environment != "production",
		},
	}
}

// InitDB initializes the database connection.
func InitDB() (*gorm.DB, error) {
	log.Info().
		Str("host", maskHost(AppConfig.DBHost)).
		Str("port", AppConfig.DBPort).
		Str("user", AppConfig.DBUser).
		Str("dbname", AppConfig.DBName).
		Msg("Connecting to database")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
		AppConfig.DBHost,
		AppConfig.DBUser,
		AppConfig.DBPassword,
		AppConfig.DBName,
		AppConfig.DBPort,
	)

	var logLevel logger.LogLevel
	if AppConfig.Environment == "production" {
		logLevel = logger.Error
	} else {
		logLevel = logger.Warn
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	log.Info().Msg("Database connection verified")
	DB = db
	return db, nil
}

// maskHost masks host for logging, preserving domain structure.
func maskHost(host string) string {
	if len(host) <= 3 {
		return "***"
	}
	if len(host) <= 15 {
		return host[:3] + "***"
	}
	return host[:8] + "***" + host[len(host)-10:]
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable or returns a default.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
