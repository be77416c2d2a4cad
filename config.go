package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	envAccessKey       = "TRADING_ECONOMICS_KEY"
	envLegacyAccessKey = "REACT_APP_KEY"
	envDSN             = "INDICATORS_DB_DSN"
	envDatabaseURL     = "DATABASE_URL"

	defaultLogFile = "country-indicators.log"
)

// Config is resolved once at start-up and passed down explicitly.
type Config struct {
	AccessKey string
	APIBase   string
	Timeout   time.Duration
	LogFile   string
	DBURL     string
}

type flagValues struct {
	envFile string
	apiBase string
	timeout time.Duration
	logFile string
	dbURL   string
}

func loadConfig(flags flagValues, getenv func(string) string) (Config, error) {
	if err := loadEnvFile(flags.envFile); err != nil {
		return Config{}, err
	}
	if getenv == nil {
		getenv = os.Getenv
	}
	if flags.timeout < 0 {
		return Config{}, fmt.Errorf("timeout must be >= 0 (got %s)", flags.timeout)
	}

	key := strings.TrimSpace(getenv(envAccessKey))
	if key == "" {
		key = strings.TrimSpace(getenv(envLegacyAccessKey))
	}
	logFile := strings.TrimSpace(flags.logFile)
	if logFile == "" {
		logFile = defaultLogFile
	}
	return Config{
		AccessKey: key,
		APIBase:   flags.apiBase,
		Timeout:   flags.timeout,
		LogFile:   logFile,
		DBURL:     resolveDSN(flags.dbURL, getenv),
	}, nil
}

// loadEnvFile reads .env when present; an explicitly named file must exist.
func loadEnvFile(path string) error {
	if strings.TrimSpace(path) == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func resolveDSN(dsn string, getenv func(string) string) string {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		dsn = strings.TrimSpace(getenv(envDSN))
	}
	if dsn == "" {
		dsn = strings.TrimSpace(getenv(envDatabaseURL))
	}
	return dsn
}
