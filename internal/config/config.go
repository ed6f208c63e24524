package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config captures all runtime configuration derived from environment variables,
// optionally layered over a TOML file named by CONFIG_FILE.
type Config struct {
	Port              string `toml:"port"`
	LogLevel          string `toml:"log_level"`
	DBURL             string `toml:"db_url"`
	TMDBURL           string `toml:"tmdb_url"`
	TMDBToken         string `toml:"tmdb_token"`
	TMDBAccountID     string `toml:"tmdb_account_id"`
	TMDBLanguage      string `toml:"tmdb_language"`
	TMDBTimeoutSecs   int    `toml:"tmdb_timeout_secs"`
	SessionFile       string `toml:"session_file"`
	SessionSecret     string `toml:"session_secret"`
	PageSize          int    `toml:"page_size"`
	ReadTimeoutSecs   int    `toml:"read_timeout_secs"`
	WriteTimeoutSecs  int    `toml:"write_timeout_secs"`
	IdleTimeoutSecs   int    `toml:"idle_timeout_secs"`
	DBMaxConns        int    `toml:"db_max_conns"`
	DBMinConns        int    `toml:"db_min_conns"`
	DBMaxIdleSecs     int    `toml:"db_max_conn_idle_secs"`
	DBMaxLifeSecs     int    `toml:"db_max_conn_lifetime_secs"`
	DBConnTimeoutSecs int    `toml:"db_conn_timeout_secs"`
	DBStatementCache  int    `toml:"db_statement_cache_capacity"`
}

func defaults() Config {
	return Config{
		Port:              "8080",
		LogLevel:          "info",
		TMDBURL:           "https://api.themoviedb.org/3",
		TMDBLanguage:      "en-US",
		TMDBTimeoutSecs:   5,
		SessionFile:       "session.json",
		PageSize:          20,
		ReadTimeoutSecs:   15,
		WriteTimeoutSecs:  15,
		IdleTimeoutSecs:   60,
		DBMaxConns:        20,
		DBMinConns:        2,
		DBMaxIdleSecs:     300,
		DBMaxLifeSecs:     3600,
		DBConnTimeoutSecs: 10,
		DBStatementCache:  256,
	}
}

// Load reads configuration from environment variables, applying defaults and validation.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read CONFIG_FILE %s: %w", path, err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.DBURL = getEnv("DB_URL", cfg.DBURL)
	cfg.TMDBURL = getEnv("TMDB_URL", cfg.TMDBURL)
	cfg.TMDBToken = getEnv("TMDB_TOKEN", cfg.TMDBToken)
	cfg.TMDBAccountID = getEnv("TMDB_ACCOUNT_ID", cfg.TMDBAccountID)
	cfg.TMDBLanguage = getEnv("TMDB_LANGUAGE", cfg.TMDBLanguage)
	cfg.TMDBTimeoutSecs = getEnvInt("TMDB_TIMEOUT_SECS", cfg.TMDBTimeoutSecs)
	cfg.SessionFile = getEnv("SESSION_FILE", cfg.SessionFile)
	cfg.SessionSecret = getEnv("SESSION_SECRET", cfg.SessionSecret)
	cfg.PageSize = getEnvInt("PAGE_SIZE", cfg.PageSize)
	cfg.ReadTimeoutSecs = getEnvInt("SERVER_READ_TIMEOUT", cfg.ReadTimeoutSecs)
	cfg.WriteTimeoutSecs = getEnvInt("SERVER_WRITE_TIMEOUT", cfg.WriteTimeoutSecs)
	cfg.IdleTimeoutSecs = getEnvInt("SERVER_IDLE_TIMEOUT", cfg.IdleTimeoutSecs)
	cfg.DBMaxConns = getEnvInt("DB_MAX_CONNS", cfg.DBMaxConns)
	cfg.DBMinConns = getEnvInt("DB_MIN_CONNS", cfg.DBMinConns)
	cfg.DBMaxIdleSecs = getEnvInt("DB_MAX_CONN_IDLE_SECS", cfg.DBMaxIdleSecs)
	cfg.DBMaxLifeSecs = getEnvInt("DB_MAX_CONN_LIFETIME_SECS", cfg.DBMaxLifeSecs)
	cfg.DBConnTimeoutSecs = getEnvInt("DB_CONN_TIMEOUT_SECS", cfg.DBConnTimeoutSecs)
	cfg.DBStatementCache = getEnvInt("DB_STATEMENT_CACHE_CAPACITY", cfg.DBStatementCache)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg Config) validate() error {
	if cfg.DBURL == "" {
		return fmt.Errorf("DB_URL is required")
	}
	if cfg.TMDBURL == "" {
		return fmt.Errorf("TMDB_URL is required")
	}
	if cfg.TMDBToken == "" {
		return fmt.Errorf("TMDB_TOKEN is required")
	}
	if cfg.TMDBTimeoutSecs <= 0 {
		return fmt.Errorf("TMDB_TIMEOUT_SECS must be positive")
	}
	if cfg.PageSize <= 0 || cfg.PageSize > 100 {
		return fmt.Errorf("PAGE_SIZE must be between 1 and 100")
	}
	if cfg.DBMaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if cfg.DBMinConns < 0 {
		return fmt.Errorf("DB_MIN_CONNS must be non-negative")
	}
	if cfg.DBMinConns > cfg.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}
	if cfg.DBStatementCache < 0 {
		return fmt.Errorf("DB_STATEMENT_CACHE_CAPACITY must be non-negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}
