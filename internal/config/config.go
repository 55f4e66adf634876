package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set")

// MinBcryptCost is the lowest work factor accepted for password hashing.
const MinBcryptCost = 10

type Config struct {
	Port          string
	Env           string
	DatabaseDSN   string
	JWTSecret     string
	BcryptCost    int
	CORSOrigins   []string
	RunMigrations bool
	LogLevel      string
	LogFormat     string
}

// Load reads the server configuration from the environment.
// It fails when the signing secret is missing so the server never signs with an empty key.
func Load() (Config, error) {
	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		DatabaseDSN:   getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/bhvr?parseTime=true"),
		JWTSecret:     strings.TrimSpace(os.Getenv("JWT_SECRET")),
		BcryptCost:    12,
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "*")),
		RunMigrations: true,
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, ErrMissingJWTSecret
	}

	if v := os.Getenv("BCRYPT_COST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid BCRYPT_COST %q: %w", v, err)
		}
		if n < MinBcryptCost {
			return Config{}, fmt.Errorf("BCRYPT_COST must be at least %d", MinBcryptCost)
		}
		cfg.BcryptCost = n
	}

	if v := os.Getenv("RUN_MIGRATIONS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RUN_MIGRATIONS %q: %w", v, err)
		}
		cfg.RunMigrations = b
	}

	return cfg, nil
}

// ClientConfig configures the terminal client.
type ClientConfig struct {
	APIURL   string
	StateDir string
	Timeout  time.Duration
}

// LoadClient reads the client configuration from the environment.
func LoadClient() ClientConfig {
	stateDir := os.Getenv("AUTH_STATE_DIR")
	if stateDir == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			stateDir = dir + string(os.PathSeparator) + "bhvr"
		} else {
			stateDir = ".bhvr"
		}
	}

	return ClientConfig{
		APIURL:   strings.TrimRight(getEnv("API_URL", "http://localhost:8080/api"), "/"),
		StateDir: stateDir,
		Timeout:  10 * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
