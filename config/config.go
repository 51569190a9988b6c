package config

import (
	"errors"
	"os"
	"time"

	"github.com/railbook/railbook/internal/util"
)

type Config struct {
	Addr        string
	DatabaseDSN string
	CacheURL    string
	MQURL       string
	JWTSecret   string
	JWTTTL      time.Duration
}

func LoadConfig() (*Config, error) {
	if err := util.LoadEnv(); err != nil {
		return nil, err
	}

	databaseDSN := os.Getenv("DATABASE_DSN")
	if databaseDSN == "" {
		return nil, errors.New("DATABASE_DSN is empty")
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET is empty")
	}

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtTTL := 24 * time.Hour
	if v := os.Getenv("JWT_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, err
		}
		jwtTTL = d
	}

	return &Config{
		Addr:        addr,
		DatabaseDSN: databaseDSN,
		CacheURL:    os.Getenv("CACHE_URL"),
		MQURL:       os.Getenv("RABBIT_MQ_URL"),
		JWTSecret:   jwtSecret,
		JWTTTL:      jwtTTL,
	}, nil
}
