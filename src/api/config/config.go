package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	MySQLDSN       string
	RedisURL       string
	Port           string
	RatePerMinute  int
	AllowedOrigins []string
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		if def == "" {
			log.Fatalf("missing env %s", key)
		}
		return def
	}
	return v
}

func Load() Config {
	rate, err := strconv.Atoi(getenv("RATE_PER_MINUTE", "10"))
	if err != nil || rate < 1 {
		log.Fatalf("bad RATE_PER_MINUTE: %v", err)
	}
	return Config{
		MySQLDSN:       getenv("MYSQL_DSN", ""),
		RedisURL:       os.Getenv("REDIS_URL"),
		Port:           getenv("PORT", "8080"),
		RatePerMinute:  rate,
		AllowedOrigins: strings.Split(getenv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
	}
}
