package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Token            string
	PublishChannelID string
	ModChannelID     string
	Moderators       []string
	CommandPrefix    string
	PollInterval     int
	BatchLimit       int
	MySQLDSN         string
	RedisURL         string
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
	poll, err := strconv.Atoi(getenv("POLL_INTERVAL", "0"))
	if err != nil || poll < 0 {
		log.Fatalf("bad POLL_INTERVAL: %v", err)
	}
	batch, err := strconv.Atoi(getenv("BATCH_LIMIT", "20"))
	if err != nil || batch < 1 {
		log.Fatalf("bad BATCH_LIMIT: %v", err)
	}

	var mods []string
	for _, id := range strings.Split(os.Getenv("MODERATORS"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			mods = append(mods, id)
		}
	}

	return Config{
		Token:            getenv("DISCORD_TOKEN", ""),
		PublishChannelID: os.Getenv("PUBLISH_CHANNEL_ID"),
		ModChannelID:     os.Getenv("MOD_CHANNEL_ID"),
		Moderators:       mods,
		CommandPrefix:    getenv("COMMAND_PREFIX", "!"),
		PollInterval:     poll,
		BatchLimit:       batch,
		MySQLDSN:         getenv("MYSQL_DSN", ""),
		RedisURL:         os.Getenv("REDIS_URL"),
	}
}
