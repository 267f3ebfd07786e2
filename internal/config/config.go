package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	DBPath         string
	ServerPort     string
	LogLevel       string
	PokeAPIBaseURL string
	AdminIDs       []int64

	// Chat ids that get the boosted catch environment.
	BoostedChats []int64
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DBPath:         getEnv("DB_PATH", "pokebot.db"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		PokeAPIBaseURL: getEnv("POKEAPI_BASE_URL", "https://pokeapi.co/api/v2"),
		AdminIDs:       parseIDList(getEnv("ADMIN_IDS", "")),
		BoostedChats:   parseIDList(getEnv("BOOSTED_CHAT_IDS", "")),
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Int("admin_count", len(cfg.AdminIDs)).
		Int("boosted_chats", len(cfg.BoostedChats)).
		Msg("configuration loaded")

	return cfg, nil
}

func (c *Config) IsAdmin(playerID int64) bool {
	for _, id := range c.AdminIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

func (c *Config) IsBoostedChat(chatID int64) bool {
	for _, id := range c.BoostedChats {
		if id == chatID {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseIDList(raw string) []int64 {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, err := strconv.ParseInt(part, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
