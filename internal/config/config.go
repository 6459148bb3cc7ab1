package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"slices"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	DiscordToken      string   `env:"DISCORD_TOKEN,notEmpty"`
	StoragePath       string   `env:"STORAGE_PATH" envDefault:"datastore.json"`
	CommandPrefix     string   `env:"COMMAND_PREFIX" envDefault:"!"`
	DeveloperID       string   `env:"DEVELOPER_ID"`
	GuildBlacklist    []string `env:"DISCORD_GUILD_BLACKLIST" envSeparator:","`
	InitSlashCommands bool     `env:"INIT_SLASH_COMMANDS" envDefault:"true"`
	RegisterRPS       float64  `env:"REGISTER_RPS" envDefault:"5"`
}

// New loads .env from the working directory, when present, and reads the
// configuration from the environment.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
		log.Println("[INFO] No .env file found, falling back to system environment variables")
	}
	return parse()
}

func parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.CommandPrefix == "" {
		return nil, errors.New("COMMAND_PREFIX must not be empty")
	}
	if cfg.RegisterRPS <= 0 {
		cfg.RegisterRPS = 1
	}
	return &cfg, nil
}

// IsBlacklisted reports whether the bot must leave guildID.
func (c *Config) IsBlacklisted(guildID string) bool {
	return slices.Contains(c.GuildBlacklist, guildID)
}
