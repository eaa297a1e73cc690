package bot

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/disgoorg/snowflake/v2"
	"github.com/joho/godotenv"
	"github.com/sglre6355/cogbot/internal/logging"
)

// Config holds the bot configuration loaded from environment variables.
type Config struct {
	DiscordToken    string `env:"DISCORD_TOKEN,notEmpty"`
	CommandPrefix   string `env:"COMMAND_PREFIX"   envDefault:"!"`
	GuildID         string `env:"GUILD_ID"`
	CaseInsensitive bool   `env:"CASE_INSENSITIVE" envDefault:"true"`
	MentionTrigger  bool   `env:"MENTION_TRIGGER"  envDefault:"true"`
	SyncCommands    bool   `env:"SYNC_COMMANDS"    envDefault:"true"`

	Log logging.Config `envPrefix:"LOG_"`
}

// LoadConfig loads configuration from the given dotenv files (missing files
// are ignored) and then from environment variables.
// Returns an error if required fields are missing.
func LoadConfig(envFiles ...string) (*Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Overload(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.CommandPrefix == "" {
		return nil, errors.New("COMMAND_PREFIX must not be empty")
	}

	if cfg.GuildID != "" {
		if _, err := snowflake.Parse(cfg.GuildID); err != nil {
			return nil, fmt.Errorf("invalid GUILD_ID %q: %w", cfg.GuildID, err)
		}
	}

	return cfg, nil
}
