package bot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_WithValidToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "test-token-123")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "test-token-123", cfg.DiscordToken)
	assert.Equal(t, "!", cfg.CommandPrefix)
	assert.Empty(t, cfg.GuildID)
	assert.True(t, cfg.CaseInsensitive)
	assert.True(t, cfg.MentionTrigger)
	assert.Equal(t, "INFO", cfg.Log.Level)
	assert.Equal(t, "bot.log", cfg.Log.File)
	assert.Equal(t, 5, cfg.Log.MaxSizeMB)
}

func TestLoadConfig_WithEmptyToken(t *testing.T) {
	// Clear the environment variable
	t.Setenv("DISCORD_TOKEN", "")

	_, err := LoadConfig()
	assert.Error(t, err, "expected error for missing token")
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("COMMAND_PREFIX", "?")
	t.Setenv("GUILD_ID", "175928847299117063")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "?", cfg.CommandPrefix)
	assert.Equal(t, "175928847299117063", cfg.GuildID)
	assert.Equal(t, "DEBUG", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadConfig_InvalidGuildID(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("GUILD_ID", "not-a-snowflake")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "from-env")
	t.Setenv("COMMAND_PREFIX", "!")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DISCORD_TOKEN=from-file\nCOMMAND_PREFIX=%\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.DiscordToken)
	assert.Equal(t, "%", cfg.CommandPrefix)
}

func TestLoadConfig_MissingEnvFileIsIgnored(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "token", cfg.DiscordToken)
}
