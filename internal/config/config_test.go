package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DISCORD_TOKEN", "discord-token")
	t.Setenv("OPENAI_SECRET", "openai-key")
	t.Setenv("GOOGLE_TTS_KEY", "tts-key")
}

func TestNewAppliesDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "discord-token", cfg.DiscordToken)
	assert.Equal(t, "openai-key", cfg.OpenAIKey)
	assert.Equal(t, "tts-key", cfg.GoogleTTSKey)
	assert.Equal(t, "gpt-3.5-turbo", cfg.ChatModel)
	assert.Equal(t, "-sky-", cfg.CommandPrefix)
	assert.Equal(t, "messagestore.json", cfg.StoragePath)
}

func TestNewHonorsOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("OPENAI_CHAT_MODEL", "gpt-4o-mini")
	t.Setenv("COMMAND_PREFIX", "!!")
	t.Setenv("STORAGE_PATH", "/tmp/store.json")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.ChatModel)
	assert.Equal(t, "!!", cfg.CommandPrefix)
	assert.Equal(t, "/tmp/store.json", cfg.StoragePath)
}

func TestNewRequiresDiscordToken(t *testing.T) {
	t.Setenv("OPENAI_SECRET", "openai-key")
	t.Setenv("GOOGLE_TTS_KEY", "tts-key")

	// t.Setenv registers the restore, the unset makes the var truly absent
	t.Setenv("DISCORD_TOKEN", "placeholder")
	os.Unsetenv("DISCORD_TOKEN")

	_, err := New()
	require.Error(t, err)
}
