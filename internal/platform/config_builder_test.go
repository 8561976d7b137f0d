package platform

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestModelName(t *testing.T) {
	require.Equal(t, "claude-sonnet-4-6", ModelName("claude"))
	require.Equal(t, "gpt-4o", ModelName("gpt"))
	require.Equal(t, "gemini-2.0-flash", ModelName("gemini"))
	// Unknown selectors fall back instead of erroring.
	require.Equal(t, "claude-sonnet-4-6", ModelName("mistral"))
	require.Equal(t, "claude-sonnet-4-6", ModelName(""))
}

func TestBuildRuntimeConfigTelegram(t *testing.T) {
	cfg := BuildRuntimeConfig("telegram", "gpt", "12345:token")

	require.Equal(t, "gpt-4o", cfg.Agents.Defaults.Model.Primary)
	require.NotNil(t, cfg.Channels.Telegram)
	require.True(t, cfg.Channels.Telegram.Enabled)
	require.Equal(t, "12345:token", cfg.Channels.Telegram.BotToken)
	require.Equal(t, "open", cfg.Channels.Telegram.DMPolicy)
}

func TestBuildRuntimeConfigNonTelegramChannels(t *testing.T) {
	for _, channel := range []string{"discord", "slack", "irc", ""} {
		cfg := BuildRuntimeConfig(channel, "claude", "ignored")
		require.Nil(t, cfg.Channels.Telegram, "channel %q", channel)
	}
}

func TestEncodeRuntimeConfigRoundTrip(t *testing.T) {
	cfg := BuildRuntimeConfig("telegram", "gemini", "bot-token")

	encoded, err := EncodeRuntimeConfig(cfg)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))

	agents := doc["agents"].(map[string]any)
	defaults := agents["defaults"].(map[string]any)
	model := defaults["model"].(map[string]any)
	require.Equal(t, "gemini-2.0-flash", model["primary"])

	channels := doc["channels"].(map[string]any)
	telegram := channels["telegram"].(map[string]any)
	require.Equal(t, true, telegram["enabled"])
	require.Equal(t, "bot-token", telegram["botToken"])
}

func TestEncodeRuntimeConfigOmitsEmptyChannel(t *testing.T) {
	encoded, err := EncodeRuntimeConfig(BuildRuntimeConfig("discord", "claude", ""))
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	channels := doc["channels"].(map[string]any)
	_, present := channels["telegram"]
	require.False(t, present)
}
