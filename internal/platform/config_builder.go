package platform

import (
	"encoding/base64"
	"encoding/json"
)

// GatewayPort is the fixed port the runtime's network gateway listens on.
const GatewayPort = "18789"

// defaultModelName is used when the model selector is not recognized.
const defaultModelName = "claude-sonnet-4-6"

// modelNames maps our model selectors to runtime-recognized model
// identifiers. Fixed table; unknown selectors fall back to the default.
var modelNames = map[string]string{
	"claude": "claude-sonnet-4-6",
	"gpt":    "gpt-4o",
	"gemini": "gemini-2.0-flash",
}

// ModelName resolves a model selector to the runtime model identifier.
func ModelName(model string) string {
	if name, ok := modelNames[model]; ok {
		return name
	}
	return defaultModelName
}

// RuntimeConfig mirrors the runtime's bootstrap configuration document.
type RuntimeConfig struct {
	Agents   agentsConfig   `json:"agents"`
	Channels channelsConfig `json:"channels"`
}

type agentsConfig struct {
	Defaults agentDefaults `json:"defaults"`
}

type agentDefaults struct {
	Model modelConfig `json:"model"`
}

type modelConfig struct {
	Primary string `json:"primary"`
}

type channelsConfig struct {
	Telegram *telegramChannel `json:"telegram,omitempty"`
}

type telegramChannel struct {
	Enabled  bool   `json:"enabled"`
	BotToken string `json:"botToken"`
	DMPolicy string `json:"dmPolicy"`
}

// BuildRuntimeConfig renders the runtime's bootstrap configuration for
// the given channel and model. Unsupported channels produce an empty
// channels block rather than an error: the runtime starts with no
// channel enabled instead of failing provisioning.
func BuildRuntimeConfig(channel, model, botToken string) RuntimeConfig {
	cfg := RuntimeConfig{
		Agents: agentsConfig{
			Defaults: agentDefaults{
				Model: modelConfig{Primary: ModelName(model)},
			},
		},
	}

	if channel == "telegram" {
		cfg.Channels.Telegram = &telegramChannel{
			Enabled:  true,
			BotToken: botToken,
			DMPolicy: "open",
		}
	}

	return cfg
}

// EncodeRuntimeConfig serializes the configuration and base64-encodes it
// so it survives being passed through a shell startup command and an
// environment variable without re-interpretation. The startup command
// decodes it back to a file on the remote host.
func EncodeRuntimeConfig(cfg RuntimeConfig) (string, error) {
	b, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
