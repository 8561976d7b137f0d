package provisioner

import (
	"context"
	"fmt"
	"time"

	"github.com/palclaw/engine/internal/platform"
	"github.com/palclaw/engine/pkg/logger"
	"github.com/palclaw/engine/pkg/utils"
	"go.uber.org/zap"
)

// Provisioner creates, inspects and tears down hosted runtime instances
// on the remote platform. Every invocation runs to completion within the
// calling request; there is no background worker here.
type Provisioner interface {
	// Provision creates the full remote resource tree and triggers the
	// first deploy. Any step failing aborts the remaining steps; partial
	// remote state is not rolled back (the caller marks the deployment
	// failed and the leak is accepted).
	Provision(ctx context.Context, input ProvisionInput) (*ProvisionResult, error)

	// Status refreshes the canonical state from the platform's live
	// status. Advisory: it never returns an error. A malformed handle
	// yields StateUnknown without a remote call; a remote failure yields
	// StateDeploying so the caller simply retries on its own schedule.
	Status(ctx context.Context, handle string) platform.State

	// Teardown deletes the remote project tree, best-effort. A malformed
	// handle is a no-op; a remote failure is logged and swallowed so
	// local cleanup always proceeds.
	Teardown(ctx context.Context, handle string)
}

// ProvisionInput is the provisioning request from the API boundary.
type ProvisionInput struct {
	OwnerID  string
	Channel  string
	Model    string
	BotToken string
}

// ProvisionResult carries everything the caller persists on success.
type ProvisionResult struct {
	Handle      string
	EndpointURL string
	AccessToken string
}

// CredentialSource resolves the API-key value for a model's credential
// slot. *config.Config satisfies it; tests supply a fake.
type CredentialSource interface {
	ModelCredential(model string) string
}

// Config carries the process-wide settings the provisioner depends on.
type Config struct {
	// RuntimeImage is the container image the service is created from.
	RuntimeImage string
	// Credentials resolves per-model API keys. An empty value omits the
	// variable rather than failing the provision.
	Credentials CredentialSource
}

// modelAPIKeyEnv maps model selectors to the environment variable the
// runtime reads its provider API key from. Fixed table; models absent
// here ship without a provider key variable.
var modelAPIKeyEnv = map[string]string{
	"claude": "ANTHROPIC_API_KEY",
	"gpt":    "OPENAI_API_KEY",
	"gemini": "GOOGLE_API_KEY",
}

const (
	serviceName         = "openclaw"
	defaultRuntimeImage = "node:22"
	runtimeConfigVar    = "OPENCLAW_CONFIG_B64"
)

// startCommand prepares the runtime, restores the encoded configuration
// document to its well-known path and launches the gateway. The sh -c
// wrapper is required for the platform to execute && chains.
const startCommand = `sh -c "apt-get update && apt-get install -y --no-install-recommends git && rm -rf /var/lib/apt/lists/* && npm install -g openclaw@latest && mkdir -p /root/.openclaw && echo $OPENCLAW_CONFIG_B64 | base64 -d > /root/.openclaw/openclaw.json && openclaw gateway --port ` + platform.GatewayPort + `"`

// PlatformProvisioner implements Provisioner against the remote control API.
type PlatformProvisioner struct {
	client platform.Client
	cfg    Config
}

func NewPlatformProvisioner(client platform.Client, cfg Config) *PlatformProvisioner {
	if cfg.RuntimeImage == "" {
		cfg.RuntimeImage = defaultRuntimeImage
	}
	return &PlatformProvisioner{client: client, cfg: cfg}
}

var _ Provisioner = (*PlatformProvisioner)(nil)

func (p *PlatformProvisioner) Provision(ctx context.Context, input ProvisionInput) (*ProvisionResult, error) {
	token := utils.GenerateAccessToken()
	projectName := projectNameFor(input.OwnerID)

	encodedCfg, err := platform.EncodeRuntimeConfig(platform.BuildRuntimeConfig(input.Channel, input.Model, input.BotToken))
	if err != nil {
		return nil, fmt.Errorf("encode runtime config: %w", err)
	}

	// 1. Create project; the platform creates a default environment with it.
	projectID, envID, err := p.client.CreateProject(ctx, projectName)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	logger.L().Info("remote project created",
		zap.String("project_id", projectID),
		zap.String("environment_id", envID),
	)

	// 2. Create the service from the configured container image.
	serviceID, err := p.client.CreateService(ctx, projectID, serviceName, p.cfg.RuntimeImage)
	if err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}

	// 3. Attach the startup command, single replica.
	if err := p.client.UpdateServiceInstance(ctx, serviceID, envID, startCommand, 1); err != nil {
		return nil, fmt.Errorf("configure service instance: %w", err)
	}

	// 4. Upsert variables. A missing model credential slot omits the
	// variable; the bot token is only set when supplied.
	variables := map[string]string{
		runtimeConfigVar: encodedCfg,
		"PORT":           platform.GatewayPort,
	}
	if envName, ok := modelAPIKeyEnv[input.Model]; ok && p.cfg.Credentials != nil {
		if value := p.cfg.Credentials.ModelCredential(input.Model); value != "" {
			variables[envName] = value
		}
	}
	if input.BotToken != "" {
		variables["TELEGRAM_BOT_TOKEN"] = input.BotToken
	}
	if err := p.client.UpsertVariables(ctx, projectID, envID, serviceID, variables); err != nil {
		return nil, fmt.Errorf("upsert variables: %w", err)
	}

	// 5. Public domain for the gateway.
	domain, err := p.client.CreateServiceDomain(ctx, serviceID, envID)
	if err != nil {
		return nil, fmt.Errorf("create service domain: %w", err)
	}

	// 6. Variables were set with skipDeploys; the first deploy is explicit.
	if err := p.client.Redeploy(ctx, serviceID, envID); err != nil {
		return nil, fmt.Errorf("trigger deploy: %w", err)
	}

	handle := platform.Handle{
		ProjectID:     projectID,
		ServiceID:     serviceID,
		EnvironmentID: envID,
	}

	logger.L().Info("provisioning complete",
		zap.String("project_id", projectID),
		zap.String("service_id", serviceID),
		zap.String("domain", domain),
	)

	return &ProvisionResult{
		Handle:      handle.Encode(),
		EndpointURL: "https://" + domain,
		AccessToken: token,
	}, nil
}

func (p *PlatformProvisioner) Status(ctx context.Context, encoded string) platform.State {
	h, err := platform.DecodeHandle(encoded)
	if err != nil {
		logger.L().Warn("undecodable platform handle", zap.String("handle", encoded))
		return platform.StateUnknown
	}

	raw, ok, err := p.client.LatestDeploymentStatus(ctx, h.ServiceID, h.EnvironmentID)
	if err != nil {
		// Advisory read: a failed poll must never surface as a failed
		// deployment. The caller retries on its own schedule.
		logger.L().Warn("status read failed", zap.String("service_id", h.ServiceID), zap.Error(err))
		return platform.StateDeploying
	}
	if !ok {
		return platform.StateDeploying
	}
	return platform.MapDeploymentStatus(raw)
}

func (p *PlatformProvisioner) Teardown(ctx context.Context, encoded string) {
	h, err := platform.DecodeHandle(encoded)
	if err != nil {
		// Nothing addressable to delete.
		return
	}

	if err := p.client.DeleteProject(ctx, h.ProjectID); err != nil {
		logger.L().Error("remote project delete failed, continuing local cleanup",
			zap.String("project_id", h.ProjectID),
			zap.Error(err),
		)
	}
}

func projectNameFor(ownerID string) string {
	short := ownerID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("palclaw-%s-%d", short, time.Now().UnixMilli())
}
