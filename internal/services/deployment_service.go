package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/palclaw/engine/internal/models"
	"github.com/palclaw/engine/internal/platform"
	"github.com/palclaw/engine/internal/provisioner"
	"github.com/palclaw/engine/internal/repository"
	appErr "github.com/palclaw/engine/pkg/errors"
	"github.com/palclaw/engine/pkg/logger"
	"go.uber.org/zap"
)

// DeploymentService is the API boundary around the provisioning core:
// it owns the persisted deployment records and sequences them against
// the remote platform.
type DeploymentService interface {
	CreateDeployment(ctx context.Context, userID uuid.UUID, input *CreateDeploymentInput) (*models.Deployment, error)

	// GetDeployment returns the deployment and, while it is still
	// deploying, refreshes its status from the platform first. Invoked
	// by the client's poll loop.
	GetDeployment(ctx context.Context, deploymentID, userID uuid.UUID) (*models.Deployment, error)

	ListDeployments(ctx context.Context, userID uuid.UUID) ([]models.Deployment, error)

	// DeleteDeployment tears down the remote side best-effort, then
	// deletes dependent agents and the deployment record. Local cleanup
	// proceeds even when the remote delete fails.
	DeleteDeployment(ctx context.Context, deploymentID, userID uuid.UUID) error
}

type CreateDeploymentInput struct {
	Channel  string
	Model    string
	BotToken string
}

type deploymentService struct {
	prov       provisioner.Provisioner
	deployRepo repository.DeploymentRepository
	agentRepo  repository.AgentRepository
}

func NewDeploymentService(prov provisioner.Provisioner, deployRepo repository.DeploymentRepository, agentRepo repository.AgentRepository) DeploymentService {
	return &deploymentService{prov: prov, deployRepo: deployRepo, agentRepo: agentRepo}
}

var _ DeploymentService = (*deploymentService)(nil)

var supportedChannels = map[string]bool{"telegram": true, "discord": true, "slack": true}
var supportedModels = map[string]bool{"claude": true, "gpt": true, "gemini": true}

func (s *deploymentService) CreateDeployment(ctx context.Context, userID uuid.UUID, input *CreateDeploymentInput) (*models.Deployment, error) {
	if !supportedChannels[input.Channel] {
		return nil, appErr.New(appErr.CodeInvalid, "unsupported channel").WithMeta("channel", input.Channel)
	}
	if !supportedModels[input.Model] {
		return nil, appErr.New(appErr.CodeInvalid, "unsupported model").WithMeta("model", input.Model)
	}

	// Persist before any remote call so a user-visible record exists
	// even if provisioning subsequently fails.
	d := &models.Deployment{
		UserID:  userID,
		Channel: input.Channel,
		Model:   input.Model,
		Status:  string(platform.StatePending),
	}
	if err := s.deployRepo.Create(ctx, d); err != nil {
		return nil, err
	}

	logger.L().Info("provisioning deployment",
		zap.String("deployment_id", d.ID.String()),
		zap.String("channel", input.Channel),
		zap.String("model", input.Model),
	)

	res, err := s.prov.Provision(ctx, provisioner.ProvisionInput{
		OwnerID:  userID.String(),
		Channel:  input.Channel,
		Model:    input.Model,
		BotToken: input.BotToken,
	})
	if err != nil {
		logger.L().Error("provisioning failed", zap.String("deployment_id", d.ID.String()), zap.Error(err))
		if uerr := s.deployRepo.UpdateStatus(ctx, d.ID, string(platform.StateFailed)); uerr != nil {
			logger.L().Error("mark deployment failed", zap.Error(uerr))
		}
		return nil, appErr.Wrap(err, appErr.CodeUnavailable, "provisioning failed")
	}

	if err := s.deployRepo.SaveProvisionResult(ctx, d.ID, res.Handle, res.EndpointURL, res.AccessToken, string(platform.StateDeploying)); err != nil {
		return nil, err
	}

	d.PlatformID = res.Handle
	d.ServiceURL = res.EndpointURL
	d.AccessToken = res.AccessToken
	d.Status = string(platform.StateDeploying)

	logger.L().Info("deployment provisioned",
		zap.String("deployment_id", d.ID.String()),
		zap.String("service_url", res.EndpointURL),
	)
	return d, nil
}

func (s *deploymentService) GetDeployment(ctx context.Context, deploymentID, userID uuid.UUID) (*models.Deployment, error) {
	var d models.Deployment
	if err := s.deployRepo.GetByID(ctx, deploymentID, &d); err != nil {
		return nil, err
	}
	if d.UserID != userID {
		return nil, appErr.New(appErr.CodeUnauthorized, "user does not own deployment")
	}

	// Running and failed are terminal for polling; pending has no handle
	// to reconcile against yet.
	if d.Status == string(platform.StateDeploying) && d.PlatformID != "" {
		state := s.prov.Status(ctx, d.PlatformID)
		if state != platform.StateUnknown && string(state) != d.Status {
			if err := s.deployRepo.UpdateStatus(ctx, d.ID, string(state)); err != nil {
				logger.L().Error("persist reconciled status", zap.String("deployment_id", d.ID.String()), zap.Error(err))
			} else {
				d.Status = string(state)
			}
		}
	}
	return &d, nil
}

func (s *deploymentService) ListDeployments(ctx context.Context, userID uuid.UUID) ([]models.Deployment, error) {
	return s.deployRepo.ListByUser(ctx, userID)
}

func (s *deploymentService) DeleteDeployment(ctx context.Context, deploymentID, userID uuid.UUID) error {
	var d models.Deployment
	if err := s.deployRepo.GetByID(ctx, deploymentID, &d); err != nil {
		return err
	}
	if d.UserID != userID {
		return appErr.New(appErr.CodeUnauthorized, "user does not own deployment")
	}

	if d.PlatformID != "" {
		// Best-effort: never lets a remote failure keep the record alive.
		s.prov.Teardown(ctx, d.PlatformID)
	}

	// Agents reference the deployment; delete them first. Ordering
	// substitutes for a transaction here.
	if err := s.agentRepo.DeleteByDeployment(ctx, d.ID); err != nil {
		return err
	}
	if err := s.deployRepo.Delete(ctx, d.ID); err != nil {
		return err
	}

	logger.L().Info("deployment deleted", zap.String("deployment_id", d.ID.String()))
	return nil
}
