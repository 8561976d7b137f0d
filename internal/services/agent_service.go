package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/palclaw/engine/internal/models"
	"github.com/palclaw/engine/internal/repository"
	appErr "github.com/palclaw/engine/pkg/errors"
	"gorm.io/datatypes"
)

// AgentService manages agent profiles bound to a user's deployments.
type AgentService interface {
	CreateAgent(ctx context.Context, userID uuid.UUID, input *CreateAgentInput) (*models.Agent, error)
	ListAgents(ctx context.Context, userID uuid.UUID) ([]models.Agent, error)
	ListAgentsByDeployment(ctx context.Context, userID, deploymentID uuid.UUID) ([]models.Agent, error)
	DeleteAgent(ctx context.Context, agentID, userID uuid.UUID) error
}

type CreateAgentInput struct {
	DeploymentID uuid.UUID
	Name         string
	Personality  string
	Goal         string
	Settings     map[string]any
}

type agentService struct {
	agentRepo  repository.AgentRepository
	deployRepo repository.DeploymentRepository
}

func NewAgentService(agentRepo repository.AgentRepository, deployRepo repository.DeploymentRepository) AgentService {
	return &agentService{agentRepo: agentRepo, deployRepo: deployRepo}
}

var _ AgentService = (*agentService)(nil)

func (s *agentService) CreateAgent(ctx context.Context, userID uuid.UUID, input *CreateAgentInput) (*models.Agent, error) {
	var d models.Deployment
	if err := s.deployRepo.GetByID(ctx, input.DeploymentID, &d); err != nil {
		return nil, err
	}
	if d.UserID != userID {
		return nil, appErr.New(appErr.CodeUnauthorized, "user does not own deployment")
	}

	var settings datatypes.JSON
	if input.Settings != nil {
		b, err := json.Marshal(input.Settings)
		if err != nil {
			return nil, appErr.Wrap(err, appErr.CodeInvalid, "invalid agent settings")
		}
		settings = datatypes.JSON(b)
	}

	a := &models.Agent{
		UserID:       userID,
		DeploymentID: input.DeploymentID,
		Name:         input.Name,
		Personality:  input.Personality,
		Goal:         input.Goal,
		Settings:     settings,
	}
	if err := s.agentRepo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *agentService) ListAgents(ctx context.Context, userID uuid.UUID) ([]models.Agent, error) {
	return s.agentRepo.ListByUser(ctx, userID)
}

func (s *agentService) ListAgentsByDeployment(ctx context.Context, userID, deploymentID uuid.UUID) ([]models.Agent, error) {
	var d models.Deployment
	if err := s.deployRepo.GetByID(ctx, deploymentID, &d); err != nil {
		return nil, err
	}
	if d.UserID != userID {
		return nil, appErr.New(appErr.CodeUnauthorized, "user does not own deployment")
	}
	return s.agentRepo.ListByDeployment(ctx, deploymentID)
}

func (s *agentService) DeleteAgent(ctx context.Context, agentID, userID uuid.UUID) error {
	var a models.Agent
	if err := s.agentRepo.GetByID(ctx, agentID, &a); err != nil {
		return err
	}
	if a.UserID != userID {
		return appErr.New(appErr.CodeUnauthorized, "user does not own agent")
	}
	return s.agentRepo.Delete(ctx, a.ID)
}
