package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/palclaw/engine/internal/models"
	appErr "github.com/palclaw/engine/pkg/errors"
	"gorm.io/gorm"
)

type AgentRepository interface {
	BaseRepository[models.Agent]
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Agent, error)
	ListByDeployment(ctx context.Context, deploymentID uuid.UUID) ([]models.Agent, error)
	DeleteByDeployment(ctx context.Context, deploymentID uuid.UUID) error
}

type agentRepository struct {
	BaseRepository[models.Agent]
	db *gorm.DB
}

func NewAgentRepository(db *gorm.DB) AgentRepository {
	return &agentRepository{BaseRepository: NewBaseRepository[models.Agent](db), db: db}
}

func (r *agentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Agent, error) {
	var out []models.Agent
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list agents failed")
	}
	return out, nil
}

func (r *agentRepository) ListByDeployment(ctx context.Context, deploymentID uuid.UUID) ([]models.Agent, error) {
	var out []models.Agent
	if err := r.db.WithContext(ctx).Where("deployment_id = ?", deploymentID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list agents by deployment failed")
	}
	return out, nil
}

// DeleteByDeployment removes every agent bound to the deployment. Zero rows
// is not an error: a deployment may have no agents.
func (r *agentRepository) DeleteByDeployment(ctx context.Context, deploymentID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("deployment_id = ?", deploymentID).Delete(&models.Agent{})
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "delete agents by deployment failed")
	}
	return nil
}
