package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/palclaw/engine/internal/models"
	appErr "github.com/palclaw/engine/pkg/errors"
	"gorm.io/gorm"
)

type DeploymentRepository interface {
	BaseRepository[models.Deployment]
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Deployment, error)
	UpdateStatus(ctx context.Context, deploymentID uuid.UUID, status string) error
	SaveProvisionResult(ctx context.Context, deploymentID uuid.UUID, platformID, serviceURL, accessToken, status string) error
}

type deploymentRepository struct {
	BaseRepository[models.Deployment]
	db *gorm.DB
}

func NewDeploymentRepository(db *gorm.DB) DeploymentRepository {
	return &deploymentRepository{BaseRepository: NewBaseRepository[models.Deployment](db), db: db}
}

func (r *deploymentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Deployment, error) {
	var out []models.Deployment
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list deployments failed")
	}
	return out, nil
}

func (r *deploymentRepository) UpdateStatus(ctx context.Context, deploymentID uuid.UUID, status string) error {
	res := r.db.WithContext(ctx).Model(&models.Deployment{}).Where("id = ?", deploymentID).Update("status", status)
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "update deployment status failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "deployment not found")
	}
	return nil
}

func (r *deploymentRepository) SaveProvisionResult(ctx context.Context, deploymentID uuid.UUID, platformID, serviceURL, accessToken, status string) error {
	res := r.db.WithContext(ctx).Model(&models.Deployment{}).Where("id = ?", deploymentID).Updates(map[string]any{
		"platform_id":  platformID,
		"service_url":  serviceURL,
		"access_token": accessToken,
		"status":       status,
	})
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "save provision result failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "deployment not found")
	}
	return nil
}
