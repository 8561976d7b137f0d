package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Agent is a user-authored configuration profile bound to a deployment.
// Agents are deleted before their deployment during teardown.
type Agent struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;index;not null" json:"user_id" validate:"required"`
	DeploymentID uuid.UUID      `gorm:"type:uuid;index;not null" json:"deployment_id" validate:"required"`
	Name         string         `gorm:"not null" json:"name" validate:"required"`
	Personality  string         `gorm:"type:varchar(64)" json:"personality"`
	Goal         string         `gorm:"type:text" json:"goal"`
	Settings     datatypes.JSON `gorm:"type:jsonb" json:"settings"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
