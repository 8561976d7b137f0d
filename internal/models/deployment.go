package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Deployment represents one provisioned runtime instance owned by a user.
//
// PlatformID is the opaque composite handle addressing the remote
// project/service/environment tree; it is set iff Status != pending.
// AccessToken is generated locally once at creation and never rotated.
type Deployment struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;index;not null" json:"user_id" validate:"required"`
	Channel     string         `gorm:"type:varchar(32);not null" json:"channel" validate:"required,oneof=telegram discord slack"`
	Model       string         `gorm:"type:varchar(32);not null" json:"model" validate:"required,oneof=claude gpt gemini"`
	PlatformID  string         `gorm:"type:varchar(255)" json:"platform_id"`
	ServiceURL  string         `gorm:"type:varchar(255)" json:"service_url"`
	AccessToken string         `gorm:"type:varchar(64)" json:"-"`
	Status      string         `gorm:"type:varchar(32);index;not null" json:"status" validate:"required,oneof=pending deploying running failed"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
