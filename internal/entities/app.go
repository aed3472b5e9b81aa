package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DistributionChannel is one place an app can be obtained from.
type DistributionChannel struct {
	Type  string  `json:"type"`
	URL   string  `json:"url"`
	Label *string `json:"label,omitempty"`
}

type App struct {
	ID                   uuid.UUID                                `gorm:"type:uuid;primaryKey" json:"id"`
	Name                 string                                   `gorm:"size:255;not null" json:"name"`
	Slug                 string                                   `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Description          *string                                  `gorm:"type:text" json:"description"`
	Platforms            datatypes.JSONSlice[string]              `json:"platforms"`
	IconURL              *string                                  `gorm:"size:2048" json:"icon_url"`
	Screenshots          datatypes.JSONSlice[string]              `json:"screenshots"`
	DistributionChannels datatypes.JSONSlice[DistributionChannel] `json:"distribution_channels"`
	PrivacyPolicyURL     *string                                  `gorm:"size:2048" json:"privacy_policy_url"`
	CreatedAt            time.Time                                `gorm:"index" json:"created_at"`
	UpdatedAt            time.Time                                `json:"updated_at"`
}

func (App) TableName() string {
	return "apps"
}

func (a *App) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Platforms == nil {
		a.Platforms = datatypes.JSONSlice[string]{}
	}
	if a.Screenshots == nil {
		a.Screenshots = datatypes.JSONSlice[string]{}
	}
	if a.DistributionChannels == nil {
		a.DistributionChannels = datatypes.JSONSlice[DistributionChannel]{}
	}
	return nil
}
