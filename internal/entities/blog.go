package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BlogPost struct {
	ID            uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Slug          string                      `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Title         string                      `gorm:"size:500;not null" json:"title"`
	Content       string                      `gorm:"type:text;not null" json:"content"` // Markdown
	Excerpt       *string                     `gorm:"size:1000" json:"excerpt"`
	CoverImageURL *string                     `gorm:"size:2048" json:"cover_image_url"`
	Tags          datatypes.JSONSlice[string] `json:"tags"`
	Published     bool                        `gorm:"not null;default:false;index" json:"published"`
	ViewCount     int64                       `gorm:"not null;default:0" json:"view_count"`
	PublishedAt   *time.Time                  `gorm:"index" json:"published_at"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

func (BlogPost) TableName() string {
	return "blog_posts"
}

func (p *BlogPost) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Tags == nil {
		p.Tags = datatypes.JSONSlice[string]{}
	}
	return nil
}

// BlogPostPreview is a post without its content, as returned by listings.
type BlogPostPreview struct {
	ID            uuid.UUID                   `json:"id"`
	Slug          string                      `json:"slug"`
	Title         string                      `json:"title"`
	Excerpt       *string                     `json:"excerpt"`
	CoverImageURL *string                     `json:"cover_image_url"`
	Tags          datatypes.JSONSlice[string] `json:"tags"`
	Published     bool                        `json:"published"`
	ViewCount     int64                       `json:"view_count"`
	PublishedAt   *time.Time                  `json:"published_at"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}
