package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Novel struct {
	ID            uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Slug          string                      `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Title         string                      `gorm:"size:500;not null" json:"title"`
	Description   *string                     `gorm:"type:text" json:"description"`
	CoverImageURL *string                     `gorm:"size:2048" json:"cover_image_url"`
	NovelType     NovelType                   `gorm:"size:20;not null;default:long;index" json:"novel_type"`
	Genres        datatypes.JSONSlice[string] `json:"genres"`
	Status        NovelStatus                 `gorm:"size:20;not null;default:draft;index" json:"status"`
	ViewCount     int64                       `gorm:"not null;default:0" json:"view_count"`
	CreatedAt     time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

func (Novel) TableName() string {
	return "novels"
}

func (n *Novel) BeforeCreate(*gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.Genres == nil {
		n.Genres = datatypes.JSONSlice[string]{}
	}
	return nil
}

// IsDraft reports whether the novel is hidden from anonymous readers.
func (n *Novel) IsDraft() bool {
	return n.Status == NovelStatusDraft
}

// NovelSummary is a novel with its chapter count, as returned by listings.
type NovelSummary struct {
	Novel
	ChapterCount int64 `json:"chapter_count"`
}

// NovelChapter belongs to a novel; ChapterNumber is unique within the novel.
type NovelChapter struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	NovelID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_novel_chapter_number,priority:1" json:"novel_id"`
	ChapterNumber int        `gorm:"not null;uniqueIndex:idx_novel_chapter_number,priority:2" json:"chapter_number"`
	Title         string     `gorm:"size:500;not null" json:"title"`
	Content       string     `gorm:"type:text;not null" json:"content"`
	ViewCount     int64      `gorm:"not null;default:0" json:"view_count"`
	PublishedAt   *time.Time `json:"published_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Novel         *Novel     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (NovelChapter) TableName() string {
	return "novel_chapters"
}

func (c *NovelChapter) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// ChapterPreview is a chapter without its content.
type ChapterPreview struct {
	ID            uuid.UUID  `json:"id"`
	NovelID       uuid.UUID  `json:"novel_id"`
	ChapterNumber int        `json:"chapter_number"`
	Title         string     `json:"title"`
	ViewCount     int64      `json:"view_count"`
	PublishedAt   *time.Time `json:"published_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

// NovelRelation links a novel to another one. Relations are directional:
// A -> B does not imply B -> A.
type NovelRelation struct {
	ID             uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	NovelID        uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_novel_relation,priority:1" json:"novel_id"`
	RelatedNovelID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_novel_relation,priority:2;index" json:"related_novel_id"`
	RelationType   RelationType `gorm:"size:20;not null" json:"relation_type"`
	CreatedAt      time.Time    `json:"created_at"`
	Novel          *Novel       `gorm:"foreignKey:NovelID;constraint:OnDelete:CASCADE" json:"-"`
	RelatedNovel   *Novel       `gorm:"foreignKey:RelatedNovelID;constraint:OnDelete:CASCADE" json:"-"`
}

func (NovelRelation) TableName() string {
	return "novel_relations"
}

func (r *NovelRelation) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RelatedNovel is a relation as seen from its source novel.
type RelatedNovel struct {
	ID           uuid.UUID    `json:"id"`
	RelationType RelationType `json:"relation_type"`
	Novel        Novel        `json:"novel"`
}
