package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is a feed entry owned by a single user.
type Post struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	ImageURL  string    `json:"imageUrl" gorm:"size:512;not null"`
	CreatorID uuid.UUID `json:"creatorId" gorm:"type:char(36);not null;index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Creator *User `json:"creator,omitempty" gorm:"foreignKey:CreatorID"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
