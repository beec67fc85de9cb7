package models

import (
	"time"
)

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	WordID    uint      `gorm:"not null;index" json:"word_id"`
	Word      Word      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Author    string    `gorm:"size:50;default:'Anonymous'" json:"author"`
	UserID    *uint     `gorm:"index" json:"user_id,omitempty"`
	User      *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	Body      string    `gorm:"size:200;not null" json:"comment"`
	Score     int       `gorm:"default:0;not null" json:"score"`
	CreatedAt time.Time `json:"created_at"`

	// Filled per request when listing, never persisted.
	UserAction *string `gorm:"-" json:"user_action"`
}

// Comments have no moderation stage; they accept votes from the moment they
// exist.
func (c *Comment) VotableID() uint    { return c.ID }
func (c *Comment) AcceptsVotes() bool { return true }
func (c *Comment) CurrentScore() int  { return c.Score }
