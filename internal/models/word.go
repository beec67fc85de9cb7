package models

import (
	"time"
)

// Word moderation states. A word is born pending and becomes approved when a
// moderator accepts it. There is no way back to pending; rejection deletes
// the row outright.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

type Word struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Term       string    `gorm:"size:50;not null" json:"word"`
	Definition string    `gorm:"size:300;not null" json:"def"`
	Author     string    `gorm:"size:20;default:'Anonymous'" json:"author"`
	UserID     *uint     `gorm:"index" json:"user_id,omitempty"` // set once a registered user owns the entry
	User       *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	Status     string    `gorm:"size:10;default:'pending';index;not null" json:"-"`
	Score      int       `gorm:"default:0;not null" json:"score"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`

	Comments []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	// Filled per request when listing, never persisted.
	UserAction *string `gorm:"-" json:"user_action"`
	// Comment count for list views.
	CommentCount int `gorm:"-" json:"comment_count"`
}

func (w *Word) VotableID() uint    { return w.ID }
func (w *Word) AcceptsVotes() bool { return w.Status == StatusApproved }
func (w *Word) CurrentScore() int  { return w.Score }
