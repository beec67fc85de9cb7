package models

import (
	"time"
)

// Vote is the ledger row: exactly one per (votable, voter). A row points at
// either a word or a comment, never both, and belongs to exactly one
// identity: either UserID or SessionToken is set, never both. Claiming an
// anonymous row for an account sets UserID and clears the token.
//
// Uniqueness cannot be expressed with plain gorm uniqueIndex tags because
// half the columns are nullable; db.Migrate creates Postgres partial unique
// indexes instead.
type Vote struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	WordID       *uint     `gorm:"index" json:"word_id,omitempty"`
	CommentID    *uint     `gorm:"index" json:"comment_id,omitempty"`
	UserID       *uint     `gorm:"index" json:"user_id,omitempty"`
	SessionToken *string   `gorm:"size:64;index" json:"-"`
	Value        int       `gorm:"not null" json:"value"` // +1 or -1
	CreatedAt    time.Time `json:"created_at"`
}

// TargetID returns the id of whichever votable the row points at.
func (v *Vote) TargetID() uint {
	if v.WordID != nil {
		return *v.WordID
	}
	if v.CommentID != nil {
		return *v.CommentID
	}
	return 0
}
