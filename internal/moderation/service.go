// Package moderation owns the pending -> approved state machine and the
// terminal delete. Rejecting a submission and deleting published content are
// the same operation: the row disappears and everything hanging off it
// (comments, ledger rows) goes with it.
package moderation

import (
	"errors"

	"argot/internal/models"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("moderation: word not found")

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Approve publishes a pending word. Approving an already-approved word is a
// no-op; there is no transition back to pending.
func (s *Service) Approve(wordID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var word models.Word
		if err := tx.First(&word, wordID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if word.Status == models.StatusApproved {
			return nil
		}
		return tx.Model(&word).Update("status", models.StatusApproved).Error
	})
}

// DeleteWord removes a word and cascades: votes on the word, votes on its
// comments, the comments, then the word itself, all in one transaction.
// Deleting a word that is already gone is a no-op.
func (s *Service) DeleteWord(wordID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("word_id = ?", wordID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}

		commentIDs := tx.Model(&models.Comment{}).Select("id").Where("word_id = ?", wordID)
		if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&models.Vote{}).Error; err != nil {
			return err
		}

		if err := tx.Where("word_id = ?", wordID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Word{}, wordID).Error
	})
}

// DeleteComment removes a comment and its votes. The parent word's score is
// untouched; only votes on the word itself feed it.
func (s *Service) DeleteComment(commentID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", commentID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Comment{}, commentID).Error
	})
}
