package vote

import (
	"errors"
	"time"

	"argot/internal/identity"
	"argot/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Toggle applies one voter's like/dislike to a votable and returns the
// post-commit score plus what actually happened. Semantics:
//
//	no row yet            -> insert, score moves by ±1
//	row with same value   -> delete (repeat clears the vote), applied = none
//	row with other value  -> flip in place, score moves by ±2
//
// The whole thing runs in one transaction that locks the target row FOR
// UPDATE, so concurrent togglers on the same item serialize and the score
// column never drifts from the ledger sum. Different items never block each
// other.
func (s *Service) Toggle(kind models.Kind, id uint, voter identity.Identity, action Action) (int, Applied, error) {
	value := 0
	switch action {
	case ActionLike, ActionDislike:
		value = action.value()
	default:
		return 0, AppliedNone, ErrInvalidAction
	}
	if voter.Anonymous() && voter.Token == "" {
		// The resolver always mints a token; an identity without one would
		// produce ownerless ledger rows outside the unique indexes.
		return 0, AppliedNone, ErrInvalidAction
	}

	var (
		newScore int
		outcome  Applied
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		target, err := lockVotable(tx, kind, id)
		if err != nil {
			return err
		}
		if !target.AcceptsVotes() {
			return ErrNotVotable
		}

		existing, err := findVote(tx, kind, id, voter)
		if err != nil {
			return err
		}

		var delta int
		switch {
		case existing == nil:
			row := newRow(kind, id, voter, value)
			if err := tx.Create(row).Error; err != nil {
				return err
			}
			delta = value
			outcome = applied(value)

		case existing.Value == value:
			// Repeating the same action clears the vote.
			if err := tx.Delete(existing).Error; err != nil {
				return err
			}
			delta = -value
			outcome = AppliedNone

		default:
			if err := tx.Model(existing).Update("value", value).Error; err != nil {
				return err
			}
			delta = 2 * value
			outcome = applied(value)
		}

		if err := applyScore(tx, kind, id, delta); err != nil {
			return err
		}
		// The row is locked, so the score read at lock time plus our delta
		// is exactly the committed value.
		newScore = target.CurrentScore() + delta
		return nil
	})
	if err != nil {
		return 0, AppliedNone, err
	}
	return newScore, outcome, nil
}

// UserActions is the one read of the ledger outside Toggle: a single batched
// lookup of the caller's current vote on each listed id, keyed by votable
// id. Ids without a row are simply absent from the map.
func (s *Service) UserActions(kind models.Kind, ids []uint, voter identity.Identity) (map[uint]Action, error) {
	actions := make(map[uint]Action, len(ids))
	if len(ids) == 0 {
		return actions, nil
	}

	q := s.db.Where(kindColumn(kind)+" IN ?", ids)
	if voter.Anonymous() {
		if voter.Token == "" {
			return actions, nil
		}
		q = q.Where("session_token = ? AND user_id IS NULL", voter.Token)
	} else {
		q = q.Where("user_id = ?", voter.UserID)
	}

	var rows []models.Vote
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		actions[rows[i].TargetID()] = actionFor(rows[i].Value)
	}
	return actions, nil
}

// RecomputeScore sums the ledger directly. The score column is never derived
// this way in production; this exists for consistency checks and tests.
func (s *Service) RecomputeScore(kind models.Kind, id uint) (int, error) {
	var total int64
	err := s.db.Model(&models.Vote{}).
		Where(kindColumn(kind)+" = ?", id).
		Select("COALESCE(SUM(value), 0)").
		Scan(&total).Error
	return int(total), err
}

func kindColumn(kind models.Kind) string {
	if kind == models.KindComment {
		return "comment_id"
	}
	return "word_id"
}

// lockVotable fetches the target row FOR UPDATE, which is both the
// moderation-gate read and the per-item serialization point.
func lockVotable(tx *gorm.DB, kind models.Kind, id uint) (models.Votable, error) {
	locked := tx.Clauses(clause.Locking{Strength: "UPDATE"})

	switch kind {
	case models.KindComment:
		var c models.Comment
		if err := locked.First(&c, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		return &c, nil
	default:
		var w models.Word
		if err := locked.First(&w, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		return &w, nil
	}
}

// findVote locates the caller's existing ledger row, account-first. A
// logged-in caller whose session still owns an anonymous row on this item
// (cast before login, reconciliation missed it) gets that row claimed here
// on the spot.
func findVote(tx *gorm.DB, kind models.Kind, id uint, voter identity.Identity) (*models.Vote, error) {
	col := kindColumn(kind)

	if !voter.Anonymous() {
		var v models.Vote
		err := tx.Where(col+" = ? AND user_id = ?", id, voter.UserID).First(&v).Error
		if err == nil {
			return &v, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		if voter.Token != "" {
			err = tx.Where(col+" = ? AND session_token = ? AND user_id IS NULL", id, voter.Token).First(&v).Error
			if err == nil {
				claim := map[string]interface{}{"user_id": voter.UserID, "session_token": nil}
				if err := tx.Model(&v).Updates(claim).Error; err != nil {
					return nil, err
				}
				uid := voter.UserID
				v.UserID = &uid
				v.SessionToken = nil
				return &v, nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
		}
		return nil, nil
	}

	if voter.Token == "" {
		return nil, nil
	}
	var v models.Vote
	err := tx.Where(col+" = ? AND session_token = ? AND user_id IS NULL", id, voter.Token).First(&v).Error
	if err == nil {
		return &v, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return nil, err
}

func newRow(kind models.Kind, id uint, voter identity.Identity, value int) *models.Vote {
	row := &models.Vote{Value: value, CreatedAt: time.Now()}
	if kind == models.KindComment {
		row.CommentID = &id
	} else {
		row.WordID = &id
	}
	if !voter.Anonymous() {
		uid := voter.UserID
		row.UserID = &uid
	} else if voter.Token != "" {
		token := voter.Token
		row.SessionToken = &token
	}
	return row
}

// applyScore bumps the materialized score column as a single atomic
// increment, not a read-modify-write.
func applyScore(tx *gorm.DB, kind models.Kind, id uint, delta int) error {
	if kind == models.KindComment {
		return tx.Model(&models.Comment{}).Where("id = ?", id).
			UpdateColumn("score", gorm.Expr("score + ?", delta)).Error
	}
	return tx.Model(&models.Word{}).Where("id = ?", id).
		UpdateColumn("score", gorm.Expr("score + ?", delta)).Error
}
