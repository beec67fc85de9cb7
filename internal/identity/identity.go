// Package identity resolves the voter behind a request: a logged-in account
// when the session carries one, otherwise an anonymous voter token minted on
// first contact and carried in the signed session cookie. The cookie store's
// HMAC makes the token tamper-evident; a forged cookie simply fails to
// decode and the visitor starts over with a fresh identity.
package identity

import (
	"log"

	"argot/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session keys. UserKey is shared with the auth handlers and middleware.
const (
	UserKey  = "user_id"
	TokenKey = "voter_token"
)

// Identity is the resolved actor casting a vote. UserID is zero for
// anonymous visitors. Token is always set once Resolve has run.
type Identity struct {
	UserID uint
	Token  string
}

func (id Identity) Anonymous() bool {
	return id.UserID == 0
}

// Resolve derives the request's voter identity and never fails: a missing or
// unverifiable cookie yields a brand-new anonymous token. Saving the session
// re-issues the cookie, so the expiry window slides on every resolved
// request.
func Resolve(c *gin.Context) Identity {
	session := sessions.Default(c)

	var id Identity
	if uid, ok := session.Get(UserKey).(uint); ok {
		id.UserID = uid
	}
	if token, ok := session.Get(TokenKey).(string); ok && token != "" {
		id.Token = token
	} else {
		id.Token = uuid.NewString()
		session.Set(TokenKey, id.Token)
	}

	if err := session.Save(); err != nil {
		// Identity still works for this request; only the refreshed cookie
		// is lost.
		log.Printf("identity: failed to save session: %v", err)
	}
	return id
}

// Reconcile moves every vote owned by the anonymous session onto the
// account. It must run inside the same transaction as the registration or
// login step that triggered it, so a crash cannot strand votes between
// identities. Where the account already voted on the same item from
// elsewhere, the anonymous row loses: it is deleted and its contribution
// comes off the score, keeping score == sum(ledger) true throughout.
func Reconcile(tx *gorm.DB, userID uint, token string) error {
	if userID == 0 || token == "" {
		return nil
	}

	var strays []models.Vote
	err := tx.Where("session_token = ? AND user_id IS NULL", token).Find(&strays).Error
	if err != nil {
		return err
	}

	for i := range strays {
		stray := &strays[i]

		dupe, err := accountRowExists(tx, userID, stray)
		if err != nil {
			return err
		}
		if dupe {
			if err := retractScore(tx, stray); err != nil {
				return err
			}
			if err := tx.Delete(stray).Error; err != nil {
				return err
			}
			continue
		}

		claim := map[string]interface{}{"user_id": userID, "session_token": nil}
		if err := tx.Model(stray).Updates(claim).Error; err != nil {
			return err
		}
	}
	return nil
}

func accountRowExists(tx *gorm.DB, userID uint, stray *models.Vote) (bool, error) {
	q := tx.Model(&models.Vote{}).Where("user_id = ?", userID)
	switch {
	case stray.WordID != nil:
		q = q.Where("word_id = ?", *stray.WordID)
	case stray.CommentID != nil:
		q = q.Where("comment_id = ?", *stray.CommentID)
	default:
		return false, nil
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func retractScore(tx *gorm.DB, stray *models.Vote) error {
	switch {
	case stray.WordID != nil:
		return tx.Model(&models.Word{}).Where("id = ?", *stray.WordID).
			UpdateColumn("score", gorm.Expr("score - ?", stray.Value)).Error
	case stray.CommentID != nil:
		return tx.Model(&models.Comment{}).Where("id = ?", *stray.CommentID).
			UpdateColumn("score", gorm.Expr("score - ?", stray.Value)).Error
	}
	return nil
}
