package handlers

import (
	"log"
	"net/http"

	"argot/internal/identity"
	"argot/internal/middleware"
	"argot/internal/models"
	"argot/internal/utils"
	"argot/internal/vote"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	maxTermLen       = 50
	maxDefinitionLen = 300
	maxNicknameLen   = 20
	listLimit        = 50
)

type WordHandler struct {
	db    *gorm.DB
	votes *vote.Service
}

func NewWordHandler(db *gorm.DB) *WordHandler {
	return &WordHandler{db: db, votes: vote.NewService(db)}
}

// List returns the newest approved words annotated with the caller's
// current vote on each, fetched with one batched ledger lookup.
func (h *WordHandler) List(c *gin.Context) {
	var words []models.Word
	err := h.db.Where("status = ?", models.StatusApproved).
		Order("created_at DESC").
		Limit(listLimit).
		Find(&words).Error
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "server error")
		return
	}

	var total int64
	if err := h.db.Model(&models.Word{}).Where("status = ?", models.StatusApproved).Count(&total).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "server error")
		return
	}

	ids := make([]uint, len(words))
	for i := range words {
		ids[i] = words[i].ID
	}

	voter := identity.Resolve(c)
	actions, err := h.votes.UserActions(models.KindWord, ids, voter)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "server error")
		return
	}

	counts, err := h.commentCounts(ids)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "server error")
		return
	}

	for i := range words {
		words[i].UserAction = actionLabel(actions, words[i].ID)
		words[i].CommentCount = counts[words[i].ID]
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "full",
		"words":       words,
		"total_count": total,
	})
}

// Create takes a submission into the pending queue. It stays invisible until
// a moderator approves it.
func (h *WordHandler) Create(c *gin.Context) {
	var req struct {
		Word       string `json:"word"`
		Definition string `json:"definition"`
		Nickname   string `json:"nickname"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	term := utils.SanitizeText(req.Word)
	definition := utils.SanitizeText(req.Definition)
	nickname := utils.SanitizeText(req.Nickname)

	if term == "" || definition == "" {
		jsonError(c, http.StatusBadRequest, "missing word or definition")
		return
	}
	if len(term) > maxTermLen || len(definition) > maxDefinitionLen || len(nickname) > maxNicknameLen {
		jsonError(c, http.StatusBadRequest, "text too long")
		return
	}
	if nickname == "" {
		nickname = "Anonymous"
	}

	word := models.Word{
		Term:       term,
		Definition: definition,
		Author:     nickname,
		Status:     models.StatusPending,
	}
	if user := middleware.CurrentUser(c); user != nil {
		word.UserID = &user.ID
		word.Author = user.Username
	}

	if err := h.db.Create(&word).Error; err != nil {
		log.Printf("word: failed to store submission: %v", err)
		jsonError(c, http.StatusInternalServerError, "server error")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "word submitted for review"})
}

func (h *WordHandler) commentCounts(ids []uint) (map[uint]int, error) {
	counts := make(map[uint]int, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	var rows []struct {
		WordID uint
		N      int
	}
	err := h.db.Model(&models.Comment{}).
		Select("word_id, COUNT(*) AS n").
		Where("word_id IN ?", ids).
		Group("word_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.WordID] = r.N
	}
	return counts, nil
}
