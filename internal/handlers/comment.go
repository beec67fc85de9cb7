package handlers

import (
	"errors"
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
	maxCommentLen = 200
	maxAuthorLen  = 50
)

type CommentHandler struct {
	db    *gorm.DB
	votes *vote.Service
}

func NewCommentHandler(db *gorm.DB) *CommentHandler {
	return &CommentHandler{db: db, votes: vote.NewService(db)}
}

// List returns a word's comments oldest-first, annotated with the caller's
// vote per comment. A pending word 404s; its comments are invisible along
// with it.
func (h *CommentHandler) List(c *gin.Context) {
	word, ok := h.approvedWord(c)
	if !ok {
		return
	}

	var comments []models.Comment
	err := h.db.Where("word_id = ?", word.ID).Order("created_at ASC").Find(&comments).Error
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "server error")
		return
	}

	ids := make([]uint, len(comments))
	for i := range comments {
		ids[i] = comments[i].ID
	}

	voter := identity.Resolve(c)
	actions, err := h.votes.UserActions(models.KindComment, ids, voter)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "server error")
		return
	}
	for i := range comments {
		comments[i].UserAction = actionLabel(actions, comments[i].ID)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "comments": comments})
}

// Create adds a comment to an approved word.
func (h *CommentHandler) Create(c *gin.Context) {
	word, ok := h.approvedWord(c)
	if !ok {
		return
	}

	var req struct {
		Comment string `json:"comment"`
		Author  string `json:"author"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	body := utils.SanitizeText(req.Comment)
	author := utils.SanitizeText(req.Author)
	if body == "" {
		jsonError(c, http.StatusBadRequest, "missing comment")
		return
	}
	if len(body) > maxCommentLen || len(author) > maxAuthorLen {
		jsonError(c, http.StatusBadRequest, "text too long")
		return
	}
	if author == "" {
		author = "Anonymous"
	}

	comment := models.Comment{
		WordID: word.ID,
		Author: author,
		Body:   body,
	}
	if user := middleware.CurrentUser(c); user != nil {
		comment.UserID = &user.ID
		comment.Author = user.Username
	}

	if err := h.db.Create(&comment).Error; err != nil {
		log.Printf("comment: failed to store: %v", err)
		jsonError(c, http.StatusInternalServerError, "server error")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "comment": comment})
}

func (h *CommentHandler) approvedWord(c *gin.Context) (*models.Word, bool) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		jsonError(c, http.StatusBadRequest, "malformed id")
		return nil, false
	}

	var word models.Word
	err := h.db.Where("id = ? AND status = ?", id, models.StatusApproved).First(&word).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			jsonError(c, http.StatusNotFound, "unknown word")
		} else {
			jsonError(c, http.StatusInternalServerError, "server error")
		}
		return nil, false
	}
	return &word, true
}
