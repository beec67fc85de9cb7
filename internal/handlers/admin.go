package handlers

import (
	"errors"
	"log"
	"net/http"

	"argot/internal/moderation"
	"argot/internal/models"
	"argot/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminHandler is the moderation collaborator's HTTP surface. Routes using
// it sit behind AdminRequired.
type AdminHandler struct {
	db   *gorm.DB
	gate *moderation.Service
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db, gate: moderation.NewService(db)}
}

// Pending lists the moderation queue, oldest submissions first.
func (h *AdminHandler) Pending(c *gin.Context) {
	var words []models.Word
	err := h.db.Where("status = ?", models.StatusPending).Order("created_at ASC").Find(&words).Error
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "words": words})
}

// Approve publishes a pending word. Re-approving is a no-op, not an error.
func (h *AdminHandler) Approve(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		jsonError(c, http.StatusBadRequest, "malformed id")
		return
	}

	if err := h.gate.Approve(id); err != nil {
		if errors.Is(err, moderation.ErrNotFound) {
			jsonError(c, http.StatusNotFound, "unknown word")
			return
		}
		log.Printf("admin: approve %d failed: %v", id, err)
		jsonError(c, http.StatusInternalServerError, "server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteWord rejects or removes a word; its comments and all votes go with
// it. Deleting something already gone still succeeds.
func (h *AdminHandler) DeleteWord(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		jsonError(c, http.StatusBadRequest, "malformed id")
		return
	}

	if err := h.gate.DeleteWord(id); err != nil {
		log.Printf("admin: delete word %d failed: %v", id, err)
		jsonError(c, http.StatusInternalServerError, "server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AdminHandler) DeleteComment(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		jsonError(c, http.StatusBadRequest, "malformed id")
		return
	}

	if err := h.gate.DeleteComment(id); err != nil {
		log.Printf("admin: delete comment %d failed: %v", id, err)
		jsonError(c, http.StatusInternalServerError, "server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
