package handlers

import (
	"errors"
	"net/http"

	"argot/internal/identity"
	"argot/internal/models"
	"argot/internal/utils"
	"argot/internal/vote"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type VoteHandler struct {
	votes *vote.Service
}

func NewVoteHandler(db *gorm.DB) *VoteHandler {
	return &VoteHandler{votes: vote.NewService(db)}
}

// Toggle handles POST /vote/:kind/:id. Everything malformed is rejected
// before the vote service opens a transaction; a pending word answers the
// same 404 as a missing one so the moderation queue stays invisible.
func (h *VoteHandler) Toggle(c *gin.Context) {
	kind, ok := models.ParseKind(c.Param("kind"))
	if !ok {
		jsonError(c, http.StatusBadRequest, "unknown votable kind")
		return
	}
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		jsonError(c, http.StatusBadRequest, "malformed id")
		return
	}

	var req struct {
		Action string `json:"action"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	action, err := vote.ParseAction(req.Action)
	if err != nil {
		jsonError(c, http.StatusBadRequest, "action must be like or dislike")
		return
	}

	voter := identity.Resolve(c)

	score, outcome, err := h.votes.Toggle(kind, id, voter, action)
	switch {
	case err == nil:
	case errors.Is(err, vote.ErrNotFound), errors.Is(err, vote.ErrNotVotable):
		jsonError(c, http.StatusNotFound, "unknown word or comment")
		return
	default:
		jsonError(c, http.StatusInternalServerError, "server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"new_score":   score,
		"user_action": outcome,
	})
}
