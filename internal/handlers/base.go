package handlers

import (
	"argot/internal/vote"

	"github.com/gin-gonic/gin"
)

// jsonError keeps every failure in the shape the frontend expects.
func jsonError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}

// actionLabel turns a batched UserActions lookup into the per-item
// annotation value: nil when the caller has no vote on the item.
func actionLabel(actions map[uint]vote.Action, id uint) *string {
	if a, ok := actions[id]; ok {
		s := string(a)
		return &s
	}
	return nil
}
