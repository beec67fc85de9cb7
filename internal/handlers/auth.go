package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"argot/internal/identity"
	"argot/internal/models"
	"argot/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthHandler struct {
	db *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db}
}

// Register creates an account and claims the session's anonymous votes in
// the same transaction, so a crash in between cannot strand them.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	username := utils.SanitizeText(req.Username)
	email := strings.TrimSpace(req.Email)
	switch {
	case username == "" || len(username) > maxNicknameLen:
		jsonError(c, http.StatusBadRequest, "username must be 1-20 characters")
		return
	case !strings.Contains(email, "@"):
		jsonError(c, http.StatusBadRequest, "invalid email")
		return
	case len(req.Password) < 6:
		jsonError(c, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "server error")
		return
	}

	voter := identity.Resolve(c)

	user := models.User{
		Username: username,
		Email:    email,
		Password: hash,
	}
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return identity.Reconcile(tx, user.ID, voter.Token)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			jsonError(c, http.StatusConflict, "username or email already registered")
			return
		}
		log.Printf("auth: registration failed: %v", err)
		jsonError(c, http.StatusInternalServerError, "server error")
		return
	}

	h.logIn(c, &user)
	c.JSON(http.StatusCreated, gin.H{"success": true, "user": user})
}

// Login verifies credentials and reconciles any votes the browser cast
// anonymously before authenticating.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", strings.TrimSpace(req.Email)).First(&user).Error; err != nil {
		jsonError(c, http.StatusUnauthorized, "wrong email or password")
		return
	}
	if !utils.CheckPasswordHash(req.Password, user.Password) {
		jsonError(c, http.StatusUnauthorized, "wrong email or password")
		return
	}

	voter := identity.Resolve(c)
	err := h.db.Transaction(func(tx *gorm.DB) error {
		return identity.Reconcile(tx, user.ID, voter.Token)
	})
	if err != nil {
		log.Printf("auth: reconciliation failed for user %d: %v", user.ID, err)
		jsonError(c, http.StatusInternalServerError, "server error")
		return
	}

	h.logIn(c, &user)
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// Logout drops the account from the session but keeps the voter token, so
// votes cast anonymously before login stay with the browser.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete(identity.UserKey)
	if err := session.Save(); err != nil {
		jsonError(c, http.StatusInternalServerError, "server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AuthHandler) logIn(c *gin.Context, user *models.User) {
	session := sessions.Default(c)
	session.Set(identity.UserKey, user.ID)
	if err := session.Save(); err != nil {
		log.Printf("auth: failed to save session: %v", err)
	}
}
