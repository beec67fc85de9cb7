package router

import (
	"argot/internal/config"
	"argot/internal/handlers"
	"argot/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup wires middleware, handlers and routes onto a gin engine.
func Setup(db *gorm.DB, cfg config.Config) *gin.Engine {
	r := gin.Default()

	// The session cookie carries both the logged-in user id and the
	// anonymous voter token; the store's HMAC makes it tamper-evident.
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(config.VoterCookieAge.Seconds()),
		HttpOnly: true,
	})
	r.Use(sessions.Sessions("argot_session", store))

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = cfg.CORSOrigins
	corsCfg.AllowCredentials = true
	r.Use(cors.New(corsCfg))

	r.Use(middleware.LoadUser(db))

	authHandler := handlers.NewAuthHandler(db)
	wordHandler := handlers.NewWordHandler(db)
	commentHandler := handlers.NewCommentHandler(db)
	voteHandler := handlers.NewVoteHandler(db)
	adminHandler := handlers.NewAdminHandler(db)

	// Public API
	r.GET("/api/words", wordHandler.List)
	r.POST("/api/words", wordHandler.Create)
	r.GET("/api/words/:id/comments", commentHandler.List)
	r.POST("/api/words/:id/comments", commentHandler.Create)
	r.POST("/vote/:kind/:id", voteHandler.Toggle)

	// Auth
	r.POST("/auth/register", authHandler.Register)
	r.POST("/auth/login", authHandler.Login)
	r.POST("/auth/logout", authHandler.Logout)

	// Moderation
	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
	{
		admin.GET("/words/pending", adminHandler.Pending)
		admin.POST("/words/:id/approve", adminHandler.Approve)
		admin.DELETE("/words/:id", adminHandler.DeleteWord)
		admin.DELETE("/comments/:id", adminHandler.DeleteComment)
	}

	return r
}
