package router

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
	"inkwell/internal/services"
	"inkwell/internal/store"
	"inkwell/internal/utils"
)

// Deps carries everything the handlers need; routes receive explicit
// dependencies rather than reaching for globals.
type Deps struct {
	Identity      *store.IdentityStore
	Content       *store.ContentStore
	Subscriptions *store.SubscriptionStore
	Uploader      *services.Uploader
	Cache         *utils.Cache
	OAuth         *oauth2.Config
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	authHandler := handlers.NewAuthHandler(deps.Identity, deps.OAuth)
	blogHandler := handlers.NewBlogHandler(deps.Content, deps.Cache)
	adminHandler := handlers.NewAdminHandler(deps.Content, deps.Uploader, deps.Cache)
	userHandler := handlers.NewUserHandler(deps.Identity, deps.Uploader)
	newsletterHandler := handlers.NewNewsletterHandler(deps.Subscriptions)

	// Public routes
	r.GET("/", blogHandler.List)
	r.GET("/post/:id", blogHandler.Detail)

	r.GET("/signup", authHandler.ShowRegister)
	r.POST("/signup", authHandler.Register)
	r.GET("/login", authHandler.ShowLogin)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)
	r.GET("/auth/google", authHandler.GoogleLogin)
	r.GET("/auth/google/callback", authHandler.GoogleCallback)

	r.POST("/subscribe", newsletterHandler.Subscribe)

	// Routes that need a logged-in caller
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.POST("/post/:id/like", blogHandler.Like)
		authorized.POST("/post/:id/dislike", blogHandler.Dislike)
		authorized.POST("/post/:id/comment", blogHandler.CreateComment)

		authorized.GET("/settings", userHandler.ShowSettings)
		authorized.POST("/settings", userHandler.UpdateSettings)
	}

	// Admin dashboard; the policy re-checks the role inside every handler
	dashboard := r.Group("/dashboard")
	dashboard.Use(middleware.AuthRequired())
	{
		dashboard.GET("", adminHandler.Dashboard)
		dashboard.GET("/new", adminHandler.ShowCreate)
		dashboard.POST("/new", adminHandler.Create)
		dashboard.GET("/:id/edit", adminHandler.ShowEdit)
		dashboard.POST("/:id/edit", adminHandler.Update)
		dashboard.POST("/:id/delete", adminHandler.Delete)
	}
}
