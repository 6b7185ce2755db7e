// Package server wires repositories, services and handlers into the HTTP router.
package server

import (
	"net/http"

	"github.com/circleone/member-directory/internal/config"
	"github.com/circleone/member-directory/internal/constants"
	"github.com/circleone/member-directory/internal/handlers"
	"github.com/circleone/member-directory/internal/logging"
	"github.com/circleone/member-directory/internal/media"
	"github.com/circleone/member-directory/internal/middleware"
	"github.com/circleone/member-directory/internal/oauth"
	"github.com/circleone/member-directory/internal/repository"
	"github.com/circleone/member-directory/internal/services"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Options are the collaborators the router needs. Images may be nil when
// uploads are not configured; Providers may be empty.
type Options struct {
	Config    *config.Config
	DB        *gorm.DB
	Log       logging.Logger
	Store     sessions.Store
	Images    media.Host
	Providers *oauth.Registry
}

// NewRouter builds the application's gin engine.
func NewRouter(opts Options) *gin.Engine {
	cfg := opts.Config

	// Repositories
	userRepo := repository.NewUserRepository(opts.DB)
	businessRepo := repository.NewBusinessRepository(opts.DB)
	profileRepo := repository.NewProfileRepository(opts.DB)

	// Services
	authService := services.NewAuthService(userRepo, opts.Log)
	identityService := services.NewIdentityService(userRepo, services.ParseLinkPolicy(cfg.OAuthLinkPolicy), opts.Log).
		AllowTestLogin(cfg.EnableTestLogin)
	accountService := services.NewAccountService(userRepo, businessRepo, profileRepo, opts.Images, opts.Log)
	businessService := services.NewBusinessService(businessRepo, opts.Images, opts.Log)
	profileService := services.NewProfileService(profileRepo, opts.Log)

	// Handlers
	homeHandler := handlers.NewHomeHandler(accountService, opts.Providers)
	authHandler := handlers.NewAuthHandler(authService, opts.Providers, identityService.TestLoginEnabled())
	oauthHandler := handlers.NewOAuthHandler(identityService, opts.Providers, oauth.NewStateSigner([]byte(cfg.SessionSecret)), opts.Log)
	accountHandler := handlers.NewAccountHandler(accountService)
	businessHandler := handlers.NewBusinessHandler(businessService)
	professionalHandler := handlers.NewProfessionalHandler(profileService)

	r := gin.New()
	r.MaxMultipartMemory = constants.MaxUploadBytes
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(opts.Log))
	r.Use(sessions.Sessions(constants.SessionCookieName, opts.Store))
	r.Use(middleware.LoadSession(userRepo, opts.Log))
	r.Use(middleware.CSRF(opts.Log))

	r.GET("/health", homeHandler.Health)
	r.GET("/", homeHandler.Index)

	// Auth routes (public)
	r.GET("/login", authHandler.LoginPage)
	r.POST("/login", authHandler.Login)
	r.GET("/signup", authHandler.SignupPage)
	r.POST("/signup", authHandler.Signup)
	auth := r.Group("/auth")
	{
		auth.GET("/test-login", oauthHandler.TestLogin)
		auth.POST("/test-login", oauthHandler.TestLogin)
		auth.GET("/:provider", oauthHandler.Start)
		auth.GET("/:provider/callback", oauthHandler.Callback)
	}

	// Directory routes (public)
	r.GET("/businesses", businessHandler.List)
	r.GET("/business/:id", businessHandler.Detail)
	r.GET("/professionals", professionalHandler.List)
	r.GET("/profile/:id", professionalHandler.Detail)

	// Account routes (protected)
	protected := r.Group("")
	protected.Use(middleware.RequireAuth())
	{
		protected.GET("/logout", authHandler.Logout)
		protected.GET("/profile", accountHandler.Profile)
	}

	dashboard := r.Group("/dashboard")
	dashboard.Use(middleware.RequireAuth())
	{
		dashboard.GET("", accountHandler.Dashboard)
		dashboard.POST("/account/delete", accountHandler.DeleteAccount)

		dashboard.GET("/business/new", businessHandler.NewForm)
		dashboard.POST("/business/new", businessHandler.Create)
		dashboard.GET("/business/edit/:id", businessHandler.EditForm)
		dashboard.POST("/business/edit/:id", businessHandler.Update)
		dashboard.POST("/business/delete/:id", businessHandler.Delete)

		dashboard.GET("/profile/edit", professionalHandler.EditForm)
		dashboard.POST("/profile/edit", professionalHandler.Save)
		dashboard.POST("/profile/delete", professionalHandler.Delete)
	}

	api := r.Group("/api")
	api.Use(middleware.RequireAuth())
	{
		api.GET("/me", accountHandler.Me)
		api.POST("/update-theme", accountHandler.UpdateTheme)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Page not found"})
	})

	return r
}
