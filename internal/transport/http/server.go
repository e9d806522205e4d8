package http

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appsvc "warbler/internal/app"
	"warbler/internal/bootstrap"
	"warbler/internal/repository"
	"warbler/internal/transport/http/handler"
	"warbler/internal/transport/http/middleware"
	"warbler/internal/transport/http/session"
	"warbler/web"
)

func NewRouter(app *bootstrap.App) (*gin.Engine, error) {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(middleware.RequestLogger(app.Logger), gin.Recovery(), middleware.NoStore())

	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("load templates failed: %w", err)
	}
	router.HTMLRender = renderer

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.StaticFS("/static", web.Static())

	userRepo := repository.NewUserRepository(app.DB)
	followRepo := repository.NewFollowRepository(app.DB)
	likeRepo := repository.NewLikeRepository(app.DB)
	messageRepo := repository.NewMessageRepository(app.DB)

	activity := appsvc.NewActivityRecorder(app.Publisher, app.Logger)
	authService := appsvc.NewAuthService(userRepo, app.Config.Auth.BcryptCost, activity)
	socialService := appsvc.NewSocialService(userRepo, followRepo, likeRepo, messageRepo, activity)
	messageService := appsvc.NewMessageService(messageRepo, followRepo, activity)

	sessions := session.NewManager(session.Options{
		Secret:     app.Config.Auth.SecretKey,
		CookieName: app.Config.Auth.SessionCookie,
		TTL:        time.Duration(app.Config.Auth.SessionExpireMinute) * time.Minute,
		Secure:     app.Config.Auth.SecureCookie,
	}, app.Flashes, app.Logger)

	authHandler := handler.NewAuthHandler(authService, sessions, app.Logger)
	userHandler := handler.NewUserHandler(authService, socialService, sessions, app.Logger)
	messageHandler := handler.NewMessageHandler(messageService, socialService, sessions, app.Logger)
	homeHandler := handler.NewHomeHandler(messageService, socialService, sessions, app.Logger)

	site := router.Group("/")
	site.Use(middleware.LoadSession(sessions, authService, app.Logger))
	site.GET("/", homeHandler.Home)
	site.GET("/signup", authHandler.SignupForm)
	site.POST("/signup", authHandler.Signup)
	site.GET("/login", authHandler.LoginForm)
	site.POST("/login", authHandler.Login)

	gated := site.Group("/")
	gated.Use(middleware.RequireUser(sessions))
	gated.POST("/logout", authHandler.Logout)

	users := gated.Group("/users")
	users.GET("", userHandler.Index)
	users.GET("/profile", userHandler.ProfileForm)
	users.POST("/profile", userHandler.UpdateProfile)
	users.POST("/delete", userHandler.Delete)
	users.POST("/follow/:id", userHandler.Follow)
	users.POST("/stop-following/:id", userHandler.StopFollowing)
	users.GET("/:id", userHandler.Show)
	users.GET("/:id/following", userHandler.Following)
	users.GET("/:id/followers", userHandler.Followers)
	users.GET("/:id/likes", userHandler.Likes)

	messages := gated.Group("/messages")
	messages.GET("/new", messageHandler.NewForm)
	messages.POST("/new", messageHandler.Create)
	messages.POST("/likes/:id", messageHandler.Like)
	messages.POST("/unlikes/:id", messageHandler.Unlike)
	messages.GET("/:id", messageHandler.Show)
	messages.POST("/:id/delete", messageHandler.Delete)

	router.NoRoute(middleware.LoadSession(sessions, authService, app.Logger), homeHandler.NotFound)

	return router, nil
}
