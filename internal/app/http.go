package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/flowfocus/internal/config"
	"github.com/adanyl0v/flowfocus/internal/delivery/http/v1"
	"github.com/adanyl0v/flowfocus/internal/services"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(requestLogger(globalLogger))
	router.Use(gin.Recovery())
	registerRoutes(router, newHandler())

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// kill -9 can't be caught, so only SIGINT and SIGTERM
	// trigger the graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func newHandler() v1.Handler {
	jwtCfg := config.Global().JWT
	return v1.New(
		globalLogger,
		services.NewAuthService(
			globalLogger,
			globalPostgresPool,
			jwtCfg.Issuer,
			[]byte(jwtCfg.SigningKey),
			jwtCfg.AccessTokenTTL,
			jwtCfg.RefreshTokenTTL,
		),
		services.NewSessionService(globalLogger, globalPostgresPool),
		services.NewCategoryService(globalLogger, globalPostgresPool),
		services.NewTaskService(globalLogger, globalPostgresPool),
		services.NewProfileService(globalLogger, globalPostgresPool),
	)
}

func registerRoutes(router gin.IRouter, h v1.Handler) {
	router = router.Group("/api/v1")

	authRouter := router.Group("/auth")
	authRouter.POST("/login", h.HandleLogin)
	authRouter.POST("/refresh", h.HandleRefresh)
	authRouter.POST("/register", h.HandleRegister)
	authRouter.POST("/logout", h.HandleAuthMiddleware, h.HandleLogout)
	authRouter.GET("/session", h.HandleAuthMiddleware, h.HandleGetSession)

	protected := router.Group("", h.HandleAuthMiddleware)

	categoriesRouter := protected.Group("/categories")
	categoriesRouter.GET("", h.HandleGetCategories)
	categoriesRouter.POST("", h.HandleCreateCategory)
	categoriesRouter.DELETE("/:id", h.HandleDeleteCategory)

	tasksRouter := protected.Group("/tasks")
	tasksRouter.GET("", h.HandleGetTasks)
	tasksRouter.POST("", h.HandleCreateTask)
	tasksRouter.PATCH("/:id", h.HandleUpdateTask)
	tasksRouter.PATCH("/:id/status", h.HandleSetTaskStatus)
	tasksRouter.DELETE("/:id", h.HandleDeleteTask)

	profileRouter := protected.Group("/profile")
	profileRouter.GET("", h.HandleGetProfile)
	profileRouter.PATCH("", h.HandleUpdateProfile)
}
