package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/flowfocus/internal/services"
)

type Handler interface {
	HandleLogin(c *gin.Context)
	HandleRefresh(c *gin.Context)
	HandleRegister(c *gin.Context)
	HandleLogout(c *gin.Context)
	HandleGetSession(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleGetCategories(c *gin.Context)
	HandleCreateCategory(c *gin.Context)
	HandleDeleteCategory(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleGetTasks(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleSetTaskStatus(c *gin.Context)
	HandleDeleteTask(c *gin.Context)

	HandleGetProfile(c *gin.Context)
	HandleUpdateProfile(c *gin.Context)
}

type handlerImpl struct {
	logger     zerolog.Logger
	auth       services.AuthService
	sessions   services.SessionService
	categories services.CategoryService
	tasks      services.TaskService
	profiles   services.ProfileService
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	sessionService services.SessionService,
	categoryService services.CategoryService,
	taskService services.TaskService,
	profileService services.ProfileService,
) Handler {
	return &handlerImpl{
		logger:     logger,
		auth:       authService,
		sessions:   sessionService,
		categories: categoryService,
		tasks:      taskService,
		profiles:   profileService,
	}
}
