package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/flowfocus/internal/api"
	"github.com/adanyl0v/flowfocus/internal/models"
	"github.com/adanyl0v/flowfocus/internal/services"
)

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	var req api.CreateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.CreateTask(c, services.CreateTaskParams{
		UserID:      userID,
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create task")
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, api.NewTaskResponse(task))
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	params := services.GetTasksParams{UserID: userID}
	if status := c.Query("status"); status != "" && status != "all" {
		params.Status = &status
	}
	if categoryID := c.Query("category_id"); categoryID != "" && categoryID != "all" {
		params.CategoryID = &categoryID
	}

	tasks, err := h.tasks.GetTasks(c, params)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get tasks")
		abortWithServiceError(c, err)
		return
	}
	h.logger.Debug().
		Int("count", len(tasks)).
		Msg("fetched tasks")

	response := make([]api.TaskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = api.NewTaskResponse(task)
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	var req api.UpdateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	h.updateTask(c, userID, req.Patch())
}

// HandleSetTaskStatus is the status-only shortcut of HandleUpdateTask.
func (h *handlerImpl) HandleSetTaskStatus(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	status := c.Query("status")
	if !models.IsValidStatus(status) {
		h.logger.Error().
			Str("status", status).
			Msg("invalid status")
		abort(c, newBadRequestError(services.ErrInvalidTaskStatus.Error()))
		return
	}

	h.updateTask(c, userID, models.TaskPatch{Status: &status})
}

func (h *handlerImpl) updateTask(c *gin.Context, userID string, patch models.TaskPatch) {
	taskID := c.Param("id")
	if taskID == "" {
		h.logger.Error().Msg("no task id provided")
		abort(c, newBadRequestError(errMissingID.Error()))
		return
	}

	task, err := h.tasks.UpdateTask(c, services.UpdateTaskParams{
		ID:     taskID,
		UserID: userID,
		Patch:  patch,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to update task")
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.NewTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	taskID := c.Param("id")
	if taskID == "" {
		h.logger.Error().Msg("no task id provided")
		abort(c, newBadRequestError(errMissingID.Error()))
		return
	}

	err := h.tasks.DeleteTask(c, services.DeleteTaskParams{
		ID:     taskID,
		UserID: userID,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to delete task")
		abortWithServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
