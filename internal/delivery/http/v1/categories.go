package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/flowfocus/internal/api"
	"github.com/adanyl0v/flowfocus/internal/services"
)

func (h *handlerImpl) HandleGetCategories(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	categories, err := h.categories.ListCategories(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list categories")
		abortWithServiceError(c, err)
		return
	}

	response := make([]api.CategoryResponse, len(categories))
	for i, category := range categories {
		response[i] = api.NewCategoryResponse(category)
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleCreateCategory(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	var req api.CreateCategoryRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	category, err := h.categories.CreateCategory(c, services.CreateCategoryParams{
		UserID: userID,
		Name:   req.Name,
		Color:  req.Color,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create category")
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, api.NewCategoryResponse(category))
}

func (h *handlerImpl) HandleDeleteCategory(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	categoryID := c.Param("id")
	if categoryID == "" {
		abort(c, newBadRequestError(errMissingID.Error()))
		return
	}

	err := h.categories.DeleteCategory(c, services.DeleteCategoryParams{
		ID:     categoryID,
		UserID: userID,
	})
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("category_id", categoryID).
			Msg("failed to delete category")
		abortWithServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
