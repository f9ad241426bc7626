package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/flowfocus/internal/api"
	"github.com/adanyl0v/flowfocus/internal/services"
)

func (h *handlerImpl) HandleGetProfile(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	profile, err := h.profiles.GetProfile(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get profile")
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.NewProfileResponse(profile.User, profile.Stats))
}

func (h *handlerImpl) HandleUpdateProfile(c *gin.Context) {
	userID, ok := h.mustUserID(c)
	if !ok {
		return
	}

	var req api.UpdateProfileRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	_, err = h.profiles.UpdateProfile(c, services.UpdateProfileParams{
		UserID: userID,
		Name:   req.Name,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to update profile")
		abortWithServiceError(c, err)
		return
	}

	// Stats come back with the profile so clients refresh in one call.
	profile, err := h.profiles.GetProfile(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get profile")
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.NewProfileResponse(profile.User, profile.Stats))
}
