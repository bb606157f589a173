package controllers

import (
	"net/http"
	"time"

	"go-marketplace/models"
	"go-marketplace/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Secret string
	Expiry time.Duration
}

// @Summary Issue device token
// @Description Issue a bearer token for a device. Only available when device auth is enabled
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.DeviceTokenRequest true "Device"
// @Success 201 {object} models.Response{data=models.DeviceTokenResponse}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /auth/device [post]
func (ctrl *AuthController) IssueDeviceToken(c *gin.Context) {
	if ctrl.Secret == "" {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Success: false, Message: "Device auth is disabled"})
		return
	}

	var req models.DeviceTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Message: "Invalid request",
			Error:   err.Error(),
		})
		return
	}

	token, expiresAt, err := utils.GenerateToken(ctrl.Secret, req.DeviceID, ctrl.Expiry)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Message: "Failed to issue token",
			Error:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Device token issued",
		Data:    models.DeviceTokenResponse{Token: token, ExpiresAt: expiresAt.Unix()},
	})
}
