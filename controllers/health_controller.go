package controllers

import (
	"context"
	"net/http"
	"time"

	"go-marketplace/models"
	"go-marketplace/repositories"
	"go-marketplace/services"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	Storage repositories.Storage
	Store   *services.CartStore
}

// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Failure 503 {object} models.HealthResponse
// @Router /health [get]
func (ctrl *HealthController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := models.HealthResponse{Status: "ok", Storage: "ok", Persistence: ctrl.Store.Status()}
	if err := ctrl.Storage.Ping(ctx); err != nil {
		resp.Status = "degraded"
		resp.Storage = err.Error()
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
