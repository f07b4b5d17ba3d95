package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HomeHandler struct{}

func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// Health reports process liveness.
func (h *HomeHandler) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
