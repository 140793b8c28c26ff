package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type RootHandler struct {
	serviceName string
	version     string
}

func NewRootHandler(serviceName, version string) *RootHandler {
	return &RootHandler{serviceName: serviceName, version: version}
}

// Banner is the unauthenticated service descriptor at /api/.
func (h *RootHandler) Banner(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": h.serviceName,
		"version": h.version,
	})
}

// GenerateContent is the AI copywriting endpoint. No model integration is
// configured in this deployment, so callers get a 501.
func (h *RootHandler) GenerateContent(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{
		"detail": "AI content generation is not configured on this server",
	})
}
