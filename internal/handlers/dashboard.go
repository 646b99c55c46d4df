package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      Dashboard
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  errorResponse
// @Router       /dashboard [get]
// @Security     BearerAuth
func (h *Handler) dashboard(c *gin.Context) {
	uid, _ := callerID(c)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": msgDashboard,
		"data":    gin.H{"user_id": uid},
	})
}
