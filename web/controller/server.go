package controller

import (
	"net/http"
	"strconv"

	"blogapi/logger"
	"blogapi/web/middleware"

	"github.com/gin-gonic/gin"
)

// ServerController exposes admin-only diagnostics.
type ServerController struct{}

func NewServerController(g *gin.RouterGroup) *ServerController {
	s := &ServerController{}
	g.GET("/logs", middleware.RequireAdmin(), s.logs)
	return s
}

func (s *ServerController) logs(c *gin.Context) {
	count, err := strconv.Atoi(c.DefaultQuery("count", "50"))
	if err != nil || count <= 0 {
		jsonMsg(c, http.StatusBadRequest, "invalid count")
		return
	}
	level := c.DefaultQuery("level", "INFO")

	jsonObj(c, http.StatusOK, logger.GetLogs(count, level))
}
