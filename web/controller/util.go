package controller

import (
	"errors"
	"net/http"
	"strconv"

	"blogapi/database"
	"blogapi/logger"
	"blogapi/web/entity"
	"blogapi/web/service"

	"github.com/gin-gonic/gin"
)

// jsonObj sends a success envelope with the given status code and payload.
func jsonObj(c *gin.Context, statusCode int, obj any) {
	c.JSON(statusCode, entity.Msg{Success: true, Obj: obj})
}

// jsonMsg sends a failure envelope with the given status code and message.
func jsonMsg(c *gin.Context, statusCode int, msg string) {
	c.JSON(statusCode, entity.Msg{Success: false, Msg: msg})
}

// jsonErr maps a service error onto the HTTP status taxonomy: validation
// 400, unknown id 404, conflicts 409, bad credentials 401, anything else 500.
func jsonErr(c *gin.Context, err error) {
	switch {
	case service.IsValidation(err):
		jsonMsg(c, http.StatusBadRequest, err.Error())
	case database.IsNotFound(err):
		jsonMsg(c, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrOpenRequestExists):
		jsonMsg(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		jsonMsg(c, http.StatusUnauthorized, err.Error())
	default:
		logger.Error("request failed:", err)
		jsonMsg(c, http.StatusInternalServerError, "internal error")
	}
}

// forbidden reports a denied policy decision.
func forbidden(c *gin.Context) {
	jsonMsg(c, http.StatusForbidden, "access denied")
}

// pathId parses the numeric :id path parameter.
func pathId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		jsonMsg(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
