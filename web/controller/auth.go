package controller

import (
	"net/http"

	"blogapi/web/middleware"
	"blogapi/web/service"
	"blogapi/web/session"

	"github.com/gin-gonic/gin"
)

// AuthController handles login and logout.
type AuthController struct {
	authService *service.AuthService
}

func NewAuthController(g *gin.RouterGroup, authService *service.AuthService) *AuthController {
	a := &AuthController{authService: authService}
	g.POST("/login", a.login)
	g.POST("/logout", middleware.AuthRequired(), a.logout)
	return a
}

type loginForm struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (a *AuthController) login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBindJSON(&form); err != nil {
		jsonMsg(c, http.StatusBadRequest, "email and password are required")
		return
	}

	token, user, err := a.authService.Login(form.Email, form.Password)
	if err != nil {
		jsonErr(c, err)
		return
	}

	if err := session.SetLoginUser(c, user); err != nil {
		jsonErr(c, err)
		return
	}

	jsonObj(c, http.StatusOK, gin.H{"token": token, "user": user})
}

func (a *AuthController) logout(c *gin.Context) {
	if err := session.ClearSession(c); err != nil {
		jsonErr(c, err)
		return
	}
	jsonObj(c, http.StatusOK, nil)
}
