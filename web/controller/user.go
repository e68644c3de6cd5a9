package controller

import (
	"net/http"

	"blogapi/web/middleware"
	"blogapi/web/service"

	"github.com/gin-gonic/gin"
)

// UserController exposes registration, profiles and account updates.
type UserController struct {
	userService *service.UserService
}

func NewUserController(g *gin.RouterGroup, userService *service.UserService) *UserController {
	u := &UserController{userService: userService}

	g.POST("/users", u.register)
	g.GET("/users", middleware.RequireAdmin(), u.list)
	g.GET("/users/:id", u.get)
	g.PUT("/users/:id", middleware.AuthRequired(), u.update)

	return u
}

type registerForm struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
}

func (u *UserController) register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBindJSON(&form); err != nil {
		jsonMsg(c, http.StatusBadRequest, "email, password, firstName and lastName are required")
		return
	}

	user, err := u.userService.Register(form.Email, form.Password, form.FirstName, form.LastName)
	if err != nil {
		jsonErr(c, err)
		return
	}
	jsonObj(c, http.StatusCreated, user)
}

func (u *UserController) list(c *gin.Context) {
	users, err := u.userService.ListUsers()
	if err != nil {
		jsonErr(c, err)
		return
	}
	jsonObj(c, http.StatusOK, users)
}

func (u *UserController) get(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	user, err := u.userService.GetUser(id)
	if err != nil {
		jsonErr(c, err)
		return
	}
	jsonObj(c, http.StatusOK, user)
}

func (u *UserController) update(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}

	actor := middleware.CurrentUser(c)
	target, err := u.userService.GetUser(id)
	if err != nil {
		jsonErr(c, err)
		return
	}
	if !service.CanEditUser(actor, target) {
		forbidden(c)
		return
	}

	var upd service.UserUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		jsonMsg(c, http.StatusBadRequest, "invalid payload")
		return
	}

	user, err := u.userService.UpdateUser(actor, id, upd)
	if err != nil {
		jsonErr(c, err)
		return
	}
	jsonObj(c, http.StatusOK, user)
}
