package controller

import (
	"net/http"

	"blogapi/web/middleware"
	"blogapi/web/service"

	"github.com/gin-gonic/gin"
)

// VerificationController exposes the verification request workflow.
type VerificationController struct {
	verificationService *service.VerificationService
}

func NewVerificationController(g *gin.RouterGroup, verificationService *service.VerificationService) *VerificationController {
	v := &VerificationController{verificationService: verificationService}

	g.POST("/verification_requests", middleware.AuthRequired(), v.create)
	g.GET("/verification_requests", middleware.RequireAdmin(), v.list)
	g.GET("/verification_requests/:id", middleware.AuthRequired(), v.get)
	g.PUT("/verification_requests/:id", middleware.AuthRequired(), v.update)

	return v
}

type createRequestForm struct {
	PidImage string `json:"pidImage" binding:"required"`
}

func (v *VerificationController) create(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	hasOpen, err := v.verificationService.HasOpenRequest(actor.Id)
	if err != nil {
		jsonErr(c, err)
		return
	}
	if !service.CanRequestVerification(actor, hasOpen) {
		forbidden(c)
		return
	}

	var form createRequestForm
	if err := c.ShouldBindJSON(&form); err != nil {
		jsonMsg(c, http.StatusBadRequest, "pidImage is required")
		return
	}

	req, err := v.verificationService.CreateRequest(actor, form.PidImage)
	if err != nil {
		jsonErr(c, err)
		return
	}
	jsonObj(c, http.StatusCreated, req)
}

func (v *VerificationController) list(c *gin.Context) {
	filters := service.ListFilters{
		Status:         c.Query("status"),
		OwnerEmail:     c.Query("owner.email"),
		OwnerFirstName: c.Query("owner.firstName"),
		OwnerLastName:  c.Query("owner.lastName"),
		Order:          c.Query("order"),
	}

	requests, err := v.verificationService.ListRequests(filters)
	if err != nil {
		jsonErr(c, err)
		return
	}
	jsonObj(c, http.StatusOK, requests)
}

func (v *VerificationController) get(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}

	req, err := v.verificationService.GetRequest(id)
	if err != nil {
		jsonErr(c, err)
		return
	}
	if !service.CanViewVerificationRequest(middleware.CurrentUser(c), req) {
		forbidden(c)
		return
	}
	jsonObj(c, http.StatusOK, req)
}

func (v *VerificationController) update(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}

	actor := middleware.CurrentUser(c)
	req, err := v.verificationService.GetRequest(id)
	if err != nil {
		jsonErr(c, err)
		return
	}
	if !service.CanEditVerificationRequest(actor, req) {
		forbidden(c)
		return
	}

	var upd service.VerificationUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		jsonMsg(c, http.StatusBadRequest, "invalid payload")
		return
	}

	updated, err := v.verificationService.UpdateRequest(actor, req, upd)
	if err != nil {
		jsonErr(c, err)
		return
	}
	jsonObj(c, http.StatusOK, updated)
}
