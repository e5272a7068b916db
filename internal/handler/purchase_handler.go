package handler

import (
	"github.com/Pavel0504/crm-master-owl/internal/service"
	"github.com/gin-gonic/gin"
)

type PurchaseHandler struct {
	svc *service.PurchaseService
}

func NewPurchaseHandler(svc *service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{svc: svc}
}

func (h *PurchaseHandler) List(c *gin.Context) {
	plans, err := h.svc.List(GetUserID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, plans)
}

func (h *PurchaseHandler) Create(c *gin.Context) {
	var req service.PurchasePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "некорректное тело запроса: "+err.Error())
		return
	}
	plan, err := h.svc.Create(GetUserID(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, plan)
}

type fromMaterialRequest struct {
	MaterialID string `json:"material_id" binding:"required"`
}

// CreateFromMaterial seeds a plan from a low-stock material.
func (h *PurchaseHandler) CreateFromMaterial(c *gin.Context) {
	var req fromMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "некорректное тело запроса: "+err.Error())
		return
	}
	plan, err := h.svc.CreateFromMaterial(GetUserID(c), req.MaterialID)
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, plan)
}

func (h *PurchaseHandler) Get(c *gin.Context) {
	plan, err := h.svc.Get(GetUserID(c), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, plan)
}

func (h *PurchaseHandler) Update(c *gin.Context) {
	var req service.PurchasePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "некорректное тело запроса: "+err.Error())
		return
	}
	plan, err := h.svc.Update(GetUserID(c), c.Param("id"), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, plan)
}

func (h *PurchaseHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(GetUserID(c), c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	Success(c, nil)
}
