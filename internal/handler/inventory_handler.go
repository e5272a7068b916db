package handler

import (
	"github.com/Pavel0504/crm-master-owl/internal/repository"
	"github.com/Pavel0504/crm-master-owl/internal/service"
	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	svc *service.InventoryService
}

func NewInventoryHandler(svc *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

func (h *InventoryHandler) List(c *gin.Context) {
	params := repository.InventoryListParams{
		Keyword:    c.Query("keyword"),
		CategoryID: c.Query("category_id"),
	}
	items, err := h.svc.List(GetUserID(c), params)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, items)
}

func (h *InventoryHandler) Create(c *gin.Context) {
	var req service.InventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "некорректное тело запроса: "+err.Error())
		return
	}
	item, err := h.svc.Create(GetUserID(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, item)
}

func (h *InventoryHandler) Get(c *gin.Context) {
	item, err := h.svc.Get(GetUserID(c), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, item)
}

func (h *InventoryHandler) Update(c *gin.Context) {
	var req service.InventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "некорректное тело запроса: "+err.Error())
		return
	}
	item, err := h.svc.Update(GetUserID(c), c.Param("id"), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, item)
}

func (h *InventoryHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(GetUserID(c), c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	Success(c, nil)
}

func (h *InventoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.svc.ListCategories(GetUserID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, categories)
}

func (h *InventoryHandler) CreateCategory(c *gin.Context) {
	var req service.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "некорректное тело запроса: "+err.Error())
		return
	}
	cat, err := h.svc.CreateCategory(GetUserID(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, cat)
}

func (h *InventoryHandler) UpdateCategory(c *gin.Context) {
	var req service.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "некорректное тело запроса: "+err.Error())
		return
	}
	cat, err := h.svc.UpdateCategory(GetUserID(c), c.Param("id"), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, cat)
}

func (h *InventoryHandler) DeleteCategory(c *gin.Context) {
	if err := h.svc.DeleteCategory(GetUserID(c), c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	Success(c, nil)
}
