package handler

import (
	"strconv"

	"github.com/Pavel0504/crm-master-owl/internal/repository"
	"github.com/Pavel0504/crm-master-owl/internal/service"
	"github.com/gin-gonic/gin"
)

type MaterialHandler struct {
	svc *service.MaterialService
}

func NewMaterialHandler(svc *service.MaterialService) *MaterialHandler {
	return &MaterialHandler{svc: svc}
}

func (h *MaterialHandler) List(c *gin.Context) {
	params := repository.MaterialListParams{
		Keyword:    c.Query("keyword"),
		CategoryID: c.Query("category_id"),
	}
	if raw := c.Query("archived"); raw != "" {
		archived, err := strconv.ParseBool(raw)
		if err != nil {
			BadRequest(c, "archived: ожидается true или false")
			return
		}
		params.Archived = &archived
	}
	materials, err := h.svc.List(GetUserID(c), params)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, materials)
}

func (h *MaterialHandler) Create(c *gin.Context) {
	var req service.MaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "некорректное тело запроса: "+err.Error())
		return
	}
	m, err := h.svc.Create(GetUserID(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, m)
}

func (h *MaterialHandler) Get(c *gin.Context) {
	m, err := h.svc.Get(GetUserID(c), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, m)
}

func (h *MaterialHandler) Update(c *gin.Context) {
	var req service.MaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "некорректное тело запроса: "+err.Error())
		return
	}
	m, err := h.svc.Update(GetUserID(c), c.Param("id"), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, m)
}

type archiveRequest struct {
	Archived bool `json:"archived"`
}

// Archive moves a material in or out of the archive. Archived materials
// drop out of low stock alerts.
func (h *MaterialHandler) Archive(c *gin.Context) {
	var req archiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "некорректное тело запроса: "+err.Error())
		return
	}
	m, err := h.svc.SetArchived(GetUserID(c), c.Param("id"), req.Archived)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, m)
}

func (h *MaterialHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(GetUserID(c), c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	Success(c, nil)
}

func (h *MaterialHandler) ListCategories(c *gin.Context) {
	categories, err := h.svc.ListCategories(GetUserID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, categories)
}

func (h *MaterialHandler) CreateCategory(c *gin.Context) {
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

func (h *MaterialHandler) UpdateCategory(c *gin.Context) {
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

func (h *MaterialHandler) DeleteCategory(c *gin.Context) {
	if err := h.svc.DeleteCategory(GetUserID(c), c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	Success(c, nil)
}
