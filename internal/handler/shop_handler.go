package handler

import (
	"github.com/Pavel0504/crm-master-owl/internal/service"
	"github.com/gin-gonic/gin"
)

type ShopHandler struct {
	svc *service.ShopService
}

func NewShopHandler(svc *service.ShopService) *ShopHandler {
	return &ShopHandler{svc: svc}
}

func (h *ShopHandler) Get(c *gin.Context) {
	shop, err := h.svc.Get(GetUserID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, shop)
}

// Save creates or replaces the owner's workshop profile.
func (h *ShopHandler) Save(c *gin.Context) {
	var req service.ShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "некорректное тело запроса: "+err.Error())
		return
	}
	shop, err := h.svc.Save(GetUserID(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, shop)
}
