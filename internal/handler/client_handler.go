package handler

import (
	"github.com/Pavel0504/crm-master-owl/internal/repository"
	"github.com/Pavel0504/crm-master-owl/internal/service"
	"github.com/gin-gonic/gin"
)

type ClientHandler struct {
	svc *service.ClientService
}

func NewClientHandler(svc *service.ClientService) *ClientHandler {
	return &ClientHandler{svc: svc}
}

func (h *ClientHandler) List(c *gin.Context) {
	params := repository.ClientListParams{
		Keyword: c.Query("keyword"),
		Tag:     c.Query("tag"),
	}
	clients, err := h.svc.List(GetUserID(c), params)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, clients)
}

func (h *ClientHandler) Create(c *gin.Context) {
	var req service.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "некорректное тело запроса: "+err.Error())
		return
	}
	client, err := h.svc.Create(GetUserID(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, client)
}

func (h *ClientHandler) Get(c *gin.Context) {
	client, err := h.svc.Get(GetUserID(c), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, client)
}

// Stats returns the order count and lifetime total for one client.
func (h *ClientHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(GetUserID(c), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, stats)
}

func (h *ClientHandler) Update(c *gin.Context) {
	var req service.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "некорректное тело запроса: "+err.Error())
		return
	}
	client, err := h.svc.Update(GetUserID(c), c.Param("id"), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, client)
}

func (h *ClientHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(GetUserID(c), c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	Success(c, nil)
}
