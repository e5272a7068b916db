package handler

import (
	"time"

	"github.com/Pavel0504/crm-master-owl/internal/export"
	"github.com/Pavel0504/crm-master-owl/internal/repository"
	"github.com/Pavel0504/crm-master-owl/internal/service"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	svc *service.OrderService
}

func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

func (h *OrderHandler) listParams(c *gin.Context) (repository.OrderListParams, error) {
	params := repository.OrderListParams{
		Status:   c.Query("status"),
		ClientID: c.Query("client_id"),
	}
	from, err := QueryDate(c, "from")
	if err != nil {
		return params, err
	}
	to, err := QueryDate(c, "to")
	if err != nil {
		return params, err
	}
	params.DateFrom = from
	params.DateTo = to
	return params, nil
}

func (h *OrderHandler) List(c *gin.Context) {
	params, err := h.listParams(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	orders, err := h.svc.List(GetUserID(c), params)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, orders)
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "некорректное тело запроса: "+err.Error())
		return
	}
	order, err := h.svc.Create(GetUserID(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, order)
}

func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.svc.Get(GetUserID(c), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, order)
}

func (h *OrderHandler) Update(c *gin.Context) {
	var req service.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "некорректное тело запроса: "+err.Error())
		return
	}
	order, err := h.svc.Update(GetUserID(c), c.Param("id"), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, order)
}

func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(GetUserID(c), c.Param("id")); err != nil {
		HandleError(c, err)
		return
	}
	Success(c, nil)
}

// Export streams the filtered order list as an xlsx attachment.
func (h *OrderHandler) Export(c *gin.Context) {
	params, err := h.listParams(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	orders, err := h.svc.List(GetUserID(c), params)
	if err != nil {
		HandleError(c, err)
		return
	}
	f, err := export.Orders(orders)
	if err != nil {
		InternalError(c, "формирование файла: "+err.Error())
		return
	}
	defer f.Close()

	filename := "orders_" + time.Now().Format("2006-01-02") + ".xlsx"
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "запись файла: "+err.Error())
	}
}
