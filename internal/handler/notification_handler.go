package handler

import (
	"github.com/Pavel0504/crm-master-owl/internal/service"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	svc *service.AlertService
}

func NewNotificationHandler(svc *service.AlertService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// List runs all scans for the owner and returns the current alerts.
func (h *NotificationHandler) List(c *gin.Context) {
	alerts, err := h.svc.Scan(GetUserID(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	if alerts == nil {
		alerts = []service.Alert{}
	}
	Success(c, alerts)
}
