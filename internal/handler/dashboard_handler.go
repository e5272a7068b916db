package handler

import (
	"time"

	"github.com/Pavel0504/crm-master-owl/internal/export"
	"github.com/Pavel0504/crm-master-owl/internal/service"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	svc *service.DashboardService
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) periodParams(c *gin.Context) (service.PeriodParams, error) {
	params := service.PeriodParams{GroupBy: c.Query("group_by")}
	from, err := QueryDate(c, "from")
	if err != nil {
		return params, err
	}
	to, err := QueryDate(c, "to")
	if err != nil {
		return params, err
	}
	params.From = from
	params.To = to
	return params, nil
}

func (h *DashboardHandler) Sales(c *gin.Context) {
	params, err := h.periodParams(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	series, err := h.svc.Sales(c.Request.Context(), GetUserID(c), params)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, series)
}

func (h *DashboardHandler) Expenses(c *gin.Context) {
	params, err := h.periodParams(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	series, err := h.svc.Expenses(c.Request.Context(), GetUserID(c), params)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, series)
}

func (h *DashboardHandler) MaterialExpenses(c *gin.Context) {
	params, err := h.periodParams(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	breakdown, err := h.svc.MaterialExpenses(c.Request.Context(), GetUserID(c), params)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, breakdown)
}

func (h *DashboardHandler) Profit(c *gin.Context) {
	params, err := h.periodParams(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	series, err := h.svc.Profit(c.Request.Context(), GetUserID(c), params)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, series)
}

// Export streams the profit summary as an xlsx attachment.
func (h *DashboardHandler) Export(c *gin.Context) {
	params, err := h.periodParams(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	series, err := h.svc.Profit(c.Request.Context(), GetUserID(c), params)
	if err != nil {
		HandleError(c, err)
		return
	}
	f, err := export.Dashboard(series)
	if err != nil {
		InternalError(c, "формирование файла: "+err.Error())
		return
	}
	defer f.Close()

	filename := "dashboard_" + time.Now().Format("2006-01-02") + ".xlsx"
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "запись файла: "+err.Error())
	}
}
