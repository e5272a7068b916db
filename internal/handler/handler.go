package handler

import (
	"errors"
	"time"

	"github.com/Pavel0504/crm-master-owl/internal/apperr"
	"github.com/Pavel0504/crm-master-owl/internal/service"
	"github.com/gin-gonic/gin"
)

// Handlers is the full handler set registered on the router.
type Handlers struct {
	Auth         *AuthHandler
	Shop         *ShopHandler
	Material     *MaterialHandler
	Inventory    *InventoryHandler
	Product      *ProductHandler
	Order        *OrderHandler
	Client       *ClientHandler
	Supplier     *SupplierHandler
	Purchase     *PurchaseHandler
	Task         *TaskHandler
	Dashboard    *DashboardHandler
	Notification *NotificationHandler
}

func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(svc.Auth),
		Shop:         NewShopHandler(svc.Shop),
		Material:     NewMaterialHandler(svc.Material),
		Inventory:    NewInventoryHandler(svc.Inventory),
		Product:      NewProductHandler(svc.Product),
		Order:        NewOrderHandler(svc.Order),
		Client:       NewClientHandler(svc.Client),
		Supplier:     NewSupplierHandler(svc.Supplier),
		Purchase:     NewPurchaseHandler(svc.Purchase),
		Task:         NewTaskHandler(svc.Task),
		Dashboard:    NewDashboardHandler(svc.Dashboard),
		Notification: NewNotificationHandler(svc.Alert),
	}
}

// Response is the envelope every endpoint answers with.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success writes a 200 envelope.
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created writes a 201 envelope.
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error writes an error envelope. The HTTP status is the leading three
// digits of the application code.
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

// Unprocessable reports a stock shortfall. The request was well formed
// but the warehouse cannot cover it.
func Unprocessable(c *gin.Context, message string) {
	Error(c, 42200, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// HandleError maps the service error taxonomy onto the envelope.
func HandleError(c *gin.Context, err error) {
	var ve *apperr.ValidationError
	var cf *apperr.Conflict
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, apperr.ErrInvalidCredentials):
		Unauthorized(c, err.Error())
	case errors.As(err, &ve):
		BadRequest(c, ve.Error())
	case errors.As(err, &cf):
		Conflict(c, cf.Error())
	case apperr.IsInsufficiency(err):
		Unprocessable(c, err.Error())
	default:
		InternalError(c, "внутренняя ошибка сервера")
	}
}

// GetUserID returns the owner id put in the context by the auth
// middleware.
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// QueryDate parses an optional YYYY-MM-DD query parameter.
func QueryDate(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, apperr.Validation(name, "ожидается дата в формате ГГГГ-ММ-ДД")
	}
	return &t, nil
}
