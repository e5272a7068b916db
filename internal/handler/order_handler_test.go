package handler

import (
	"net/http"
	"testing"

	"github.com/Pavel0504/crm-master-owl/internal/entity"
	"github.com/Pavel0504/crm-master-owl/internal/repository"
	"github.com/Pavel0504/crm-master-owl/internal/service"
	"github.com/Pavel0504/crm-master-owl/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testUserID = "user-001"

func setupOrderHandlerTest(t *testing.T) (*gorm.DB, *gin.Engine, string) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	testutil.SeedTestUser(t, db, testUserID, "Мастер", "master@test.ru")

	repos := repository.NewRepositories(db)
	svc := service.NewOrderService(repos.Order, repos.Product, repos.Client, zap.NewNop())
	h := NewOrderHandler(svc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/orders", h.List)
	api.POST("/orders", h.Create)
	api.GET("/orders/:id", h.Get)
	api.PUT("/orders/:id", h.Update)
	api.DELETE("/orders/:id", h.Delete)

	token := testutil.GenerateTestToken(testUserID, "Мастер", "master@test.ru")
	return db, router, token
}

func seedHandlerProduct(t *testing.T, db *gorm.DB, id string, remaining, price float64) {
	t.Helper()
	require.NoError(t, db.Create(&entity.Product{
		ID:                id,
		UserID:            testUserID,
		Name:              "Изделие " + id,
		QuantityCreated:   remaining,
		RemainingQuantity: remaining,
		SellingPrice:      price,
	}).Error)
}

func TestOrderCreateEndpoint(t *testing.T) {
	db, router, token := setupOrderHandlerTest(t)
	seedHandlerProduct(t, db, "prod-1", 10, 350)

	body := map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": "prod-1", "quantity": 2},
		},
	}
	w := testutil.DoRequest(router, http.MethodPost, "/api/v1/orders", body, token)
	require.Equal(t, http.StatusCreated, w.Code)

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["order_number"])
	assert.Equal(t, 700.0, data["total_price"])
	assert.Equal(t, entity.OrderStatusInProgress, data["status"])
}

func TestOrderCreateInsufficientStockReturns422(t *testing.T) {
	db, router, token := setupOrderHandlerTest(t)
	seedHandlerProduct(t, db, "prod-1", 1, 350)

	body := map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": "prod-1", "quantity": 5},
		},
	}
	w := testutil.DoRequest(router, http.MethodPost, "/api/v1/orders", body, token)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	resp := testutil.ParseResponse(w)
	assert.Equal(t, float64(42200), resp["code"])
	assert.Contains(t, resp["message"], "недостаточно изделий")
}

func TestOrderEndpointsRequireAuth(t *testing.T) {
	_, router, _ := setupOrderHandlerTest(t)

	w := testutil.DoRequest(router, http.MethodGet, "/api/v1/orders", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = testutil.DoRequest(router, http.MethodGet, "/api/v1/orders", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrderGetMissingReturns404(t *testing.T) {
	_, router, token := setupOrderHandlerTest(t)

	w := testutil.DoRequest(router, http.MethodGet, "/api/v1/orders/no-such-id", nil, token)
	require.Equal(t, http.StatusNotFound, w.Code)

	resp := testutil.ParseResponse(w)
	assert.Equal(t, float64(40400), resp["code"])
}

func TestOrderUpdateRejectsUnknownStatus(t *testing.T) {
	db, router, token := setupOrderHandlerTest(t)
	seedHandlerProduct(t, db, "prod-1", 10, 100)

	create := map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": "prod-1", "quantity": 1},
		},
	}
	w := testutil.DoRequest(router, http.MethodPost, "/api/v1/orders", create, token)
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	w = testutil.DoRequest(router, http.MethodPut, "/api/v1/orders/"+orderID,
		map[string]interface{}{"status": "Готов"}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
