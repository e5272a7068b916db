package service

import (
	"github.com/Pavel0504/crm-master-owl/internal/config"
	"github.com/Pavel0504/crm-master-owl/internal/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Services is the full service set the handlers are built on.
type Services struct {
	Auth      *AuthService
	Shop      *ShopService
	Material  *MaterialService
	Inventory *InventoryService
	Product   *ProductService
	Order     *OrderService
	Client    *ClientService
	Supplier  *SupplierService
	Purchase  *PurchaseService
	Task      *TaskService
	Dashboard *DashboardService
	Alert     *AlertService
}

// NewServices wires the services. rdb may be nil; redis-backed features
// (token revocation, alert dedup, dashboard cache) degrade gracefully.
func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *Services {
	costing := NewCostingEngine(repos.Material, repos.Product, repos.Inventory)

	return &Services{
		Auth:      NewAuthService(repos.User, rdb, cfg, logger),
		Shop:      NewShopService(repos.Shop, logger),
		Material:  NewMaterialService(repos.Material, logger),
		Inventory: NewInventoryService(repos.Inventory, logger),
		Product:   NewProductService(repos.Product, repos.Material, repos.Inventory, costing, logger),
		Order:     NewOrderService(repos.Order, repos.Product, repos.Client, logger),
		Client:    NewClientService(repos.Client, repos.Order, logger),
		Supplier:  NewSupplierService(repos.Supplier, logger),
		Purchase:  NewPurchaseService(repos.Purchase, repos.Material, logger),
		Task:      NewTaskService(repos.Task, logger),
		Dashboard: NewDashboardService(repos.Order, repos.Material, repos.Inventory, rdb, logger),
		Alert:     NewAlertService(repos.Material, repos.Order, repos.Task, repos.User, rdb, cfg.Alerts.Timezone, logger),
	}
}
