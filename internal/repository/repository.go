package repository

import "gorm.io/gorm"

// Repositories is the full set of entity stores.
type Repositories struct {
	User      *UserRepository
	Shop      *ShopRepository
	Material  *MaterialRepository
	Inventory *InventoryRepository
	Product   *ProductRepository
	Order     *OrderRepository
	Client    *ClientRepository
	Supplier  *SupplierRepository
	Purchase  *PurchaseRepository
	Task      *TaskRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:      NewUserRepository(db),
		Shop:      NewShopRepository(db),
		Material:  NewMaterialRepository(db),
		Inventory: NewInventoryRepository(db),
		Product:   NewProductRepository(db),
		Order:     NewOrderRepository(db),
		Client:    NewClientRepository(db),
		Supplier:  NewSupplierRepository(db),
		Purchase:  NewPurchaseRepository(db),
		Task:      NewTaskRepository(db),
	}
}
