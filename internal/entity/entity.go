package entity

import "gorm.io/gorm"

// AutoMigrate migrates every workshop table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// accounts
		&User{},
		&Shop{},

		// catalogs
		&MaterialCategory{},
		&InventoryCategory{},
		&SupplierCategory{},
		&ProductCategory{},
		&ProductCategoryInventory{},

		// stock
		&Material{},
		&InventoryItem{},

		// production
		&Product{},
		&ProductMaterial{},

		// sales
		&Client{},
		&Order{},
		&OrderItem{},
		&OrderCounter{},

		// procurement
		&Supplier{},
		&PurchasePlan{},

		// planner
		&Task{},
		&TaskChecklistItem{},
	)
}
