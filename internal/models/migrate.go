package models

import "gorm.io/gorm"

// All lists every table in dependency order.
func All() []any {
	return []any{
		&User{},
		&RefreshToken{},
		&Brand{},
		&Category{},
		&Product{},
		&Variant{},
		&ProductImage{},
		&Model3DAsset{},
		&Cart{},
		&CartItem{},
		&Order{},
		&OrderItem{},
		&RecyclingRequest{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
