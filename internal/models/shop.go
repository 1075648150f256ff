package models

import "time"

type OrderStatus string

const (
	StatusPending  OrderStatus = "PENDING"
	StatusPaid     OrderStatus = "PAID"
	StatusFailed   OrderStatus = "FAILED"
	StatusCanceled OrderStatus = "CANCELED"
)

const DefaultPaymentMethod = "MANUAL"

// Cart is unique per session key. Lines go away with the cart; the owner
// reference is cleared when the user is deleted.
type Cart struct {
	ID         uint       `gorm:"primaryKey"                      json:"id"`
	UserID     *uint      `gorm:"index"                           json:"user_id"`
	User       *User      `gorm:"constraint:OnDelete:SET NULL"    json:"-"`
	SessionKey string     `gorm:"size:255;uniqueIndex;not null"   json:"session_key"`
	Items      []CartItem `gorm:"constraint:OnDelete:CASCADE"     json:"-"`
	CreatedAt  time.Time  `gorm:"index"                           json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type CartItem struct {
	ID        uint     `gorm:"primaryKey"                                   json:"id"`
	CartID    uint     `gorm:"not null;uniqueIndex:idx_cart_items_cart_variant" json:"cart_id"`
	VariantID uint     `gorm:"not null;uniqueIndex:idx_cart_items_cart_variant;index" json:"variant_id"`
	Variant   *Variant `gorm:"constraint:OnDelete:RESTRICT"                 json:"-"`
	Quantity  int      `gorm:"not null;check:chk_cart_items_quantity,quantity > 0" json:"quantity"`
}

type Order struct {
	ID               uint        `gorm:"primaryKey"                   json:"id"`
	UserID           *uint       `gorm:"index"                        json:"user_id"`
	User             *User       `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	CustomerName     string      `gorm:"size:120"                     json:"customer_name"`
	CustomerEmail    string      `gorm:"size:254"                     json:"customer_email"`
	CustomerPhone    string      `gorm:"size:50"                      json:"customer_phone"`
	CustomerAddress  string      `gorm:"size:255"                     json:"customer_address"`
	CustomerNotes    string      `gorm:"type:text"                    json:"customer_notes"`
	TotalCLP         int64       `gorm:"not null"                     json:"total_clp"`
	Status           OrderStatus `gorm:"size:10;not null"             json:"status"`
	PaymentMethod    string      `gorm:"size:20"                      json:"payment_method"`
	PaymentReference string      `gorm:"size:120"                     json:"payment_reference"`
	Items            []OrderItem `gorm:"constraint:OnDelete:CASCADE"  json:"items"`
	CreatedAt        time.Time   `gorm:"index"                        json:"created_at"`
}

// OrderItem values are copied at checkout and never rewritten.
type OrderItem struct {
	ID            uint     `gorm:"primaryKey"                   json:"id"`
	OrderID       uint     `gorm:"index;not null"               json:"order_id"`
	VariantID     uint     `gorm:"index;not null"               json:"variant_id"`
	Variant       *Variant `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	TitleSnapshot string   `gorm:"size:200;not null"            json:"title_snapshot"`
	PriceCLP      int64    `gorm:"not null"                     json:"price_clp"`
	Quantity      int      `gorm:"not null"                     json:"quantity"`
}

type RecyclingRequest struct {
	ID            uint      `gorm:"primaryKey"        json:"id"`
	Name          string    `gorm:"size:120;not null" json:"name"`
	Email         string    `gorm:"size:254;not null" json:"email"`
	EquipmentType string    `gorm:"size:255"          json:"equipment_type"`
	Description   string    `gorm:"type:text"         json:"description"`
	CreatedAt     time.Time `gorm:"index"             json:"created_at"`
}
