package transport

import (
	"time"

	"github.com/Skotchmaster/refurb_shop/internal/models"
)

// cart

type CartVariant struct {
	ID        uint   `json:"id"`
	SKU       string `json:"sku"`
	PriceCLP  int64  `json:"price_clp"`
	ProductID uint   `json:"product_id"`
	Title     string `json:"title"`
}

type CartItem struct {
	ID       uint        `json:"id"`
	Variant  CartVariant `json:"variant"`
	Quantity int         `json:"quantity"`
	Subtotal int64       `json:"subtotal"`
}

type Cart struct {
	ID         uint       `json:"id"`
	SessionKey string     `json:"session_key"`
	Items      []CartItem `json:"items"`
	TotalCLP   int64      `json:"total_clp"`
}

type CartLineRequest struct {
	VariantID FlexInt `json:"variant_id"`
	Quantity  FlexInt `json:"quantity"`
}

type UpdateResult struct {
	Removed   bool
	Deleted   int64
	VariantID uint
	Quantity  int
}

// checkout

type CheckoutRequest struct {
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerAddress string `json:"customer_address"`
	CustomerNotes   string `json:"customer_notes"`
	PaymentMethod   string `json:"payment_method"`
}

type CheckoutResponse struct {
	OrderID  uint               `json:"order_id"`
	TotalCLP int64              `json:"total_clp"`
	Status   models.OrderStatus `json:"status"`
}

// stats

type DayStats struct {
	Date        string `json:"date"`
	OrdersCount int64  `json:"orders_count"`
	TotalCLP    int64  `json:"total_clp"`
	CartsCount  int64  `json:"carts_count"`
	ItemsSold   int64  `json:"items_sold"`
}

type StatsResponse struct {
	Days    int        `json:"days"`
	Results []DayStats `json:"results"`
}

// recycling

type RecyclingRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	EquipmentType string `json:"equipment_type"`
	Description   string `json:"description"`
}

// auth

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

type UserView struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsStaff  bool   `json:"is_staff"`
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	User         UserView
}

type LoginResponse struct {
	Access  string   `json:"access"`
	Refresh string   `json:"refresh"`
	User    UserView `json:"user"`
}

// catalog

type BrandRequest struct {
	Name *string `json:"name"`
	Slug *string `json:"slug"`
	Site *string `json:"site"`
}

type CategoryRequest struct {
	Name     *string `json:"name"`
	Slug     *string `json:"slug"`
	ParentID FlexInt `json:"parent_id"`
}

type VariantRequest struct {
	SKU        *string         `json:"sku"`
	Attributes *map[string]any `json:"attributes"`
	PriceCLP   *int64          `json:"price_clp"`
	Stock      *int            `json:"stock"`
	WeightG    *int            `json:"weight_g"`
}

type ImageRequest struct {
	Image string `json:"image"`
	Alt   string `json:"alt"`
	Sort  int    `json:"sort"`
}

type Model3DRequest struct {
	File         string `json:"file"`
	PreviewImage string `json:"preview_image"`
	Notes        string `json:"notes"`
}

type ProductRequest struct {
	SKURoot    *string `json:"sku_root"`
	Title      *string `json:"title"`
	BrandID    *uint   `json:"brand_id"`
	CategoryID *uint   `json:"category_id"`
	ShortDesc  *string `json:"short_desc"`
	LongDesc   *string `json:"long_desc"`
	Condition  *string `json:"condition"`
	Grade      *string `json:"grade"`
	Publish    *bool   `json:"publish"`

	Variants []VariantRequest `json:"variants"`
	Images   []ImageRequest   `json:"images"`
	Models3D []Model3DRequest `json:"models3d"`
}

type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type ProductPage struct {
	Data []models.Product `json:"data"`
	Meta PageMeta         `json:"meta"`
}
