package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/refurb_shop/internal/models"
)

const (
	TopicCart    = "cart_events"
	TopicOrder   = "order_events"
	TopicCatalog = "catalog_events"
)

type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}

type Cache interface {
	// Get reports false with a nil error on a miss.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

type ProductIndex interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	Search(ctx context.Context, q string, from, size int) (int64, []uint, error)
}

type Event struct {
	Type       string    `json:"type"`
	SessionKey string    `json:"session_key,omitempty"`
	OrderID    uint      `json:"order_id,omitempty"`
	ProductID  uint      `json:"product_id,omitempty"`
	VariantID  uint      `json:"variant_id,omitempty"`
	Quantity   int       `json:"quantity,omitempty"`
	Count      int64     `json:"count,omitempty"`
	TotalCLP   int64     `json:"total_clp,omitempty"`
	UserID     *uint     `json:"user_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
