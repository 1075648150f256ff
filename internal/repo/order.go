package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/refurb_shop/internal/models"
)

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id ASC") })
}

// ListOrders returns orders newest first; a nil userID lists everyone's.
func (r *GormRepo) ListOrders(ctx context.Context, userID *uint) ([]models.Order, error) {
	q := withItems(r.DB.WithContext(ctx)).Model(&models.Order{})
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}

	orders := make([]models.Order, 0)
	if err := q.Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	if err := withItems(r.DB.WithContext(ctx)).First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormRepo) OrdersSince(ctx context.Context, since time.Time) ([]models.Order, error) {
	var orders []models.Order
	err := withItems(r.DB.WithContext(ctx)).
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

func (r *GormRepo) CartsCreatedSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	var ts []time.Time
	err := r.DB.WithContext(ctx).Model(&models.Cart{}).
		Where("created_at >= ?", since).
		Pluck("created_at", &ts).Error
	return ts, err
}

type ManagementReport struct {
	TotalProducts     int64 `json:"total_products"`
	TotalStock        int64 `json:"total_stock"`
	OrdersCount       int64 `json:"orders_count"`
	TotalIncome       int64 `json:"total_income"`
	RecyclingRequests int64 `json:"recycling_requests"`
}

func (r *GormRepo) ManagementReport(ctx context.Context) (*ManagementReport, error) {
	db := r.DB.WithContext(ctx)
	var rep ManagementReport

	if err := db.Model(&models.Variant{}).Count(&rep.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Variant{}).Select("COALESCE(SUM(stock), 0)").Scan(&rep.TotalStock).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).Count(&rep.OrdersCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).Select("COALESCE(SUM(total_clp), 0)").Scan(&rep.TotalIncome).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.RecyclingRequest{}).Count(&rep.RecyclingRequests).Error; err != nil {
		return nil, err
	}
	return &rep, nil
}
