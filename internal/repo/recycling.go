package repo

import (
	"context"

	"github.com/Skotchmaster/refurb_shop/internal/models"
)

func (r *GormRepo) CreateRecyclingRequest(ctx context.Context, req *models.RecyclingRequest) error {
	return r.DB.WithContext(ctx).Create(req).Error
}

func (r *GormRepo) ListRecyclingRequests(ctx context.Context) ([]models.RecyclingRequest, error) {
	out := make([]models.RecyclingRequest, 0)
	if err := r.DB.WithContext(ctx).Order("created_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
