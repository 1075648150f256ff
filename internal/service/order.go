package service

import (
	"context"
	"strconv"

	"github.com/Skotchmaster/refurb_shop/internal/models"
	"github.com/Skotchmaster/refurb_shop/internal/repo"
)

type OrderService struct {
	Repo *repo.GormRepo
}

func orderKey(id uint) string { return strconv.FormatUint(uint64(id), 10) }

func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx, nil)
}

func (s *OrderService) ListMine(ctx context.Context, userID uint) ([]models.Order, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	return s.Repo.ListOrders(ctx, &userID)
}
