package service

import (
	"context"
	"net/mail"
	"strings"

	"github.com/Skotchmaster/refurb_shop/internal/models"
	"github.com/Skotchmaster/refurb_shop/internal/repo"
	"github.com/Skotchmaster/refurb_shop/internal/transport"
)

type RecyclingService struct {
	Repo *repo.GormRepo
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func (s *RecyclingService) Create(ctx context.Context, in transport.RecyclingRequest) (*models.RecyclingRequest, error) {
	rec := models.RecyclingRequest{
		Name:          strings.TrimSpace(in.Name),
		Email:         strings.TrimSpace(in.Email),
		EquipmentType: strings.TrimSpace(in.EquipmentType),
		Description:   strings.TrimSpace(in.Description),
	}

	switch {
	case rec.Name == "" || rec.Email == "":
		return nil, validationf("name and email are required")
	case len([]rune(rec.Name)) > 120:
		return nil, validationf("name must be at most 120 characters")
	case len(rec.Email) > 254 || !validEmail(rec.Email):
		return nil, validationf("email is not a valid address")
	case len([]rune(rec.EquipmentType)) > 255:
		return nil, validationf("equipment_type must be at most 255 characters")
	}

	if err := s.Repo.CreateRecyclingRequest(ctx, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *RecyclingService) List(ctx context.Context) ([]models.RecyclingRequest, error) {
	return s.Repo.ListRecyclingRequests(ctx)
}
