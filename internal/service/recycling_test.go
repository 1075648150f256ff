package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/refurb_shop/internal/service"
	"github.com/Skotchmaster/refurb_shop/internal/transport"
)

func TestRecycling_CreateAndList(t *testing.T) {
	f := newFixture(t)
	svc := &service.RecyclingService{Repo: f.repo}
	ctx := context.Background()

	rec, err := svc.Create(ctx, transport.RecyclingRequest{
		Name: " Ana ", Email: "ana@x.com", EquipmentType: "laptop", Description: "old thinkpad",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", rec.Name)
	assert.NotZero(t, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())

	tests := []struct {
		name string
		in   transport.RecyclingRequest
	}{
		{name: "missing name", in: transport.RecyclingRequest{Email: "a@x.com"}},
		{name: "missing email", in: transport.RecyclingRequest{Name: "Ana"}},
		{name: "bad email", in: transport.RecyclingRequest{Name: "Ana", Email: "not-an-email"}},
		{name: "display name email", in: transport.RecyclingRequest{Name: "Ana", Email: "Ana <a@x.com>"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.in)
			require.ErrorIs(t, err, service.ErrValidation)
		})
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "laptop", list[0].EquipmentType)
}
