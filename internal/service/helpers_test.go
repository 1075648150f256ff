package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/refurb_shop/internal/models"
	"github.com/Skotchmaster/refurb_shop/internal/repo"
	"github.com/Skotchmaster/refurb_shop/internal/service"
	"github.com/Skotchmaster/refurb_shop/internal/testutil"
)

type published struct {
	topic string
	key   string
	event service.Event
}

type recPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recPublisher) Publish(_ context.Context, topic, key string, payload any) error {
	ev, _ := payload.(service.Event)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{topic, key, ev})
	return nil
}

func (p *recPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.event.Type)
	}
	return out
}

type memCache struct {
	mu   sync.Mutex
	data map[string]any
	sets int
}

func (m *memCache) Get(_ context.Context, key string, dst any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *repo.ManagementReport:
		*d = v.(repo.ManagementReport)
	default:
		return false, nil
	}
	return true, nil
}

func (m *memCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = map[string]any{}
	}
	if r, ok := value.(*repo.ManagementReport); ok {
		m.data[key] = *r
	}
	m.sets++
	return nil
}

type fixture struct {
	db       *gorm.DB
	repo     *repo.GormRepo
	events   *recPublisher
	cart     *service.CartService
	checkout *service.CheckoutService
	orders   *service.OrderService
	catalog  *service.CatalogService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := testutil.NewDB(t)
	r := repo.New(gdb)
	ev := &recPublisher{}
	return &fixture{
		db:       gdb,
		repo:     r,
		events:   ev,
		cart:     &service.CartService{Repo: r, Events: ev},
		checkout: &service.CheckoutService{Repo: r, Events: ev},
		orders:   &service.OrderService{Repo: r},
		catalog:  &service.CatalogService{Repo: r, Events: ev},
	}
}

func (f *fixture) variant(t *testing.T, title string, price int64) *models.Variant {
	t.Helper()
	p := testutil.SeedProduct(t, f.db, title)
	return testutil.SeedVariant(t, f.db, p.ID, price)
}

func uintPtr(v uint) *uint { return &v }
