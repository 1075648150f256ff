package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/refurb_shop/internal/models"
	"github.com/Skotchmaster/refurb_shop/pkg/db"
)

var seq atomic.Int64

// NewDB returns a migrated in-memory database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Open(context.Background(), "sqlite://file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })
	require.NoError(t, models.AutoMigrate(gdb))
	return gdb
}

func next() int64 { return seq.Add(1) }

func SeedProduct(t *testing.T, gdb *gorm.DB, title string) *models.Product {
	t.Helper()
	n := next()
	brand := models.Brand{Name: fmt.Sprintf("brand-%d", n), Slug: fmt.Sprintf("brand-%d", n)}
	require.NoError(t, gdb.Create(&brand).Error)
	cat := models.Category{Name: fmt.Sprintf("cat-%d", n), Slug: fmt.Sprintf("cat-%d", n)}
	require.NoError(t, gdb.Create(&cat).Error)

	p := models.Product{
		SKURoot:    fmt.Sprintf("ROOT-%d", n),
		Title:      title,
		BrandID:    brand.ID,
		CategoryID: cat.ID,
		Condition:  models.ConditionRefurb,
		Grade:      models.GradeA,
		Publish:    true,
	}
	require.NoError(t, gdb.Create(&p).Error)
	return &p
}

func SeedVariant(t *testing.T, gdb *gorm.DB, productID uint, price int64) *models.Variant {
	t.Helper()
	v := models.Variant{
		ProductID: productID,
		SKU:       fmt.Sprintf("SKU-%d", next()),
		PriceCLP:  price,
		Stock:     10,
	}
	require.NoError(t, gdb.Create(&v).Error)
	return &v
}
