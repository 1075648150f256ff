package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/refurb_shop/internal/models"
)

var ErrReferenced = errors.New("referenced by other records")

type ProductFilter struct {
	BrandID    uint
	CategoryID uint
	Condition  string
	Grade      string
	Search     string
	Ordering   string
	Offset     int
	Limit      int
}

var productOrderings = map[string]string{
	"created_at":  "products.created_at ASC, products.id ASC",
	"-created_at": "products.created_at DESC, products.id DESC",
	"title":       "products.title ASC, products.id ASC",
	"-title":      "products.title DESC, products.id DESC",
}

func likePattern(s string) string {
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(s))
	return "%" + s + "%"
}

func withProductGraph(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Brand").
		Preload("Category").
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("variants.id ASC") }).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("product_images.sort ASC, product_images.id ASC") }).
		Preload("Models3D", func(db *gorm.DB) *gorm.DB { return db.Order("model3d_assets.id ASC") })
}

// brands

func (r *GormRepo) ListBrands(ctx context.Context, search string) ([]models.Brand, error) {
	q := r.DB.WithContext(ctx).Model(&models.Brand{})
	if s := strings.TrimSpace(search); s != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '\\'", likePattern(s))
	}
	out := make([]models.Brand, 0)
	if err := q.Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) GetBrand(ctx context.Context, id uint) (*models.Brand, error) {
	var b models.Brand
	if err := r.DB.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormRepo) CreateBrand(ctx context.Context, b *models.Brand) error {
	return r.DB.WithContext(ctx).Create(b).Error
}

func (r *GormRepo) UpdateBrand(ctx context.Context, id uint, updates map[string]any) (*models.Brand, error) {
	if err := r.updateByID(ctx, &models.Brand{}, id, updates); err != nil {
		return nil, err
	}
	return r.GetBrand(ctx, id)
}

func (r *GormRepo) DeleteBrand(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Product{}).Where("brand_id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrReferenced
		}
		return deleteByID(tx, &models.Brand{}, id)
	})
}

// categories

func (r *GormRepo) ListCategories(ctx context.Context, search string) ([]models.Category, error) {
	q := r.DB.WithContext(ctx).Model(&models.Category{})
	if s := strings.TrimSpace(search); s != "" {
		p := likePattern(s)
		q = q.Where("LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(slug) LIKE ? ESCAPE '\\'", p, p)
	}
	out := make([]models.Category, 0)
	if err := q.Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := r.DB.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *GormRepo) UpdateCategory(ctx context.Context, id uint, updates map[string]any) (*models.Category, error) {
	if err := r.updateByID(ctx, &models.Category{}, id, updates); err != nil {
		return nil, err
	}
	return r.GetCategory(ctx, id)
}

func (r *GormRepo) DeleteCategory(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Product{}).Where("category_id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrReferenced
		}
		return deleteByID(tx, &models.Category{}, id)
	})
}

// products

func filterProducts(db *gorm.DB, f ProductFilter) *gorm.DB {
	q := db.Model(&models.Product{}).Where("products.publish = ?", true)
	if f.BrandID != 0 {
		q = q.Where("products.brand_id = ?", f.BrandID)
	}
	if f.CategoryID != 0 {
		q = q.Where("products.category_id = ?", f.CategoryID)
	}
	if f.Condition != "" {
		q = q.Where("products.condition = ?", f.Condition)
	}
	if f.Grade != "" {
		q = q.Where("products.grade = ?", f.Grade)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := likePattern(s)
		q = q.Where(
			"LOWER(products.title) LIKE ? ESCAPE '\\' OR LOWER(products.sku_root) LIKE ? ESCAPE '\\' OR LOWER(products.short_desc) LIKE ? ESCAPE '\\' OR LOWER(products.long_desc) LIKE ? ESCAPE '\\'",
			p, p, p, p,
		)
	}
	return q
}

func (r *GormRepo) ListProducts(ctx context.Context, f ProductFilter) (int64, []models.Product, error) {
	db := r.DB.WithContext(ctx)

	var total int64
	if err := filterProducts(db, f).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	order, ok := productOrderings[f.Ordering]
	if !ok {
		order = "products.id ASC"
	}

	items := make([]models.Product, 0, f.Limit)
	if err := withProductGraph(filterProducts(db, f)).Order(order).Offset(f.Offset).Limit(f.Limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint, publishedOnly bool) (*models.Product, error) {
	q := withProductGraph(r.DB.WithContext(ctx))
	if publishedOnly {
		q = q.Where("publish = ?", true)
	}
	var p models.Product
	if err := q.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ProductsByIDs returns published products in the order of ids; unknown ids are skipped.
func (r *GormRepo) ProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	out := make([]models.Product, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var found []models.Product
	if err := withProductGraph(r.DB.WithContext(ctx)).
		Where("id IN ? AND publish = ?", ids, true).
		Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// CreateProduct stores the product with its nested variants, images and 3D assets.
func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Omit("Brand", "Category").Create(p).Error
}

func (r *GormRepo) UpdateProduct(ctx context.Context, id uint, updates map[string]any) (*models.Product, error) {
	if err := r.updateByID(ctx, &models.Product{}, id, updates); err != nil {
		return nil, err
	}
	return r.GetProduct(ctx, id, false)
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		variantIDs := tx.Model(&models.Variant{}).Select("id").Where("product_id = ?", id)
		if err := ensureUnreferenced(tx, variantIDs); err != nil {
			return err
		}
		return deleteByID(tx, &models.Product{}, id)
	})
}

// variants

func (r *GormRepo) CreateVariant(ctx context.Context, v *models.Variant) error {
	return r.DB.WithContext(ctx).Create(v).Error
}

func (r *GormRepo) UpdateVariant(ctx context.Context, id uint, updates map[string]any) (*models.Variant, error) {
	if err := r.updateByID(ctx, &models.Variant{}, id, updates); err != nil {
		return nil, err
	}
	return r.GetVariant(ctx, id)
}

func (r *GormRepo) DeleteVariant(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUnreferenced(tx, []uint{id}); err != nil {
			return err
		}
		return deleteByID(tx, &models.Variant{}, id)
	})
}

// ensureUnreferenced fails with ErrReferenced when any cart or order line
// points at one of the variants. variantIDs is an id slice or a subquery.
func ensureUnreferenced(tx *gorm.DB, variantIDs any) error {
	for _, m := range []any{&models.CartItem{}, &models.OrderItem{}} {
		var n int64
		if err := tx.Model(m).Where("variant_id IN (?)", variantIDs).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrReferenced
		}
	}
	return nil
}

func (r *GormRepo) updateByID(ctx context.Context, model any, id uint, updates map[string]any) error {
	db := r.DB.WithContext(ctx)
	if len(updates) == 0 {
		return db.Model(model).Select("id").First(model, id).Error
	}
	res := db.Model(model).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func deleteByID(tx *gorm.DB, model any, id uint) error {
	res := tx.Delete(model, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) SaveVariantAttributes(ctx context.Context, v *models.Variant) error {
	return r.DB.WithContext(ctx).Model(v).Select("attributes").Updates(v).Error
}
