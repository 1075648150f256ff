package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/refurb_shop/internal/models"
)

// CartLine is a cart item joined with its variant and product.
type CartLine struct {
	ID        uint
	VariantID uint
	Quantity  int
	SKU       string
	PriceCLP  int64
	ProductID uint
	Title     string
}

func sessionCartIDs(tx *gorm.DB, sessionKey string) *gorm.DB {
	return tx.Model(&models.Cart{}).Select("id").Where("session_key = ?", sessionKey)
}

func cartLinesQuery(tx *gorm.DB, sessionKey string) *gorm.DB {
	return tx.Table("cart_items AS ci").
		Select("ci.id, ci.variant_id, ci.quantity, v.sku, v.price_clp, v.product_id, p.title").
		Joins("JOIN carts c ON c.id = ci.cart_id").
		Joins("JOIN variants v ON v.id = ci.variant_id").
		Joins("JOIN products p ON p.id = v.product_id").
		Where("c.session_key = ?", sessionKey).
		Order("ci.id ASC")
}

// lockedCartLinesQuery locks the selected cart_items rows until the
// transaction ends, so upserts on those lines wait for it.
func lockedCartLinesQuery(tx *gorm.DB, sessionKey string) *gorm.DB {
	return cartLinesQuery(tx, sessionKey).
		Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "ci"}})
}

func cartLines(tx *gorm.DB, sessionKey string) ([]CartLine, error) {
	var lines []CartLine
	if err := cartLinesQuery(tx, sessionKey).Scan(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// GetOrCreateCart inserts the session's cart if absent and returns it. A
// concurrent creator loses the insert and reads the winner's row. An owner is
// attached only to a cart that has none.
func (r *GormRepo) GetOrCreateCart(ctx context.Context, sessionKey string, userID *uint) (*models.Cart, error) {
	db := r.DB.WithContext(ctx)

	fresh := models.Cart{SessionKey: sessionKey, UserID: userID}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_key"}},
		DoNothing: true,
	}).Create(&fresh).Error; err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := db.Where("session_key = ?", sessionKey).First(&cart).Error; err != nil {
		return nil, err
	}

	if userID != nil && cart.UserID == nil {
		res := db.Model(&models.Cart{}).
			Where("id = ? AND user_id IS NULL", cart.ID).
			Update("user_id", *userID)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected > 0 {
			cart.UserID = userID
		}
	}
	return &cart, nil
}

func (r *GormRepo) CartLines(ctx context.Context, sessionKey string) ([]CartLine, error) {
	return cartLines(r.DB.WithContext(ctx), sessionKey)
}

func (r *GormRepo) GetVariant(ctx context.Context, id uint) (*models.Variant, error) {
	var v models.Variant
	if err := r.DB.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// AddLine inserts the line or increments the existing quantity in one statement.
func (r *GormRepo) AddLine(ctx context.Context, cartID, variantID uint, quantity int) error {
	item := models.CartItem{CartID: cartID, VariantID: variantID, Quantity: quantity}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "variant_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity": gorm.Expr("cart_items.quantity + excluded.quantity"),
		}),
	}).Create(&item).Error
}

// SetLine inserts the line or overwrites the existing quantity.
func (r *GormRepo) SetLine(ctx context.Context, cartID, variantID uint, quantity int) error {
	item := models.CartItem{CartID: cartID, VariantID: variantID, Quantity: quantity}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cart_id"}, {Name: "variant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity"}),
	}).Create(&item).Error
}

func (r *GormRepo) RemoveLine(ctx context.Context, sessionKey string, variantID uint) (int64, error) {
	db := r.DB.WithContext(ctx)
	res := db.Where("variant_id = ? AND cart_id IN (?)", variantID, sessionCartIDs(db, sessionKey)).
		Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

func (r *GormRepo) ClearCart(ctx context.Context, sessionKey string) (int64, error) {
	db := r.DB.WithContext(ctx)
	res := db.Where("cart_id IN (?)", sessionCartIDs(db, sessionKey)).Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}
