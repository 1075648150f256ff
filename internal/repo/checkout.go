package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/refurb_shop/internal/models"
)

// Checkout turns the session's cart into order inside one transaction: the
// cart row and its lines are locked, the lines are snapshotted into order
// items, the order is written and exactly the snapshotted lines are deleted.
// A line inserted concurrently stays in the cart. order carries the customer
// fields; totals, items and status are filled in here.
func (r *GormRepo) Checkout(ctx context.Context, sessionKey string, order *models.Order) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("session_key = ?", sessionKey).
			First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoLines
		}
		if err != nil {
			return err
		}

		var lines []CartLine
		if err := lockedCartLinesQuery(tx, sessionKey).Scan(&lines).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrNoLines
		}

		var total int64
		items := make([]models.OrderItem, 0, len(lines))
		lineIDs := make([]uint, 0, len(lines))
		for _, ln := range lines {
			lineIDs = append(lineIDs, ln.ID)
			total += ln.PriceCLP * int64(ln.Quantity)
			items = append(items, models.OrderItem{
				VariantID:     ln.VariantID,
				TitleSnapshot: ln.Title,
				PriceCLP:      ln.PriceCLP,
				Quantity:      ln.Quantity,
			})
		}

		order.TotalCLP = total
		order.Status = models.StatusPending
		order.Items = items
		if order.UserID == nil {
			order.UserID = cart.UserID
		}

		if err := tx.Create(order).Error; err != nil {
			return err
		}

		return tx.Where("id IN ?", lineIDs).Delete(&models.CartItem{}).Error
	})
}
