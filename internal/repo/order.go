package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/witthaya/shopapi/internal/models"
)

type Line struct {
	ProductID uint
	Quantity  uint
}

// ProductMissing aborts an order whose line references an unknown product.
type ProductMissing struct {
	ID uint
}

func (e *ProductMissing) Error() string {
	return fmt.Sprintf("product %d not found", e.ID)
}

// StockShortfall aborts an order when a conditional decrement matched no
// row, meaning available stock dropped below the requested quantity.
type StockShortfall struct {
	ProductID uint
	Available uint
	Requested uint
}

func (e *StockShortfall) Error() string {
	return fmt.Sprintf("product %d: requested %d, available %d", e.ProductID, e.Requested, e.Available)
}

// PlaceOrder reserves stock and records the order as one unit of work.
// Every line is decremented with a conditional update
// (stock = stock - q WHERE stock >= q); a line that matches no row fails
// the transaction, rolling back every prior decrement. Two concurrent
// orders can therefore never oversell a product or drive stock negative.
func (r *GormRepo) PlaceOrder(ctx context.Context, userID uint, lines []Line) (*models.Order, error) {
	var order models.Order

	txErr := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Resolve every product up front: an unknown reference aborts the
		// whole order before any stock moves.
		products := make(map[uint]models.Product, len(lines))
		for _, l := range lines {
			var p models.Product
			if err := tx.First(&p, l.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &ProductMissing{ID: l.ProductID}
				}
				return err
			}
			products[l.ProductID] = p
		}

		var (
			total float64
			items []models.OrderItem
		)
		for _, l := range lines {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", l.ProductID, l.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", l.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				var current models.Product
				if err := tx.First(&current, l.ProductID).Error; err != nil {
					return err
				}
				return &StockShortfall{
					ProductID: l.ProductID,
					Available: current.Stock,
					Requested: l.Quantity,
				}
			}

			unit := products[l.ProductID].Price
			lineTotal := unit * float64(l.Quantity)
			total += lineTotal
			items = append(items, models.OrderItem{
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				UnitPrice: unit,
				LineTotal: lineTotal,
			})
		}

		order = models.Order{
			UserID:    userID,
			Total:     total,
			Status:    models.OrderStatusPending,
			CreatedAt: time.Now().Unix(),
			Items:     items,
		}
		return tx.Create(&order).Error
	})
	if txErr != nil {
		return nil, txErr
	}
	return &order, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrdersByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ListOrdersByProduct returns orders containing the product, with each
// order's items narrowed to that product only.
func (r *GormRepo) ListOrdersByProduct(ctx context.Context, productID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items", "product_id = ?", productID).
		Where("id IN (?)", r.DB.Model(&models.OrderItem{}).
			Select("order_id").
			Where("product_id = ?", productID)).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
