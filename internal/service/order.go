package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/witthaya/shopapi/internal/models"
	"github.com/witthaya/shopapi/internal/repo"
	"github.com/witthaya/shopapi/internal/transport"
	"github.com/witthaya/shopapi/pkg/logging"
)

type OrderService struct {
	Repo   *repo.GormRepo
	Events EventPublisher
}

// PlaceOrder validates the request and hands the line items to the
// repository, which reserves stock and records the order atomically.
// Admins never place orders; the check is repeated here so the service
// stays safe even if a caller skips the route policy.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uint, role string, req transport.CreateOrderRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.place", "user_id", userID)

	if role != models.RoleUser {
		return nil, fmt.Errorf("%w: only users can place orders", ErrForbidden)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: items array is required", ErrValidation)
	}

	lines := make([]repo.Line, 0, len(req.Items))
	for _, it := range req.Items {
		if it.ProductID == 0 {
			return nil, fmt.Errorf("%w: each item must have a productId", ErrValidation)
		}
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be >= 1", ErrValidation)
		}
		lines = append(lines, repo.Line{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	order, err := s.Repo.PlaceOrder(ctx, userID, lines)
	if err != nil {
		var missing *repo.ProductMissing
		if errors.As(err, &missing) {
			l.Warn("place_order_failed", "status", 404, "reason", "unknown product", "product_id", missing.ID)
			return nil, &NotFoundError{Entity: "product", ID: missing.ID}
		}
		var short *repo.StockShortfall
		if errors.As(err, &short) {
			l.Warn("place_order_failed", "status", 400, "reason", "insufficient stock",
				"product_id", short.ProductID, "available", short.Available, "requested", short.Requested)
			return nil, &StockError{
				ProductID: short.ProductID,
				Available: short.Available,
				Requested: short.Requested,
			}
		}
		l.Error("place_order_failed", "status", 500, "error", err)
		return nil, err
	}

	publish(ctx, s.Events, TopicOrderEvents, entityKey(order.ID), map[string]any{
		"type":    "order_created",
		"orderID": order.ID,
		"userID":  userID,
		"total":   order.Total,
	})

	l.Info("place_order_success", "order_id", order.ID, "total", order.Total)
	return order, nil
}

func (s *OrderService) ListMyOrders(ctx context.Context, userID uint, role string) ([]models.Order, error) {
	if role != models.RoleUser {
		return nil, fmt.Errorf("%w: only users have their own orders", ErrForbidden)
	}
	return s.Repo.ListOrdersByUser(ctx, userID)
}

func (s *OrderService) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx)
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "order", ID: id}
		}
		return nil, err
	}
	return order, nil
}

// ListOrdersForProduct is the redacted projection: orders containing the
// product, each narrowed to that product's line items only.
func (s *OrderService) ListOrdersForProduct(ctx context.Context, productID uint) ([]models.Order, error) {
	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "product", ID: productID}
		}
		return nil, err
	}
	return s.Repo.ListOrdersByProduct(ctx, productID)
}
