package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/witthaya/shopapi/internal/models"
	"github.com/witthaya/shopapi/internal/repo"
	"github.com/witthaya/shopapi/internal/transport"
)

func newOrderService(t *testing.T) (*OrderService, *repo.GormRepo, *recordingPublisher) {
	t.Helper()
	r := newTestRepo(t)
	events := &recordingPublisher{}
	return &OrderService{Repo: r, Events: events}, r, events
}

func orderReq(items ...transport.OrderItemRequest) transport.CreateOrderRequest {
	return transport.CreateOrderRequest{Items: items}
}

func currentStock(t *testing.T, r *repo.GormRepo, id uint) uint {
	t.Helper()
	prod, err := r.GetProduct(context.Background(), id)
	require.NoError(t, err)
	return prod.Stock
}

func TestOrderService_PlaceOrder_TotalSnapshotsPrice(t *testing.T) {
	t.Parallel()

	svc, r, events := newOrderService(t)
	ctx := context.Background()

	buyer := seedUser(t, r, "buyer", models.RoleUser)
	p1 := seedProduct(t, r, "keyboard", 10.00, 5)
	p2 := seedProduct(t, r, "mouse", 4.50, 5)

	order, err := svc.PlaceOrder(ctx, buyer.ID, buyer.Role, orderReq(
		transport.OrderItemRequest{ProductID: p1.ID, Quantity: 2},
		transport.OrderItemRequest{ProductID: p2.ID, Quantity: 1},
	))
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 24.50, order.Total)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 10.00, order.Items[0].UnitPrice)
	assert.Equal(t, uint(3), currentStock(t, r, p1.ID))
	assert.Equal(t, uint(4), currentStock(t, r, p2.ID))
	require.Len(t, events.byType("order_created"), 1)

	// A later price change must not touch the stored total.
	p1.Price = 99.99
	require.NoError(t, r.SaveProduct(ctx, p1))

	stored, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 24.50, stored.Total)
	assert.Equal(t, 10.00, stored.Items[0].UnitPrice)
}

func TestOrderService_PlaceOrder_UnknownProductAbortsAll(t *testing.T) {
	t.Parallel()

	svc, r, _ := newOrderService(t)
	ctx := context.Background()

	buyer := seedUser(t, r, "buyer", models.RoleUser)
	p1 := seedProduct(t, r, "keyboard", 10.00, 5)

	_, err := svc.PlaceOrder(ctx, buyer.ID, buyer.Role, orderReq(
		transport.OrderItemRequest{ProductID: p1.ID, Quantity: 1},
		transport.OrderItemRequest{ProductID: 9999, Quantity: 1},
	))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	// No stock moved for the valid line either.
	assert.Equal(t, uint(5), currentStock(t, r, p1.ID))

	orders, err := svc.ListAllOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderService_PlaceOrder_ShortfallRollsBackEarlierLines(t *testing.T) {
	t.Parallel()

	svc, r, _ := newOrderService(t)
	ctx := context.Background()

	buyer := seedUser(t, r, "buyer", models.RoleUser)
	p1 := seedProduct(t, r, "keyboard", 10.00, 5)
	p2 := seedProduct(t, r, "webcam", 30.00, 0)

	_, err := svc.PlaceOrder(ctx, buyer.ID, buyer.Role, orderReq(
		transport.OrderItemRequest{ProductID: p1.ID, Quantity: 1},
		transport.OrderItemRequest{ProductID: p2.ID, Quantity: 1},
	))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStock)

	var stockErr *StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, p2.ID, stockErr.ProductID)
	assert.Equal(t, uint(0), stockErr.Available)
	assert.Equal(t, uint(1), stockErr.Requested)

	// The earlier decrement on p1 was rolled back with the transaction.
	assert.Equal(t, uint(5), currentStock(t, r, p1.ID))
	assert.Equal(t, uint(0), currentStock(t, r, p2.ID))
}

func TestOrderService_PlaceOrder_ContendedStockNeverOversells(t *testing.T) {
	t.Parallel()

	svc, r, _ := newOrderService(t)
	ctx := context.Background()

	buyer := seedUser(t, r, "buyer", models.RoleUser)
	prod := seedProduct(t, r, "limited", 10.00, 2)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.PlaceOrder(ctx, buyer.ID, buyer.Role, orderReq(
				transport.OrderItemRequest{ProductID: prod.ID, Quantity: 2},
			))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrStock)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one of the contending orders may win")
	assert.Equal(t, uint(0), currentStock(t, r, prod.ID))

	winner, err := svc.ListMyOrders(ctx, buyer.ID, buyer.Role)
	require.NoError(t, err)
	require.Len(t, winner, 1)
	assert.Equal(t, 20.00, winner[0].Total)
}

func TestOrderService_PlaceOrder_RejectsAdmins(t *testing.T) {
	t.Parallel()

	svc, r, _ := newOrderService(t)
	ctx := context.Background()

	admin := seedUser(t, r, "root", models.RoleAdmin)
	prod := seedProduct(t, r, "keyboard", 10.00, 5)

	_, err := svc.PlaceOrder(ctx, admin.ID, admin.Role, orderReq(
		transport.OrderItemRequest{ProductID: prod.ID, Quantity: 1},
	))
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, uint(5), currentStock(t, r, prod.ID))
}

func TestOrderService_PlaceOrder_Validation(t *testing.T) {
	t.Parallel()

	svc, r, _ := newOrderService(t)
	ctx := context.Background()

	buyer := seedUser(t, r, "buyer", models.RoleUser)
	prod := seedProduct(t, r, "keyboard", 10.00, 5)

	tests := []struct {
		name string
		req  transport.CreateOrderRequest
	}{
		{name: "no items", req: orderReq()},
		{name: "zero quantity", req: orderReq(transport.OrderItemRequest{ProductID: prod.ID, Quantity: 0})},
		{name: "missing product id", req: orderReq(transport.OrderItemRequest{ProductID: 0, Quantity: 1})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.PlaceOrder(ctx, buyer.ID, buyer.Role, tt.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
	assert.Equal(t, uint(5), currentStock(t, r, prod.ID))
}

func TestOrderService_ListMyOrders_NewestFirst(t *testing.T) {
	t.Parallel()

	svc, r, _ := newOrderService(t)
	ctx := context.Background()

	buyer := seedUser(t, r, "buyer", models.RoleUser)
	other := seedUser(t, r, "other", models.RoleUser)
	prod := seedProduct(t, r, "keyboard", 10.00, 10)

	first, err := svc.PlaceOrder(ctx, buyer.ID, buyer.Role, orderReq(
		transport.OrderItemRequest{ProductID: prod.ID, Quantity: 1}))
	require.NoError(t, err)
	second, err := svc.PlaceOrder(ctx, buyer.ID, buyer.Role, orderReq(
		transport.OrderItemRequest{ProductID: prod.ID, Quantity: 2}))
	require.NoError(t, err)
	_, err = svc.PlaceOrder(ctx, other.ID, other.Role, orderReq(
		transport.OrderItemRequest{ProductID: prod.ID, Quantity: 1}))
	require.NoError(t, err)

	mine, err := svc.ListMyOrders(ctx, buyer.ID, buyer.Role)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)

	_, err = svc.ListMyOrders(ctx, buyer.ID, models.RoleAdmin)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestOrderService_ListOrdersForProduct_RedactsOtherItems(t *testing.T) {
	t.Parallel()

	svc, r, _ := newOrderService(t)
	ctx := context.Background()

	buyer := seedUser(t, r, "buyer", models.RoleUser)
	p1 := seedProduct(t, r, "keyboard", 10.00, 10)
	p2 := seedProduct(t, r, "mouse", 5.00, 10)

	_, err := svc.PlaceOrder(ctx, buyer.ID, buyer.Role, orderReq(
		transport.OrderItemRequest{ProductID: p1.ID, Quantity: 1},
		transport.OrderItemRequest{ProductID: p2.ID, Quantity: 3},
	))
	require.NoError(t, err)
	_, err = svc.PlaceOrder(ctx, buyer.ID, buyer.Role, orderReq(
		transport.OrderItemRequest{ProductID: p1.ID, Quantity: 2},
	))
	require.NoError(t, err)

	orders, err := svc.ListOrdersForProduct(ctx, p2.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, p2.ID, orders[0].Items[0].ProductID)
	assert.Equal(t, uint(3), orders[0].Items[0].Quantity)

	_, err = svc.ListOrdersForProduct(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
