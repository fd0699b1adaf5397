package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/openmicroshop/commerce-backend/internal/db"
	"github.com/openmicroshop/commerce-backend/internal/platform/logger"
	"github.com/openmicroshop/commerce-backend/internal/repos"
	"github.com/openmicroshop/commerce-backend/internal/types"
	"gorm.io/gorm"
)

func newOrderHarness(t *testing.T) (OrderService, *gorm.DB, *fakeResolver, *fakeResolver) {
	t.Helper()
	gdb := newTestDB(t, db.OrdersModels)
	log := logger.NewNop()
	users := newFakeResolver("user")
	products := newFakeResolver("product")
	svc := NewOrderService(
		gdb,
		log,
		repos.NewOrderRepo(gdb, log),
		repos.NewOrderProductRepo(gdb, log),
		newTestValidator(users, products),
	)
	return svc, gdb, users, products
}

func countRows(t *testing.T, gdb *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := gdb.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestOrderCreatePersistsParentAndLines(t *testing.T) {
	t.Parallel()
	svc, gdb, _, _ := newOrderHarness(t)

	order, err := svc.Create(context.Background(), CreateOrderInput{
		UserID: 1,
		Products: []OrderLineInput{
			{ProductID: 10, Quantity: 2},
			{ProductID: 11, Quantity: 1},
		},
		TotalPrice: 42.50,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ID == 0 {
		t.Fatalf("expected assigned order id")
	}
	if len(order.Products) != 2 {
		t.Fatalf("unexpected line count: got=%d want=2", len(order.Products))
	}
	for _, line := range order.Products {
		if line.OrderID != order.ID {
			t.Fatalf("line not attached to parent: got=%d want=%d", line.OrderID, order.ID)
		}
	}

	got, err := svc.GetByID(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Products) != 2 {
		t.Fatalf("unexpected persisted line count: got=%d want=2", len(got.Products))
	}
	if n := countRows(t, gdb, &types.OrderProduct{}); n != 2 {
		t.Fatalf("unexpected order_products rows: got=%d want=2", n)
	}
}

func TestOrderCreateRejectedProductPersistsNothing(t *testing.T) {
	t.Parallel()
	svc, gdb, _, products := newOrderHarness(t)
	products.missing[11] = true

	_, err := svc.Create(context.Background(), CreateOrderInput{
		UserID: 1,
		Products: []OrderLineInput{
			{ProductID: 10, Quantity: 1},
			{ProductID: 11, Quantity: 1},
			{ProductID: 12, Quantity: 1},
		},
		TotalPrice: 10,
	})
	wantStatus(t, err, http.StatusBadRequest, "invalid_product_id")

	if n := countRows(t, gdb, &types.Order{}); n != 0 {
		t.Fatalf("order persisted despite rejection: rows=%d", n)
	}
	if n := countRows(t, gdb, &types.OrderProduct{}); n != 0 {
		t.Fatalf("order lines persisted despite rejection: rows=%d", n)
	}
}

func TestOrderCreateUnavailableDependency(t *testing.T) {
	t.Parallel()
	svc, gdb, _, products := newOrderHarness(t)
	products.down = true

	_, err := svc.Create(context.Background(), CreateOrderInput{
		UserID:     1,
		Products:   []OrderLineInput{{ProductID: 10, Quantity: 1}},
		TotalPrice: 5,
	})
	wantStatus(t, err, http.StatusServiceUnavailable, "product_service_unavailable")

	if n := countRows(t, gdb, &types.Order{}); n != 0 {
		t.Fatalf("order persisted despite unavailable dependency: rows=%d", n)
	}
}

func TestOrderCreateStructuralChecksSkipRemoteCalls(t *testing.T) {
	t.Parallel()
	svc, _, users, products := newOrderHarness(t)

	cases := []struct {
		name  string
		input CreateOrderInput
		code  string
	}{
		{"no lines", CreateOrderInput{UserID: 1, TotalPrice: 5}, "missing_products"},
		{"zero quantity", CreateOrderInput{UserID: 1, Products: []OrderLineInput{{ProductID: 10, Quantity: 0}}}, "invalid_quantity"},
		{"bad product id", CreateOrderInput{UserID: 1, Products: []OrderLineInput{{ProductID: 0, Quantity: 1}}}, "invalid_product_id"},
		{"missing user", CreateOrderInput{Products: []OrderLineInput{{ProductID: 10, Quantity: 1}}}, "missing_user_id"},
		{"negative total", CreateOrderInput{UserID: 1, Products: []OrderLineInput{{ProductID: 10, Quantity: 1}}, TotalPrice: -1}, "invalid_total_price"},
	}
	for _, tc := range cases {
		_, err := svc.Create(context.Background(), tc.input)
		wantStatus(t, err, http.StatusBadRequest, tc.code)
	}
	if n := users.totalCalls() + products.totalCalls(); n != 0 {
		t.Fatalf("structural failures must not trigger remote calls: got=%d", n)
	}
}

func TestOrderUpdateReplacesLines(t *testing.T) {
	t.Parallel()
	svc, gdb, _, _ := newOrderHarness(t)

	order, err := svc.Create(context.Background(), CreateOrderInput{
		UserID:     1,
		Products:   []OrderLineInput{{ProductID: 10, Quantity: 1}, {ProductID: 11, Quantity: 2}},
		TotalPrice: 20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	newLines := []OrderLineInput{{ProductID: 12, Quantity: 3}}
	updated, err := svc.Update(context.Background(), order.ID, UpdateOrderInput{Products: &newLines})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.Products) != 1 || updated.Products[0].ProductID != 12 {
		t.Fatalf("unexpected lines after update: %+v", updated.Products)
	}
	if n := countRows(t, gdb, &types.OrderProduct{}); n != 1 {
		t.Fatalf("old lines not replaced: rows=%d want=1", n)
	}
}

func TestOrderUpdateRevalidatesOnlyChangedRefs(t *testing.T) {
	t.Parallel()
	svc, _, users, _ := newOrderHarness(t)

	order, err := svc.Create(context.Background(), CreateOrderInput{
		UserID:     7,
		Products:   []OrderLineInput{{ProductID: 10, Quantity: 1}},
		TotalPrice: 5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := users.callCount(7)

	price := 9.99
	if _, err := svc.Update(context.Background(), order.ID, UpdateOrderInput{TotalPrice: &price}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := users.callCount(7); got != before {
		t.Fatalf("unchanged user reference was revalidated: calls got=%d want=%d", got, before)
	}

	sameUser := int64(7)
	if _, err := svc.Update(context.Background(), order.ID, UpdateOrderInput{UserID: &sameUser}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := users.callCount(7); got != before {
		t.Fatalf("identical user id must not be revalidated: calls got=%d want=%d", got, before)
	}
}

func TestOrderDeleteMissing(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newOrderHarness(t)

	err := svc.Delete(context.Background(), 9999)
	wantStatus(t, err, http.StatusNotFound, "order_not_found")
}

func TestOrderDeleteRemovesLines(t *testing.T) {
	t.Parallel()
	svc, gdb, _, _ := newOrderHarness(t)

	order, err := svc.Create(context.Background(), CreateOrderInput{
		UserID:     1,
		Products:   []OrderLineInput{{ProductID: 10, Quantity: 1}},
		TotalPrice: 5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(context.Background(), order.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := countRows(t, gdb, &types.OrderProduct{}); n != 0 {
		t.Fatalf("lines survived order delete: rows=%d", n)
	}
}
