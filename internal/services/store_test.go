package services

import (
	"context"
	"net/http"
	"testing"

	"gorm.io/gorm"

	"github.com/openmicroshop/commerce-backend/internal/db"
	"github.com/openmicroshop/commerce-backend/internal/platform/logger"
	"github.com/openmicroshop/commerce-backend/internal/repos"
	"github.com/openmicroshop/commerce-backend/internal/types"
)

func newStoreHarness(t *testing.T) (StoreService, *gorm.DB, *fakeResolver, *fakeResolver) {
	t.Helper()
	gdb := newTestDB(t, db.StoresModels)
	log := logger.NewNop()
	users := newFakeResolver("user")
	products := newFakeResolver("product")
	svc := NewStoreService(
		gdb,
		log,
		repos.NewStoreRepo(gdb, log),
		repos.NewStoreProductRepo(gdb, log),
		newTestValidator(users, products),
	)
	return svc, gdb, users, products
}

func TestStoreCreateValidatesOwner(t *testing.T) {
	t.Parallel()
	svc, gdb, users, _ := newStoreHarness(t)
	users.missing[9] = true

	_, err := svc.Create(context.Background(), CreateStoreInput{Name: "corner shop", UserProp: 9})
	wantStatus(t, err, http.StatusBadRequest, "invalid_user_id")
	if n := countRows(t, gdb, &types.Store{}); n != 0 {
		t.Fatalf("store persisted despite rejected owner: rows=%d", n)
	}

	store, err := svc.Create(context.Background(), CreateStoreInput{Name: "corner shop", UserProp: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.ID == 0 || store.UserProp != 1 {
		t.Fatalf("unexpected store: %+v", store)
	}
}

func TestStoreCreateUnavailableUserService(t *testing.T) {
	t.Parallel()
	svc, _, users, _ := newStoreHarness(t)
	users.down = true

	_, err := svc.Create(context.Background(), CreateStoreInput{Name: "corner shop", UserProp: 1})
	wantStatus(t, err, http.StatusServiceUnavailable, "user_service_unavailable")
}

func TestStoreUpdateRevalidatesOnlyChangedOwner(t *testing.T) {
	t.Parallel()
	svc, _, users, _ := newStoreHarness(t)

	store, err := svc.Create(context.Background(), CreateStoreInput{Name: "corner shop", UserProp: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := users.totalCalls()

	name := "renamed shop"
	if _, err := svc.Update(context.Background(), store.ID, UpdateStoreInput{Name: &name}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := users.totalCalls(); got != before {
		t.Fatalf("name-only update must not revalidate owner: calls got=%d want=%d", got, before)
	}

	newOwner := int64(4)
	if _, err := svc.Update(context.Background(), store.ID, UpdateStoreInput{UserProp: &newOwner}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := users.callCount(4); got == 0 {
		t.Fatalf("changed owner reference was not validated")
	}
}

func TestStoreAttachProductUpserts(t *testing.T) {
	t.Parallel()
	svc, gdb, _, _ := newStoreHarness(t)

	store, err := svc.Create(context.Background(), CreateStoreInput{Name: "corner shop", UserProp: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := svc.AttachProduct(context.Background(), store.ID, AttachStoreProductInput{ProductID: 5, Price: 9.99, Quantity: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.AttachProduct(context.Background(), store.ID, AttachStoreProductInput{ProductID: 5, Price: 7.50, Quantity: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("re-attach must update in place: got id=%d want=%d", second.ID, first.ID)
	}
	if second.Price != 7.50 || second.Quantity != 10 {
		t.Fatalf("unexpected upserted values: %+v", second)
	}
	if n := countRows(t, gdb, &types.StoreProduct{}); n != 1 {
		t.Fatalf("unexpected store_products rows: got=%d want=1", n)
	}
}

func TestStoreAttachProductRejectedProduct(t *testing.T) {
	t.Parallel()
	svc, _, _, products := newStoreHarness(t)
	products.missing[5] = true

	store, err := svc.Create(context.Background(), CreateStoreInput{Name: "corner shop", UserProp: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.AttachProduct(context.Background(), store.ID, AttachStoreProductInput{ProductID: 5, Price: 1, Quantity: 1})
	wantStatus(t, err, http.StatusBadRequest, "invalid_product_id")
}

func TestStoreAttachProductMissingStore(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newStoreHarness(t)

	_, err := svc.AttachProduct(context.Background(), 999, AttachStoreProductInput{ProductID: 5, Price: 1, Quantity: 1})
	wantStatus(t, err, http.StatusNotFound, "store_not_found")
}

func TestStoreDeleteRemovesAttachedProducts(t *testing.T) {
	t.Parallel()
	svc, gdb, _, _ := newStoreHarness(t)

	store, err := svc.Create(context.Background(), CreateStoreInput{Name: "corner shop", UserProp: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.AttachProduct(context.Background(), store.ID, AttachStoreProductInput{ProductID: 5, Price: 1, Quantity: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Delete(context.Background(), store.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := countRows(t, gdb, &types.StoreProduct{}); n != 0 {
		t.Fatalf("store products survived store delete: rows=%d", n)
	}

	err = svc.Delete(context.Background(), store.ID)
	wantStatus(t, err, http.StatusNotFound, "store_not_found")
}

func TestStoreDetachProduct(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newStoreHarness(t)

	store, err := svc.Create(context.Background(), CreateStoreInput{Name: "corner shop", UserProp: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.AttachProduct(context.Background(), store.ID, AttachStoreProductInput{ProductID: 5, Price: 1, Quantity: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.DetachProduct(context.Background(), store.ID, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = svc.DetachProduct(context.Background(), store.ID, 5)
	wantStatus(t, err, http.StatusNotFound, "store_product_not_found")
}
