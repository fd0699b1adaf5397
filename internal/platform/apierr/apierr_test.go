package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestFromUnwrapsThroughChain(t *testing.T) {
	t.Parallel()
	base := NotFound("order_not_found", errors.New("gone"))
	wrapped := fmt.Errorf("delete order: %w", base)

	got := From(wrapped)
	if got.Status != http.StatusNotFound || got.Code != "order_not_found" {
		t.Fatalf("unexpected error: %+v", got)
	}
}

func TestFromDefaultsToInternal(t *testing.T) {
	t.Parallel()
	got := From(errors.New("driver: bad connection"))
	if got.Status != http.StatusInternalServerError {
		t.Fatalf("unexpected status: got=%d want=500", got.Status)
	}
	if got.Code != "internal_error" {
		t.Fatalf("unexpected code: got=%q", got.Code)
	}
}

func TestFromNil(t *testing.T) {
	t.Parallel()
	if got := From(nil); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestUnavailableCode(t *testing.T) {
	t.Parallel()
	got := Unavailable("product", errors.New("timeout"))
	if got.Status != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status: got=%d want=503", got.Status)
	}
	if got.Code != "product_service_unavailable" {
		t.Fatalf("unexpected code: got=%q", got.Code)
	}
}

func TestIsStatus(t *testing.T) {
	t.Parallel()
	err := fmt.Errorf("wrap: %w", Conflict("email_taken", nil))
	if !IsStatus(err, http.StatusConflict) {
		t.Fatalf("expected conflict status to match")
	}
	if IsStatus(err, http.StatusNotFound) {
		t.Fatalf("unexpected status match")
	}
}

func TestErrorMessageFallbacks(t *testing.T) {
	t.Parallel()
	if got := (&Error{Err: errors.New("boom")}).Error(); got != "boom" {
		t.Fatalf("unexpected message: %q", got)
	}
	if got := (&Error{Code: "invalid_user_id"}).Error(); got != "invalid_user_id" {
		t.Fatalf("unexpected message: %q", got)
	}
	if got := (&Error{Status: 418}).Error(); got != "api error (418)" {
		t.Fatalf("unexpected message: %q", got)
	}
}
