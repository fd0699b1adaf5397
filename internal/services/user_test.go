package services

import (
	"context"
	"net/http"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/openmicroshop/commerce-backend/internal/db"
	"github.com/openmicroshop/commerce-backend/internal/platform/logger"
	"github.com/openmicroshop/commerce-backend/internal/repos"
)

func newUserHarness(t *testing.T) (UserService, *gorm.DB) {
	t.Helper()
	gdb := newTestDB(t, db.UsersModels)
	log := logger.NewNop()
	return NewUserService(gdb, log, repos.NewUserRepo(gdb, log)), gdb
}

func TestUserCreateNormalizesAndHashes(t *testing.T) {
	t.Parallel()
	svc, _ := newUserHarness(t)

	user, err := svc.Create(context.Background(), CreateUserInput{
		Name:     "  Ada  ",
		Email:    " Ada@Example.COM ",
		Password: "hunter2",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Name != "Ada" {
		t.Fatalf("unexpected name: got=%q want=%q", user.Name, "Ada")
	}
	if user.Email != "ada@example.com" {
		t.Fatalf("unexpected email: got=%q want=%q", user.Email, "ada@example.com")
	}
	if user.Password == "hunter2" {
		t.Fatalf("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("hunter2")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	t.Parallel()
	svc, _ := newUserHarness(t)

	input := CreateUserInput{Name: "Ada", Email: "ada@example.com", Password: "hunter2"}
	if _, err := svc.Create(context.Background(), input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := svc.Create(context.Background(), input)
	wantStatus(t, err, http.StatusConflict, "email_taken")
}

func TestUserCreateMissingFields(t *testing.T) {
	t.Parallel()
	svc, _ := newUserHarness(t)

	_, err := svc.Create(context.Background(), CreateUserInput{Name: "Ada"})
	wantStatus(t, err, http.StatusBadRequest, "missing_fields")
}

func TestUserUpdateEmailConflict(t *testing.T) {
	t.Parallel()
	svc, _ := newUserHarness(t)

	if _, err := svc.Create(context.Background(), CreateUserInput{Name: "Ada", Email: "ada@example.com", Password: "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Create(context.Background(), CreateUserInput{Name: "Grace", Email: "grace@example.com", Password: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	taken := "ada@example.com"
	_, err = svc.Update(context.Background(), second.ID, UpdateUserInput{Email: &taken})
	wantStatus(t, err, http.StatusConflict, "email_taken")

	// Re-submitting your own email is not a conflict.
	own := "grace@example.com"
	if _, err := svc.Update(context.Background(), second.ID, UpdateUserInput{Email: &own}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUserGetMissing(t *testing.T) {
	t.Parallel()
	svc, _ := newUserHarness(t)

	_, err := svc.GetByID(context.Background(), 404)
	wantStatus(t, err, http.StatusNotFound, "user_not_found")
}

func TestUserDeleteMissing(t *testing.T) {
	t.Parallel()
	svc, _ := newUserHarness(t)

	err := svc.Delete(context.Background(), 404)
	wantStatus(t, err, http.StatusNotFound, "user_not_found")
}

func TestUserDeleteThenGet(t *testing.T) {
	t.Parallel()
	svc, _ := newUserHarness(t)

	user, err := svc.Create(context.Background(), CreateUserInput{Name: "Ada", Email: "ada@example.com", Password: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(context.Background(), user.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = svc.GetByID(context.Background(), user.ID)
	wantStatus(t, err, http.StatusNotFound, "user_not_found")
}
