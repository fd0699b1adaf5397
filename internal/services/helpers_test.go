package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/openmicroshop/commerce-backend/internal/clients"
	"github.com/openmicroshop/commerce-backend/internal/config"
	"github.com/openmicroshop/commerce-backend/internal/platform/apierr"
	"github.com/openmicroshop/commerce-backend/internal/platform/logger"
	"github.com/openmicroshop/commerce-backend/internal/refcheck"
)

func newTestDB(t *testing.T, models []any) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(models...); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return gdb
}

// fakeResolver scripts the three outcomes per id and counts calls, so tests
// can assert both verdicts and which references were actually resolved.
type fakeResolver struct {
	kind    string
	missing map[int64]bool
	down    bool

	mu    sync.Mutex
	calls map[int64]int
}

func newFakeResolver(kind string) *fakeResolver {
	return &fakeResolver{kind: kind, missing: map[int64]bool{}, calls: map[int64]int{}}
}

func (f *fakeResolver) Kind() string { return f.kind }

func (f *fakeResolver) Resolve(ctx context.Context, id int64) clients.Resolution {
	f.mu.Lock()
	f.calls[id]++
	f.mu.Unlock()
	if f.down {
		return clients.Resolution{Outcome: clients.OutcomeUnreachable, Err: errors.New("connection refused")}
	}
	if f.missing[id] {
		return clients.Resolution{Outcome: clients.OutcomeNotFound}
	}
	return clients.Resolution{Outcome: clients.OutcomeFound}
}

func (f *fakeResolver) callCount(id int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}

func (f *fakeResolver) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func newTestValidator(resolvers ...clients.Resolver) *refcheck.Validator {
	return refcheck.New(logger.NewNop(), config.ValidateConfig{
		ResolveTimeout: time.Second,
		RetryBackoff:   time.Millisecond,
		OverallTimeout: 2 * time.Second,
	}, resolvers...)
}

func wantStatus(t *testing.T, err error, status int, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d, got nil", status)
	}
	ae := apierr.From(err)
	if ae.Status != status {
		t.Fatalf("unexpected status: got=%d want=%d (err=%v)", ae.Status, status, err)
	}
	if code != "" && ae.Code != code {
		t.Fatalf("unexpected code: got=%q want=%q", ae.Code, code)
	}
}
