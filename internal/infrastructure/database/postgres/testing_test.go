package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	domainUser "account-rbac-service/internal/domain/user"

	"github.com/glebarez/sqlite"
	gormLogger "gorm.io/gorm/logger"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// newTestDB opens a migrated and seeded in-memory database with the audit
// plugin installed. A single connection keeps the memory database alive.
func newTestDB(t *testing.T) (*DB, *testClock) {
	t.Helper()

	clock := &testClock{now: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)}
	db, err := Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), clock.Now, gormLogger.Discard)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		t.Fatalf("DB() error = %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if err := Seed(ctx, db); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	return db, clock
}

func createTestUser(t *testing.T, db *DB, email string) *domainUser.User {
	t.Helper()

	u := &domainUser.User{
		Email:          email,
		Name:           "Test User",
		PasswordHashed: "$2a$10$hash",
		IsActive:       true,
	}
	if err := NewUserRepository(db).Create(context.Background(), u); err != nil {
		t.Fatalf("Create(%s) error = %v", email, err)
	}
	return u
}
