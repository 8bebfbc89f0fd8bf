// Package storagetest opens throwaway SQLite-backed storage for tests.
package storagetest

import (
	"context"
	"fmt"
	"testing"

	"roomchat/backend/internal/models"
	"roomchat/backend/internal/storage"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New returns a storage service over a private in-memory database with the
// chat schema migrated. Redis is nil, so published events are dropped.
func New(t testing.TB) *storage.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	// One connection keeps the in-memory database alive and serialises writers.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := storage.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return storage.NewStorageService(db, nil)
}

// SeedUsers inserts active users with the given ids.
func SeedUsers(t testing.TB, s *storage.Service, ids ...int64) {
	t.Helper()
	for _, id := range ids {
		user := &models.User{
			ID:        id,
			FirstName: fmt.Sprintf("User%d", id),
			LastName:  "Test",
			IsActive:  true,
		}
		if err := s.SaveUser(context.Background(), user); err != nil {
			t.Fatalf("seed user %d: %v", id, err)
		}
	}
}
