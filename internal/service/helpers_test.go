package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/msomdec/recipe-api/internal/domain"
	"github.com/msomdec/recipe-api/internal/repository/sqlite"
	"github.com/msomdec/recipe-api/internal/service"
	"github.com/msomdec/recipe-api/internal/validation"
)

const testJWTSecret = "test-secret-key-for-unit-tests-0123456789"

type testEnv struct {
	db      *sqlite.DB
	auth    *service.AuthService
	recipes *service.RecipeService
	tags    *service.TagService
	admin   *service.AdminService
}

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	v := validation.New()
	// Use cost 4 for fast tests.
	auth := service.NewAuthService(db.Users(), v, testJWTSecret, 4, 0)
	return &testEnv{
		db:      db,
		auth:    auth,
		recipes: service.NewRecipeService(db.Recipes(), db.Tags(), v),
		tags:    service.NewTagService(db.Tags(), v),
		admin:   service.NewAdminService(db.Users(), auth, v),
	}
}

func (e *testEnv) newUser(t *testing.T, email string) *domain.User {
	t.Helper()
	user, err := e.auth.Register(context.Background(), service.RegisterInput{
		Email:    email,
		Password: "password123",
		Name:     "Test User",
	})
	if err != nil {
		t.Fatalf("Register %s: %v", email, err)
	}
	return user
}
