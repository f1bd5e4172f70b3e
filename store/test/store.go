package test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/screenplot/screenplot/internal/profile"
	"github.com/screenplot/screenplot/store"
	"github.com/screenplot/screenplot/store/db"
)

// NewTestingStore opens a migrated store for tests. The driver defaults to
// sqlite backed by a per-test temp file; set SCREENPLOT_TEST_DRIVER=postgres
// together with POSTGRES_TEST_DSN to run against PostgreSQL.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	testProfile := getTestingProfile(t)
	dbDriver, err := db.NewDBDriver(testProfile)
	if err != nil {
		t.Fatalf("failed to create db driver: %v", err)
	}

	testStore := store.New(dbDriver, testProfile)
	if err := testStore.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	t.Cleanup(func() {
		if err := testStore.Close(); err != nil {
			t.Logf("failed to close store: %v", err)
		}
	})
	return testStore
}

func getTestingProfile(t *testing.T) *profile.Profile {
	driver := getDriverFromEnv()
	p := &profile.Profile{
		Mode:   "dev",
		Driver: driver,
	}
	switch driver {
	case "postgres":
		dsn := os.Getenv("POSTGRES_TEST_DSN")
		if dsn == "" {
			t.Skip("POSTGRES_TEST_DSN is not set")
		}
		p.DSN = dsn
	default:
		dir := t.TempDir()
		p.Data = dir
		p.DSN = filepath.Join(dir, "screenplot_test.db")
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("invalid testing profile: %v", err)
	}
	return p
}

func getDriverFromEnv() string {
	driver := os.Getenv("SCREENPLOT_TEST_DRIVER")
	if driver == "" {
		return "sqlite"
	}
	return driver
}
