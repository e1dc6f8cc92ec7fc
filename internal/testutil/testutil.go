package testutil

import (
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/jot/notes-backend/internal/api"
	"github.com/jot/notes-backend/internal/config"
	"github.com/jot/notes-backend/internal/events"
	"github.com/jot/notes-backend/internal/notify"
	"github.com/jot/notes-backend/internal/repository"
	"github.com/jot/notes-backend/internal/repository/gormdb"
	"github.com/jot/notes-backend/internal/service"
	"gorm.io/gorm"
)

// NewTestDB opens a fresh file-backed SQLite database in a per-test temp
// directory, fully migrated. Each test gets its own isolated database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gormdb.Open(dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	return db
}

// TestConfig returns a configuration suitable for testing.
func TestConfig() *config.Config {
	return &config.Config{
		Port:               "0",
		Environment:        "test",
		JWTSecret:          "test-jwt-secret-key-for-testing-only",
		JWTExpirationHours: 1,
		RetentionPeriod:    30 * 24 * time.Hour,
	}
}

// TestServer holds all components for handler-level integration tests.
type TestServer struct {
	Server   *httptest.Server
	DB       *gorm.DB
	Repos    *repository.Repositories
	Atomic   repository.Atomic
	Services *service.Services
	Hub      *events.Hub
	Config   *config.Config
}

// NewTestServer wires the full stack over a test database and a log-only
// notifier.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	db := NewTestDB(t)
	cfg := TestConfig()

	repos := gormdb.NewRepositories(db)
	atomic := gormdb.NewAtomic(db)
	hub := events.NewHub()
	services := service.NewServices(atomic, repos, notify.LogNotifier{}, hub, cfg)
	router := api.NewRouter(services, hub, cfg)

	server := httptest.NewServer(router)
	t.Cleanup(func() {
		server.Close()
		hub.Close()
	})

	return &TestServer{
		Server:   server,
		DB:       db,
		Repos:    repos,
		Atomic:   atomic,
		Services: services,
		Hub:      hub,
		Config:   cfg,
	}
}

// APIURL returns the full API URL for a given path.
func (ts *TestServer) APIURL(path string) string {
	return ts.Server.URL + "/api/v1" + path
}
