package gormdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/jot/notes-backend/internal/domain"
	"github.com/jot/notes-backend/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects with the dialect implied by the URL: postgres for
// postgres:// or key=value DSNs, sqlite for file paths and :memory:.
func Open(databaseURL string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}

	var dialector gorm.Dialector
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"),
		strings.HasPrefix(databaseURL, "postgresql://"),
		strings.Contains(databaseURL, "host="):
		dialector = postgres.Open(databaseURL)
	default:
		dialector = sqlite.Open(strings.TrimPrefix(databaseURL, "sqlite://"))
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the schema for every entity the engine owns.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&domain.User{},
		&domain.UserSession{},
		&domain.Document{},
		&domain.Folder{},
		&domain.FolderDocument{},
		&domain.ArchivedAccount{},
		&domain.ArchivedDocument{},
	)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:            NewUserRepository(db),
		Session:         NewSessionRepository(db),
		Document:        NewDocumentRepository(db),
		Folder:          NewFolderRepository(db),
		AccountArchive:  NewAccountArchiveRepository(db),
		DocumentArchive: NewDocumentArchiveRepository(db),
	}
}

type atomic struct {
	db *gorm.DB
}

// NewAtomic returns an Atomic backed by database transactions.
func NewAtomic(db *gorm.DB) repository.Atomic {
	return &atomic{db: db}
}

func (a *atomic) Transact(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

// translate maps gorm errors onto the domain taxonomy so services never
// import gorm.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrConflict
	default:
		return err
	}
}
