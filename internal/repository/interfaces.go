package repository

import (
	"context"

	"github.com/jot/notes-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uint) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByProvider(ctx context.Context, provider, providerID string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uint) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.UserSession) error
	GetByUserID(ctx context.Context, userID uint) (*domain.UserSession, error)
	DeleteByUserID(ctx context.Context, userID uint) error
}

type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id uint) (*domain.Document, error)
	ListByUserID(ctx context.Context, userID uint) ([]*domain.Document, error)
	ListFavoritesByUserID(ctx context.Context, userID uint) ([]*domain.Document, error)
	Update(ctx context.Context, doc *domain.Document) error
	DeleteMany(ctx context.Context, ids []uint) error
}

type FolderRepository interface {
	Create(ctx context.Context, folder *domain.Folder) error
	GetByID(ctx context.Context, id uint) (*domain.Folder, error)
	ListByUserID(ctx context.Context, userID uint) ([]*domain.Folder, error)
	Delete(ctx context.Context, id uint) error
	DeleteByUserID(ctx context.Context, userID uint) error
	AddDocument(ctx context.Context, folderID, documentID uint) error
	RemoveDocument(ctx context.Context, folderID, documentID uint) error
	ListDocumentIDs(ctx context.Context, folderID uint) ([]uint, error)
	RemoveDocumentMemberships(ctx context.Context, documentIDs []uint) error
}

type AccountArchiveRepository interface {
	Create(ctx context.Context, archive *domain.ArchivedAccount) error
	GetByEmail(ctx context.Context, email string) (*domain.ArchivedAccount, error)
	Delete(ctx context.Context, id uint) error
}

type DocumentArchiveRepository interface {
	CreateMany(ctx context.Context, archives []*domain.ArchivedDocument) error
	GetByID(ctx context.Context, id uint) (*domain.ArchivedDocument, error)
	ListByUserID(ctx context.Context, userID uint) ([]*domain.ArchivedDocument, error)
	Delete(ctx context.Context, id uint) error
	DeleteByUserID(ctx context.Context, userID uint) error
}

type Repositories struct {
	User            UserRepository
	Session         SessionRepository
	Document        DocumentRepository
	Folder          FolderRepository
	AccountArchive  AccountArchiveRepository
	DocumentArchive DocumentArchiveRepository
}

// Atomic runs fn against a transaction-bound Repositories set. If fn
// returns an error every write made through those repositories rolls back;
// concurrent readers never observe a partial archive or restore.
type Atomic interface {
	Transact(ctx context.Context, fn func(repos *Repositories) error) error
}
