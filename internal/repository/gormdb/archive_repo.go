package gormdb

import (
	"context"
	"strings"

	"github.com/jot/notes-backend/internal/domain"
	"gorm.io/gorm"
)

type accountArchiveRepository struct {
	db *gorm.DB
}

func NewAccountArchiveRepository(db *gorm.DB) *accountArchiveRepository {
	return &accountArchiveRepository{db: db}
}

func (r *accountArchiveRepository) Create(ctx context.Context, archive *domain.ArchivedAccount) error {
	archive.Email = strings.ToLower(archive.Email)
	return translate(r.db.WithContext(ctx).Create(archive).Error)
}

func (r *accountArchiveRepository) GetByEmail(ctx context.Context, email string) (*domain.ArchivedAccount, error) {
	var archive domain.ArchivedAccount
	err := r.db.WithContext(ctx).First(&archive, "email = ?", strings.ToLower(email)).Error
	if err != nil {
		return nil, translate(err)
	}
	return &archive, nil
}

func (r *accountArchiveRepository) Delete(ctx context.Context, id uint) error {
	return translate(r.db.WithContext(ctx).Delete(&domain.ArchivedAccount{}, "id = ?", id).Error)
}

type documentArchiveRepository struct {
	db *gorm.DB
}

func NewDocumentArchiveRepository(db *gorm.DB) *documentArchiveRepository {
	return &documentArchiveRepository{db: db}
}

func (r *documentArchiveRepository) CreateMany(ctx context.Context, archives []*domain.ArchivedDocument) error {
	if len(archives) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Create(archives).Error)
}

func (r *documentArchiveRepository) GetByID(ctx context.Context, id uint) (*domain.ArchivedDocument, error) {
	var archive domain.ArchivedDocument
	err := r.db.WithContext(ctx).First(&archive, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &archive, nil
}

func (r *documentArchiveRepository) ListByUserID(ctx context.Context, userID uint) ([]*domain.ArchivedDocument, error) {
	var archives []*domain.ArchivedDocument
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("deleted_at DESC").
		Find(&archives).Error
	if err != nil {
		return nil, translate(err)
	}
	return archives, nil
}

func (r *documentArchiveRepository) Delete(ctx context.Context, id uint) error {
	return translate(r.db.WithContext(ctx).Delete(&domain.ArchivedDocument{}, "id = ?", id).Error)
}

func (r *documentArchiveRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	return translate(r.db.WithContext(ctx).Delete(&domain.ArchivedDocument{}, "user_id = ?", userID).Error)
}
