package gormdb

import (
	"context"

	"github.com/jot/notes-backend/internal/domain"
	"gorm.io/gorm"
)

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *documentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *domain.Document) error {
	return translate(r.db.WithContext(ctx).Create(doc).Error)
}

func (r *documentRepository) GetByID(ctx context.Context, id uint) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

func (r *documentRepository) ListByUserID(ctx context.Context, userID uint) ([]*domain.Document, error) {
	var docs []*domain.Document
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&docs).Error
	if err != nil {
		return nil, translate(err)
	}
	return docs, nil
}

func (r *documentRepository) ListFavoritesByUserID(ctx context.Context, userID uint) ([]*domain.Document, error) {
	var docs []*domain.Document
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_favorite = ?", userID, true).
		Order("updated_at DESC").
		Find(&docs).Error
	if err != nil {
		return nil, translate(err)
	}
	return docs, nil
}

func (r *documentRepository) Update(ctx context.Context, doc *domain.Document) error {
	return translate(r.db.WithContext(ctx).Save(doc).Error)
}

func (r *documentRepository) DeleteMany(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).
		Delete(&domain.Document{}, "id IN ?", ids).Error)
}
