package gormdb

import (
	"context"

	"github.com/jot/notes-backend/internal/domain"
	"gorm.io/gorm"
)

type folderRepository struct {
	db *gorm.DB
}

func NewFolderRepository(db *gorm.DB) *folderRepository {
	return &folderRepository{db: db}
}

func (r *folderRepository) Create(ctx context.Context, folder *domain.Folder) error {
	return translate(r.db.WithContext(ctx).Create(folder).Error)
}

func (r *folderRepository) GetByID(ctx context.Context, id uint) (*domain.Folder, error) {
	var folder domain.Folder
	err := r.db.WithContext(ctx).First(&folder, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &folder, nil
}

func (r *folderRepository) ListByUserID(ctx context.Context, userID uint) ([]*domain.Folder, error) {
	var folders []*domain.Folder
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&folders).Error
	if err != nil {
		return nil, translate(err)
	}
	return folders, nil
}

func (r *folderRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.FolderDocument{}, "folder_id = ?", id).Error; err != nil {
			return translate(err)
		}
		return translate(tx.Delete(&domain.Folder{}, "id = ?", id).Error)
	})
}

func (r *folderRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("folder_id IN (?)", tx.Model(&domain.Folder{}).Select("id").Where("user_id = ?", userID)).
			Delete(&domain.FolderDocument{}).Error
		if err != nil {
			return translate(err)
		}
		return translate(tx.Delete(&domain.Folder{}, "user_id = ?", userID).Error)
	})
}

func (r *folderRepository) AddDocument(ctx context.Context, folderID, documentID uint) error {
	member := domain.FolderDocument{FolderID: folderID, DocumentID: documentID}
	return translate(r.db.WithContext(ctx).Create(&member).Error)
}

func (r *folderRepository) RemoveDocument(ctx context.Context, folderID, documentID uint) error {
	return translate(r.db.WithContext(ctx).
		Delete(&domain.FolderDocument{}, "folder_id = ? AND document_id = ?", folderID, documentID).Error)
}

func (r *folderRepository) ListDocumentIDs(ctx context.Context, folderID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&domain.FolderDocument{}).
		Where("folder_id = ?", folderID).
		Pluck("document_id", &ids).Error
	if err != nil {
		return nil, translate(err)
	}
	return ids, nil
}

func (r *folderRepository) RemoveDocumentMemberships(ctx context.Context, documentIDs []uint) error {
	if len(documentIDs) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).
		Delete(&domain.FolderDocument{}, "document_id IN ?", documentIDs).Error)
}
