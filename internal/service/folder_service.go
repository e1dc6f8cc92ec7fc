package service

import (
	"context"
	"strings"

	"github.com/jot/notes-backend/internal/domain"
	"github.com/jot/notes-backend/internal/repository"
)

type FolderService struct {
	folderRepo repository.FolderRepository
	docRepo    repository.DocumentRepository
}

func NewFolderService(folderRepo repository.FolderRepository, docRepo repository.DocumentRepository) *FolderService {
	return &FolderService{folderRepo: folderRepo, docRepo: docRepo}
}

func (s *FolderService) Create(ctx context.Context, userID uint, name string) (*domain.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	folder := &domain.Folder{UserID: userID, Name: name}
	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}
	return folder, nil
}

func (s *FolderService) List(ctx context.Context, userID uint) ([]*domain.Folder, error) {
	return s.folderRepo.ListByUserID(ctx, userID)
}

func (s *FolderService) Delete(ctx context.Context, userID, folderID uint) error {
	if _, err := s.owned(ctx, userID, folderID); err != nil {
		return err
	}
	return s.folderRepo.Delete(ctx, folderID)
}

// AddDocument files an owned document into an owned folder.
func (s *FolderService) AddDocument(ctx context.Context, userID, folderID, documentID uint) error {
	if _, err := s.owned(ctx, userID, folderID); err != nil {
		return err
	}
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return err
	}
	if doc.UserID != userID {
		return domain.ErrUnauthorized
	}
	return s.folderRepo.AddDocument(ctx, folderID, documentID)
}

func (s *FolderService) RemoveDocument(ctx context.Context, userID, folderID, documentID uint) error {
	if _, err := s.owned(ctx, userID, folderID); err != nil {
		return err
	}
	return s.folderRepo.RemoveDocument(ctx, folderID, documentID)
}

// ListDocuments returns the documents filed into an owned folder.
func (s *FolderService) ListDocuments(ctx context.Context, userID, folderID uint) ([]*domain.Document, error) {
	if _, err := s.owned(ctx, userID, folderID); err != nil {
		return nil, err
	}
	ids, err := s.folderRepo.ListDocumentIDs(ctx, folderID)
	if err != nil {
		return nil, err
	}
	docs := make([]*domain.Document, 0, len(ids))
	for _, id := range ids {
		doc, err := s.docRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *FolderService) owned(ctx context.Context, userID, folderID uint) (*domain.Folder, error) {
	folder, err := s.folderRepo.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if folder.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return folder, nil
}
