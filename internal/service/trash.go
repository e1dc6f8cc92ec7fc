package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jot/notes-backend/internal/domain"
	"github.com/jot/notes-backend/internal/events"
	"github.com/jot/notes-backend/internal/repository"
)

// TrashService is the per-document analogue of account archival: single or
// bulk documents, no expiry window, no identity collisions. Trashed rows
// persist until restored or until the owning account is itself archived and
// expires.
type TrashService struct {
	atomic repository.Atomic
	repos  *repository.Repositories
	hub    *events.Hub
}

func NewTrashService(atomic repository.Atomic, repos *repository.Repositories, hub *events.Hub) *TrashService {
	return &TrashService{atomic: atomic, repos: repos, hub: hub}
}

// TrashOne moves a single owned document into the trash.
func (s *TrashService) TrashOne(ctx context.Context, userID, documentID uint) (*domain.ArchivedDocument, error) {
	archives, err := s.trash(ctx, userID, []uint{documentID})
	if err != nil {
		return nil, err
	}
	return archives[0], nil
}

// TrashMany moves several owned documents into the trash in one transaction.
// Every id must resolve to a document owned by userID or nothing happens.
func (s *TrashService) TrashMany(ctx context.Context, userID uint, documentIDs []uint) ([]*domain.ArchivedDocument, error) {
	if len(documentIDs) == 0 {
		return nil, nil
	}
	return s.trash(ctx, userID, documentIDs)
}

func (s *TrashService) trash(ctx context.Context, userID uint, documentIDs []uint) ([]*domain.ArchivedDocument, error) {
	var archives []*domain.ArchivedDocument

	err := s.atomic.Transact(ctx, func(r *repository.Repositories) error {
		now := time.Now().UTC()
		archives = make([]*domain.ArchivedDocument, 0, len(documentIDs))

		for _, id := range documentIDs {
			doc, err := r.Document.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if doc.UserID != userID {
				return domain.ErrUnauthorized
			}
			archives = append(archives, domain.NewArchivedDocument(doc, now))
		}

		if err := r.DocumentArchive.CreateMany(ctx, archives); err != nil {
			return err
		}
		if err := r.Folder.RemoveDocumentMemberships(ctx, documentIDs); err != nil {
			return err
		}
		return r.Document.DeleteMany(ctx, documentIDs)
	})
	if err != nil {
		return nil, fmt.Errorf("trash documents: %w", err)
	}

	for _, a := range archives {
		s.hub.Publish(userID, events.TypeDocumentTrashed, map[string]any{
			"archiveId":  a.ID,
			"originalId": a.OriginalID,
			"title":      a.Title,
		})
	}

	return archives, nil
}

// Restore recreates a live document from a trash row owned by userID. The
// restored document gets a fresh id.
func (s *TrashService) Restore(ctx context.Context, userID, archivedDocumentID uint) (*domain.Document, error) {
	var restored *domain.Document

	err := s.atomic.Transact(ctx, func(r *repository.Repositories) error {
		archive, err := r.DocumentArchive.GetByID(ctx, archivedDocumentID)
		if err != nil {
			return err
		}
		if archive.UserID != userID {
			return domain.ErrUnauthorized
		}

		doc := archive.ToDocument(userID)
		if err := r.Document.Create(ctx, doc); err != nil {
			return err
		}
		if err := r.DocumentArchive.Delete(ctx, archive.ID); err != nil {
			return err
		}

		restored = doc
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(userID, events.TypeDocumentRestored, map[string]any{
		"id":    restored.ID,
		"title": restored.Title,
	})

	return restored, nil
}

// List returns the caller's trashed documents, newest first.
func (s *TrashService) List(ctx context.Context, userID uint) ([]*domain.ArchivedDocument, error) {
	return s.repos.DocumentArchive.ListByUserID(ctx, userID)
}
