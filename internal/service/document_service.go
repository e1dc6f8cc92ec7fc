package service

import (
	"context"
	"strings"

	"github.com/jot/notes-backend/internal/domain"
	"github.com/jot/notes-backend/internal/markdown"
	"github.com/jot/notes-backend/internal/repository"
)

const (
	maxTitleLength   = 200
	maxContentLength = 512 * 1024
	maxTags          = 32
)

type DocumentService struct {
	docRepo  repository.DocumentRepository
	renderer *markdown.Renderer
}

func NewDocumentService(docRepo repository.DocumentRepository, renderer *markdown.Renderer) *DocumentService {
	return &DocumentService{docRepo: docRepo, renderer: renderer}
}

type DocumentInput struct {
	Title   string
	Content string
	Tags    []string
}

func (s *DocumentService) Create(ctx context.Context, userID uint, input DocumentInput) (*domain.Document, error) {
	if err := validateDocument(input); err != nil {
		return nil, err
	}

	doc := &domain.Document{
		UserID:  userID,
		Title:   strings.TrimSpace(input.Title),
		Content: input.Content,
		Tags:    domain.EncodeTags(normalizeTags(input.Tags)),
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) Get(ctx context.Context, userID, documentID uint) (*domain.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return doc, nil
}

func (s *DocumentService) Update(ctx context.Context, userID, documentID uint, input DocumentInput) (*domain.Document, error) {
	if err := validateDocument(input); err != nil {
		return nil, err
	}

	doc, err := s.Get(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}

	doc.Title = strings.TrimSpace(input.Title)
	doc.Content = input.Content
	doc.Tags = domain.EncodeTags(normalizeTags(input.Tags))
	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) List(ctx context.Context, userID uint, favoritesOnly bool) ([]*domain.Document, error) {
	if favoritesOnly {
		return s.docRepo.ListFavoritesByUserID(ctx, userID)
	}
	return s.docRepo.ListByUserID(ctx, userID)
}

func (s *DocumentService) ToggleFavorite(ctx context.Context, userID, documentID uint) (*domain.Document, error) {
	doc, err := s.Get(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}
	doc.IsFavorite = !doc.IsFavorite
	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// RenderHTML converts the document's markdown content to sanitized HTML.
func (s *DocumentService) RenderHTML(ctx context.Context, userID, documentID uint) (string, error) {
	doc, err := s.Get(ctx, userID, documentID)
	if err != nil {
		return "", err
	}
	return s.renderer.Render(doc.Content), nil
}

func validateDocument(input DocumentInput) error {
	title := strings.TrimSpace(input.Title)
	if title == "" || len(title) > maxTitleLength {
		return domain.ErrTitleRequired
	}
	if len(input.Content) > maxContentLength {
		return domain.ErrContentTooLarge
	}
	return nil
}

// normalizeTags trims whitespace, drops empties and duplicates, preserves
// first-seen order and caps the set size.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
		if len(out) == maxTags {
			break
		}
	}
	return out
}
