package service

import (
	"github.com/jot/notes-backend/internal/config"
	"github.com/jot/notes-backend/internal/events"
	"github.com/jot/notes-backend/internal/markdown"
	"github.com/jot/notes-backend/internal/notify"
	"github.com/jot/notes-backend/internal/repository"
)

type Services struct {
	Auth      *AuthService
	Lifecycle *LifecycleService
	Trash     *TrashService
	Document  *DocumentService
	Folder    *FolderService
}

func NewServices(
	atomic repository.Atomic,
	repos *repository.Repositories,
	notifier notify.Notifier,
	hub *events.Hub,
	cfg *config.Config,
) *Services {
	resolver := NewIdentityResolver()
	lifecycle := NewLifecycleService(atomic, repos, resolver, notifier, hub, cfg.RetentionPeriod)

	return &Services{
		Auth:      NewAuthService(repos.User, repos.Session, lifecycle, resolver, cfg),
		Lifecycle: lifecycle,
		Trash:     NewTrashService(atomic, repos, hub),
		Document:  NewDocumentService(repos.Document, markdown.NewRenderer()),
		Folder:    NewFolderService(repos.Folder, repos.Document),
	}
}
