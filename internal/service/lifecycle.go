package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jot/notes-backend/internal/domain"
	"github.com/jot/notes-backend/internal/events"
	"github.com/jot/notes-backend/internal/notify"
	"github.com/jot/notes-backend/internal/repository"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// GateStatus classifies an email's archive state at the reactivation gate.
type GateStatus int

const (
	// GateNotFound: no archive row, proceed with normal authentication.
	GateNotFound GateStatus = iota
	// GateActive: an archive row exists inside its retention window;
	// reactivation should be offered before standard login failure.
	GateActive
	// GateExpired: an archive row existed but the window had elapsed. The
	// row has been purged; the email behaves as unregistered from here on.
	GateExpired
)

// LifecycleService is the account archival engine: it soft-deletes an
// account and its documents into a time-bounded archive, answers whether an
// email is reactivatable, and recreates accounts from archive records.
type LifecycleService struct {
	atomic    repository.Atomic
	repos     *repository.Repositories
	resolver  *IdentityResolver
	notifier  notify.Notifier
	hub       *events.Hub
	retention time.Duration
}

func NewLifecycleService(
	atomic repository.Atomic,
	repos *repository.Repositories,
	resolver *IdentityResolver,
	notifier notify.Notifier,
	hub *events.Hub,
	retention time.Duration,
) *LifecycleService {
	return &LifecycleService{
		atomic:    atomic,
		repos:     repos,
		resolver:  resolver,
		notifier:  notifier,
		hub:       hub,
		retention: retention,
	}
}

// Archive moves a live user and everything they own into archived storage.
// The caller must already have authenticated the acting identity. Document
// snapshots, folder cleanup, session invalidation, the account snapshot and
// the user deletion all commit or roll back together; the confirmation
// notice goes out after commit, best-effort.
func (s *LifecycleService) Archive(ctx context.Context, userID uint, reason string) (*domain.ArchivedAccount, error) {
	var archived *domain.ArchivedAccount

	err := s.atomic.Transact(ctx, func(r *repository.Repositories) error {
		user, err := r.User.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		docs, err := r.Document.ListByUserID(ctx, userID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if len(docs) > 0 {
			snapshots := make([]*domain.ArchivedDocument, 0, len(docs))
			ids := make([]uint, 0, len(docs))
			for _, doc := range docs {
				snapshots = append(snapshots, domain.NewArchivedDocument(doc, now))
				ids = append(ids, doc.ID)
			}
			if err := r.DocumentArchive.CreateMany(ctx, snapshots); err != nil {
				return err
			}
			if err := r.Document.DeleteMany(ctx, ids); err != nil {
				return err
			}
		}

		if err := r.Folder.DeleteByUserID(ctx, userID); err != nil {
			return err
		}
		if err := r.Session.DeleteByUserID(ctx, userID); err != nil {
			return err
		}

		archived, err = domain.NewArchivedAccount(user, now, s.retention)
		if err != nil {
			return err
		}
		if err := r.AccountArchive.Create(ctx, archived); err != nil {
			return err
		}

		return r.User.Delete(ctx, user.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("archive account %d: %w", userID, err)
	}

	log.WithFields(log.Fields{
		"user_id":    userID,
		"email":      archived.Email,
		"reason":     reason,
		"expires_at": archived.ExpiresAt,
	}).Info("account archived")

	s.hub.Publish(userID, events.TypeAccountArchived, map[string]any{"expiresAt": archived.ExpiresAt})

	name := archived.FirstName
	if name == "" {
		name = archived.Username
	}
	if err := s.notifier.DeletionScheduled(ctx, archived.Email, name, archived.ExpiresAt); err != nil {
		log.WithError(err).WithField("email", archived.Email).Warn("deletion notice not delivered")
	}

	return archived, nil
}

// Check answers whether the email has a reactivatable archive. An archive
// whose window has lapsed is purged here, transactionally, and the email is
// free again; expiry is enforced lazily at the exact moment it matters.
func (s *LifecycleService) Check(ctx context.Context, email string) (GateStatus, time.Time, error) {
	rec, err := s.repos.AccountArchive.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return GateNotFound, time.Time{}, nil
	}
	if err != nil {
		return GateNotFound, time.Time{}, err
	}

	if !rec.ExpiredAt(time.Now().UTC()) {
		return GateActive, rec.ExpiresAt, nil
	}

	if err := s.purge(ctx, rec); err != nil {
		return GateNotFound, time.Time{}, err
	}
	return GateExpired, time.Time{}, nil
}

// Restore recreates a live user from the email's archive record and replays
// its archived documents. Restore preserves the original numeric id and
// username when nothing else has claimed them; on a uniqueness conflict it
// retries exactly once with a fallback-derived handle and a fresh id.
func (s *LifecycleService) Restore(ctx context.Context, email, password string) (*domain.User, error) {
	rec, err := s.repos.AccountArchive.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	// Defensive re-check; the gate may have been consulted long ago.
	if rec.ExpiredAt(time.Now().UTC()) {
		if err := s.purge(ctx, rec); err != nil {
			return nil, err
		}
		return nil, domain.ErrArchiveExpired
	}

	snap, err := rec.DecodeSnapshot()
	if err != nil {
		return nil, err
	}

	// OAuth-origin archives carry no hash; there the provider's identity
	// assertion at the call site is the credential proof.
	if snap.PasswordHash != "" {
		if bcrypt.CompareHashAndPassword([]byte(snap.PasswordHash), []byte(password)) != nil {
			return nil, domain.ErrIncorrectCredential
		}
	}

	var restored *domain.User
	err = s.atomic.Transact(ctx, func(r *repository.Repositories) error {
		user := rec.ToUser(snap)

		// The original id or username may have been claimed while the
		// account sat in the archive. Probe before inserting; a Create
		// failure inside the transaction would poison it on postgres. The
		// unique constraints remain the arbiter for true races, which
		// abort the restore with Conflict.
		taken, err := s.identityTaken(ctx, r.User, user.ID, user.Username)
		if err != nil {
			return err
		}
		if taken {
			user, err = s.recreateWithFallback(ctx, r, rec, snap)
		} else {
			err = r.User.Create(ctx, user)
		}
		if err != nil {
			return err
		}

		archives, err := r.DocumentArchive.ListByUserID(ctx, rec.OriginalUserID)
		if err != nil {
			return err
		}
		for _, a := range archives {
			if err := r.Document.Create(ctx, a.ToDocument(user.ID)); err != nil {
				return err
			}
		}
		if err := r.DocumentArchive.DeleteByUserID(ctx, rec.OriginalUserID); err != nil {
			return err
		}
		if err := r.AccountArchive.Delete(ctx, rec.ID); err != nil {
			return err
		}

		restored = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id":  restored.ID,
		"email":    restored.Email,
		"username": restored.Username,
	}).Info("account restored")

	s.hub.Publish(restored.ID, events.TypeAccountRestored, nil)

	if err := s.notifier.AccountRestored(ctx, restored.Email, restored.DisplayName()); err != nil {
		log.WithError(err).WithField("email", restored.Email).Warn("restore notice not delivered")
	}

	return restored, nil
}

// identityTaken reports whether a live user already holds the id or the
// username the restore wants to replay.
func (s *LifecycleService) identityTaken(ctx context.Context, users repository.UserRepository, id uint, username string) (bool, error) {
	if _, err := users.GetByID(ctx, id); err == nil {
		return true, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}
	if _, err := users.GetByUsername(ctx, username); err == nil {
		return true, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}
	return false, nil
}

// recreateWithFallback is the single retry after a uniqueness conflict: a
// fallback-derived username and a database-assigned id. The user's data
// matters more than their exact old handle.
func (s *LifecycleService) recreateWithFallback(ctx context.Context, r *repository.Repositories, rec *domain.ArchivedAccount, snap domain.CredentialSnapshot) (*domain.User, error) {
	res, err := s.resolver.Resolve(ctx, r.User, FallbackBase(rec.Email))
	if err != nil {
		return nil, err
	}
	if !res.Resolved {
		return nil, domain.ErrConflict
	}

	user := rec.ToUser(snap)
	user.ID = 0 // the old id lost the race too; let the database assign one
	user.Username = res.Name
	if err := r.User.Create(ctx, user); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"email":    rec.Email,
		"username": res.Name,
	}).Info("restore fell back to derived username")

	return user, nil
}

// purge permanently removes an expired archive and any lingering document
// snapshots from the same archival batch. Both deletions commit together.
func (s *LifecycleService) purge(ctx context.Context, rec *domain.ArchivedAccount) error {
	err := s.atomic.Transact(ctx, func(r *repository.Repositories) error {
		if err := r.DocumentArchive.DeleteByUserID(ctx, rec.OriginalUserID); err != nil {
			return err
		}
		return r.AccountArchive.Delete(ctx, rec.ID)
	})
	if err != nil {
		return fmt.Errorf("purge expired archive for %s: %w", rec.Email, err)
	}

	log.WithFields(log.Fields{
		"email":      rec.Email,
		"expired_at": rec.ExpiresAt,
	}).Info("expired archive purged")
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
