package gormdb

import (
	"context"

	"github.com/jot/notes-backend/internal/domain"
	"gorm.io/gorm"
)

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *sessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.UserSession) error {
	return translate(r.db.WithContext(ctx).Create(session).Error)
}

func (r *sessionRepository) GetByUserID(ctx context.Context, userID uint) (*domain.UserSession, error) {
	var session domain.UserSession
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		First(&session, "user_id = ?", userID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &session, nil
}

func (r *sessionRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	return translate(r.db.WithContext(ctx).
		Delete(&domain.UserSession{}, "user_id = ?", userID).Error)
}
