package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// CredentialSnapshotVersion is bumped whenever CredentialSnapshot changes
// shape, so old archive rows stay restorable after the live User entity
// evolves.
const CredentialSnapshotVersion = 1

// CredentialSnapshot is everything beyond the profile columns that a
// restore needs to faithfully recreate an account.
type CredentialSnapshot struct {
	Version      int       `json:"version"`
	PasswordHash string    `json:"passwordHash,omitempty"` // empty for OAuth-origin accounts
	IsVerified   bool      `json:"isVerified"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ArchivedAccount is the durable snapshot of a deleted user, reactivatable
// until ExpiresAt. At most one non-expired row exists per email.
type ArchivedAccount struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	OriginalUserID uint           `json:"originalUserId" gorm:"index;not null"`
	Email          string         `json:"email" gorm:"uniqueIndex;not null"`
	Username       string         `json:"username"`
	FirstName      string         `json:"firstName"`
	LastName       string         `json:"lastName"`
	Provider       *string        `json:"provider,omitempty"`
	ProviderID     *string        `json:"providerId,omitempty"`
	AvatarURL      string         `json:"avatarUrl"`
	BannerURL      string         `json:"bannerUrl"`
	IsAdmin        bool           `json:"isAdmin"`
	IsBanned       bool           `json:"isBanned"`
	Snapshot       datatypes.JSON `json:"-" gorm:"type:jsonb"`
	AddedAt        time.Time      `json:"addedAt" gorm:"not null"`
	ExpiresAt      time.Time      `json:"expiresAt" gorm:"not null"` // immutable once set
}

// ExpiredAt reports whether the retention window has elapsed at the given
// instant.
func (a *ArchivedAccount) ExpiredAt(now time.Time) bool {
	return !now.Before(a.ExpiresAt)
}

// DecodeSnapshot unpacks the credential snapshot blob.
func (a *ArchivedAccount) DecodeSnapshot() (CredentialSnapshot, error) {
	var snap CredentialSnapshot
	if err := json.Unmarshal(a.Snapshot, &snap); err != nil {
		return CredentialSnapshot{}, fmt.Errorf("decode credential snapshot: %w", err)
	}
	return snap, nil
}

// NewArchivedAccount snapshots a live user at archival time.
func NewArchivedAccount(u *User, addedAt time.Time, retention time.Duration) (*ArchivedAccount, error) {
	snap := CredentialSnapshot{
		Version:    CredentialSnapshotVersion,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
	if u.PasswordHash != nil {
		snap.PasswordHash = *u.PasswordHash
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode credential snapshot: %w", err)
	}
	return &ArchivedAccount{
		OriginalUserID: u.ID,
		Email:          u.Email,
		Username:       u.Username,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Provider:       u.Provider,
		ProviderID:     u.ProviderID,
		AvatarURL:      u.AvatarURL,
		BannerURL:      u.BannerURL,
		IsAdmin:        u.IsAdmin,
		IsBanned:       u.IsBanned,
		Snapshot:       datatypes.JSON(raw),
		AddedAt:        addedAt,
		ExpiresAt:      addedAt.Add(retention),
	}, nil
}

// ToUser rebuilds a live user from the archive row, keeping the original
// numeric id and the recorded username as the first restore attempt.
func (a *ArchivedAccount) ToUser(snap CredentialSnapshot) *User {
	u := &User{
		ID:         a.OriginalUserID,
		Email:      a.Email,
		Username:   a.Username,
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		Provider:   a.Provider,
		ProviderID: a.ProviderID,
		AvatarURL:  a.AvatarURL,
		BannerURL:  a.BannerURL,
		IsAdmin:    a.IsAdmin,
		IsBanned:   a.IsBanned,
		IsVerified: snap.IsVerified,
		CreatedAt:  snap.CreatedAt,
		UpdatedAt:  snap.UpdatedAt,
	}
	if snap.PasswordHash != "" {
		hash := snap.PasswordHash
		u.PasswordHash = &hash
	}
	return u
}

// ArchivedDocument is a trashed document. Rows created alongside an account
// archival share the account's retention fate; individually trashed rows
// persist until restored.
type ArchivedDocument struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	OriginalID uint           `json:"originalId" gorm:"not null"`
	UserID     uint           `json:"userId" gorm:"index;not null"` // owner id at trash time
	Title      string         `json:"title"`
	Content    string         `json:"content"`
	Tags       datatypes.JSON `json:"tags" gorm:"type:jsonb;default:'[]'"`
	IsFavorite bool           `json:"isFavorite"`
	CreatedAt  time.Time      `json:"createdAt"` // preserved from the original row
	UpdatedAt  time.Time      `json:"updatedAt"`
	DeletedAt  time.Time      `json:"deletedAt" gorm:"not null"`
}

// TagList decodes the JSON tag column.
func (d *ArchivedDocument) TagList() []string {
	return decodeTags(d.Tags)
}

// NewArchivedDocument snapshots a live document at trash time.
func NewArchivedDocument(doc *Document, deletedAt time.Time) *ArchivedDocument {
	return &ArchivedDocument{
		OriginalID: doc.ID,
		UserID:     doc.UserID,
		Title:      doc.Title,
		Content:    doc.Content,
		Tags:       doc.Tags,
		IsFavorite: doc.IsFavorite,
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
		DeletedAt:  deletedAt,
	}
}

// ToDocument rebuilds a live document owned by ownerID. The restored row
// gets a fresh id; document ids are not stable across restore.
func (d *ArchivedDocument) ToDocument(ownerID uint) *Document {
	return &Document{
		UserID:     ownerID,
		Title:      d.Title,
		Content:    d.Content,
		Tags:       d.Tags,
		IsFavorite: d.IsFavorite,
		CreatedAt:  d.CreatedAt,
	}
}
