package domain

import (
	"time"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	PasswordHash *string   `json:"-"` // nil for OAuth-provisioned accounts
	IsAdmin      bool      `json:"isAdmin" gorm:"default:false"`
	IsBanned     bool      `json:"isBanned" gorm:"default:false"`
	Provider     *string   `json:"provider,omitempty" gorm:"index:idx_users_provider"`
	ProviderID   *string   `json:"providerId,omitempty" gorm:"index:idx_users_provider"`
	AvatarURL    string    `json:"avatarUrl"`
	BannerURL    string    `json:"bannerUrl"`
	IsVerified   bool      `json:"isVerified" gorm:"default:false"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// DisplayName is what notifications address the user by.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}

// HasPassword reports whether the account authenticates with a local
// password. OAuth-provisioned accounts carry no hash.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

type UserSession struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	UserID           uint      `json:"userId" gorm:"index;not null"`
	RefreshTokenHash string    `json:"-" gorm:"not null"`
	ExpiresAt        time.Time `json:"expiresAt" gorm:"not null"`
	CreatedAt        time.Time `json:"createdAt"`
}
