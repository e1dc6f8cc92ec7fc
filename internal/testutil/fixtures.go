package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jot/notes-backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern.
type UserBuilder struct {
	email      string
	username   string
	password   string
	provider   string
	providerID string
}

func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		email:    fmt.Sprintf("user_%s@example.com", suffix),
		username: fmt.Sprintf("testuser_%s", suffix),
		password: "testpassword123",
	}
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// WithProvider makes an OAuth-provisioned user with no password hash.
func (b *UserBuilder) WithProvider(provider, providerID string) *UserBuilder {
	b.provider = provider
	b.providerID = providerID
	b.password = ""
	return b
}

// Build creates the user in the database and returns it with the raw
// password.
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	user := &domain.User{
		Email:    b.email,
		Username: b.username,
	}
	if b.password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
		if err != nil {
			t.Fatalf("failed to hash password: %v", err)
		}
		hash := string(hashed)
		user.PasswordHash = &hash
	}
	if b.provider != "" {
		user.Provider = &b.provider
		user.ProviderID = &b.providerID
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user, b.password
}

// DocumentBuilder creates test documents.
type DocumentBuilder struct {
	title   string
	content string
	tags    []string
	userID  uint
}

func NewDocumentBuilder(userID uint) *DocumentBuilder {
	return &DocumentBuilder{
		title:   fmt.Sprintf("note %s", uuid.New().String()[:8]),
		content: "# Heading\n\nsome body text",
		tags:    []string{"test"},
		userID:  userID,
	}
}

func (b *DocumentBuilder) WithTitle(title string) *DocumentBuilder {
	b.title = title
	return b
}

func (b *DocumentBuilder) WithContent(content string) *DocumentBuilder {
	b.content = content
	return b
}

func (b *DocumentBuilder) WithTags(tags ...string) *DocumentBuilder {
	b.tags = tags
	return b
}

func (b *DocumentBuilder) Build(t *testing.T, db *gorm.DB) *domain.Document {
	t.Helper()

	doc := &domain.Document{
		UserID:  b.userID,
		Title:   b.title,
		Content: b.content,
		Tags:    domain.EncodeTags(b.tags),
	}
	if err := db.Create(doc).Error; err != nil {
		t.Fatalf("failed to create document: %v", err)
	}
	return doc
}

// ArchiveAccount archives a user fixture directly into the archive tables,
// bypassing the engine, with a chosen expiry. Used to stage expired rows.
func ArchiveAccount(t *testing.T, db *gorm.DB, user *domain.User, expiresAt time.Time) *domain.ArchivedAccount {
	t.Helper()

	archived, err := domain.NewArchivedAccount(user, expiresAt.Add(-30*24*time.Hour), 30*24*time.Hour)
	if err != nil {
		t.Fatalf("failed to build archive record: %v", err)
	}
	if err := db.Create(archived).Error; err != nil {
		t.Fatalf("failed to create archive record: %v", err)
	}
	if err := db.Delete(&domain.User{}, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("failed to delete user: %v", err)
	}
	return archived
}
