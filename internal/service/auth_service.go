package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jot/notes-backend/internal/config"
	"github.com/jot/notes-backend/internal/domain"
	"github.com/jot/notes-backend/internal/repository"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAccountBanned   = errors.New("account is banned")
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrWeakPassword    = errors.New("password must be at least 8 characters")
	ErrMissingUsername = errors.New("username is required")
)

// AccountArchivedError signals that the email sits behind the reactivation
// gate: the archive is still inside its retention window and the caller
// should offer reactivation instead of a plain login failure.
type AccountArchivedError struct {
	ExpiresAt time.Time
}

func (e *AccountArchivedError) Error() string {
	return fmt.Sprintf("account is archived, reactivatable until %s", e.ExpiresAt.Format(time.RFC3339))
}

type AuthService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	lifecycle   *LifecycleService
	resolver    *IdentityResolver
	cfg         *config.Config
}

func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	lifecycle *LifecycleService,
	resolver *IdentityResolver,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		lifecycle:   lifecycle,
		resolver:    resolver,
		cfg:         cfg,
	}
}

type RegisterInput struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
}

type LoginInput struct {
	Email    string
	Password string
}

type OAuthSignInInput struct {
	Provider   string
	ProviderID string
	Email      string
	FirstName  string
	LastName   string
	AvatarURL  string
}

type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(input.Email)
	if !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if strings.TrimSpace(input.Username) == "" {
		return nil, ErrMissingUsername
	}
	if len(input.Password) < 8 {
		return nil, ErrWeakPassword
	}

	// The email may still be parked behind the reactivation gate; an
	// expired archive is purged by the check and frees the address.
	status, expiresAt, err := s.lifecycle.Check(ctx, email)
	if err != nil {
		return nil, err
	}
	if status == GateActive {
		return nil, &AccountArchivedError{ExpiresAt: expiresAt}
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.GetByUsername(ctx, input.Username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hash := string(hashed)

	user := &domain.User{
		Email:        email,
		Username:     input.Username,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: &hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, err
	}

	return s.generateTokens(ctx, user)
}

// Login authenticates with email and password. The reactivation gate is
// consulted before credentials: an archived-but-reactivatable account gets
// an AccountArchivedError, not a generic failure.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := normalizeEmail(input.Email)

	status, expiresAt, err := s.lifecycle.Check(ctx, email)
	if err != nil {
		return nil, err
	}
	if status == GateActive {
		return nil, &AccountArchivedError{ExpiresAt: expiresAt}
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrIncorrectCredential
	}
	if err != nil {
		return nil, err
	}
	if user.IsBanned {
		return nil, ErrAccountBanned
	}
	if !user.HasPassword() {
		// OAuth-only account; password login is not a thing for it.
		return nil, domain.ErrIncorrectCredential
	}
	if bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(input.Password)) != nil {
		return nil, domain.ErrIncorrectCredential
	}

	return s.generateTokens(ctx, user)
}

// Reactivate restores an archived account and signs it in.
func (s *AuthService) Reactivate(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.lifecycle.Restore(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.generateTokens(ctx, user)
}

// OAuthSignIn handles a provider-asserted identity: it restores an archived
// OAuth-origin account, signs in an existing one, links the provider to a
// matching email, or provisions a fresh user with a resolver-derived handle.
func (s *AuthService) OAuthSignIn(ctx context.Context, input OAuthSignInInput) (*AuthResult, error) {
	email := normalizeEmail(input.Email)

	status, expiresAt, err := s.lifecycle.Check(ctx, email)
	if err != nil {
		return nil, err
	}
	if status == GateActive {
		// The provider vouched for the email, which is all the credential
		// proof an OAuth-origin archive needs. Password-origin archives
		// still demand the password and surface as archived.
		user, err := s.lifecycle.Restore(ctx, email, "")
		if errors.Is(err, domain.ErrIncorrectCredential) {
			return nil, &AccountArchivedError{ExpiresAt: expiresAt}
		}
		if err != nil {
			return nil, err
		}
		return s.generateTokens(ctx, user)
	}

	user, err := s.userRepo.GetByProvider(ctx, input.Provider, input.ProviderID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if user == nil {
		user, err = s.linkOrProvision(ctx, input, email)
		if err != nil {
			return nil, err
		}
	}
	if user.IsBanned {
		return nil, ErrAccountBanned
	}

	return s.generateTokens(ctx, user)
}

func (s *AuthService) linkOrProvision(ctx context.Context, input OAuthSignInInput, email string) (*domain.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		existing.Provider = &input.Provider
		existing.ProviderID = &input.ProviderID
		if err := s.userRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	local, _, _ := strings.Cut(email, "@")
	res, err := s.resolver.Resolve(ctx, s.userRepo, local)
	if err != nil {
		return nil, err
	}
	if !res.Resolved {
		return nil, domain.ErrConflict
	}

	user := &domain.User{
		Email:      email,
		Username:   res.Name,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Provider:   &input.Provider,
		ProviderID: &input.ProviderID,
		AvatarURL:  input.AvatarURL,
		IsVerified: true, // the provider verified the address
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"email":    email,
		"username": user.Username,
		"provider": input.Provider,
	}).Info("provisioned account from oauth sign-in")

	return user, nil
}

func (s *AuthService) generateTokens(ctx context.Context, user *domain.User) (*AuthResult, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken := uuid.New().String()
	hashedRefresh, err := bcrypt.GenerateFromPassword([]byte(refreshToken), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	_ = s.sessionRepo.DeleteByUserID(ctx, user.ID)

	session := &domain.UserSession{
		UserID:           user.ID,
		RefreshTokenHash: string(hashedRefresh),
		ExpiresAt:        time.Now().Add(7 * 24 * time.Hour),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return &AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *AuthService) generateAccessToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  fmt.Sprintf("%d", user.ID),
		"name": user.Username,
		"exp":  time.Now().Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ValidateToken parses and verifies an access token, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (*jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return &claims, nil
	}
	return nil, errors.New("invalid token")
}

func (s *AuthService) GetUserByID(ctx context.Context, id uint) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	return s.sessionRepo.DeleteByUserID(ctx, userID)
}
