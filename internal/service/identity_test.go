package service_test

import (
	"context"
	"testing"

	"github.com/jot/notes-backend/internal/domain"
	"github.com/jot/notes-backend/internal/repository"
	"github.com/jot/notes-backend/internal/repository/gormdb"
	"github.com/jot/notes-backend/internal/service"
	"github.com/jot/notes-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityResolver_FreeName(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := gormdb.NewRepositories(db).User
	resolver := service.NewIdentityResolver()

	res, err := resolver.Resolve(context.Background(), users, "fresh")
	require.NoError(t, err)
	assert.True(t, res.Resolved)
	assert.Equal(t, "fresh", res.Name)
}

func TestIdentityResolver_CollisionGetsSuffix(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := gormdb.NewRepositories(db).User
	resolver := service.NewIdentityResolver()

	testutil.NewUserBuilder().WithUsername("taken").Build(t, db)

	res, err := resolver.Resolve(context.Background(), users, "taken")
	require.NoError(t, err)
	assert.True(t, res.Resolved)
	assert.NotEqual(t, "taken", res.Name)
	assert.Contains(t, res.Name, "taken_")
}

// saturatedUsers reports every username as taken.
type saturatedUsers struct {
	repository.UserRepository
}

func (saturatedUsers) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return &domain.User{Username: username}, nil
}

func TestIdentityResolver_ExhaustedBudget(t *testing.T) {
	resolver := service.NewIdentityResolver()

	res, err := resolver.Resolve(context.Background(), saturatedUsers{}, "anything")
	require.NoError(t, err, "running out of attempts is a result, not an error")
	assert.False(t, res.Resolved)
	assert.Empty(t, res.Name)
}

func TestFallbackBase(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{name: "plain address", email: "alice@example.com", want: "alice_restored"},
		{name: "subaddressed", email: "bob+notes@example.com", want: "bob+notes_restored"},
		{name: "empty local part", email: "@example.com", want: "user_restored"},
		{name: "not an email", email: "", want: "user_restored"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.FallbackBase(tt.email))
		})
	}
}
