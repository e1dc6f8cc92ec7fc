package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/jot/notes-backend/internal/domain"
	"github.com/jot/notes-backend/internal/repository"
)

// maxResolveAttempts bounds the uniqueness probe so resolution never blocks
// a request indefinitely.
const maxResolveAttempts = 10

// Resolution is the outcome of a username probe. Resolved=false means the
// attempt budget ran out; the caller picks the fallback strategy.
type Resolution struct {
	Name     string
	Resolved bool
}

// IdentityResolver finds a username with no live User holding it. The
// desired name is tried as-is first; collisions get a millisecond-clock
// suffix plus a small random component so repeats are astronomically
// unlikely within the budget.
type IdentityResolver struct{}

func NewIdentityResolver() *IdentityResolver {
	return &IdentityResolver{}
}

func (r *IdentityResolver) Resolve(ctx context.Context, users repository.UserRepository, desired string) (Resolution, error) {
	name := desired
	for attempt := 0; attempt < maxResolveAttempts; attempt++ {
		_, err := users.GetByUsername(ctx, name)
		if errors.Is(err, domain.ErrNotFound) {
			return Resolution{Name: name, Resolved: true}, nil
		}
		if err != nil {
			return Resolution{}, fmt.Errorf("probe username %q: %w", name, err)
		}
		name = fmt.Sprintf("%s_%d%02d", desired, time.Now().UnixMilli(), rand.Intn(100))
	}
	return Resolution{}, nil
}

// FallbackBase derives an alternate username base from an email address,
// used when the desired handle cannot be resolved.
func FallbackBase(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		local = "user"
	}
	return local + "_restored"
}
