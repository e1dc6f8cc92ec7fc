package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/jot/notes-backend/internal/domain"
	"github.com/jot/notes-backend/internal/service"
	"github.com/jot/notes-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentService_CreateAndGet(t *testing.T) {
	services, db := newAuthServices(t)
	ctx := context.Background()
	user, _ := testutil.NewUserBuilder().Build(t, db)

	doc, err := services.Document.Create(ctx, user.ID, service.DocumentInput{
		Title:   "  Meeting notes  ",
		Content: "# Agenda",
		Tags:    []string{"work", " work ", "", "planning"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Meeting notes", doc.Title, "titles are trimmed")
	assert.Equal(t, []string{"work", "planning"}, doc.TagList(), "tags are deduped in order")

	got, err := services.Document.Get(ctx, user.ID, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.Title, got.Title)

	stranger, _ := testutil.NewUserBuilder().Build(t, db)
	_, err = services.Document.Get(ctx, stranger.ID, doc.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestDocumentService_Validation(t *testing.T) {
	services, db := newAuthServices(t)
	ctx := context.Background()
	user, _ := testutil.NewUserBuilder().Build(t, db)

	tests := []struct {
		name    string
		input   service.DocumentInput
		wantErr error
	}{
		{
			name:    "blank title",
			input:   service.DocumentInput{Title: "   ", Content: "body"},
			wantErr: domain.ErrTitleRequired,
		},
		{
			name:    "title too long",
			input:   service.DocumentInput{Title: strings.Repeat("a", 201), Content: "body"},
			wantErr: domain.ErrTitleRequired,
		},
		{
			name:    "content too large",
			input:   service.DocumentInput{Title: "big", Content: strings.Repeat("x", 512*1024+1)},
			wantErr: domain.ErrContentTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := services.Document.Create(ctx, user.ID, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDocumentService_TagCap(t *testing.T) {
	services, db := newAuthServices(t)
	ctx := context.Background()
	user, _ := testutil.NewUserBuilder().Build(t, db)

	tags := make([]string, 40)
	for i := range tags {
		tags[i] = strings.Repeat("t", i+1)
	}
	doc, err := services.Document.Create(ctx, user.ID, service.DocumentInput{
		Title: "tagged", Content: "body", Tags: tags,
	})
	require.NoError(t, err)
	assert.Len(t, doc.TagList(), 32)
}

func TestDocumentService_UpdateKeepsOwnership(t *testing.T) {
	services, db := newAuthServices(t)
	ctx := context.Background()
	owner, _ := testutil.NewUserBuilder().Build(t, db)
	intruder, _ := testutil.NewUserBuilder().Build(t, db)

	doc, err := services.Document.Create(ctx, owner.ID, service.DocumentInput{Title: "mine", Content: "v1"})
	require.NoError(t, err)

	_, err = services.Document.Update(ctx, intruder.ID, doc.ID, service.DocumentInput{Title: "stolen", Content: "v2"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	updated, err := services.Document.Update(ctx, owner.ID, doc.ID, service.DocumentInput{Title: "mine still", Content: "v2"})
	require.NoError(t, err)
	assert.Equal(t, "v2", updated.Content)
}

func TestDocumentService_ListFavorites(t *testing.T) {
	services, db := newAuthServices(t)
	ctx := context.Background()
	user, _ := testutil.NewUserBuilder().Build(t, db)

	first, err := services.Document.Create(ctx, user.ID, service.DocumentInput{Title: "a", Content: "x"})
	require.NoError(t, err)
	_, err = services.Document.Create(ctx, user.ID, service.DocumentInput{Title: "b", Content: "y"})
	require.NoError(t, err)

	starred, err := services.Document.ToggleFavorite(ctx, user.ID, first.ID)
	require.NoError(t, err)
	assert.True(t, starred.IsFavorite)

	favorites, err := services.Document.List(ctx, user.ID, true)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, first.ID, favorites[0].ID)

	all, err := services.Document.List(ctx, user.ID, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	unstarred, err := services.Document.ToggleFavorite(ctx, user.ID, first.ID)
	require.NoError(t, err)
	assert.False(t, unstarred.IsFavorite)
}

func TestDocumentService_RenderHTML(t *testing.T) {
	services, db := newAuthServices(t)
	ctx := context.Background()
	user, _ := testutil.NewUserBuilder().Build(t, db)

	doc, err := services.Document.Create(ctx, user.ID, service.DocumentInput{
		Title:   "markdown",
		Content: "# Title\n\n<script>alert(1)</script>\n\n**bold**",
	})
	require.NoError(t, err)

	html, err := services.Document.RenderHTML(ctx, user.ID, doc.ID)
	require.NoError(t, err)
	assert.Contains(t, html, "<strong>bold</strong>")
	assert.NotContains(t, html, "<script>", "script tags are stripped")
}
