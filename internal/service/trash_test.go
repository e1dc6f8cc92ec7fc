package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/jot/notes-backend/internal/domain"
	"github.com/jot/notes-backend/internal/events"
	"github.com/jot/notes-backend/internal/repository"
	"github.com/jot/notes-backend/internal/repository/gormdb"
	"github.com/jot/notes-backend/internal/service"
	"github.com/jot/notes-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTrash(t *testing.T) (*service.TrashService, *repository.Repositories, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	repos := gormdb.NewRepositories(db)
	trash := service.NewTrashService(gormdb.NewAtomic(db), repos, events.NewHub())
	return trash, repos, db
}

func TestTrashService_TrashAndRestoreOne(t *testing.T) {
	trash, repos, db := newTrash(t)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, db)
	doc := testutil.NewDocumentBuilder(user.ID).
		WithTitle("groceries").
		WithTags("errands").
		Build(t, db)

	archived, err := trash.TrashOne(ctx, user.ID, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, archived.OriginalID)
	assert.Equal(t, "groceries", archived.Title)
	assert.False(t, archived.DeletedAt.IsZero())

	_, err = repos.Document.GetByID(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	restored, err := trash.Restore(ctx, user.ID, archived.ID)
	require.NoError(t, err)
	assert.NotEqual(t, doc.ID, restored.ID, "restored documents get a fresh id")
	assert.Equal(t, "groceries", restored.Title)
	assert.Equal(t, []string{"errands"}, restored.TagList())
	assert.WithinDuration(t, doc.CreatedAt, restored.CreatedAt, time.Second)

	listed, err := trash.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestTrashService_TrashManyIsAtomicOnOwnership(t *testing.T) {
	trash, repos, db := newTrash(t)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, db)
	other, _ := testutil.NewUserBuilder().Build(t, db)
	mine := testutil.NewDocumentBuilder(owner.ID).Build(t, db)
	theirs := testutil.NewDocumentBuilder(other.ID).Build(t, db)

	_, err := trash.TrashMany(ctx, owner.ID, []uint{mine.ID, theirs.ID})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// Nothing moved: the owned document is still live.
	_, err = repos.Document.GetByID(ctx, mine.ID)
	assert.NoError(t, err)
	listed, err := trash.List(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestTrashService_TrashMany(t *testing.T) {
	trash, repos, db := newTrash(t)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, db)
	a := testutil.NewDocumentBuilder(user.ID).Build(t, db)
	b := testutil.NewDocumentBuilder(user.ID).Build(t, db)

	archived, err := trash.TrashMany(ctx, user.ID, []uint{a.ID, b.ID})
	require.NoError(t, err)
	assert.Len(t, archived, 2)

	docs, err := repos.Document.ListByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestTrashService_RestoreChecksOwnership(t *testing.T) {
	trash, _, db := newTrash(t)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, db)
	other, _ := testutil.NewUserBuilder().Build(t, db)
	doc := testutil.NewDocumentBuilder(owner.ID).Build(t, db)

	archived, err := trash.TrashOne(ctx, owner.ID, doc.ID)
	require.NoError(t, err)

	_, err = trash.Restore(ctx, other.ID, archived.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// The rightful owner can still restore it.
	_, err = trash.Restore(ctx, owner.ID, archived.ID)
	assert.NoError(t, err)
}

func TestTrashService_TrashRemovesFolderMemberships(t *testing.T) {
	trash, repos, db := newTrash(t)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, db)
	doc := testutil.NewDocumentBuilder(user.ID).Build(t, db)

	folder := &domain.Folder{UserID: user.ID, Name: "inbox"}
	require.NoError(t, repos.Folder.Create(ctx, folder))
	require.NoError(t, repos.Folder.AddDocument(ctx, folder.ID, doc.ID))

	_, err := trash.TrashOne(ctx, user.ID, doc.ID)
	require.NoError(t, err)

	ids, err := repos.Folder.ListDocumentIDs(ctx, folder.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestTrashService_TrashUnknownDocument(t *testing.T) {
	trash, _, db := newTrash(t)

	user, _ := testutil.NewUserBuilder().Build(t, db)
	_, err := trash.TrashOne(context.Background(), user.ID, 4242)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
