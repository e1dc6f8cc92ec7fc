package service_test

import (
	"context"
	"testing"

	"github.com/jot/notes-backend/internal/domain"
	"github.com/jot/notes-backend/internal/service"
	"github.com/jot/notes-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFolderService_Membership(t *testing.T) {
	services, db := newAuthServices(t)
	ctx := context.Background()
	user, _ := testutil.NewUserBuilder().Build(t, db)

	folder, err := services.Folder.Create(ctx, user.ID, " Inbox ")
	require.NoError(t, err)
	assert.Equal(t, "Inbox", folder.Name)

	doc, err := services.Document.Create(ctx, user.ID, service.DocumentInput{Title: "filed", Content: "x"})
	require.NoError(t, err)

	require.NoError(t, services.Folder.AddDocument(ctx, user.ID, folder.ID, doc.ID))

	docs, err := services.Folder.ListDocuments(ctx, user.ID, folder.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, doc.ID, docs[0].ID)

	require.NoError(t, services.Folder.RemoveDocument(ctx, user.ID, folder.ID, doc.ID))

	docs, err = services.Folder.ListDocuments(ctx, user.ID, folder.ID)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestFolderService_OwnershipChecks(t *testing.T) {
	services, db := newAuthServices(t)
	ctx := context.Background()
	owner, _ := testutil.NewUserBuilder().Build(t, db)
	intruder, _ := testutil.NewUserBuilder().Build(t, db)

	folder, err := services.Folder.Create(ctx, owner.ID, "private")
	require.NoError(t, err)
	theirDoc, err := services.Document.Create(ctx, intruder.ID, service.DocumentInput{Title: "theirs", Content: "x"})
	require.NoError(t, err)

	_, err = services.Folder.ListDocuments(ctx, intruder.ID, folder.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// A document someone else owns cannot be filed into your folder.
	err = services.Folder.AddDocument(ctx, owner.ID, folder.ID, theirDoc.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	err = services.Folder.Delete(ctx, intruder.ID, folder.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestFolderService_CreateRequiresName(t *testing.T) {
	services, db := newAuthServices(t)
	user, _ := testutil.NewUserBuilder().Build(t, db)

	_, err := services.Folder.Create(context.Background(), user.ID, "   ")
	assert.ErrorIs(t, err, domain.ErrNameRequired)
}

func TestFolderService_DeleteClearsMemberships(t *testing.T) {
	services, db := newAuthServices(t)
	ctx := context.Background()
	user, _ := testutil.NewUserBuilder().Build(t, db)

	folder, err := services.Folder.Create(ctx, user.ID, "doomed")
	require.NoError(t, err)
	doc, err := services.Document.Create(ctx, user.ID, service.DocumentInput{Title: "survivor", Content: "x"})
	require.NoError(t, err)
	require.NoError(t, services.Folder.AddDocument(ctx, user.ID, folder.ID, doc.ID))

	require.NoError(t, services.Folder.Delete(ctx, user.ID, folder.ID))

	var memberships int64
	require.NoError(t, db.Model(&domain.FolderDocument{}).Count(&memberships).Error)
	assert.Zero(t, memberships)

	// The document itself stays.
	_, err = services.Document.Get(ctx, user.ID, doc.ID)
	assert.NoError(t, err)
}
