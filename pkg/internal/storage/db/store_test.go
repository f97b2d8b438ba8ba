package db_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/filevault/pkg/configs"
	"github.com/yeisme/filevault/pkg/internal/model"
	"github.com/yeisme/filevault/pkg/internal/service"
	"github.com/yeisme/filevault/pkg/internal/storage/db"
)

func newStore(t *testing.T) *db.Store {
	t.Helper()

	s, _ := newStoreWithClient(t)

	return s
}

func newStoreWithClient(t *testing.T) (*db.Store, *db.Client) {
	t.Helper()

	client, err := db.New(context.Background(), &configs.DBConfig{
		Type:         configs.SQLite,
		Database:     filepath.Join(t.TempDir(), "vault"),
		MaxOpenConns: 1,
		AutoMigrate:  true,
	}, db.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return db.NewStore(client), client
}

func seedFolder(t *testing.T, s *db.Store, owner uint, name string) *model.Folder {
	t.Helper()

	folder := &model.Folder{Name: name, OwnerID: owner}
	require.NoError(t, s.CreateFolder(context.Background(), folder))

	return folder
}

func seedFile(t *testing.T, s *db.Store, owner uint, folderID *uint, stored string) *model.File {
	t.Helper()

	file := &model.File{StoredID: stored, DisplayName: stored, OwnerID: owner, FolderID: folderID, URL: "http://x/" + stored}
	require.NoError(t, s.CreateFile(context.Background(), file))

	return file
}

func TestScopedFolderOperations(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	folder := seedFolder(t, s, 1, "docs")

	exists, err := s.FolderExists(ctx, folder.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.FolderExists(ctx, folder.ID+100)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.ListFolderFiles(ctx, 2, folder.ID)
	require.ErrorIs(t, err, service.ErrNotFound)

	_, err = s.RenameFolder(ctx, 2, folder.ID, "stolen")
	require.ErrorIs(t, err, service.ErrNotFound)

	renamed, err := s.RenameFolder(ctx, 1, folder.ID, "papers")
	require.NoError(t, err)
	assert.Equal(t, "papers", renamed.Name)

	// 同名重命名仍然命中
	renamed, err = s.RenameFolder(ctx, 1, folder.ID, "papers")
	require.NoError(t, err)
	assert.Equal(t, "papers", renamed.Name)

	folders, err := s.ListFolders(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, folders)
}

func TestRootAndFolderListing(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	folder := seedFolder(t, s, 1, "pics")
	seedFile(t, s, 1, nil, "u1/root.txt")
	seedFile(t, s, 1, &folder.ID, "u1/in.jpg")
	seedFile(t, s, 2, nil, "u2/other.txt")

	root, err := s.ListRootFiles(ctx, 1)
	require.NoError(t, err)
	require.Len(t, root, 1)
	assert.Equal(t, "u1/root.txt", root[0].StoredID)

	inFolder, err := s.ListFolderFiles(ctx, 1, folder.ID)
	require.NoError(t, err)
	require.Len(t, inFolder, 1)
	assert.Equal(t, "u1/in.jpg", inFolder[0].StoredID)

	_, err = s.ListFolderFiles(ctx, 2, folder.ID)
	require.ErrorIs(t, err, service.ErrNotFound)

	empty := seedFolder(t, s, 1, "empty")
	inFolder, err = s.ListFolderFiles(ctx, 1, empty.ID)
	require.NoError(t, err)
	assert.Empty(t, inFolder)
}

func TestCreateFileChecksFolderOwner(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	hers := seedFolder(t, s, 1, "hers")

	err := s.CreateFile(ctx, &model.File{StoredID: "u2/x", DisplayName: "x", OwnerID: 2, FolderID: &hers.ID})
	require.ErrorIs(t, err, service.ErrForbidden)

	missing := hers.ID + 100
	err = s.CreateFile(ctx, &model.File{StoredID: "u1/y", DisplayName: "y", OwnerID: 1, FolderID: &missing})
	require.ErrorIs(t, err, service.ErrForbidden)

	files, err := s.ListFolderFiles(ctx, 1, hers.ID)
	require.NoError(t, err)
	assert.Empty(t, files)

	root, err := s.ListRootFiles(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, root)
}

func TestFolderForeignKeyEnforced(t *testing.T) {
	_, client := newStoreWithClient(t)

	// 绕过仓储直接插入，数据库本身也必须拒绝悬空的 folder_id
	missing := uint(42)
	err := client.DB.Create(&model.File{StoredID: "u1/z", DisplayName: "z", OwnerID: 1, FolderID: &missing}).Error
	require.Error(t, err)

	var n int64
	require.NoError(t, client.DB.Model(&model.File{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestDeleteFileScoped(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	file := seedFile(t, s, 1, nil, "u1/a.txt")

	_, err := s.FindFile(ctx, 2, file.ID)
	require.ErrorIs(t, err, service.ErrNotFound)

	_, err = s.DeleteFile(ctx, 2, file.ID)
	require.ErrorIs(t, err, service.ErrNotFound)

	deleted, err := s.DeleteFile(ctx, 1, file.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1/a.txt", deleted.StoredID)

	_, err = s.DeleteFile(ctx, 1, file.ID)
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestConcurrentDeleteFile(t *testing.T) {
	s := newStore(t)
	file := seedFile(t, s, 1, nil, "u1/race.txt")

	var (
		wg   sync.WaitGroup
		errs = make([]error, 2)
	)

	for i := range errs {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, errs[i] = s.DeleteFile(context.Background(), 1, file.ID)
		}()
	}

	wg.Wait()

	var deleted, notFound int

	for _, err := range errs {
		switch {
		case err == nil:
			deleted++
		case errors.Is(err, service.ErrNotFound):
			notFound++
		}
	}

	assert.Equal(t, 1, deleted)
	assert.Equal(t, 1, notFound)
}

func TestDeleteFolderCascade(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	folder := seedFolder(t, s, 1, "album")
	for _, id := range []string{"u1/1", "u1/2", "u1/3"} {
		seedFile(t, s, 1, &folder.ID, id)
	}

	keep := seedFile(t, s, 1, nil, "u1/keep")

	_, err := s.DeleteFolderCascade(ctx, 2, folder.ID)
	require.ErrorIs(t, err, service.ErrNotFound)

	files, err := s.ListFolderFiles(ctx, 1, folder.ID)
	require.NoError(t, err)
	assert.Len(t, files, 3, "failed cascade must not delete rows")

	deleted, err := s.DeleteFolderCascade(ctx, 1, folder.ID)
	require.NoError(t, err)
	assert.Len(t, deleted, 3)

	folders, err := s.ListFolders(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, folders)

	_, err = s.ListFolderFiles(ctx, 1, folder.ID)
	require.ErrorIs(t, err, service.ErrNotFound)

	for _, f := range deleted {
		_, err = s.FindFile(ctx, 1, f.ID)
		require.ErrorIs(t, err, service.ErrNotFound)
	}

	_, err = s.FindFile(ctx, 1, keep.ID)
	require.NoError(t, err)
}

func TestDuplicateUsername(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, &model.User{Username: "alice", PasswordHash: "x", Role: model.RoleUser}))

	err := s.CreateUser(ctx, &model.User{Username: "alice", PasswordHash: "y", Role: model.RoleUser})
	require.Error(t, err)
	assert.True(t, service.IsDuplicate(err))

	u, err := s.FindUserByUsername(ctx, "alice")
	require.NoError(t, err)

	byID, err := s.FindUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "x", byID.PasswordHash)

	_, err = s.FindUserByUsername(ctx, "nobody")
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestOrphanLog(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordOrphans(ctx, []model.OrphanBlob{
		{StoredID: "u1/a", OwnerID: 1, FileID: 10, Reason: model.OrphanReasonFileDelete, LastError: "timeout"},
		{StoredID: "u1/b", OwnerID: 1, FileID: 11, Reason: model.OrphanReasonFileDelete, LastError: "timeout"},
	}))

	// 同一对象再次失败只刷新记录
	require.NoError(t, s.RecordOrphans(ctx, []model.OrphanBlob{
		{StoredID: "u1/a", OwnerID: 1, FileID: 10, Reason: model.OrphanReasonFolderDelete, LastError: "refused"},
	}))

	all, err := s.ListOrphans(ctx, 10)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, model.OrphanReasonFolderDelete, all[0].Reason)
	assert.Equal(t, "refused", all[0].LastError)

	require.NoError(t, s.MarkOrphanAttempt(ctx, all[0].ID, "still down"))
	require.NoError(t, s.MarkOrphanAttempt(ctx, all[0].ID, "still down"))

	pending, err := s.PendingOrphans(ctx, 10, 2)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "u1/b", pending[0].StoredID)

	n, err := s.CountPendingOrphans(ctx, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, s.ResolveOrphan(ctx, pending[0].ID))

	n, err = s.CountPendingOrphans(ctx, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
