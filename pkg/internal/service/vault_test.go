package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/filevault/pkg/configs"
	"github.com/yeisme/filevault/pkg/internal/model"
	"github.com/yeisme/filevault/pkg/internal/service"
	"github.com/yeisme/filevault/pkg/queue"
)

var (
	alice = service.Identity{UserID: 100, Username: "alice", Role: model.RoleUser}
	bob   = service.Identity{UserID: 200, Username: "bob", Role: model.RoleUser}
)

type fixture struct {
	store *memStore
	blob  *memBlob
	pub   *recordingPublisher
	vault *service.Vault
}

func newFixture(opts ...service.VaultOption) *fixture {
	f := &fixture{store: newMemStore(), blob: newMemBlob(), pub: &recordingPublisher{}}

	base := []service.VaultOption{
		service.WithOrphanStore(f.store),
		service.WithEventPublisher(f.pub),
		service.WithBlobTimeout(time.Second),
	}

	f.vault = service.NewVault(f.store, f.blob, append(base, opts...)...)

	return f
}

func (f *fixture) upload(t *testing.T, id service.Identity, folderID *uint, name string) *model.File {
	t.Helper()

	file, err := f.vault.UploadFile(context.Background(), id, service.UploadInput{
		FolderID:     folderID,
		Body:         strings.NewReader("content of " + name),
		Size:         int64(len("content of " + name)),
		OriginalName: name,
	})
	require.NoError(t, err)

	return file
}

func TestZeroIdentityRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.vault.ListRootFiles(ctx, service.Identity{})
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = f.vault.CreateFolder(ctx, service.Identity{}, "docs")
	assert.ErrorIs(t, err, service.ErrForbidden)

	folders, files := f.store.counts()
	assert.Zero(t, folders)
	assert.Zero(t, files)
}

func TestCrossUserAccess(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	folder, err := f.vault.CreateFolder(ctx, alice, "private")
	require.NoError(t, err)

	file := f.upload(t, alice, &folder.ID, "secret.txt")

	_, err = f.vault.ListFolderFiles(ctx, bob, folder.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = f.vault.RenameFolder(ctx, bob, folder.ID, "mine now")
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = f.vault.DeleteFolder(ctx, bob, folder.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = f.vault.DeleteFile(ctx, bob, file.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	target, err := f.vault.GetDownloadTarget(ctx, bob, file.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Nil(t, target)

	_, err = f.vault.UploadFile(ctx, bob, service.UploadInput{
		FolderID:     &folder.ID,
		Body:         strings.NewReader("x"),
		OriginalName: "intrude.txt",
	})
	assert.ErrorIs(t, err, service.ErrForbidden)

	listing, err := f.vault.ListRootFiles(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, listing.Folders)
	assert.Empty(t, listing.Files)

	// alice 的数据保持不变
	files, err := f.vault.ListFolderFiles(ctx, alice, folder.ID)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "private", f.store.folders[folder.ID].Name)
	assert.Equal(t, 1, f.blob.objectCount())
}

func TestListFolderFilesMissing(t *testing.T) {
	f := newFixture()

	_, err := f.vault.ListFolderFiles(context.Background(), alice, 999)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Equal(t, service.OutcomeNotFound, service.OutcomeOf(err))
}

func TestListFolderFilesOnlyOwnerRows(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	folder, err := f.vault.CreateFolder(ctx, alice, "shared-id")
	require.NoError(t, err)

	mine := f.upload(t, alice, &folder.ID, "mine.txt")

	// 即使存在指向 alice 文件夹的他人文件行，也不会出现在列表中
	f.store.mu.Lock()
	f.store.files[9000] = model.File{ID: 9000, StoredID: "u200/x", DisplayName: "x", OwnerID: bob.UserID, FolderID: &folder.ID}
	f.store.mu.Unlock()

	files, err := f.vault.ListFolderFiles(ctx, alice, folder.ID)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, mine.ID, files[0].ID)

	_, err = f.vault.ListFolderFiles(ctx, bob, folder.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestUploadWithoutBody(t *testing.T) {
	f := newFixture()

	_, err := f.vault.UploadFile(context.Background(), alice, service.UploadInput{OriginalName: "empty.txt"})
	require.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Equal(t, service.OutcomeStoreError, service.OutcomeOf(err))

	var unavailable *service.StorageUnavailableError
	assert.NotErrorAs(t, err, &unavailable)
	assert.Zero(t, f.blob.objectCount())
}

func TestUploadThenDelete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	file := f.upload(t, alice, nil, "report.pdf")
	assert.Equal(t, 1, f.blob.objectCount())
	assert.Equal(t, 1, f.pub.count(queue.TopicFileStored))

	result, err := f.vault.DeleteFile(ctx, alice, file.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Report.Attempted)
	assert.Equal(t, 1, result.Report.Deleted)
	assert.Empty(t, result.Report.Failed)

	_, files := f.store.counts()
	assert.Zero(t, files)
	assert.Zero(t, f.blob.objectCount())
	assert.Zero(t, f.store.orphanCount())
	assert.Equal(t, 1, f.pub.count(queue.TopicFileDeleted))
}

func TestDeleteFileBlobFailureIsRecorded(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	file := f.upload(t, alice, nil, "stuck.bin")
	f.blob.failAll = true

	result, err := f.vault.DeleteFile(ctx, alice, file.ID)
	require.NoError(t, err)
	require.Len(t, result.Report.Failed, 1)
	assert.Equal(t, file.ID, result.Report.Failed[0].FileID)

	_, files := f.store.counts()
	assert.Zero(t, files)
	assert.Equal(t, 1, f.blob.objectCount())
	assert.Equal(t, 1, f.store.orphanCount())
	assert.Equal(t, 1, f.pub.count(queue.TopicBlobOrphaned))

	orphans, err := f.store.ListOrphans(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, file.StoredID, orphans[0].StoredID)
	assert.Equal(t, model.OrphanReasonFileDelete, orphans[0].Reason)
}

func TestDeleteFolderCascade(t *testing.T) {
	f := newFixture(service.WithCleanupConcurrency(2))
	ctx := context.Background()

	folder, err := f.vault.CreateFolder(ctx, alice, "album")
	require.NoError(t, err)

	var stored []string

	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		stored = append(stored, f.upload(t, alice, &folder.ID, name).StoredID)
	}

	root := f.upload(t, alice, nil, "keep.txt")
	f.blob.failDeletes[stored[1]] = true

	result, err := f.vault.DeleteFolder(ctx, alice, folder.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Report.Attempted)
	assert.Equal(t, 2, result.Report.Deleted)
	require.Len(t, result.Report.Failed, 1)
	assert.Equal(t, stored[1], result.Report.Failed[0].StoredID)

	for _, id := range stored {
		assert.Equal(t, 1, f.blob.deleteCount(id), id)
	}

	assert.Zero(t, f.blob.deleteCount(root.StoredID))

	folders, files := f.store.counts()
	assert.Zero(t, folders)
	assert.Equal(t, 1, files)
	assert.Equal(t, 1, f.store.orphanCount())
	assert.Equal(t, 1, f.pub.count(queue.TopicFolderDeleted))

	_, err = f.vault.DeleteFolder(ctx, alice, folder.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDeleteFolderAsyncCleanup(t *testing.T) {
	f := newFixture(service.WithAsyncCleanup(true))
	ctx := context.Background()

	folder, err := f.vault.CreateFolder(ctx, alice, "tmp")
	require.NoError(t, err)

	f.upload(t, alice, &folder.ID, "1.txt")
	f.upload(t, alice, &folder.ID, "2.txt")

	result, err := f.vault.DeleteFolder(ctx, alice, folder.ID)
	require.NoError(t, err)
	assert.True(t, result.Report.Pending)
	assert.Equal(t, 2, result.Report.Attempted)

	f.vault.Wait()

	assert.Zero(t, f.blob.objectCount())
	assert.EqualValues(t, 2, f.blob.deleteCalls.Load())
}

func TestConcurrentDeleteFile(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	file := f.upload(t, alice, nil, "race.txt")

	var (
		wg   sync.WaitGroup
		errs = make([]error, 2)
	)

	for i := range errs {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, errs[i] = f.vault.DeleteFile(ctx, alice, file.ID)
		}()
	}

	wg.Wait()

	var ok, notFound int

	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, service.ErrNotFound):
			notFound++
		}
	}

	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, notFound)
	assert.Equal(t, 1, f.blob.deleteCount(file.StoredID))
}

func TestRenameFolderIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	folder, err := f.vault.CreateFolder(ctx, alice, "old")
	require.NoError(t, err)

	first, err := f.vault.RenameFolder(ctx, alice, folder.ID, "new")
	require.NoError(t, err)

	second, err := f.vault.RenameFolder(ctx, alice, folder.ID, "new")
	require.NoError(t, err)

	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, "new", second.Name)

	_, err = f.vault.RenameFolder(ctx, alice, folder.ID, "   ")
	assert.Equal(t, service.OutcomeStoreError, service.OutcomeOf(err))
}

func TestFolderRoundTrip(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	folder, err := f.vault.CreateFolder(ctx, alice, "  Projects  ")
	require.NoError(t, err)
	assert.Equal(t, "Projects", folder.Name)

	dup, err := f.vault.CreateFolder(ctx, alice, "Projects")
	require.NoError(t, err)
	assert.NotEqual(t, folder.ID, dup.ID)

	listing, err := f.vault.ListRootFiles(ctx, alice)
	require.NoError(t, err)
	require.Len(t, listing.Folders, 2)
	assert.Equal(t, "Projects", listing.Folders[0].Name)

	_, err = f.vault.RenameFolder(ctx, alice, folder.ID, "Archive")
	require.NoError(t, err)

	f.upload(t, alice, &folder.ID, "plan.md")

	files, err := f.vault.ListFolderFiles(ctx, alice, folder.ID)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "001-plan.md", files[0].DisplayName)

	listing, err = f.vault.ListRootFiles(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "Archive", listing.Folders[0].Name)
	assert.Empty(t, listing.Files)
}

func TestUploadBlobFailureLeavesNoRow(t *testing.T) {
	f := newFixture()
	f.blob.uploadErr = errBlobDown

	file, err := f.vault.UploadFile(context.Background(), alice, service.UploadInput{
		Body:         strings.NewReader("data"),
		OriginalName: "x.txt",
	})
	assert.Nil(t, file)

	var storageErr *service.StorageUnavailableError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, service.OutcomeStorageUnavailable, service.OutcomeOf(err))

	_, files := f.store.counts()
	assert.Zero(t, files)
	assert.Zero(t, f.pub.count(queue.TopicFileStored))
}

func TestUploadForbiddenFolderRollsBackBlob(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	folder, err := f.vault.CreateFolder(ctx, alice, "hers")
	require.NoError(t, err)

	_, err = f.vault.UploadFile(ctx, bob, service.UploadInput{
		FolderID:     &folder.ID,
		Body:         strings.NewReader("x"),
		OriginalName: "x.txt",
	})
	require.ErrorIs(t, err, service.ErrForbidden)

	assert.Zero(t, f.blob.objectCount())
	assert.EqualValues(t, 1, f.blob.deleteCalls.Load())
}

func TestUploadIntoDeletedFolderRollsBackBlob(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	folder, err := f.vault.CreateFolder(ctx, alice, "gone")
	require.NoError(t, err)

	_, err = f.vault.DeleteFolder(ctx, alice, folder.ID)
	require.NoError(t, err)

	_, err = f.vault.UploadFile(ctx, alice, service.UploadInput{
		FolderID:     &folder.ID,
		Body:         strings.NewReader("x"),
		OriginalName: "x.txt",
	})
	require.ErrorIs(t, err, service.ErrForbidden)

	_, files := f.store.counts()
	assert.Zero(t, files)
	assert.Zero(t, f.blob.objectCount())
}

func TestUploadInsertFailureRollsBackBlob(t *testing.T) {
	f := newFixture()
	f.store.failNext = errors.New("disk full")
	f.blob.failAll = true

	_, err := f.vault.UploadFile(context.Background(), alice, service.UploadInput{
		Body:         strings.NewReader("x"),
		OriginalName: "x.txt",
		DisplayName:  "Custom name",
	})
	assert.Equal(t, service.OutcomeStoreError, service.OutcomeOf(err))

	orphans, err := f.store.ListOrphans(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	assert.Equal(t, model.OrphanReasonRollback, orphans[0].Reason)
}

func TestGetDownloadTarget(t *testing.T) {
	f := newFixture()

	file, err := f.vault.UploadFile(context.Background(), alice, service.UploadInput{
		Body:         strings.NewReader("x"),
		OriginalName: "photo.png",
		DisplayName:  "Holiday",
	})
	require.NoError(t, err)

	target, err := f.vault.GetDownloadTarget(context.Background(), alice, file.ID)
	require.NoError(t, err)
	assert.Equal(t, "Holiday", target.DisplayName)
	assert.Equal(t, "https://blobs.example/"+file.StoredID, target.URL)
}

func TestBreakerFailsFast(t *testing.T) {
	f := newFixture(service.WithCircuitBreaker(configs.CircuitBreakerConfig{
		Enabled:           true,
		FailureRate:       0.5,
		MinRequests:       2,
		IntervalSeconds:   60,
		TimeoutSeconds:    60,
		MaxRequestsInHalf: 1,
	}))
	f.blob.uploadErr = errBlobDown

	for range 2 {
		_, err := f.vault.UploadFile(context.Background(), alice, service.UploadInput{Body: strings.NewReader("x")})
		require.Error(t, err)
	}

	f.blob.uploadErr = nil

	_, err := f.vault.UploadFile(context.Background(), alice, service.UploadInput{Body: strings.NewReader("x")})
	assert.Equal(t, service.OutcomeStorageUnavailable, service.OutcomeOf(err))

	_, files := f.store.counts()
	assert.Zero(t, files)
}

func TestOutcomeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want service.Outcome
	}{
		{"nil", nil, service.OutcomeOK},
		{"not found", service.ErrNotFound, service.OutcomeNotFound},
		{"forbidden", service.ErrForbidden, service.OutcomeForbidden},
		{"store", &service.StoreError{Op: "x", Err: errors.New("boom")}, service.OutcomeStoreError},
		{"storage", &service.StorageUnavailableError{Op: "x", Err: errBlobDown}, service.OutcomeStorageUnavailable},
		{"unknown", errors.New("?"), service.OutcomeStoreError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.OutcomeOf(tt.err))
		})
	}
}
