package db_test

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/filevault/pkg/internal/model"
	"github.com/yeisme/filevault/pkg/internal/service"
	"github.com/yeisme/filevault/pkg/internal/storage/db"
)

// mapBlob 内存对象存储.
type mapBlob struct {
	mu      sync.Mutex
	objects map[string][]byte
	seq     int
}

func (b *mapBlob) Upload(_ context.Context, in service.BlobUpload) (service.BlobObject, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return service.BlobObject{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	id := fmt.Sprintf("u%d/%03d-%s", in.OwnerID, b.seq, in.HintName)
	b.objects[id] = data

	return service.BlobObject{ID: id, URL: "http://blob.local/" + id, Size: int64(len(data))}, nil
}

func (b *mapBlob) Delete(_ context.Context, storedID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.objects, storedID)

	return nil
}

func (b *mapBlob) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.objects)
}

// deleteBeforeInsert 在上传写入文件行之前删除目标文件夹，
// 即删除请求恰好落在上传的对象写入与元数据插入之间.
type deleteBeforeInsert struct {
	*db.Store
	deleted []model.File
}

func (s *deleteBeforeInsert) CreateFile(ctx context.Context, file *model.File) error {
	if file.FolderID != nil {
		files, err := s.DeleteFolderCascade(ctx, file.OwnerID, *file.FolderID)
		if err != nil {
			return err
		}

		s.deleted = files
	}

	return s.Store.CreateFile(ctx, file)
}

func TestUploadRacingFolderDelete(t *testing.T) {
	inner, client := newStoreWithClient(t)
	store := &deleteBeforeInsert{Store: inner}
	blob := &mapBlob{objects: map[string][]byte{}}
	vault := service.NewVault(store, blob, service.WithOrphanStore(inner))

	ctx := context.Background()
	alice := service.Identity{UserID: 1, Username: "alice", Role: model.RoleUser}

	folder := seedFolder(t, inner, 1, "inbox")
	old := seedFile(t, inner, 1, &folder.ID, "u1/old.txt")

	_, err := vault.UploadFile(ctx, alice, service.UploadInput{
		FolderID:     &folder.ID,
		Body:         strings.NewReader("late"),
		OriginalName: "late.txt",
	})
	require.ErrorIs(t, err, service.ErrForbidden)

	require.Len(t, store.deleted, 1)
	assert.Equal(t, old.ID, store.deleted[0].ID)

	// 没有指向已删除文件夹的文件行，已写入的对象也被回滚
	var stranded int64
	require.NoError(t, client.DB.Model(&model.File{}).Where("folder_id = ?", folder.ID).Count(&stranded).Error)
	assert.Zero(t, stranded)
	assert.Zero(t, blob.count())

	_, err = vault.ListFolderFiles(ctx, alice, folder.ID)
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestConcurrentUploadAndFolderDelete(t *testing.T) {
	s, client := newStoreWithClient(t)
	blob := &mapBlob{objects: map[string][]byte{}}
	vault := service.NewVault(s, blob, service.WithOrphanStore(s))

	ctx := context.Background()
	alice := service.Identity{UserID: 1, Username: "alice", Role: model.RoleUser}

	for round := range 10 {
		folder := seedFolder(t, s, 1, fmt.Sprintf("round-%d", round))

		var (
			wg        sync.WaitGroup
			uploadErr error
			uploaded  *model.File
		)

		wg.Add(2)

		go func() {
			defer wg.Done()

			uploaded, uploadErr = vault.UploadFile(ctx, alice, service.UploadInput{
				FolderID:     &folder.ID,
				Body:         strings.NewReader("x"),
				OriginalName: "x.txt",
			})
		}()

		go func() {
			defer wg.Done()

			_, _ = vault.DeleteFolder(ctx, alice, folder.ID)
		}()

		wg.Wait()

		var stranded int64
		require.NoError(t, client.DB.Model(&model.File{}).Where("folder_id = ?", folder.ID).Count(&stranded).Error)

		if uploadErr != nil {
			require.ErrorIs(t, uploadErr, service.ErrForbidden)
			assert.Zero(t, stranded)

			continue
		}

		// 上传先提交时，删除文件夹会一并删除这个文件
		_, err := s.FindFile(ctx, 1, uploaded.ID)
		require.ErrorIs(t, err, service.ErrNotFound)
		assert.Zero(t, stranded)
	}

	assert.Zero(t, blob.count())
}
