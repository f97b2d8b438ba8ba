package service_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/yeisme/filevault/pkg/internal/model"
	"github.com/yeisme/filevault/pkg/internal/service"
)

// memStore 内存版元数据、账号与孤儿存储.
type memStore struct {
	mu       sync.Mutex
	nextID   uint
	folders  map[uint]model.Folder
	files    map[uint]model.File
	users    map[uint]model.User
	orphans  map[uint]model.OrphanBlob
	failNext error
}

func newMemStore() *memStore {
	return &memStore{
		folders: map[uint]model.Folder{},
		files:   map[uint]model.File{},
		users:   map[uint]model.User{},
		orphans: map[uint]model.OrphanBlob{},
	}
}

func (s *memStore) id() uint {
	s.nextID++

	return s.nextID
}

func (s *memStore) fail() error {
	err := s.failNext
	s.failNext = nil

	return err
}

func (s *memStore) ListFolders(_ context.Context, ownerID uint) ([]model.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Folder

	for _, f := range s.folders {
		if f.OwnerID == ownerID {
			out = append(out, f)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (s *memStore) ListRootFiles(_ context.Context, ownerID uint) ([]model.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.File

	for _, f := range s.files {
		if f.OwnerID == ownerID && f.FolderID == nil {
			out = append(out, f)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (s *memStore) FolderExists(_ context.Context, folderID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.folders[folderID]

	return ok, nil
}

func (s *memStore) ListFolderFiles(_ context.Context, ownerID, folderID uint) ([]model.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.folders[folderID]
	if !ok || f.OwnerID != ownerID {
		return nil, service.ErrNotFound
	}

	return s.filesIn(ownerID, folderID), nil
}

func (s *memStore) filesIn(ownerID, folderID uint) []model.File {
	var out []model.File

	for _, f := range s.files {
		if f.OwnerID == ownerID && f.FolderID != nil && *f.FolderID == folderID {
			out = append(out, f)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

func (s *memStore) CreateFolder(_ context.Context, folder *model.Folder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail(); err != nil {
		return err
	}

	folder.ID = s.id()
	s.folders[folder.ID] = *folder

	return nil
}

func (s *memStore) RenameFolder(_ context.Context, ownerID, folderID uint, name string) (*model.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.folders[folderID]
	if !ok || f.OwnerID != ownerID {
		return nil, service.ErrNotFound
	}

	f.Name = name
	s.folders[folderID] = f

	return &f, nil
}

func (s *memStore) DeleteFolderCascade(_ context.Context, ownerID, folderID uint) ([]model.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.folders[folderID]
	if !ok || f.OwnerID != ownerID {
		return nil, service.ErrNotFound
	}

	files := s.filesIn(ownerID, folderID)

	delete(s.folders, folderID)

	for _, file := range files {
		delete(s.files, file.ID)
	}

	return files, nil
}

func (s *memStore) CreateFile(_ context.Context, file *model.File) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fail(); err != nil {
		return err
	}

	if file.FolderID != nil {
		f, ok := s.folders[*file.FolderID]
		if !ok || f.OwnerID != file.OwnerID {
			return service.ErrForbidden
		}
	}

	file.ID = s.id()
	s.files[file.ID] = *file

	return nil
}

func (s *memStore) DeleteFile(_ context.Context, ownerID, fileID uint) (*model.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[fileID]
	if !ok || f.OwnerID != ownerID {
		return nil, service.ErrNotFound
	}

	delete(s.files, fileID)

	return &f, nil
}

func (s *memStore) FindFile(_ context.Context, ownerID, fileID uint) (*model.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[fileID]
	if !ok || f.OwnerID != ownerID {
		return nil, service.ErrNotFound
	}

	return &f, nil
}

func (s *memStore) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return fmt.Errorf("%w: users.username", service.ErrDuplicate)
		}
	}

	user.ID = s.id()
	s.users[user.ID] = *user

	return nil
}

func (s *memStore) FindUserByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}

	return nil, service.ErrNotFound
}

func (s *memStore) FindUserByID(_ context.Context, id uint) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, service.ErrNotFound
	}

	return &u, nil
}

func (s *memStore) RecordOrphans(_ context.Context, orphans []model.OrphanBlob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range orphans {
		o.ID = s.id()
		s.orphans[o.ID] = o
	}

	return nil
}

func (s *memStore) PendingOrphans(_ context.Context, limit, maxAttempts int) ([]model.OrphanBlob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.OrphanBlob

	for _, o := range s.sortedOrphans() {
		if o.Attempts < maxAttempts && len(out) < limit {
			out = append(out, o)
		}
	}

	return out, nil
}

func (s *memStore) ListOrphans(_ context.Context, limit int) ([]model.OrphanBlob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.sortedOrphans()
	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (s *memStore) sortedOrphans() []model.OrphanBlob {
	out := make([]model.OrphanBlob, 0, len(s.orphans))
	for _, o := range s.orphans {
		out = append(out, o)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

func (s *memStore) ResolveOrphan(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.orphans, id)

	return nil
}

func (s *memStore) MarkOrphanAttempt(_ context.Context, id uint, lastErr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := s.orphans[id]
	o.Attempts++
	o.LastError = lastErr
	s.orphans[id] = o

	return nil
}

func (s *memStore) CountPendingOrphans(_ context.Context, maxAttempts int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64

	for _, o := range s.orphans {
		if o.Attempts < maxAttempts {
			n++
		}
	}

	return n, nil
}

func (s *memStore) counts() (folders, files int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.folders), len(s.files)
}

func (s *memStore) orphanCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.orphans)
}

var errBlobDown = errors.New("blob store down")

// memBlob 内存对象存储，可注入失败.
type memBlob struct {
	mu          sync.Mutex
	seq         int
	objects     map[string][]byte
	deletes     map[string]int
	uploadErr   error
	failDeletes map[string]bool
	failAll     bool
	deleteCalls atomic.Int64
}

func newMemBlob() *memBlob {
	return &memBlob{
		objects:     map[string][]byte{},
		deletes:     map[string]int{},
		failDeletes: map[string]bool{},
	}
}

func (b *memBlob) Upload(ctx context.Context, in service.BlobUpload) (service.BlobObject, error) {
	if b.uploadErr != nil {
		return service.BlobObject{}, b.uploadErr
	}

	data, err := io.ReadAll(in.Body)
	if err != nil {
		return service.BlobObject{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	id := fmt.Sprintf("u%d/%03d-%s", in.OwnerID, b.seq, in.HintName)
	b.objects[id] = data

	return service.BlobObject{ID: id, URL: "https://blobs.example/" + id, Size: int64(len(data))}, nil
}

func (b *memBlob) Delete(ctx context.Context, storedID string) error {
	b.deleteCalls.Add(1)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.deletes[storedID]++

	if b.failAll || b.failDeletes[storedID] {
		return errBlobDown
	}

	delete(b.objects, storedID)

	return nil
}

func (b *memBlob) objectCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.objects)
}

func (b *memBlob) deleteCount(storedID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.deletes[storedID]
}

// recordingPublisher 记录发布的主题.
type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *recordingPublisher) Publish(topic string, messages ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for range messages {
		p.topics = append(p.topics, topic)
	}

	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) count(topic string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0

	for _, t := range p.topics {
		if t == topic {
			n++
		}
	}

	return n
}
