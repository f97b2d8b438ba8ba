package s3

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gosimple/slug"
	minio "github.com/minio/minio-go/v7"
	"github.com/oklog/ulid"

	"github.com/yeisme/filevault/pkg/internal/service"
)

var _ service.BlobStore = (*Client)(nil)

const maxStemLength = 64

// ObjectKey 生成对象键：u<owner>/<ulid>-<slug(stem)><ext>.
func ObjectKey(ownerID uint, name string, now time.Time) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))

	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	s := slug.Make(stem)
	if len(s) > maxStemLength {
		s = strings.Trim(s[:maxStemLength], "-")
	}

	if s == "" {
		s = "file"
	}

	if e := slug.Make(strings.TrimPrefix(ext, ".")); e != "" {
		ext = "." + e
	} else {
		ext = ""
	}

	id := ulid.MustNew(ulid.Timestamp(now), rand.Reader)

	return fmt.Sprintf("u%d/%s-%s%s", ownerID, strings.ToLower(id.String()), s, ext)
}

// Upload 流式写入对象，同时计算 xxhash64.
func (c *Client) Upload(ctx context.Context, in service.BlobUpload) (service.BlobObject, error) {
	key := ObjectKey(in.OwnerID, in.HintName, time.Now())

	size := in.Size
	if size <= 0 {
		size = -1
	}

	h := xxhash.New()

	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	info, err := c.PutObject(ctx, c.bucket, key, io.TeeReader(in.Body, h), size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return service.BlobObject{}, fmt.Errorf("put object %s: %w", key, err)
	}

	return service.BlobObject{
		ID:       key,
		URL:      c.ObjectURL(key),
		Size:     info.Size,
		Checksum: fmt.Sprintf("%016x", h.Sum64()),
	}, nil
}

// Delete 删除对象，对象不存在不视为错误.
func (c *Client) Delete(ctx context.Context, storedID string) error {
	err := c.RemoveObject(ctx, c.bucket, storedID, minio.RemoveObjectOptions{})
	if err == nil {
		return nil
	}

	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return nil
	}

	return fmt.Errorf("remove object %s: %w", storedID, err)
}

// ObjectURL 返回对象访问地址.
func (c *Client) ObjectURL(key string) string {
	return c.baseURL + "/" + key
}
