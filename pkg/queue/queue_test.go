package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/filevault/pkg/configs"
	"github.com/yeisme/filevault/pkg/queue"
)

// TestNewWatermillMessage 测试消息元数据与信封字段.
func TestNewWatermillMessage(t *testing.T) {
	msg, err := queue.NewWatermillMessage(queue.TopicFileStored,
		queue.FileStoredPayload{FileID: 7, OwnerID: 3, DisplayName: "a.txt"},
		queue.WithTraceID("trace-1"), queue.WithProducer("filevault"))
	require.NoError(t, err)

	assert.Equal(t, queue.TopicFileStored, msg.Metadata.Get("topic"))
	assert.Equal(t, "trace-1", msg.Metadata.Get("trace_id"))
	assert.Equal(t, queue.PayloadVersionV1, msg.Metadata.Get("version"))

	env, err := queue.ParseFileStored(msg)
	require.NoError(t, err)
	assert.Equal(t, uint(7), env.Payload.FileID)
	assert.Equal(t, "filevault", env.Header.Producer)
}

// TestFilterPublisher 测试只有允许的主题会被投递.
func TestFilterPublisher(t *testing.T) {
	pubsub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 8}, watermill.NopLogger{})
	defer pubsub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	orphaned, err := pubsub.Subscribe(ctx, queue.TopicBlobOrphaned)
	require.NoError(t, err)
	stored, err := pubsub.Subscribe(ctx, queue.TopicFileStored)
	require.NoError(t, err)

	pub := queue.NewFilterPublisher(pubsub, queue.TopicBlobOrphaned)
	require.NoError(t, queue.Publish(pub, queue.TopicFileStored, queue.FileStoredPayload{FileID: 1}))
	require.NoError(t, queue.Publish(pub, queue.TopicBlobOrphaned, queue.BlobOrphanedPayload{StoredID: "u1/x"}))

	select {
	case m := <-orphaned:
		env, err := queue.ParseBlobOrphaned(m)
		require.NoError(t, err)
		assert.Equal(t, "u1/x", env.Payload.StoredID)
		m.Ack()
	case <-ctx.Done():
		t.Fatal("orphaned event not delivered")
	}

	select {
	case m := <-stored:
		t.Fatalf("filtered topic delivered: %s", m.UUID)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestEnabledTopics(t *testing.T) {
	cfg := configs.EventsConfig{Enabled: true}
	cfg.Blob.Orphaned = true
	cfg.File.Deleted = true

	assert.ElementsMatch(t, []string{queue.TopicBlobOrphaned, queue.TopicFileDeleted}, queue.EnabledTopics(cfg))

	cfg.Enabled = false
	assert.Empty(t, queue.EnabledTopics(cfg))
}
