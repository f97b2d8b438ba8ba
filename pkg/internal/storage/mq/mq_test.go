package mq_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/filevault/pkg/configs"
	"github.com/yeisme/filevault/pkg/internal/storage/mq"
	"github.com/yeisme/filevault/pkg/queue"
)

func TestGoChannelRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := &configs.MQConfig{
		Type:      configs.MQTypeGoChannel,
		Common:    configs.MQCommonConfig{EnableMetrics: true},
		GoChannel: configs.MQGoChannelConfig{OutputBufferSize: 8},
	}

	client, err := mq.New(ctx, cfg, mq.Options{Registry: prometheus.NewRegistry()})
	require.NoError(t, err)

	defer func() { assert.NoError(t, client.Close()) }()

	assert.Equal(t, configs.MQTypeGoChannel, client.Type())

	ch, err := client.Subscribe(ctx, queue.TopicFileStored)
	require.NoError(t, err)

	require.NoError(t, queue.Publish(client, queue.TopicFileStored, queue.FileStoredPayload{FileID: 7, OwnerID: 1}))

	select {
	case msg := <-ch:
		got, err := queue.ParseFileStored(msg)
		require.NoError(t, err)
		assert.EqualValues(t, 7, got.Payload.FileID)
		assert.Equal(t, queue.TopicFileStored, got.Header.Topic)
		msg.Ack()
	case <-ctx.Done():
		t.Fatal("timed out waiting for message")
	}

	require.NoError(t, client.HealthCheck(ctx))
}

func TestUnsupportedType(t *testing.T) {
	_, err := mq.New(context.Background(), &configs.MQConfig{Type: "kafka"}, mq.Options{})
	assert.Error(t, err)
	assert.Contains(t, mq.GetRegisteredTypes(), configs.MQTypeGoChannel)
}
