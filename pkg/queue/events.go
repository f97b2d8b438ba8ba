package queue

import (
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/yeisme/filevault/pkg/configs"
)

// Publish 将负载封装为信封并发布到 topic.
func Publish[T any](pub message.Publisher, topic string, payload T, opts ...HeaderOption) error {
	msg, err := NewWatermillMessage(topic, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(topic, msg)
}

// FilterPublisher 只放行允许的主题，其余主题静默丢弃.
type FilterPublisher struct {
	next    message.Publisher
	allowed map[string]bool
}

// NewFilterPublisher 创建按主题过滤的 Publisher.
func NewFilterPublisher(next message.Publisher, allowed ...string) *FilterPublisher {
	set := make(map[string]bool, len(allowed))
	for _, t := range allowed {
		set[t] = true
	}

	return &FilterPublisher{next: next, allowed: set}
}

// Publish 实现 message.Publisher.
func (p *FilterPublisher) Publish(topic string, messages ...*message.Message) error {
	if !p.allowed[topic] {
		return nil
	}

	return p.next.Publish(topic, messages...)
}

// EnabledTopics 按事件配置返回允许发布的主题，总开关关闭时为空.
func EnabledTopics(cfg configs.EventsConfig) []string {
	if !cfg.Enabled {
		return nil
	}

	var topics []string

	for topic, on := range map[string]bool{
		TopicFileStored:    cfg.File.Stored,
		TopicFileDeleted:   cfg.File.Deleted,
		TopicFolderDeleted: cfg.Folder.Deleted,
		TopicBlobOrphaned:  cfg.Blob.Orphaned,
	} {
		if on {
			topics = append(topics, topic)
		}
	}

	return topics
}

// Close 不关闭下游 Publisher，其生命周期由 MQ 客户端管理.
func (p *FilterPublisher) Close() error {
	return nil
}

// ParseFileStored 解析 fv.file.stored 消息.
func ParseFileStored(msg *message.Message) (Message[FileStoredPayload], error) {
	return ParseWatermillMessage[FileStoredPayload](msg)
}

// ParseBlobOrphaned 解析 fv.blob.orphaned 消息.
func ParseBlobOrphaned(msg *message.Message) (Message[BlobOrphanedPayload], error) {
	return ParseWatermillMessage[BlobOrphanedPayload](msg)
}
