// Package mq 基于 Watermill 提供统一的消息队列客户端.
// 通过工厂模式支持 gochannel（进程内）、NATS（可选 JetStream）与 Redis Pub/Sub.
//
// 使用示例：
//
//	client, err := mq.New(ctx, &cfg.MQ, mq.Options{Registry: metrics.GetRegistry()})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	err = queue.Publish(client, queue.TopicFileStored, payload)
package mq

import (
	"context"
	"errors"
	"fmt"
	"sort"

	watermill "github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/yeisme/filevault/pkg/configs"
	nlog "github.com/yeisme/filevault/pkg/log"
)

// Factory 定义创建 Publisher + Subscriber 的工厂函数.
type Factory func(ctx context.Context, cfg *configs.MQConfig, logger watermill.LoggerAdapter) (message.Publisher, message.Subscriber, error)

var factories = map[configs.MQType]Factory{}

// RegisterFactory 注册指定 MQType 的工厂.
func RegisterFactory(t configs.MQType, f Factory) {
	factories[t] = f
}

// GetRegisteredTypes 返回已注册的类型.
func GetRegisteredTypes() []configs.MQType {
	types := make([]configs.MQType, 0, len(factories))
	for t := range factories {
		types = append(types, t)
	}

	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	return types
}

// Options 客户端可选项.
type Options struct {
	// Registry 非空且配置开启指标时，为 Publisher 与 Subscriber 加上 Prometheus 指标.
	Registry prometheus.Registerer
	Logger   *zerolog.Logger
}

// Client 封装 watermill Publisher 与 Subscriber，本身实现 message.Publisher.
type Client struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	mqType     configs.MQType
}

// New 按配置创建客户端.
func New(ctx context.Context, cfg *configs.MQConfig, opts Options) (*Client, error) {
	mqType := cfg.GetMQType()
	if mqType == "" {
		mqType = configs.MQTypeGoChannel
	}

	factory, ok := factories[mqType]
	if !ok {
		return nil, fmt.Errorf("unsupported mq type: %s", mqType)
	}

	l := opts.Logger
	if l == nil {
		component := nlog.Component("mq")
		l = &component
	}

	logger := NewLoggerAdapter(l)

	pub, sub, err := factory(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init mq (%s): %w", mqType, err)
	}

	if cfg.Common.EnableMetrics && opts.Registry != nil {
		builder := metrics.NewPrometheusMetricsBuilder(opts.Registry, configs.AppName, "mq")

		if pub, err = builder.DecoratePublisher(pub); err != nil {
			return nil, fmt.Errorf("decorate publisher with metrics: %w", err)
		}

		if sub, err = builder.DecorateSubscriber(sub); err != nil {
			return nil, fmt.Errorf("decorate subscriber with metrics: %w", err)
		}
	}

	l.Info().Str("type", string(mqType)).Msg("mq client initialized")

	return &Client{publisher: pub, subscriber: sub, mqType: mqType}, nil
}

// Type 返回 MQ 类型.
func (c *Client) Type() configs.MQType {
	return c.mqType
}

// Publish 实现 message.Publisher.
func (c *Client) Publish(topic string, msgs ...*message.Message) error {
	if c == nil || c.publisher == nil {
		return errors.New("mq publisher not initialized")
	}

	return c.publisher.Publish(topic, msgs...)
}

// Subscribe 订阅主题.
func (c *Client) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	if c == nil || c.subscriber == nil {
		return nil, errors.New("mq subscriber not initialized")
	}

	return c.subscriber.Subscribe(ctx, topic)
}

// HealthCheck 发布一条探测消息.
func (c *Client) HealthCheck(_ context.Context) error {
	return c.Publish(HealthTopic, message.NewMessage(watermill.NewUUID(), []byte("ping")))
}

// HealthTopic 健康检查使用的主题.
const HealthTopic = "fv.health.probe"

// Close 关闭资源.
func (c *Client) Close() error {
	var errs []error

	if c.publisher != nil {
		errs = append(errs, c.publisher.Close())
	}

	// gochannel 的 Publisher 与 Subscriber 是同一个实例
	if c.subscriber != nil && any(c.subscriber) != any(c.publisher) {
		errs = append(errs, c.subscriber.Close())
	}

	return errors.Join(errs...)
}
