// Package kafka 提供了与 Kafka 消息队列交互的功能。
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"brainbytes-go/internal/config"
	"brainbytes-go/pkg/events"
	"brainbytes-go/pkg/log"

	"github.com/segmentio/kafka-go"
)

// maxAttempts 为单个事件的最大处理次数，超过后提交 offset 放弃重试。
const maxAttempts = 3

// Producer 将事件写入 Kafka 主题。
type Producer struct {
	writer *kafka.Writer
}

// NewProducer 初始化 Kafka 生产者。
func NewProducer(cfg config.KafkaConfig) *Producer {
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers(cfg)...),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	}
	log.Info("Kafka 生产者初始化成功")
	return &Producer{writer: w}
}

// Publish 发送一个事件到 Kafka，以事件 ID 作为消息 key。
func (p *Producer) Publish(ctx context.Context, evt events.Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.ID),
		Value: payload,
	})
}

// Close 关闭底层 writer。
func (p *Producer) Close() error {
	return p.writer.Close()
}

// StartConsumer 启动一个 Kafka 消费者处理事件，直到 ctx 结束。
func StartConsumer(ctx context.Context, cfg config.KafkaConfig, processor events.Processor, tracker AttemptTracker) {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers(cfg),
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})
	defer func() {
		if err := r.Close(); err != nil {
			log.Errorf("关闭 Kafka 消费者失败: %v", err)
		}
	}()

	log.Infof("Kafka 消费者已启动，正在监听主题 '%s'", cfg.Topic)

	for {
		m, err := r.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				log.Info("Kafka 消费者已停止")
				return
			}
			log.Error("从 Kafka 读取消息失败", err)
			return
		}

		if handleMessage(ctx, m.Value, processor, tracker) {
			if err := r.CommitMessages(ctx, m); err != nil {
				log.Errorf("提交 Kafka 消息 offset 失败: %v", err)
			}
		}
	}
}

// handleMessage 处理一条原始消息，返回是否应提交 offset。
func handleMessage(ctx context.Context, value []byte, processor events.Processor, tracker AttemptTracker) bool {
	var evt events.Event
	if err := json.Unmarshal(value, &evt); err != nil {
		// 消息格式错误，直接提交，避免阻塞队列
		log.Errorf("无法解析 Kafka 消息: %v, value: %s", err, string(value))
		return true
	}

	if err := processor.Process(ctx, evt); err != nil {
		log.Errorf("处理事件失败: id=%s, type=%s, error: %v", evt.ID, evt.Type, err)
		attempts, incErr := tracker.Incr(ctx, evt.ID)
		if incErr != nil {
			// 计数失败时不提交 offset，让 Kafka 重试
			log.Warnf("记录事件失败次数出错: %v", incErr)
			return false
		}
		if attempts >= maxAttempts {
			log.Errorf("事件多次处理失败(>=%d)，提交 offset 终止重试: id=%s", maxAttempts, evt.ID)
			tracker.Reset(ctx, evt.ID)
			return true
		}
		return false
	}

	tracker.Reset(ctx, evt.ID)
	log.Infow("事件处理成功", "id", evt.ID, "type", evt.Type)
	return true
}

func brokers(cfg config.KafkaConfig) []string {
	var out []string
	for _, b := range strings.Split(cfg.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	if len(out) == 0 {
		panic(fmt.Sprintf("kafka brokers not configured: %q", cfg.Brokers))
	}
	return out
}
