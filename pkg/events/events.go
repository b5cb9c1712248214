// Package events 定义了发送到消息队列的领域事件。
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// 事件类型
const (
	TypeMessageCreated  = "message.created"
	TypeMessagesDeleted = "messages.deleted"
)

// Event 是消息写入或删除后发出的事件，由索引管道消费。
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	MessageID string    `json:"message_id,omitempty"`
	Text      string    `json:"text,omitempty"`
	IsUser    bool      `json:"is_user"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"created_at"`
	// Deleted 为 messages.deleted 事件中被删除的记录数。
	Deleted int64 `json:"deleted,omitempty"`
}

// MessageCreated 构造一条 message.created 事件。
func MessageCreated(messageID, text string, isUser bool, subject string, createdAt time.Time) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      TypeMessageCreated,
		MessageID: messageID,
		Text:      text,
		IsUser:    isUser,
		Subject:   subject,
		CreatedAt: createdAt,
	}
}

// MessagesDeleted 构造一条 messages.deleted 事件。
func MessagesDeleted(subject string, deleted int64) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      TypeMessagesDeleted,
		Subject:   subject,
		CreatedAt: time.Now().UTC(),
		Deleted:   deleted,
	}
}

// Processor 处理单个事件。
type Processor interface {
	Process(ctx context.Context, evt Event) error
}

// Publisher 发布事件。
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

type noopPublisher struct{}

// NewNoopPublisher 返回一个丢弃所有事件的 Publisher。
func NewNoopPublisher() Publisher { return noopPublisher{} }

func (noopPublisher) Publish(context.Context, Event) error { return nil }

type inlinePublisher struct {
	processor Processor
}

// NewInlinePublisher 返回一个在当前调用中直接交给 Processor 处理的 Publisher，
// 在未启用 Kafka 时使用。
func NewInlinePublisher(p Processor) Publisher {
	return &inlinePublisher{processor: p}
}

func (p *inlinePublisher) Publish(ctx context.Context, evt Event) error {
	return p.processor.Process(ctx, evt)
}
