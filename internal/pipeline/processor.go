// Package pipeline 定义了消息事件到检索索引的处理流程。
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"brainbytes-go/internal/model"
	"brainbytes-go/pkg/events"
	"brainbytes-go/pkg/log"
	"brainbytes-go/pkg/subject"
)

// SearchIndex 是 Processor 依赖的索引操作，由 es.MessageIndex 实现。
type SearchIndex interface {
	IndexMessage(ctx context.Context, doc model.MessageDocument) error
	DeleteBySubject(ctx context.Context, subject string) (int64, error)
	DeleteByStoredSubject(ctx context.Context, value string) (int64, error)
}

// Processor 消费消息事件并同步到检索索引。
type Processor struct {
	index SearchIndex
}

// NewProcessor 创建一个新的 Processor 实例。
func NewProcessor(index SearchIndex) *Processor {
	return &Processor{index: index}
}

// Process 是事件处理的主函数。索引中的学科统一归一化后写入。
func (p *Processor) Process(ctx context.Context, evt events.Event) error {
	switch evt.Type {
	case events.TypeMessageCreated:
		doc := model.MessageDocument{
			MessageID:     evt.MessageID,
			Text:          evt.Text,
			IsUser:        evt.IsUser,
			Subject:       subject.Normalize(evt.Subject).String(),
			StoredSubject: storedSubject(evt.Subject),
			CreatedAt:     evt.CreatedAt,
		}
		if err := p.index.IndexMessage(ctx, doc); err != nil {
			log.Errorf("[Processor] 索引消息失败, MessageID: %s, Error: %v", evt.MessageID, err)
			return fmt.Errorf("索引消息失败: %w", err)
		}
		log.Infof("[Processor] 消息已索引, MessageID: %s, Subject: %s", evt.MessageID, doc.Subject)
		return nil

	case events.TypeMessagesDeleted:
		// 集合内的学科（含 General）按归一化值删除，集合外的名称只匹配原始取值相同的文档。
		var (
			n   int64
			err error
		)
		sub := evt.Subject
		if parsed, ok := subject.Parse(evt.Subject); ok {
			sub = parsed.String()
			n, err = p.index.DeleteBySubject(ctx, sub)
		} else {
			sub = storedSubject(evt.Subject)
			n, err = p.index.DeleteByStoredSubject(ctx, sub)
		}
		if err != nil {
			log.Errorf("[Processor] 删除学科文档失败, Subject: %s, Error: %v", sub, err)
			return fmt.Errorf("删除学科文档失败: %w", err)
		}
		log.Infof("[Processor] 学科文档已删除, Subject: %s, 数量: %d", sub, n)
		return nil

	default:
		log.Warnf("[Processor] 忽略未知事件类型: %s", evt.Type)
		return nil
	}
}

func storedSubject(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
