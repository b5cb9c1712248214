package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"brainbytes-go/internal/model"
	"brainbytes-go/internal/repository"
	"brainbytes-go/pkg/events"
	"brainbytes-go/pkg/llm"
	"brainbytes-go/pkg/log"
	"brainbytes-go/pkg/metrics"
	"brainbytes-go/pkg/subject"

	"github.com/google/uuid"
)

// ReplyGenerator 生成一条回复，永不失败。由 llm.Guard 实现。
type ReplyGenerator interface {
	Generate(ctx context.Context, question, subject string) llm.Result
}

// MessageService 接口定义了对话消息相关的业务操作。
type MessageService interface {
	// Post 归类并保存提问，生成回复并保存。两条记录的学科始终一致。
	Post(ctx context.Context, text, explicitSubject, filter string) (*model.PostMessageResult, error)
	// List 按时间升序返回全部消息，学科已归一化。
	List(ctx context.Context) ([]model.Message, error)
	DeleteBySubject(ctx context.Context, sub string) (int64, error)
}

type messageService struct {
	messageRepo repository.MessageRepository
	generator   ReplyGenerator
	publisher   events.Publisher
	statsCache  repository.StatsCache
	now         func() time.Time
}

// NewMessageService 创建一个新的 MessageService 实例。
func NewMessageService(
	messageRepo repository.MessageRepository,
	generator ReplyGenerator,
	publisher events.Publisher,
	statsCache repository.StatsCache,
) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		generator:   generator,
		publisher:   publisher,
		statsCache:  statsCache,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *messageService) Post(ctx context.Context, text, explicitSubject, filter string) (*model.PostMessageResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is required", ErrInvalidInput)
	}

	sub := subject.Partition(text, explicitSubject, filter)

	userMsg := model.Message{
		ID:        newMessageID(),
		Text:      text,
		IsUser:    true,
		Subject:   sub,
		CreatedAt: s.now(),
	}
	if err := s.messageRepo.Create(ctx, &userMsg); err != nil {
		log.Errorf("[MessageService] 保存用户消息失败: %v", err)
		return nil, fmt.Errorf("failed to save user message: %w", err)
	}
	s.afterWrite(ctx, userMsg)

	// 用户消息已落库，客户端断开后仍需保存回复
	ctx = context.WithoutCancel(ctx)
	reply := s.generator.Generate(ctx, text, sub)

	aiMsg := model.Message{
		ID:        newMessageID(),
		Text:      reply.Response,
		IsUser:    false,
		Subject:   sub,
		CreatedAt: s.now(),
	}
	if err := s.messageRepo.Create(ctx, &aiMsg); err != nil {
		log.Errorf("[MessageService] 保存 AI 回复失败: %v", err)
		return nil, fmt.Errorf("failed to save ai message: %w", err)
	}
	s.afterWrite(ctx, aiMsg)

	log.Infow("[MessageService] 消息已处理", "subject", sub, "category", reply.Category)
	return &model.PostMessageResult{
		UserMessage: userMsg.Normalized(),
		AIMessage:   aiMsg.Normalized(),
		Category:    reply.Category,
	}, nil
}

func (s *messageService) List(ctx context.Context) ([]model.Message, error) {
	messages, err := s.messageRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	out := make([]model.Message, 0, len(messages))
	for _, m := range messages {
		out = append(out, m.Normalized())
	}
	return out, nil
}

func (s *messageService) DeleteBySubject(ctx context.Context, sub string) (int64, error) {
	if strings.TrimSpace(sub) == "" {
		return 0, fmt.Errorf("%w: subject is required", ErrInvalidInput)
	}
	n, err := s.messageRepo.DeleteBySubject(ctx, sub)
	if err != nil {
		return 0, fmt.Errorf("failed to delete messages: %w", err)
	}

	label := subject.Normalize(sub).String()
	metrics.MessagesDeleted.WithLabelValues(label).Add(float64(n))
	log.Infof("[MessageService] 已删除学科 %s 下的 %d 条消息", sub, n)
	if n == 0 {
		return 0, nil
	}

	if err := s.publisher.Publish(ctx, events.MessagesDeleted(sub, n)); err != nil {
		log.Warnf("[MessageService] 发布删除事件失败: %v", err)
	}
	s.invalidateStats(ctx)
	return n, nil
}

// afterWrite 发布写入事件并使统计缓存失效，失败只记录日志。
func (s *messageService) afterWrite(ctx context.Context, m model.Message) {
	evt := events.MessageCreated(m.ID, m.Text, m.IsUser, m.Subject, m.CreatedAt)
	if err := s.publisher.Publish(ctx, evt); err != nil {
		log.Warnf("[MessageService] 发布消息事件失败, MessageID: %s, Error: %v", m.ID, err)
	}
	if m.IsUser {
		s.invalidateStats(ctx)
	}
}

func (s *messageService) invalidateStats(ctx context.Context) {
	if err := s.statsCache.Invalidate(ctx); err != nil {
		log.Warnf("[MessageService] 统计缓存失效失败: %v", err)
	}
}

// newMessageID 生成时间有序的 UUIDv7，作为同一时刻消息的排序依据。
func newMessageID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
