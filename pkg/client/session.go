package client

import (
	"context"
	"time"

	"brainbytes-go/internal/model"
	"brainbytes-go/pkg/conversation"
)

// Session 把 Client 的调用与本地 conversation.View 的状态转换串起来。
// Session 不是并发安全的。
type Session struct {
	client *Client
	view   conversation.View
	now    func() time.Time
}

// NewSession 创建一个空视图的会话。
func NewSession(c *Client) *Session {
	return &Session{client: c, view: conversation.Load(nil), now: time.Now}
}

// View 返回当前视图。
func (s *Session) View() conversation.View {
	return s.view
}

// SetFilter 切换筛选学科。
func (s *Session) SetFilter(filter string) {
	s.view = s.view.WithFilter(filter)
}

// Refresh 从服务端重新加载历史消息，保留当前筛选学科。
func (s *Session) Refresh(ctx context.Context) error {
	msgs, err := s.client.Messages(ctx)
	if err != nil {
		return err
	}
	s.view = conversation.Load(msgs).WithFilter(s.view.Filter())
	return nil
}

// Ask 先乐观插入用户消息，再以本地计算的目标学科提交问题。
// 失败时保留乐观消息并追加一条本地错误回复，同时返回错误。
func (s *Session) Ask(ctx context.Context, text string) (model.PostMessageResult, error) {
	target := s.view.Target(text)
	view, temp := s.view.AddOptimistic(text, s.now())
	s.view = view

	res, err := s.client.Post(ctx, text, target)
	if err != nil {
		s.view = s.view.AppendError(s.now())
		return model.PostMessageResult{}, err
	}
	s.view = s.view.Confirm(temp.ID, target, res)
	return res, nil
}

// Clear 删除服务端某个学科的消息，成功后清空本地对应的桶。
func (s *Session) Clear(ctx context.Context, subject string) (DeleteResult, error) {
	res, err := s.client.DeleteSubject(ctx, subject)
	if err != nil {
		return res, err
	}
	s.view = s.view.ClearSubject(subject)
	return res, nil
}
