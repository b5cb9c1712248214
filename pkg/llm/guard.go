package llm

import (
	"context"
	"fmt"
	"time"

	"brainbytes-go/pkg/log"
)

// DefaultTimeout 是网关调用的默认截止时间。
const DefaultTimeout = 15 * time.Second

// FallbackResponse 是超时或失败时替代网关回答的固定回复。
const FallbackResponse = "I'm sorry, but I couldn't process your request in time. Please try again later."

// Outcome 描述一次受保护调用的结局。
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeTimeout Outcome = "timeout"
	OutcomeError   Outcome = "error"
)

// Fallback 返回带 error 分类的固定回复。
func Fallback() Result {
	return Result{Category: CategoryError, Response: FallbackResponse}
}

// Guard 让网关调用与截止时间赛跑，先完成者决定结果。
// Generate 永远返回一个可用的回复，调用方无需处理错误。
type Guard struct {
	gateway Gateway
	timeout time.Duration
	observe func(Outcome)
}

// NewGuard 创建超时保护；timeout 非正数时使用 DefaultTimeout。
func NewGuard(gateway Gateway, timeout time.Duration) *Guard {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Guard{gateway: gateway, timeout: timeout}
}

// WithObserver 注册结局回调，用于指标统计。
func (g *Guard) WithObserver(fn func(Outcome)) *Guard {
	g.observe = fn
	return g
}

// Timeout 返回当前的截止时间。
func (g *Guard) Timeout() time.Duration {
	return g.timeout
}

type guardedReply struct {
	result Result
	err    error
}

// Generate 在截止时间内等待网关回答，超时或失败时返回 Fallback。
// 请求取消不会中断等待：用户消息已经落库，回复记录必须生成。
// 返回后网关调用的 context 会被取消，迟到的结果直接丢弃。
func (g *Guard) Generate(ctx context.Context, question, subject string) Result {
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.timeout)
	defer cancel()

	// 带缓冲，保证输掉比赛的 goroutine 能写入后退出
	replies := make(chan guardedReply, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				replies <- guardedReply{err: fmt.Errorf("gateway panic: %v", r)}
			}
		}()
		res, err := g.gateway.Generate(callCtx, question, subject)
		replies <- guardedReply{result: res, err: err}
	}()

	select {
	case reply := <-replies:
		if reply.err != nil {
			log.Warnw("AI response failed, using fallback", "subject", subject, "error", reply.err)
			g.report(OutcomeError)
			return Fallback()
		}
		g.report(OutcomeSuccess)
		return reply.result
	case <-callCtx.Done():
		log.Warnw("AI response timed out, using fallback", "subject", subject, "timeout", g.timeout.String())
		g.report(OutcomeTimeout)
		return Fallback()
	}
}

func (g *Guard) report(o Outcome) {
	if g.observe != nil {
		g.observe(o)
	}
}
