// Package llm 封装了推理网关（外部大模型服务）以及调用它的超时保护。
package llm

import (
	"context"
	"fmt"
	"strings"

	"brainbytes-go/internal/config"
	"brainbytes-go/pkg/subject"
)

const (
	// CategoryOpenEnded 是网关成功回答时的分类。
	CategoryOpenEnded = "open-ended"
	// CategoryError 是网关无法给出有效回答时的分类。
	CategoryError = "error"

	emptyCompletionText = "I'm sorry, I couldn't understand your question. Please try again."
)

// Result 是网关对一次提问的回答。
type Result struct {
	Category string `json:"category"`
	Response string `json:"response"`
}

// Gateway 把（问题, 学科）转换为一条辅导回复，可能很慢，也可能失败。
type Gateway interface {
	Generate(ctx context.Context, question, subject string) (Result, error)
}

// NewGateway 根据配置中的 provider 创建网关客户端。
func NewGateway(cfg config.LLMConfig) (Gateway, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "openai":
		return NewClient(cfg), nil
	case "gemini":
		return NewGeminiClient(context.Background(), cfg)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}

const tutorGuidelines = `

Guidelines:
- Use a warm, casual tone like you're talking to a student face-to-face
- Avoid using asterisks, bullet points, or other formatting symbols
- Write in simple, flowing paragraphs rather than structured lists
- Explain concepts in plain language a student would understand
- Keep your answer concise but helpful`

// BuildPrompt 构建面向学生的辅导提示词；非 General 学科会声明导师的专长。
func BuildPrompt(question, sub string) string {
	if sub != "" && !subject.IsGeneral(sub) {
		return fmt.Sprintf("You are a friendly tutor who specializes in %s. \nPlease answer this question in a conversational way: %s", sub, question) + tutorGuidelines
	}
	return "You are a friendly tutor. Please answer this question in a conversational way: " + question + tutorGuidelines
}

// resultFromText 把模型输出转换为 Result，空输出视为无法理解。
func resultFromText(text string) Result {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{Category: CategoryError, Response: emptyCompletionText}
	}
	return Result{Category: CategoryOpenEnded, Response: text}
}
