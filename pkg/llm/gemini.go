package llm

import (
	"context"
	"fmt"

	"brainbytes-go/internal/config"

	"google.golang.org/genai"
)

// geminiClient 通过 Google GenAI SDK 调用 Gemini 模型。
type geminiClient struct {
	client *genai.Client
	cfg    config.LLMConfig
}

// NewGeminiClient 创建基于 Gemini 的网关客户端。
func NewGeminiClient(ctx context.Context, cfg config.LLMConfig) (Gateway, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash-lite"
	}
	return &geminiClient{client: client, cfg: cfg}, nil
}

// Generate 调用 GenerateContent 并拼接首个候选的全部文本片段。
func (g *geminiClient) Generate(ctx context.Context, question, subject string) (Result, error) {
	genCfg := &genai.GenerateContentConfig{}
	if g.cfg.Generation.Temperature != 0 {
		t := float32(g.cfg.Generation.Temperature)
		genCfg.Temperature = &t
	}
	if g.cfg.Generation.TopP != 0 {
		p := float32(g.cfg.Generation.TopP)
		genCfg.TopP = &p
	}
	if g.cfg.Generation.MaxTokens != 0 {
		genCfg.MaxOutputTokens = int32(g.cfg.Generation.MaxTokens)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.Model, genai.Text(BuildPrompt(question, subject)), genCfg)
	if err != nil {
		return Result{}, fmt.Errorf("gemini generate failed: %w", err)
	}

	var out string
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, p := range resp.Candidates[0].Content.Parts {
			out += p.Text
		}
	}
	return resultFromText(out), nil
}
