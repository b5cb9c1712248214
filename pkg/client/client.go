// Package client 是 BrainBytes HTTP API 的 Go 客户端。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"brainbytes-go/internal/model"
)

// APIError 表示服务端返回的非 2xx 响应。
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("brainbytes: %d %s", e.Status, e.Message)
}

// Client 通过 HTTP 调用 BrainBytes 服务端。
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New 创建客户端，httpClient 为 nil 时使用 30 秒超时的默认客户端。
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// SubjectsInfo 是 GET /api/subjects 的响应。
type SubjectsInfo struct {
	Subjects []string `json:"subjects"`
	Version  string   `json:"version"`
}

// DeleteResult 是按学科删除的响应。
type DeleteResult struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount"`
}

type postRequest struct {
	Text    string `json:"text"`
	Subject string `json:"subject,omitempty"`
}

// Messages 拉取全部历史消息。
func (c *Client) Messages(ctx context.Context) ([]model.Message, error) {
	var out []model.Message
	if err := c.do(ctx, http.MethodGet, "/api/messages", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Post 提交一个问题，subject 为空时由服务端分类。
func (c *Client) Post(ctx context.Context, text, subject string) (model.PostMessageResult, error) {
	var out model.PostMessageResult
	err := c.do(ctx, http.MethodPost, "/api/messages", postRequest{Text: text, Subject: subject}, &out)
	return out, err
}

// DeleteSubject 删除某个学科下的全部消息。
func (c *Client) DeleteSubject(ctx context.Context, subject string) (DeleteResult, error) {
	var out DeleteResult
	err := c.do(ctx, http.MethodDelete, "/api/messages/subject/"+url.PathEscape(subject), nil, &out)
	return out, err
}

// Stats 获取学习统计。
func (c *Client) Stats(ctx context.Context) (model.LearningStats, error) {
	var out model.LearningStats
	err := c.do(ctx, http.MethodGet, "/api/users/stats", nil, &out)
	return out, err
}

// Subjects 获取服务端的学科列表与分类器版本。
func (c *Client) Subjects(ctx context.Context) (SubjectsInfo, error) {
	var out SubjectsInfo
	err := c.do(ctx, http.MethodGet, "/api/subjects", nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(data))}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
