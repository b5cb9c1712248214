package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"brainbytes-go/internal/model"
	"brainbytes-go/pkg/log"
	"brainbytes-go/pkg/subject"
)

const (
	defaultSearchSize = 10
	maxSearchSize     = 50
)

// MessageSearcher 是检索索引的查询接口，由 es.MessageIndex 实现。
type MessageSearcher interface {
	Search(ctx context.Context, q, subject string, size int) ([]model.SearchHit, error)
}

// SearchService 接口定义了对话历史的全文检索。
type SearchService interface {
	Search(ctx context.Context, query, sub string, size int) ([]model.SearchHit, error)
}

type searchService struct {
	searcher MessageSearcher
}

// NewSearchService 创建一个新的 SearchService 实例。searcher 为 nil 表示未启用检索。
func NewSearchService(searcher MessageSearcher) SearchService {
	return &searchService{searcher: searcher}
}

func (s *searchService) Search(ctx context.Context, query, sub string, size int) ([]model.SearchHit, error) {
	if s.searcher == nil {
		return nil, fmt.Errorf("%w: search is disabled", ErrUnavailable)
	}
	normalized := normalizeQuery(query)
	if normalized == "" {
		return nil, fmt.Errorf("%w: q is required", ErrInvalidInput)
	}

	filter := ""
	if strings.TrimSpace(sub) != "" {
		parsed, ok := subject.Parse(sub)
		if !ok {
			return nil, fmt.Errorf("%w: unknown subject %q", ErrInvalidInput, sub)
		}
		filter = parsed.String()
	}

	if size <= 0 {
		size = defaultSearchSize
	}
	if size > maxSearchSize {
		size = maxSearchSize
	}

	log.Infof("[SearchService] 开始检索, query: '%s', subject: '%s', size: %d", normalized, filter, size)
	hits, err := s.searcher.Search(ctx, normalized, filter, size)
	if err != nil {
		return nil, fmt.Errorf("failed to search messages: %w", err)
	}
	return hits, nil
}

var (
	reKeep  = regexp.MustCompile(`[^\p{L}\p{N}\s+\-*/^=]+`)
	reSpace = regexp.MustCompile(`\s+`)
)

// normalizeQuery 去除标点并归一空白。
func normalizeQuery(q string) string {
	kept := reKeep.ReplaceAllString(strings.ToLower(q), " ")
	return strings.TrimSpace(reSpace.ReplaceAllString(kept, " "))
}
