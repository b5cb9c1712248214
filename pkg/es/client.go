// Package es 提供了与 Elasticsearch 交互的客户端功能。
package es

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"brainbytes-go/internal/config"
	"brainbytes-go/internal/model"
	"brainbytes-go/pkg/log"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const messageMapping = `{
	"mappings": {
		"properties": {
			"message_id": { "type": "keyword" },
			"text":       { "type": "text" },
			"is_user":    { "type": "boolean" },
			"subject":    { "type": "keyword" },
			"stored_subject": { "type": "keyword" },
			"created_at": { "type": "date" }
		}
	}
}`

// MessageIndex 封装了消息索引的写入、删除与检索。
type MessageIndex struct {
	client    *elasticsearch.Client
	indexName string
}

// NewClient 根据配置创建 Elasticsearch 客户端。
func NewClient(esCfg config.ElasticsearchConfig) (*elasticsearch.Client, error) {
	var addrs []string
	for _, a := range strings.Split(esCfg.Addresses, ",") {
		if a = strings.TrimSpace(a); a != "" {
			addrs = append(addrs, a)
		}
	}
	return elasticsearch.NewClient(elasticsearch.Config{
		Addresses: addrs,
		Username:  esCfg.Username,
		Password:  esCfg.Password,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	})
}

// InitES 初始化客户端并确保消息索引存在。
func InitES(ctx context.Context, esCfg config.ElasticsearchConfig) (*MessageIndex, error) {
	client, err := NewClient(esCfg)
	if err != nil {
		return nil, err
	}
	idx := NewMessageIndex(client, esCfg.IndexName)
	if err := idx.createIndexIfNotExists(ctx); err != nil {
		return nil, err
	}
	return idx, nil
}

// NewMessageIndex 基于已有客户端创建 MessageIndex。
func NewMessageIndex(client *elasticsearch.Client, indexName string) *MessageIndex {
	return &MessageIndex{client: client, indexName: indexName}
}

// createIndexIfNotExists 检查索引是否存在，如果不存在则创建它
func (m *MessageIndex) createIndexIfNotExists(ctx context.Context) error {
	res, err := m.client.Indices.Exists([]string{m.indexName}, m.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		log.Errorf("检查索引是否存在时出错: %v", err)
		return err
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		log.Infof("索引 '%s' 已存在", m.indexName)
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("检查索引是否存在时收到意外的状态码: %d", res.StatusCode)
	}

	res, err = m.client.Indices.Create(
		m.indexName,
		m.client.Indices.Create.WithBody(strings.NewReader(messageMapping)),
		m.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		log.Errorf("创建索引 '%s' 失败: %v", m.indexName, err)
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		log.Errorf("创建索引 '%s' 时 Elasticsearch 返回错误: %s", m.indexName, res.String())
		return errors.New("创建索引时 Elasticsearch 返回错误")
	}

	log.Infof("索引 '%s' 创建成功", m.indexName)
	return nil
}

// IndexMessage 将单条消息写入索引，以消息 ID 作为文档 ID，重复写入是幂等的。
func (m *MessageIndex) IndexMessage(ctx context.Context, doc model.MessageDocument) error {
	docBytes, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      m.indexName,
		DocumentID: doc.MessageID,
		Body:       bytes.NewReader(docBytes),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, m.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Errorf("索引文档到 Elasticsearch 出错: %s", res.String())
		return errors.New("failed to index document")
	}
	return nil
}

// DeleteBySubject 删除某个学科下的全部文档。索引中的学科已归一化，精确匹配即可。
func (m *MessageIndex) DeleteBySubject(ctx context.Context, subject string) (int64, error) {
	return m.deleteByTerm(ctx, "subject", subject)
}

// DeleteByStoredSubject 按存储中的原始学科删除文档，value 需为小写。
func (m *MessageIndex) DeleteByStoredSubject(ctx context.Context, value string) (int64, error) {
	return m.deleteByTerm(ctx, "stored_subject", value)
}

func (m *MessageIndex) deleteByTerm(ctx context.Context, field, value string) (int64, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"term": map[string]interface{}{field: value},
		},
	}
	body, err := json.Marshal(query)
	if err != nil {
		return 0, err
	}

	refresh := true
	req := esapi.DeleteByQueryRequest{
		Index:   []string{m.indexName},
		Body:    bytes.NewReader(body),
		Refresh: &refresh,
	}
	res, err := req.Do(ctx, m.client)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Errorf("按学科删除文档出错: %s", res.String())
		return 0, errors.New("failed to delete documents")
	}

	var out struct {
		Deleted int64 `json:"deleted"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("failed to decode delete response: %w", err)
	}
	return out.Deleted, nil
}

// Search 对消息文本做全文检索，subject 非空时按学科过滤。
func (m *MessageIndex) Search(ctx context.Context, q, subject string, size int) ([]model.SearchHit, error) {
	boolQuery := map[string]interface{}{
		"must": map[string]interface{}{
			"match": map[string]interface{}{
				"text": map[string]interface{}{"query": q, "operator": "or"},
			},
		},
	}
	if subject != "" {
		boolQuery["filter"] = map[string]interface{}{
			"term": map[string]interface{}{"subject": subject},
		}
	}
	query := map[string]interface{}{
		"size":  size,
		"query": map[string]interface{}{"bool": boolQuery},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, fmt.Errorf("failed to encode search query: %w", err)
	}

	res, err := m.client.Search(
		m.client.Search.WithContext(ctx),
		m.client.Search.WithIndex(m.indexName),
		m.client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Errorf("Elasticsearch 检索返回错误: %s", res.String())
		return nil, errors.New("elasticsearch returned an error")
	}

	var esResp struct {
		Hits struct {
			Hits []struct {
				Score  float64               `json:"_score"`
				Source model.MessageDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	hits := make([]model.SearchHit, 0, len(esResp.Hits.Hits))
	for _, h := range esResp.Hits.Hits {
		hits = append(hits, model.SearchHit{
			MessageID: h.Source.MessageID,
			Text:      h.Source.Text,
			IsUser:    h.Source.IsUser,
			Subject:   h.Source.Subject,
			CreatedAt: h.Source.CreatedAt,
			Score:     h.Score,
		})
	}
	return hits, nil
}
