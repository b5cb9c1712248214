package model

import "time"

// MessageDocument 是消息在 Elasticsearch 中的文档结构。
type MessageDocument struct {
	MessageID string `json:"message_id"`
	Text      string `json:"text"`
	IsUser    bool   `json:"is_user"`
	Subject   string `json:"subject"`
	// StoredSubject 是存储中的原始学科（小写），集合外的取值按它删除。
	StoredSubject string    `json:"stored_subject"`
	CreatedAt     time.Time `json:"created_at"`
}

// SearchHit 定义了返回给前端的搜索结果结构。
type SearchHit struct {
	MessageID string    `json:"messageId"`
	Text      string    `json:"text"`
	IsUser    bool      `json:"isUser"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"createdAt"`
	Score     float64   `json:"score"`
}
