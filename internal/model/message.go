// Package model 包含了应用的数据模型定义。
package model

import (
	"time"

	"brainbytes-go/pkg/subject"
)

// Message 是一条对话记录，用户提问和 AI 回复各占一条。
// 创建后不可修改，只能按学科批量删除。
type Message struct {
	ID        string    `gorm:"type:char(36);primaryKey" bson:"_id" json:"id"`
	Text      string    `gorm:"type:text;not null" bson:"text" json:"text"`
	IsUser    bool      `gorm:"not null" bson:"isUser" json:"isUser"`
	Subject   string    `gorm:"type:varchar(64);index;default:General" bson:"subject" json:"subject"`
	CreatedAt time.Time `gorm:"precision:6;index" bson:"createdAt" json:"createdAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Message) TableName() string {
	return "messages"
}

// Normalized 返回学科已归一化的副本，存储中的漂移取值统一归入 General。
func (m Message) Normalized() Message {
	m.Subject = subject.Normalize(m.Subject).String()
	return m
}

// PostMessageResult 是一次提问产生的两条记录及回复分类。
type PostMessageResult struct {
	UserMessage Message `json:"userMessage"`
	AIMessage   Message `json:"aiMessage"`
	Category    string  `json:"category"`
}
