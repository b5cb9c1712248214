// Package repository 提供了数据访问层的实现。
package repository

import (
	"context"
	"errors"
	"strings"

	"brainbytes-go/internal/model"
	"brainbytes-go/pkg/subject"

	"gorm.io/gorm"
)

// MessageRepository 定义了对话消息的持久化操作。
type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	// FindAll 按创建时间升序返回全部消息。
	FindAll(ctx context.Context) ([]model.Message, error)
	// DeleteBySubject 删除某个学科下的全部消息并返回删除数量。
	// General 额外匹配缺失、空值以及集合外的学科取值。
	DeleteBySubject(ctx context.Context, sub string) (int64, error)
	// CountUserMessagesBySubject 按存储中的原始学科取值统计用户提问数。
	CountUserMessagesBySubject(ctx context.Context) (map[string]int64, error)
	// LatestUserMessage 返回最近一条用户提问，不存在时返回 ErrNotFound。
	LatestUserMessage(ctx context.Context) (*model.Message, error)
}

// gormMessageRepository 是 MessageRepository 接口的 GORM 实现。
type gormMessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建一个基于 GORM 的 MessageRepository。
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

// Create 在数据库中创建一条消息。
func (r *gormMessageRepository) Create(ctx context.Context, msg *model.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// FindAll 按 created_at 升序检索所有消息，时间相同时按 id（UUIDv7，时间有序）排序。
func (r *gormMessageRepository) FindAll(ctx context.Context) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&messages).Error
	return messages, err
}

// DeleteBySubject 按学科删除消息。比较统一转为小写，保证不同数据库排序规则下行为一致。
func (r *gormMessageRepository) DeleteBySubject(ctx context.Context, sub string) (int64, error) {
	db := r.db.WithContext(ctx)
	var res *gorm.DB
	if subject.IsGeneral(sub) {
		res = db.Where(
			"LOWER(subject) = ? OR subject IS NULL OR subject = '' OR LOWER(subject) NOT IN ?",
			"general", lowerValues(),
		).Delete(&model.Message{})
	} else {
		res = db.Where("LOWER(subject) = ?", strings.ToLower(strings.TrimSpace(sub))).Delete(&model.Message{})
	}
	return res.RowsAffected, res.Error
}

// CountUserMessagesBySubject 按原始学科分组统计用户提问数，NULL 以空字符串表示。
func (r *gormMessageRepository) CountUserMessagesBySubject(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Subject *string
		Count   int64
	}
	err := r.db.WithContext(ctx).Model(&model.Message{}).
		Select("subject, COUNT(*) AS count").
		Where("is_user = ?", true).
		Group("subject").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		key := ""
		if row.Subject != nil {
			key = *row.Subject
		}
		counts[key] += row.Count
	}
	return counts, nil
}

// LatestUserMessage 返回最近一条用户提问。
func (r *gormMessageRepository) LatestUserMessage(ctx context.Context) (*model.Message, error) {
	var msg model.Message
	err := r.db.WithContext(ctx).Where("is_user = ?", true).Order("created_at DESC").First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func lowerValues() []string {
	values := subject.Values()
	for i, v := range values {
		values[i] = strings.ToLower(v)
	}
	return values
}
