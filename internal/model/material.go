package model

import "time"

// LearningMaterial 定义了 learning_materials 表的 ORM 模型。
// 附件保存在对象存储中，这里只记录对象名。
type LearningMaterial struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Subject          string    `gorm:"type:varchar(64);not null;index" json:"subject"`
	Topic            string    `gorm:"type:varchar(255);not null" json:"topic"`
	Content          string    `gorm:"type:text;not null" json:"content"`
	AttachmentObject string    `gorm:"type:varchar(512)" json:"attachmentObject,omitempty"`
	AttachmentName   string    `gorm:"type:varchar(255)" json:"attachmentName,omitempty"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (LearningMaterial) TableName() string {
	return "learning_materials"
}
