package model

import "time"

// UserProfile 对应于数据库中的 'user_profiles' 表。
type UserProfile struct {
	ID                uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name              string    `gorm:"type:varchar(100);not null" json:"name"`
	Email             string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Avatar            string    `gorm:"type:varchar(512)" json:"avatar"`
	PreferredSubjects []string  `gorm:"serializer:json;type:text" json:"preferredSubjects"`
	JoinDate          time.Time `json:"joinDate"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (UserProfile) TableName() string {
	return "user_profiles"
}

// SubjectCount 是某个学科下的提问数量。
type SubjectCount struct {
	Subject string `json:"subject"`
	Count   int64  `json:"count"`
}

// LearningStats 是个人主页展示的学习统计。
type LearningStats struct {
	SubjectData    []SubjectCount `json:"subjectData"`
	TotalQuestions int64          `json:"totalQuestions"`
	LastActive     *time.Time     `json:"lastActive"`
	Streak         int            `json:"streak"`
}
