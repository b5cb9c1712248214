package repository

import (
	"context"

	"brainbytes-go/internal/model"

	"gorm.io/gorm"
)

// MaterialRepository 定义了学习资料的持久化操作。
type MaterialRepository interface {
	Create(ctx context.Context, m *model.LearningMaterial) error
	// FindAll 返回学习资料，subject 非空时按学科（不区分大小写）过滤。
	FindAll(ctx context.Context, subject string) ([]model.LearningMaterial, error)
	FindByID(ctx context.Context, id uint) (*model.LearningMaterial, error)
	Update(ctx context.Context, m *model.LearningMaterial) error
}

type materialRepository struct {
	db *gorm.DB
}

// NewMaterialRepository 创建一个新的 MaterialRepository 实例。
func NewMaterialRepository(db *gorm.DB) MaterialRepository {
	return &materialRepository{db: db}
}

func (r *materialRepository) Create(ctx context.Context, m *model.LearningMaterial) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *materialRepository) FindAll(ctx context.Context, subject string) ([]model.LearningMaterial, error) {
	var materials []model.LearningMaterial
	db := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if subject != "" {
		db = db.Where("LOWER(subject) = LOWER(?)", subject)
	}
	err := db.Find(&materials).Error
	return materials, err
}

func (r *materialRepository) FindByID(ctx context.Context, id uint) (*model.LearningMaterial, error) {
	var m model.LearningMaterial
	return firstOrNotFound(&m, r.db.WithContext(ctx).First(&m, id).Error)
}

func (r *materialRepository) Update(ctx context.Context, m *model.LearningMaterial) error {
	return r.db.WithContext(ctx).Save(m).Error
}
