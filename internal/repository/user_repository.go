package repository

import (
	"context"
	"errors"

	"brainbytes-go/internal/model"

	"gorm.io/gorm"
)

// UserRepository 接口定义了用户资料的持久化操作。
type UserRepository interface {
	Create(ctx context.Context, user *model.UserProfile) error
	FindAll(ctx context.Context) ([]model.UserProfile, error)
	// FindFirst 返回 id 最小的用户，作为当前用户使用。
	FindFirst(ctx context.Context) (*model.UserProfile, error)
	FindByEmail(ctx context.Context, email string) (*model.UserProfile, error)
	FindByID(ctx context.Context, id uint) (*model.UserProfile, error)
	Update(ctx context.Context, user *model.UserProfile) error
	Delete(ctx context.Context, id uint) error
}

// userRepository 是 UserRepository 接口的 GORM 实现。
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建一个新的 UserRepository 实例。
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create 在数据库中创建一个新的用户记录。
func (r *userRepository) Create(ctx context.Context, user *model.UserProfile) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindAll 从数据库中检索所有用户记录。
func (r *userRepository) FindAll(ctx context.Context) ([]model.UserProfile, error) {
	var users []model.UserProfile
	err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error
	return users, err
}

func (r *userRepository) FindFirst(ctx context.Context) (*model.UserProfile, error) {
	var user model.UserProfile
	return firstOrNotFound(&user, r.db.WithContext(ctx).Order("id ASC").First(&user).Error)
}

// FindByEmail 根据邮箱查找一个用户。
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.UserProfile, error) {
	var user model.UserProfile
	return firstOrNotFound(&user, r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error)
}

// FindByID 根据用户 ID 从数据库中查找一个用户。
func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.UserProfile, error) {
	var user model.UserProfile
	return firstOrNotFound(&user, r.db.WithContext(ctx).First(&user, id).Error)
}

// Update 更新数据库中一个已存在的用户记录。
func (r *userRepository) Update(ctx context.Context, user *model.UserProfile) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Delete 删除指定 ID 的用户，记录不存在时返回 ErrNotFound。
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.UserProfile{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func firstOrNotFound[T any](v *T, err error) (*T, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}
