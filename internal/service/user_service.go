package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"brainbytes-go/internal/model"
	"brainbytes-go/internal/repository"
	"brainbytes-go/pkg/log"
	"brainbytes-go/pkg/subject"
)

// UserInput 是创建或更新用户资料时的输入，空字段在更新时保持原值。
type UserInput struct {
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	Avatar            string   `json:"avatar"`
	PreferredSubjects []string `json:"preferredSubjects"`
}

// UpdateMeInput 是 PUT /api/users/me 的输入，以 CurrentEmail 定位用户。
type UpdateMeInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Avatar       string `json:"avatar"`
	CurrentEmail string `json:"currentEmail"`
}

// UserService 接口定义了所有与用户资料和学习统计相关的业务操作。
type UserService interface {
	Create(ctx context.Context, in UserInput) (*model.UserProfile, error)
	List(ctx context.Context) ([]model.UserProfile, error)
	// Me 返回当前用户；尚无用户时创建默认资料。
	Me(ctx context.Context) (*model.UserProfile, error)
	UpdateMe(ctx context.Context, in UpdateMeInput) (*model.UserProfile, error)
	Update(ctx context.Context, id uint, in UserInput) (*model.UserProfile, error)
	Delete(ctx context.Context, id uint) error
	Stats(ctx context.Context) (*model.LearningStats, error)
}

// StatsOptions 控制学习统计的计算与缓存。
type StatsOptions struct {
	CacheTTL          time.Duration
	PlaceholderStreak int
}

// userService 是 UserService 接口的实现。
type userService struct {
	userRepo    repository.UserRepository
	messageRepo repository.MessageRepository
	statsCache  repository.StatsCache
	opts        StatsOptions
}

// NewUserService 创建一个新的 UserService 实例。
func NewUserService(
	userRepo repository.UserRepository,
	messageRepo repository.MessageRepository,
	statsCache repository.StatsCache,
	opts StatsOptions,
) UserService {
	return &userService{
		userRepo:    userRepo,
		messageRepo: messageRepo,
		statsCache:  statsCache,
		opts:        opts,
	}
}

// defaultProfile 是首次访问 /api/users/me 时创建的演示用户。
func defaultProfile() *model.UserProfile {
	return &model.UserProfile{
		Name:              "John Doe",
		Email:             "john.doe@example.com",
		PreferredSubjects: []string{subject.Math.String(), subject.Technology.String()},
		JoinDate:          time.Date(2024, 11, 15, 0, 0, 0, 0, time.UTC),
	}
}

// Create 处理创建用户的业务逻辑。
func (s *userService) Create(ctx context.Context, in UserInput) (*model.UserProfile, error) {
	name, email := strings.TrimSpace(in.Name), strings.TrimSpace(in.Email)
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}

	// 1. 检查邮箱是否已存在
	if err := s.ensureEmailFree(ctx, email, 0); err != nil {
		return nil, err
	}

	// 2. 创建用户
	user := &model.UserProfile{
		Name:              name,
		Email:             email,
		Avatar:            in.Avatar,
		PreferredSubjects: in.PreferredSubjects,
		JoinDate:          time.Now().UTC(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	log.Infof("[UserService] 用户已创建, ID: %d, Email: %s", user.ID, user.Email)
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]model.UserProfile, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *userService) Me(ctx context.Context) (*model.UserProfile, error) {
	user, err := s.userRepo.FindFirst(ctx)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to load current user: %w", err)
	}

	user = defaultProfile()
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create default user: %w", err)
	}
	log.Info("[UserService] 尚无用户，已创建默认用户")
	return user, nil
}

func (s *userService) UpdateMe(ctx context.Context, in UpdateMeInput) (*model.UserProfile, error) {
	if strings.TrimSpace(in.CurrentEmail) == "" {
		return nil, fmt.Errorf("%w: currentEmail is required", ErrInvalidInput)
	}
	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(in.CurrentEmail))
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, user, UserInput{Name: in.Name, Email: in.Email, Avatar: in.Avatar})
}

func (s *userService) Update(ctx context.Context, id uint, in UserInput) (*model.UserProfile, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, user, in)
}

// apply 用非空字段覆盖用户资料并保存。
func (s *userService) apply(ctx context.Context, user *model.UserProfile, in UserInput) (*model.UserProfile, error) {
	if v := strings.TrimSpace(in.Name); v != "" {
		user.Name = v
	}
	if v := strings.TrimSpace(in.Email); v != "" && v != user.Email {
		if err := s.ensureEmailFree(ctx, v, user.ID); err != nil {
			return nil, err
		}
		user.Email = v
	}
	if in.Avatar != "" {
		user.Avatar = in.Avatar
	}
	if in.PreferredSubjects != nil {
		user.PreferredSubjects = in.PreferredSubjects
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *userService) ensureEmailFree(ctx context.Context, email string, selfID uint) error {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing.ID != selfID {
		return ErrDuplicateEmail
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}
	return nil
}

func (s *userService) Delete(ctx context.Context, id uint) error {
	return s.userRepo.Delete(ctx, id)
}

// Stats 统计用户提问：按固定学科顺序给出数量，漂移取值计入 General。
func (s *userService) Stats(ctx context.Context) (*model.LearningStats, error) {
	if cached, ok, err := s.statsCache.Get(ctx); err != nil {
		log.Warnf("[UserService] 读取统计缓存失败: %v", err)
	} else if ok {
		return cached, nil
	}

	raw, err := s.messageRepo.CountUserMessagesBySubject(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}
	counts := make(map[subject.Subject]int64)
	for k, n := range raw {
		counts[subject.Normalize(k)] += n
	}

	stats := &model.LearningStats{Streak: s.opts.PlaceholderStreak}
	for _, sub := range subject.All() {
		stats.SubjectData = append(stats.SubjectData, model.SubjectCount{Subject: sub.String(), Count: counts[sub]})
		stats.TotalQuestions += counts[sub]
	}

	last, err := s.messageRepo.LatestUserMessage(ctx)
	switch {
	case err == nil:
		at := last.CreatedAt
		stats.LastActive = &at
	case errors.Is(err, repository.ErrNotFound):
	default:
		return nil, fmt.Errorf("failed to load last activity: %w", err)
	}

	if s.opts.CacheTTL > 0 {
		if err := s.statsCache.Set(ctx, stats, s.opts.CacheTTL); err != nil {
			log.Warnf("[UserService] 写入统计缓存失败: %v", err)
		}
	}
	return stats, nil
}
