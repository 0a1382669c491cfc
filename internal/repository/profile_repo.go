package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/liuynx/Tandem/internal/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository 注册问卷仓储
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository 创建仓储
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByUser 查询某用户的注册问卷，不存在时返回 nil
func (r *ProfileRepository) GetByUser(ctx context.Context, userID string) (*schema.OnboardingProfile, error) {
	var profile schema.OnboardingProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询注册问卷失败: %w", err)
	}
	return &profile, nil
}

// Upsert 插入或更新注册问卷
func (r *ProfileRepository) Upsert(ctx context.Context, profile *schema.OnboardingProfile) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(profile).Error
	if err != nil {
		return fmt.Errorf("写入注册问卷失败: %w", err)
	}
	return nil
}
