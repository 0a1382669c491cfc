package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/liuynx/Tandem/internal/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StatusRepository 每周状态问卷仓储
type StatusRepository struct {
	db *gorm.DB
}

// NewStatusRepository 创建仓储
func NewStatusRepository(db *gorm.DB) *StatusRepository {
	return &StatusRepository{db: db}
}

// GetByUserWeek 查询某用户某周的状态问卷，不存在时返回 nil
func (r *StatusRepository) GetByUserWeek(ctx context.Context, userID, weekStart string) (*schema.WeeklyStatus, error) {
	var status schema.WeeklyStatus
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND week_start = ?", userID, weekStart).
		First(&status).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询每周状态失败: %w", err)
	}
	return &status, nil
}

// Upsert 插入或更新某用户某周的状态问卷
func (r *StatusRepository) Upsert(ctx context.Context, status *schema.WeeklyStatus) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "week_start"}},
		UpdateAll: true,
	}).Create(status).Error
	if err != nil {
		return fmt.Errorf("写入每周状态失败: %w", err)
	}
	return nil
}

// GetRecentByUser 查询某用户最近的若干条状态问卷（按周倒序）
func (r *StatusRepository) GetRecentByUser(ctx context.Context, userID string, limit int) ([]schema.WeeklyStatus, error) {
	var statuses []schema.WeeklyStatus
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("week_start DESC").
		Limit(limit).
		Find(&statuses).Error
	if err != nil {
		return nil, fmt.Errorf("查询状态历史失败: %w", err)
	}
	return statuses, nil
}
