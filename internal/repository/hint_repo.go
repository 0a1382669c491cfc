package repository

import (
	"context"
	"fmt"

	"github.com/liuynx/Tandem/internal/schema"
	"gorm.io/gorm"
)

// HintRepository 伴侣提示仓储
type HintRepository struct {
	db *gorm.DB
}

// NewHintRepository 创建仓储
func NewHintRepository(db *gorm.DB) *HintRepository {
	return &HintRepository{db: db}
}

// GetActiveByAuthor 查询某成员写下的、仍然有效的提示（按时间倒序）。
// 给 A 生成建议时取的是 B 写的提示。
func (r *HintRepository) GetActiveByAuthor(ctx context.Context, authorID string) ([]schema.PartnerHint, error) {
	var hints []schema.PartnerHint
	err := r.db.WithContext(ctx).
		Where("author_id = ? AND active = ?", authorID, true).
		Order("created_at DESC").
		Find(&hints).Error
	if err != nil {
		return nil, fmt.Errorf("查询伴侣提示失败: %w", err)
	}
	return hints, nil
}

// Create 创建提示
func (r *HintRepository) Create(ctx context.Context, hint *schema.PartnerHint) error {
	if err := r.db.WithContext(ctx).Create(hint).Error; err != nil {
		return fmt.Errorf("创建伴侣提示失败: %w", err)
	}
	return nil
}

// Deactivate 失效指定提示（已被采纳或过期）
func (r *HintRepository) Deactivate(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).
		Model(&schema.PartnerHint{}).
		Where("id = ?", id).
		Update("active", false).Error
	if err != nil {
		return fmt.Errorf("失效伴侣提示失败: %w", err)
	}
	return nil
}
