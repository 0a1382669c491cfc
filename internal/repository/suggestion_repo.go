package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/liuynx/Tandem/internal/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SuggestionRepository 周建议仓储
type SuggestionRepository struct {
	db *gorm.DB
}

// NewSuggestionRepository 创建仓储
func NewSuggestionRepository(db *gorm.DB) *SuggestionRepository {
	return &SuggestionRepository{db: db}
}

// GetByUserWeek 查询某用户某周的全部建议
func (r *SuggestionRepository) GetByUserWeek(ctx context.Context, userID, weekStart string) ([]schema.Suggestion, error) {
	var suggestions []schema.Suggestion
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND week_start = ?", userID, weekStart).
		Order("category_id, confidence_score DESC").
		Find(&suggestions).Error
	if err != nil {
		return nil, fmt.Errorf("查询周建议失败: %w", err)
	}
	return suggestions, nil
}

// Insert 写入单条建议。命中 (user, week, category, title) 唯一索引时静默跳过，
// 以保证并发重复生成的幂等性。
func (r *SuggestionRepository) Insert(ctx context.Context, s *schema.Suggestion) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"}, {Name: "week_start"},
			{Name: "category_id"}, {Name: "title"},
		},
		DoNothing: true,
	}).Create(s).Error
	if err != nil {
		return fmt.Errorf("写入建议失败: %w", err)
	}
	return nil
}

// GetByID 查询单条建议，不存在时返回 nil
func (r *SuggestionRepository) GetByID(ctx context.Context, id int64) (*schema.Suggestion, error) {
	var s schema.Suggestion
	err := r.db.WithContext(ctx).First(&s, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询建议失败: %w", err)
	}
	return &s, nil
}

// SetSelected 翻转勾选标记（由外层 API 调用，生成流程不读取该标记）
func (r *SuggestionRepository) SetSelected(ctx context.Context, id int64, selected bool) error {
	err := r.db.WithContext(ctx).
		Model(&schema.Suggestion{}).
		Where("id = ?", id).
		Update("selected", selected).Error
	if err != nil {
		return fmt.Errorf("更新勾选标记失败: %w", err)
	}
	return nil
}

// SetCompleted 翻转完成标记
func (r *SuggestionRepository) SetCompleted(ctx context.Context, id int64, completed bool) error {
	err := r.db.WithContext(ctx).
		Model(&schema.Suggestion{}).
		Where("id = ?", id).
		Update("completed", completed).Error
	if err != nil {
		return fmt.Errorf("更新完成标记失败: %w", err)
	}
	return nil
}

// CountByUserWeek 统计某用户某周按类目的建议数量
func (r *SuggestionRepository) CountByUserWeek(ctx context.Context, userID, weekStart string) (map[string]int, error) {
	type row struct {
		CategoryID string
		N          int
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&schema.Suggestion{}).
		Select("category_id, COUNT(*) AS n").
		Where("user_id = ? AND week_start = ?", userID, weekStart).
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("统计周建议失败: %w", err)
	}
	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.CategoryID] = r.N
	}
	return counts, nil
}
