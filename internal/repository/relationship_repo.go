package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/liuynx/Tandem/internal/schema"
	"gorm.io/gorm"
)

// RelationshipRepository 关系记录仓储
type RelationshipRepository struct {
	db *gorm.DB
}

// NewRelationshipRepository 创建仓储
func NewRelationshipRepository(db *gorm.DB) *RelationshipRepository {
	return &RelationshipRepository{db: db}
}

// GetByID 查询关系记录，不存在时返回 nil
func (r *RelationshipRepository) GetByID(ctx context.Context, id string) (*schema.Relationship, error) {
	var rel schema.Relationship
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询关系记录失败: %w", err)
	}
	return &rel, nil
}

// GetByMember 查询某用户所在的活跃关系，不存在时返回 nil
func (r *RelationshipRepository) GetByMember(ctx context.Context, userID string) (*schema.Relationship, error) {
	var rel schema.Relationship
	err := r.db.WithContext(ctx).
		Where("(member_a_id = ? OR member_b_id = ?) AND status = ?", userID, userID, "active").
		First(&rel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询用户关系失败: %w", err)
	}
	return &rel, nil
}

// Create 创建关系记录
func (r *RelationshipRepository) Create(ctx context.Context, rel *schema.Relationship) error {
	if err := r.db.WithContext(ctx).Create(rel).Error; err != nil {
		return fmt.Errorf("创建关系记录失败: %w", err)
	}
	return nil
}
