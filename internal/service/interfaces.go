package service

import (
	"context"

	"github.com/liuynx/Tandem/internal/catalog"
	"github.com/liuynx/Tandem/internal/eventbus"
	"github.com/liuynx/Tandem/internal/schema"
)

// 仓储/外部依赖的最小接口集合（ISP）

type StatusRepository interface {
	GetByUserWeek(ctx context.Context, userID, weekStart string) (*schema.WeeklyStatus, error)
}

type RelationshipRepository interface {
	GetByID(ctx context.Context, id string) (*schema.Relationship, error)
}

type ProfileRepository interface {
	GetByUser(ctx context.Context, userID string) (*schema.OnboardingProfile, error)
}

type HintRepository interface {
	GetActiveByAuthor(ctx context.Context, authorID string) ([]schema.PartnerHint, error)
}

type SuggestionRepository interface {
	GetByUserWeek(ctx context.Context, userID, weekStart string) ([]schema.Suggestion, error)
	Insert(ctx context.Context, s *schema.Suggestion) error
}

// TemplateCatalog 类目与模板参照数据（静态、可热更新，引擎只读）
type TemplateCatalog interface {
	ListCategories() []catalog.Category
	ListTemplates(categoryID string) []catalog.Template
}

// EventPublisher 生成流程的结构化事件出口
type EventPublisher interface {
	Publish(evt eventbus.Event)
}
