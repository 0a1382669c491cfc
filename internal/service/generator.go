package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/liuynx/Tandem/internal/catalog"
	"github.com/liuynx/Tandem/internal/eventbus"
	"github.com/liuynx/Tandem/internal/schema"
)

// GenerateRequest 一次生成请求
type GenerateRequest struct {
	UserID         string
	RelationshipID string
	WeekStart      string // YYYY-MM-DD，空串取当前周；非周一的日期会归一到所在周周一
	Regenerate     bool   // 显式要求重新生成，跳过复用检查
}

// GenerateResponse 生成结果。类目计数只包含产出了建议的类目。
type GenerateResponse struct {
	Suggestions    []schema.Suggestion `json:"suggestions"`
	CategoryCounts map[string]int      `json:"category_counts"`
	GeneratedAt    time.Time           `json:"generated_at"`
	Reused         bool                `json:"reused"`
}

// Generator 生成编排器。
// 状态机：检查已有 → 复用 | 重新生成 → 落库 → 完成。
// 单个类目或单条落库的失败被隔离记录，整个请求尽力而为地返回结果。
type Generator struct {
	builder        *ContextBuilder
	catalog        TemplateCatalog
	feasibility    *FeasibilityPolicy
	scorer         *Scorer
	selector       *Selector
	personalizer   *Personalizer
	suggestionRepo SuggestionRepository
	events         EventPublisher

	// reuseThreshold 已有建议覆盖的类目比例达到该值时直接复用，不再打分
	reuseThreshold float64
}

// GeneratorConfig 编排器配置，零值取默认
type GeneratorConfig struct {
	ReuseThreshold float64
}

// NewGenerator 创建编排器，cfg 为 nil 时复用阈值取 0.7
func NewGenerator(
	builder *ContextBuilder,
	cat TemplateCatalog,
	feasibility *FeasibilityPolicy,
	scorer *Scorer,
	selector *Selector,
	personalizer *Personalizer,
	suggestionRepo SuggestionRepository,
	events EventPublisher,
	cfg *GeneratorConfig,
) *Generator {
	threshold := 0.7
	if cfg != nil && cfg.ReuseThreshold > 0 {
		threshold = cfg.ReuseThreshold
	}
	return &Generator{
		builder:        builder,
		catalog:        cat,
		feasibility:    feasibility,
		scorer:         scorer,
		selector:       selector,
		personalizer:   personalizer,
		suggestionRepo: suggestionRepo,
		events:         events,
		reuseThreshold: threshold,
	}
}

// Generate 为 (用户, 周) 生成一组建议。
// 仅上下文构建的硬前置失败（缺周状态、关系拉取失败）会让整个请求报错。
func (g *Generator) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	weekStart, err := NormalizeWeekStart(req.WeekStart)
	if err != nil {
		return nil, err
	}

	categories := g.catalog.ListCategories()

	// 检查已有：覆盖足够时直接复用，不做任何打分与落库
	if !req.Regenerate {
		if resp := g.tryReuse(ctx, req.UserID, weekStart, len(categories)); resp != nil {
			return resp, nil
		}
	}

	wc, err := g.builder.Build(ctx, req.UserID, req.RelationshipID, weekStart)
	if err != nil {
		return nil, err
	}

	resp := &GenerateResponse{
		CategoryCounts: make(map[string]int),
		GeneratedAt:    time.Now(),
	}

	for i := range categories {
		cat := categories[i]
		picked, catErr := g.generateCategory(&cat, wc)
		if catErr != nil {
			slog.Warn("类目生成失败，跳过", "category", cat.ID, "error", catErr)
			g.publish(eventbus.EventCategorySkipped, map[string]any{
				"category": cat.ID,
				"reason":   "error",
				"error":    catErr.Error(),
			})
			continue
		}
		if len(picked) == 0 {
			continue
		}
		resp.Suggestions = append(resp.Suggestions, picked...)
		resp.CategoryCounts[cat.ID] = len(picked)
	}

	// 逐条落库，单条失败不影响其余；响应里仍保留该条
	for i := range resp.Suggestions {
		if err := g.suggestionRepo.Insert(ctx, &resp.Suggestions[i]); err != nil {
			slog.Warn("建议落库失败，跳过", "title", resp.Suggestions[i].Title, "error", err)
			g.publish(eventbus.EventPersistFailed, map[string]any{
				"category": resp.Suggestions[i].CategoryID,
				"title":    resp.Suggestions[i].Title,
			})
		}
	}

	g.publish(eventbus.EventRegenerated, map[string]any{
		"user":       req.UserID,
		"week":       weekStart,
		"count":      len(resp.Suggestions),
		"categories": len(resp.CategoryCounts),
	})
	return resp, nil
}

// tryReuse 已有建议覆盖达标时原样返回，否则返回 nil 进入重新生成
func (g *Generator) tryReuse(ctx context.Context, userID, weekStart string, totalCategories int) *GenerateResponse {
	existing, err := g.suggestionRepo.GetByUserWeek(ctx, userID, weekStart)
	if err != nil {
		slog.Warn("查询已有建议失败，转入重新生成", "user", userID, "week", weekStart, "error", err)
		return nil
	}
	if len(existing) == 0 || totalCategories == 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, s := range existing {
		counts[s.CategoryID]++
	}
	coverage := float64(len(counts)) / float64(totalCategories)
	if coverage < g.reuseThreshold {
		return nil
	}

	g.publish(eventbus.EventReused, map[string]any{
		"user":     userID,
		"week":     weekStart,
		"count":    len(existing),
		"coverage": coverage,
	})
	return &GenerateResponse{
		Suggestions:    existing,
		CategoryCounts: counts,
		GeneratedAt:    time.Now(),
		Reused:         true,
	}
}

// generateCategory 单类目流水线：可行性闸门 → 打分 → 取样 → 个性化。
// panic 一并捕获成错误，确保类目间互不影响。
func (g *Generator) generateCategory(cat *catalog.Category, wc *WeeklyContext) (picked []schema.Suggestion, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("类目流水线 panic: %v", r)
		}
	}()

	if !g.feasibility.CategoryFeasible(cat, wc) {
		g.publish(eventbus.EventCategorySkipped, map[string]any{
			"category": cat.ID,
			"reason":   "infeasible",
		})
		return nil, nil
	}

	templates := g.catalog.ListTemplates(cat.ID)
	if len(templates) == 0 {
		// 空模板池不是错误，该类目本周没有产出而已
		return nil, nil
	}

	scored := make([]ScoredCandidate, 0, len(templates))
	for i := range templates {
		scored = append(scored, g.scorer.Score(cat, &templates[i], wc))
	}

	selected := g.selector.Pick(scored, wc)
	for _, cand := range selected {
		picked = append(picked, *g.personalizer.Personalize(cat, cand, wc))
	}
	return picked, nil
}

func (g *Generator) publish(eventType string, data map[string]any) {
	if g.events == nil {
		return
	}
	g.events.Publish(eventbus.Event{Type: eventType, Data: data})
}
