package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/liuynx/Tandem/internal/schema"
)

// WeeklyContext 一次生成请求的完整上下文快照。构建后不再修改。
type WeeklyContext struct {
	UserID         string
	RelationshipID string
	WeekStart      string // YYYY-MM-DD，周一

	UserStatus     *schema.WeeklyStatus // 必需
	PartnerStatus  *schema.WeeklyStatus // 可选
	UserProfile    *schema.OnboardingProfile
	PartnerProfile *schema.OnboardingProfile
	Relationship   *schema.Relationship
	PartnerHints   []schema.PartnerHint

	// PriorWeekTitles 上一周已出过的建议标题，用于避免连周重复
	PriorWeekTitles map[string]struct{}

	// PartnerLangs 伴侣爱之语集合（已归一成内部标签）
	PartnerLangs *PartnerLanguages
}

// PartnerName 伴侣的称呼，问卷缺失时回退为通用称呼
func (c *WeeklyContext) PartnerName() string {
	if c.PartnerProfile != nil && c.PartnerProfile.DisplayName != "" {
		return c.PartnerProfile.DisplayName
	}
	return "your partner"
}

// HasChallenge 判断用户本周是否报告了指定困扰
func (c *WeeklyContext) HasChallenge(challenge string) bool {
	if c.UserStatus == nil {
		return false
	}
	return c.UserStatus.Challenges.Contains(challenge)
}

// ContextBuilder 从各仓储装配 WeeklyContext
type ContextBuilder struct {
	statusRepo       StatusRepository
	relationshipRepo RelationshipRepository
	profileRepo      ProfileRepository
	hintRepo         HintRepository
	suggestionRepo   SuggestionRepository
}

// NewContextBuilder 创建装配器
func NewContextBuilder(
	statusRepo StatusRepository,
	relationshipRepo RelationshipRepository,
	profileRepo ProfileRepository,
	hintRepo HintRepository,
	suggestionRepo SuggestionRepository,
) *ContextBuilder {
	return &ContextBuilder{
		statusRepo:       statusRepo,
		relationshipRepo: relationshipRepo,
		profileRepo:      profileRepo,
		hintRepo:         hintRepo,
		suggestionRepo:   suggestionRepo,
	}
}

// Build 装配某 (用户, 周) 的上下文。
// 用户周状态与关系记录是硬前置条件；其余数据缺失只降级个性化，不阻断。
func (b *ContextBuilder) Build(ctx context.Context, userID, relationshipID, weekStart string) (*WeeklyContext, error) {
	status, err := b.statusRepo.GetByUserWeek(ctx, userID, weekStart)
	if err != nil {
		return nil, fmt.Errorf("拉取用户周状态失败: %w", err)
	}
	if status == nil {
		return nil, fmt.Errorf("%w: user=%s week=%s", ErrWeeklyStatusMissing, userID, weekStart)
	}

	rel, err := b.relationshipRepo.GetByID(ctx, relationshipID)
	if err != nil {
		return nil, fmt.Errorf("拉取关系记录失败: %w", err)
	}
	if rel == nil {
		return nil, fmt.Errorf("%w: id=%s", ErrRelationshipNotFound, relationshipID)
	}

	partnerID := rel.PartnerOf(userID)
	if partnerID == "" {
		return nil, fmt.Errorf("%w: user=%s relationship=%s", ErrUserNotInRelationship, userID, relationshipID)
	}

	wc := &WeeklyContext{
		UserID:          userID,
		RelationshipID:  relationshipID,
		WeekStart:       weekStart,
		UserStatus:      status,
		Relationship:    rel,
		PriorWeekTitles: make(map[string]struct{}),
	}

	// 以下全部是可选数据：拉取失败降级，不中断
	if profile, err := b.profileRepo.GetByUser(ctx, userID); err != nil {
		slog.Warn("拉取用户问卷失败，按缺失处理", "user", userID, "error", err)
	} else {
		wc.UserProfile = profile
	}

	if profile, err := b.profileRepo.GetByUser(ctx, partnerID); err != nil {
		slog.Warn("拉取伴侣问卷失败，按缺失处理", "partner", partnerID, "error", err)
	} else {
		wc.PartnerProfile = profile
	}
	wc.PartnerLangs = partnerLanguagesFrom(wc.PartnerProfile)

	if ps, err := b.statusRepo.GetByUserWeek(ctx, partnerID, weekStart); err != nil {
		slog.Warn("拉取伴侣周状态失败，按缺失处理", "partner", partnerID, "error", err)
	} else {
		wc.PartnerStatus = ps
	}

	if hints, err := b.hintRepo.GetActiveByAuthor(ctx, partnerID); err != nil {
		slog.Warn("拉取伴侣提示失败，按空处理", "partner", partnerID, "error", err)
	} else {
		wc.PartnerHints = hints
	}

	priorWeek, err := PriorWeekStart(weekStart)
	if err != nil {
		return nil, err
	}
	if prior, err := b.suggestionRepo.GetByUserWeek(ctx, userID, priorWeek); err != nil {
		slog.Warn("拉取上周建议失败，按空处理", "user", userID, "week", priorWeek, "error", err)
	} else {
		for _, s := range prior {
			wc.PriorWeekTitles[s.Title] = struct{}{}
		}
	}

	return wc, nil
}
