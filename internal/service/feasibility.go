package service

import (
	"github.com/liuynx/Tandem/internal/catalog"
	"github.com/liuynx/Tandem/internal/schema"
)

// FeasibilityPolicy 类目级可行性闸门（可替换）。
// 判定是否值得为某个类目打分，模板级的时间/投入权衡由打分器负责。
type FeasibilityPolicy struct {
	// TightTimeThresholdMinutes 时间极度紧张时仍可接受的类目最低时长上限
	TightTimeThresholdMinutes int
}

// NewFeasibilityPolicy 创建默认闸门
func NewFeasibilityPolicy() *FeasibilityPolicy {
	return &FeasibilityPolicy{TightTimeThresholdMinutes: 30}
}

// CategoryFeasible 判断本周是否尝试该类目。
// 规则：时间档位最紧且类目门槛时长超阈值，或情绪容量最低且类目要求最高容量时不可行；
// 但类目爱之语命中伴侣爱之语集合时无条件可行——优先支持对方最在意的表达方式。
func (p *FeasibilityPolicy) CategoryFeasible(cat *catalog.Category, wc *WeeklyContext) bool {
	if wc.PartnerLangs.ContainsAny(cat.LoveLanguageTags) {
		return true
	}

	status := wc.UserStatus
	if status == nil {
		return false
	}

	if status.AvailableTime == schema.TimeVeryLimited && cat.MinTimeMinutes > p.TightTimeThresholdMinutes {
		return false
	}
	if status.EmotionalCapacity == schema.LevelLow && cat.CapacityRequired == schema.LevelHigh {
		return false
	}
	return true
}
