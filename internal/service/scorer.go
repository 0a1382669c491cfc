package service

import (
	"strings"

	"github.com/liuynx/Tandem/internal/catalog"
	"github.com/liuynx/Tandem/internal/schema"
)

// 周状态问卷中的困扰标识
const (
	ChallengeWorkDeadline    = "work_deadline"
	ChallengeFamilyIssue     = "family_issue"
	ChallengeFinancialStress = "financial_stress"
	ChallengeTravel          = "travel"
)

// ScoreWeights 四组得分的满分分配，合计 100
type ScoreWeights struct {
	Situational float64 // 情境匹配
	Profile     float64 // 偏好匹配
	Context     float64 // 关系背景匹配
	Variety     float64 // 周间新鲜度
}

// DefaultScoreWeights 规范权重 40/35/15/10
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{Situational: 40, Profile: 35, Context: 15, Variety: 10}
}

// ScoredCandidate 打分后的候选模板，仅在一次生成流程内存活
type ScoredCandidate struct {
	Template   catalog.Template
	Score      float64
	Components map[string]float64 // 分组得分明细，个性化层据此合成推荐理由
}

// Scorer 相关性打分器。纯函数式：相同上下文与模板必然得到相同分数。
type Scorer struct {
	weights      ScoreWeights
	varietyFloor float64 // 上周已用模板的保底分，非零以免一次使用后被永久排除
}

// NewScorer 创建默认打分器
func NewScorer() *Scorer {
	return &Scorer{weights: DefaultScoreWeights(), varietyFloor: 2}
}

// Score 计算模板在给定上下文下的 0-100 相关性分
func (s *Scorer) Score(cat *catalog.Category, tpl *catalog.Template, wc *WeeklyContext) ScoredCandidate {
	components := make(map[string]float64)

	situational := s.situationalScore(tpl, wc, components)
	profile := s.profileScore(cat, tpl, wc, components)
	relCtx := s.relationshipContextScore(cat, tpl, wc, components)
	variety := s.varietyScore(tpl, wc)
	components["variety"] = variety

	total := situational + profile + relCtx + variety
	return ScoredCandidate{
		Template:   *tpl,
		Score:      clampF(total, 0, 100),
		Components: components,
	}
}

// situationalScore 情境匹配：原始分 0-90 归一到 0-Situational
func (s *Scorer) situationalScore(tpl *catalog.Template, wc *WeeklyContext, components map[string]float64) float64 {
	status := wc.UserStatus

	timeFit := timeFitScore(status.AvailableTime, tpl.TimeEstimateMinutes)
	effortEnergy := effortFitScore(tpl.EffortLevel, status.EnergyLevel)
	effortCapacity := effortFitScore(tpl.EffortLevel, status.EmotionalCapacity)
	timing := timingFitScore(tpl.PreferredTiming, status.WorkSchedule)
	adjust := s.challengeAdjustment(tpl, wc)

	components["time_fit"] = timeFit
	components["effort_energy"] = effortEnergy
	components["effort_capacity"] = effortCapacity
	components["timing_fit"] = timing
	components["challenge_adjust"] = adjust

	raw := clampF(timeFit+effortEnergy+effortCapacity+timing+adjust, 0, 90)
	score := raw * s.weights.Situational / 90
	components["situational"] = score
	return score
}

// 各可用时间档位的基础分与承受上限（分钟）
var (
	timeFitBase = map[string]float64{
		schema.TimeVeryLimited: 10,
		schema.TimeLimited:     20,
		schema.TimeModerate:    40,
		schema.TimePlenty:      60,
	}
	timeFitCeiling = map[string]int{
		schema.TimeVeryLimited: 15,
		schema.TimeLimited:     30,
		schema.TimeModerate:    60,
		schema.TimePlenty:      120,
	}
)

// timeFitScore 档位基础分，超出该档位承受上限的部分按每分钟扣 2 分
func timeFitScore(availableTime string, estimateMinutes int) float64 {
	base, ok := timeFitBase[availableTime]
	if !ok {
		base = timeFitBase[schema.TimeModerate]
	}
	ceiling, ok := timeFitCeiling[availableTime]
	if !ok {
		ceiling = timeFitCeiling[schema.TimeModerate]
	}
	if over := estimateMinutes - ceiling; over > 0 {
		base -= 2 * float64(over)
	}
	return clampF(base, 0, 60)
}

// effortFitScore 投入档位与对向档位（精力/情绪容量）的匹配：
// 不超出得满分 10，每超一档扣 3 分
func effortFitScore(effortLevel, opposingLevel string) float64 {
	// effort 比三档的 low/moderate/high 多一档 minimal，对齐成同一尺度比较
	effort := schema.EffortRank(effortLevel)
	opposing := schema.LevelRank(opposingLevel) + 1
	steps := effort - opposing
	if steps <= 0 {
		return 10
	}
	return clampF(10-3*float64(steps), 0, 10)
}

// 各工作节奏下模板时段的契合表；flexible/unemployed 不受限
var scheduleTimings = map[string]map[string]bool{
	schema.ScheduleFullTime: {
		schema.TimingEvening: true,
		schema.TimingWeekend: true,
	},
	schema.SchedulePartTime: {
		schema.TimingAfternoon: true,
		schema.TimingEvening:   true,
		schema.TimingWeekend:   true,
	},
	schema.ScheduleStudent: {
		schema.TimingAfternoon: true,
		schema.TimingEvening:   true,
		schema.TimingWeekend:   true,
	},
}

// timingFitScore 模板偏好时段与工作节奏的契合：契合 10 / any 7 / 错位 4
func timingFitScore(preferredTiming, workSchedule string) float64 {
	if preferredTiming == schema.TimingAny {
		return 7
	}
	allowed, ok := scheduleTimings[workSchedule]
	if !ok {
		// flexible、unemployed 或未知节奏：任何时段都可以
		return 10
	}
	if allowed[preferredTiming] {
		return 10
	}
	return 4
}

// challengeAdjustment 本周困扰对原始分的修正
func (s *Scorer) challengeAdjustment(tpl *catalog.Template, wc *WeeklyContext) float64 {
	var adjust float64

	if wc.HasChallenge(ChallengeWorkDeadline) {
		switch tpl.EffortLevel {
		case schema.EffortMinimal:
			adjust += 6
		case schema.EffortHigh:
			adjust -= 4
		}
	}
	if wc.HasChallenge(ChallengeFamilyIssue) && tpl.HasTag(schema.LangWords) {
		adjust += 6
	}
	if wc.HasChallenge(ChallengeFinancialStress) && tpl.HasTag(schema.LangGifts) && looksCostly(tpl) {
		adjust -= 8
	}
	if wc.HasChallenge(ChallengeTravel) && tpl.TimeEstimateMinutes > 30 {
		adjust -= 6
	}
	return adjust
}

var costlyKeywords = []string{"buy", "book", "purchase", "splurge", "order", "pay"}

// looksCostly 模板文案是否暗示花费
func looksCostly(tpl *catalog.Template) bool {
	return containsAnyKeyword(templateText(tpl), costlyKeywords)
}

// profileScore 偏好匹配：绝对加分制，封顶 Profile 权重
func (s *Scorer) profileScore(cat *catalog.Category, tpl *catalog.Template, wc *WeeklyContext, components map[string]float64) float64 {
	var score float64

	// 爱之语对齐：主 > 次 > 列表命中
	langScore := 0.0
	if wc.PartnerLangs != nil {
		switch {
		case wc.PartnerLangs.Primary != "" && tpl.HasTag(wc.PartnerLangs.Primary):
			langScore = 20
		case wc.PartnerLangs.Secondary != "" && tpl.HasTag(wc.PartnerLangs.Secondary):
			langScore = 12
		case wc.PartnerLangs.ContainsAny(tpl.LoveLanguageTags):
			langScore = 8
		}
	}
	components["love_language"] = langScore
	score += langScore

	// 模板文案里出现伴侣喜好的活动
	activityScore := 0.0
	if wc.PartnerProfile != nil {
		text := templateText(tpl)
		for _, act := range wc.PartnerProfile.FavoriteActivities {
			act = strings.ToLower(strings.TrimSpace(act))
			if act != "" && strings.Contains(text, act) {
				activityScore += 5
				if activityScore >= 10 {
					break
				}
			}
		}
	}
	components["activity_match"] = activityScore
	score += activityScore

	// 类目相关的风格匹配
	styleScore := 0.0
	if wc.PartnerProfile != nil {
		if cat.ID == "quality_time" && dateStyleMatches(wc.PartnerProfile.DateStyle, tpl) {
			styleScore += 5
		}
		if tpl.HasTag(schema.LangGifts) {
			styleScore += giftBudgetScore(wc.PartnerProfile.GiftBudget, tpl)
		}
		if tpl.HasTag(schema.LangWords) && expressiveStyle(wc.PartnerProfile.CommunicationStyle) {
			styleScore += 5
		}
	}
	components["style_match"] = styleScore
	score += styleScore

	score = clampF(score, 0, s.weights.Profile)
	components["profile"] = score
	return score
}

// 约会风格关键词表
var dateStyleKeywords = map[string][]string{
	"cozy_home":   {"home", "couch", "cozy", "movie", "kitchen"},
	"adventurous": {"trip", "explore", "new", "destination", "walk"},
	"cultural":    {"museum", "class", "tasting", "film"},
	"foodie":      {"dinner", "meal", "coffee", "restaurant", "cook"},
}

func dateStyleMatches(dateStyle string, tpl *catalog.Template) bool {
	keywords, ok := dateStyleKeywords[dateStyle]
	if !ok {
		return false
	}
	return containsAnyKeyword(templateText(tpl), keywords)
}

// giftBudgetScore 礼物预算契合：预算拮据遇到花费型模板扣分，否则加分
func giftBudgetScore(budget string, tpl *catalog.Template) float64 {
	if budget == "" {
		return 0
	}
	if budget == "modest" && looksCostly(tpl) {
		return -5
	}
	return 5
}

func expressiveStyle(style string) bool {
	return style == "expressive" || style == "playful"
}

// relationshipContextScore 关系背景匹配，封顶 Context 权重、下限 0
func (s *Scorer) relationshipContextScore(cat *catalog.Category, tpl *catalog.Template, wc *WeeklyContext, components map[string]float64) float64 {
	var score float64
	rel := wc.Relationship
	text := templateText(tpl)

	// 同住与否 vs 文案的"在家"/"出门"取向
	home := containsAnyKeyword(text, homeKeywords)
	out := containsAnyKeyword(text, outKeywords)
	if rel != nil {
		switch {
		case rel.LivingTogether && home:
			score += 6
		case !rel.LivingTogether && out:
			score += 6
		case rel.LivingTogether && out && !home:
			score -= 4
		case !rel.LivingTogether && home && !out:
			score -= 4
		}

		// 许久没约会时优先共处时光
		if cat.ID == "quality_time" && (rel.DateFrequency == "rarely" || rel.DateFrequency == "monthly") {
			score += 5
		}
	}

	// 计划风格一致性
	if wc.UserProfile != nil {
		switch wc.UserProfile.PlanningStyle {
		case "spontaneous":
			if containsAnyKeyword(text, spontaneousKeywords) {
				score += 4
			}
		case "planned":
			if containsAnyKeyword(text, plannedKeywords) {
				score += 4
			}
		}
	}

	score = clampF(score, 0, s.weights.Context)
	components["relationship_context"] = score
	return score
}

var (
	homeKeywords        = []string{"at home", "home", "couch", "kitchen"}
	outKeywords         = []string{"go out", "walk", "trip", "restaurant", "destination", "out together"}
	spontaneousKeywords = []string{"spontaneous", "unprompted", "surprise", "no occasion", "unexpected"}
	plannedKeywords     = []string{"plan", "schedule", "calendar", "rotation", "book"}
)

// varietyScore 上周没出过给满分，出过给保底分（保底非零，模板不会被永久排除）
func (s *Scorer) varietyScore(tpl *catalog.Template, wc *WeeklyContext) float64 {
	if _, used := wc.PriorWeekTitles[tpl.Title]; used {
		return s.varietyFloor
	}
	return s.weights.Variety
}

// templateText 模板标题+描述的小写全文，关键词匹配共用
func templateText(tpl *catalog.Template) string {
	return strings.ToLower(tpl.Title + " " + tpl.Description)
}

func containsAnyKeyword(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// clampF 将数值限制在指定范围内
func clampF(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
