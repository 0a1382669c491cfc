package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/liuynx/Tandem/internal/catalog"
	"github.com/liuynx/Tandem/internal/schema"
)

// Personalizer 把选中的模板改写成贴合这对伴侣的建议记录。
// 只改写文案、时段与时间预算，不改变投入档位、类目与模板既有的爱之语标签。
type Personalizer struct{}

// NewPersonalizer 创建个性化层
func NewPersonalizer() *Personalizer {
	return &Personalizer{}
}

// Personalize 由打分候选生成一条建议记录（未落库）
func (p *Personalizer) Personalize(cat *catalog.Category, cand ScoredCandidate, wc *WeeklyContext) *schema.Suggestion {
	tpl := cand.Template
	name := wc.PartnerName()

	description := p.substitutePartner(tpl.Description, name)
	description = p.substituteActivities(description, wc)
	description = p.appendContextClauses(description, wc)

	steps := p.buildSteps(&tpl, name, wc)
	timing := p.adjustTiming(tpl.PreferredTiming, wc)
	estimate := tpl.TimeEstimateMinutes

	// 时间极度紧张：压缩预算并截短步骤
	if wc.UserStatus != nil && wc.UserStatus.AvailableTime == schema.TimeVeryLimited {
		if estimate > 15 {
			estimate = 15
		}
		if len(steps) > 2 {
			steps = steps[:2]
		}
	}

	hintText, hintMatched := p.matchGiftHint(&tpl, wc)
	if hintMatched {
		description += fmt.Sprintf(" %s recently mentioned: %q — worth weaving in.", name, hintText)
	}

	s := &schema.Suggestion{
		UserID:              wc.UserID,
		RelationshipID:      wc.RelationshipID,
		WeekStart:           wc.WeekStart,
		CategoryID:          cat.ID,
		SourceType:          "template",
		Title:               p.substitutePartner(tpl.Title, name),
		Description:         description,
		DetailedSteps:       steps,
		TimeEstimateMinutes: estimate,
		EffortLevel:         tpl.EffortLevel,
		BestTiming:          timing,
		LoveLanguageAlign:   schema.JSONArray(tpl.LoveLanguageTags),
		Rationale:           p.synthesizeRationale(cand, wc),
		BasedOnFactors:      p.factorSnapshot(cand, wc),
		PartnerHint:         hintText,
		PartnerPrefMatch:    cand.Components["love_language"] > 0,
		ConfidenceScore:     math.Round(cand.Score) / 100,
		GeneratedBy:         "relevance_engine",
	}
	return s
}

// substitutePartner 把泛称替换成伴侣的称呼
func (p *Personalizer) substitutePartner(text, name string) string {
	if name == "" || name == "your partner" {
		return text
	}
	replacer := strings.NewReplacer(
		"your partner's", name+"'s",
		"Your partner's", name+"'s",
		"your partner", name,
		"Your partner", name,
	)
	return replacer.Replace(text)
}

// substituteActivities 把泛指活动短语换成伴侣喜欢的具体活动（至多两个）
func (p *Personalizer) substituteActivities(text string, wc *WeeklyContext) string {
	if wc.PartnerProfile == nil || len(wc.PartnerProfile.FavoriteActivities) == 0 {
		return text
	}
	favorites := wc.PartnerProfile.FavoriteActivities
	var phrase string
	if len(favorites) >= 2 {
		phrase = fmt.Sprintf("%s or %s", favorites[0], favorites[1])
	} else {
		phrase = favorites[0]
	}

	for _, generic := range []string{"something you both enjoy", "a shared activity"} {
		if strings.Contains(text, generic) {
			return strings.Replace(text, generic, phrase, 1)
		}
	}
	return text
}

// appendContextClauses 按本周状态追加关怀语句
func (p *Personalizer) appendContextClauses(text string, wc *WeeklyContext) string {
	status := wc.UserStatus
	if status == nil {
		return text
	}

	var clauses []string
	if status.StressLevel == schema.LevelHigh {
		clauses = append(clauses, "No pressure to make it perfect — low-key counts double on a stressful week.")
	}
	if status.EnergyLevel == schema.LevelLow {
		clauses = append(clauses, "Keep it effortless; showing up matters more than doing it elaborately.")
	}
	if status.AvailableTime == schema.TimeVeryLimited {
		clauses = append(clauses, "Even a shortened version of this works with the little time you have.")
	}
	if wc.HasChallenge(ChallengeWorkDeadline) {
		clauses = append(clauses, "With your deadline looming, fit this into a natural break rather than carving out extra time.")
	}

	if len(clauses) == 0 {
		return text
	}
	return text + " " + strings.Join(clauses, " ")
}

// buildSteps 模板步骤转建议步骤，顺带替换伴侣称呼
func (p *Personalizer) buildSteps(tpl *catalog.Template, name string, wc *WeeklyContext) schema.StepList {
	steps := make(schema.StepList, 0, len(tpl.Steps))
	for i, st := range tpl.Steps {
		steps = append(steps, schema.SuggestionStep{
			Step:             i + 1,
			Action:           p.substitutePartner(st.Action, name),
			Tip:              st.Tip,
			EstimatedMinutes: st.EstimatedMinutes,
		})
	}
	return steps
}

// adjustTiming 模板时段为 any 时按工作节奏落到具体时段
func (p *Personalizer) adjustTiming(preferred string, wc *WeeklyContext) string {
	if preferred != schema.TimingAny || wc.UserStatus == nil {
		return preferred
	}
	switch wc.UserStatus.WorkSchedule {
	case schema.ScheduleFullTime:
		if notesSuggestLateWork(wc.UserStatus.Notes) {
			return schema.TimingMorning
		}
		return schema.TimingEvening
	case schema.ScheduleStudent, schema.SchedulePartTime:
		return schema.TimingAfternoon
	default:
		return preferred
	}
}

var lateWorkKeywords = []string{"late", "overtime", "night shift", "evening shift"}

func notesSuggestLateWork(notes string) bool {
	return containsAnyKeyword(strings.ToLower(notes), lateWorkKeywords)
}

// matchGiftHint 礼物类模板尝试匹配伴侣的礼物提示
func (p *Personalizer) matchGiftHint(tpl *catalog.Template, wc *WeeklyContext) (string, bool) {
	if !tpl.HasTag(schema.LangGifts) {
		return "", false
	}
	for _, hint := range wc.PartnerHints {
		if hint.HintType == "gift_idea" && strings.TrimSpace(hint.HintText) != "" {
			return hint.HintText, true
		}
	}
	return "", false
}

// synthesizeRationale 从得分明细合成推荐理由，全部不适用时给通用理由
func (p *Personalizer) synthesizeRationale(cand ScoredCandidate, wc *WeeklyContext) string {
	name := wc.PartnerName()
	var reasons []string

	if lang := cand.Components["love_language"]; lang >= 20 {
		reasons = append(reasons, fmt.Sprintf("it speaks %s's primary love language", name))
	} else if lang > 0 {
		reasons = append(reasons, fmt.Sprintf("it lines up with how %s likes to receive love", name))
	}
	if cand.Components["time_fit"] >= 20 {
		reasons = append(reasons, "it fits comfortably into the time you have this week")
	}
	if cand.Components["effort_energy"] >= 10 && wc.UserStatus != nil &&
		(wc.UserStatus.StressLevel == schema.LevelHigh || wc.UserStatus.EnergyLevel == schema.LevelLow) {
		reasons = append(reasons, "it's gentle enough for the week you're having")
	}
	if cand.Components["activity_match"] > 0 {
		reasons = append(reasons, fmt.Sprintf("it builds on what %s already loves doing", name))
	}

	if len(reasons) == 0 {
		return fmt.Sprintf("A solid fit for you and %s this week. %s", name, cand.Template.Rationale)
	}
	return fmt.Sprintf("Suggested because %s. %s", strings.Join(reasons, ", and "), cand.Template.Rationale)
}

// factorSnapshot 驱动本次选择的上下文维度快照（落库留档）
func (p *Personalizer) factorSnapshot(cand ScoredCandidate, wc *WeeklyContext) schema.JSONMap {
	snapshot := schema.JSONMap{
		"score": cand.Score,
	}
	if s := wc.UserStatus; s != nil {
		snapshot["available_time"] = s.AvailableTime
		snapshot["emotional_capacity"] = s.EmotionalCapacity
		snapshot["stress_level"] = s.StressLevel
		snapshot["energy_level"] = s.EnergyLevel
		snapshot["work_schedule"] = s.WorkSchedule
		if len(s.Challenges) > 0 {
			snapshot["challenges"] = []string(s.Challenges)
		}
	}
	if wc.PartnerLangs != nil && wc.PartnerLangs.Primary != "" {
		snapshot["partner_love_language"] = wc.PartnerLangs.Primary
	}
	if wc.Relationship != nil {
		snapshot["living_together"] = wc.Relationship.LivingTogether
	}
	for _, key := range []string{"situational", "profile", "relationship_context", "variety"} {
		if v, ok := cand.Components[key]; ok {
			snapshot["score_"+key] = v
		}
	}
	return snapshot
}
