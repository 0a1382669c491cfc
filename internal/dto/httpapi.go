package dto

// ========== HTTP API 契约（与客户端保持稳定） ==========

// GenerateRequestDTO 生成一周建议
type GenerateRequestDTO struct {
	UserID         string `json:"user_id"`
	RelationshipID string `json:"relationship_id"`
	WeekStart      string `json:"week_start"` // YYYY-MM-DD，空取当前周
	Regenerate     bool   `json:"regenerate"`
}

// SuggestionDTO 单条建议
type SuggestionDTO struct {
	ID                  int64              `json:"id"`
	CategoryID          string             `json:"category_id"`
	SourceType          string             `json:"source_type"`
	Title               string             `json:"title"`
	Description         string             `json:"description"`
	Steps               []SuggestionStepDTO `json:"steps"`
	TimeEstimateMinutes int                `json:"time_estimate_minutes"`
	EffortLevel         string             `json:"effort_level"`
	BestTiming          string             `json:"best_timing"`
	LoveLanguages       []string           `json:"love_languages"`
	Rationale           string             `json:"rationale"`
	PartnerHint         string             `json:"partner_hint,omitempty"`
	PartnerPrefMatch    bool               `json:"partner_preference_match"`
	ConfidenceScore     float64            `json:"confidence_score"`
	Selected            bool               `json:"selected"`
	Completed           bool               `json:"completed"`
	WeekStart           string             `json:"week_start"`
}

// SuggestionStepDTO 建议步骤
type SuggestionStepDTO struct {
	Step             int    `json:"step"`
	Action           string `json:"action"`
	Tip              string `json:"tip,omitempty"`
	EstimatedMinutes int    `json:"estimated_minutes,omitempty"`
}

// GenerateResponseDTO 生成结果
type GenerateResponseDTO struct {
	Suggestions    []SuggestionDTO `json:"suggestions"`
	CategoryCounts map[string]int  `json:"category_counts"`
	GeneratedAt    string          `json:"generated_at"`
	Reused         bool            `json:"reused"`
}

// CheckinRequestDTO 每周状态问卷提交
type CheckinRequestDTO struct {
	UserID            string   `json:"user_id"`
	WeekStart         string   `json:"week_start"` // 空取当前周，自动归一到周一
	AvailableTime     string   `json:"available_time"`
	EmotionalCapacity string   `json:"emotional_capacity"`
	StressLevel       string   `json:"stress_level"`
	EnergyLevel       string   `json:"energy_level"`
	WorkSchedule      string   `json:"work_schedule"`
	Challenges        []string `json:"challenges"`
	Notes             string   `json:"notes"`
}

// ProfileRequestDTO 注册问卷提交
type ProfileRequestDTO struct {
	UserID                string   `json:"user_id"`
	DisplayName           string   `json:"display_name"`
	LoveLanguagePrimary   string   `json:"love_language_primary"`
	LoveLanguageSecondary string   `json:"love_language_secondary"`
	LoveLanguages         []string `json:"love_languages"`
	FavoriteActivities    []string `json:"favorite_activities"`
	CommunicationStyle    string   `json:"communication_style"`
	DateStyle             string   `json:"date_style"`
	PlanningStyle         string   `json:"planning_style"`
	GiftBudget            string   `json:"gift_budget"`
}

// RelationshipRequestDTO 建立关系
type RelationshipRequestDTO struct {
	MemberAID      string `json:"member_a_id"`
	MemberBID      string `json:"member_b_id"`
	LivingTogether bool   `json:"living_together"`
	DurationMonths int    `json:"duration_months"`
	DateFrequency  string `json:"date_frequency"`
}

// HintRequestDTO 伴侣提示提交
type HintRequestDTO struct {
	RelationshipID string `json:"relationship_id"`
	AuthorID       string `json:"author_id"`
	HintType       string `json:"hint_type"`
	HintText       string `json:"hint_text"`
}

// CategoryDTO 类目
type CategoryDTO struct {
	ID               string   `json:"id"`
	DisplayName      string   `json:"display_name"`
	MinTimeMinutes   int      `json:"min_time_minutes"`
	MaxTimeMinutes   int      `json:"max_time_minutes"`
	EffortLevel      string   `json:"effort_level"`
	CapacityRequired string   `json:"capacity_required"`
	LoveLanguageTags []string `json:"love_language_tags"`
	TemplateCount    int      `json:"template_count"`
}

// FlagRequestDTO 勾选/完成标记翻转
type FlagRequestDTO struct {
	Value bool `json:"value"`
}
