package schema

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Suggestion 引擎的持久化产物。每周独立生成，生成后引擎不再修改；
// 勾选/完成标记由外层 API 负责翻转。
// 唯一索引 (user_id, week_start, category_id, title) 保证并发重复生成不会写出重复行。
type Suggestion struct {
	ID                   int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID               string    `gorm:"size:64;uniqueIndex:idx_sugg_dedupe;index" json:"user_id"`
	RelationshipID       string    `gorm:"size:64;index" json:"relationship_id"`
	WeekStart            string    `gorm:"size:10;uniqueIndex:idx_sugg_dedupe;index" json:"week_start"` // YYYY-MM-DD，周一
	CategoryID           string    `gorm:"size:50;uniqueIndex:idx_sugg_dedupe" json:"category_id"`
	SourceType           string    `gorm:"size:20;default:template" json:"source_type"` // template/generated
	Title                string    `gorm:"size:255;uniqueIndex:idx_sugg_dedupe" json:"title"`
	Description          string    `gorm:"type:text" json:"description"`
	DetailedSteps        StepList  `gorm:"type:text" json:"detailed_steps"`
	TimeEstimateMinutes  int       `json:"time_estimate_minutes"`
	EffortLevel          string    `gorm:"size:20" json:"effort_level"`
	BestTiming           string    `gorm:"size:20" json:"best_timing"`
	LoveLanguageAlign    JSONArray `gorm:"type:text" json:"love_language_alignment"`
	Rationale            string    `gorm:"type:text" json:"rationale"`
	BasedOnFactors       JSONMap   `gorm:"type:text" json:"based_on_factors"` // 驱动本次选择的上下文维度快照
	PartnerHint          string    `gorm:"type:text" json:"partner_hint"`
	PartnerPrefMatch     bool      `json:"partner_preference_match"`
	ConfidenceScore      float64   `json:"confidence_score"` // 0.00-1.00
	GeneratedBy          string    `gorm:"size:50" json:"generated_by"`
	Selected             bool      `gorm:"default:false" json:"selected"`
	Completed            bool      `gorm:"default:false" json:"completed"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (Suggestion) TableName() string {
	return "suggestions"
}

// SuggestionStep 建议的单个执行步骤
type SuggestionStep struct {
	Step             int    `json:"step"`
	Action           string `json:"action"`
	Tip              string `json:"tip,omitempty"`
	EstimatedMinutes int    `json:"estimated_minutes,omitempty"`
}

// StepList 以 JSON 文本存储的步骤列表列
type StepList []SuggestionStep

// Value 实现 driver.Valuer 接口
func (s StepList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

// Scan 实现 sql.Scanner 接口
func (s *StepList) Scan(value interface{}) error {
	if value == nil {
		*s = make(StepList, 0)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*s = make(StepList, 0)
		return nil
	}

	return json.Unmarshal(bytes, s)
}
