package schema

import "time"

// OnboardingProfile 注册问卷沉淀的长期偏好（缺失时仅降级个性化，不阻断生成）
type OnboardingProfile struct {
	ID                    int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID                string    `gorm:"size:64;uniqueIndex" json:"user_id"`
	DisplayName           string    `gorm:"size:100" json:"display_name"`
	LoveLanguagePrimary   string    `gorm:"size:50" json:"love_language_primary"`   // 可能是展示名也可能是内部标签
	LoveLanguageSecondary string    `gorm:"size:50" json:"love_language_secondary"` // 同上，统一在上下文构建时归一
	LoveLanguages         JSONArray `gorm:"type:text" json:"love_languages"`
	FavoriteActivities    JSONArray `gorm:"type:text" json:"favorite_activities"`
	CommunicationStyle    string    `gorm:"size:50" json:"communication_style"` // expressive/reserved/direct/playful
	DateStyle             string    `gorm:"size:50" json:"date_style"`          // cozy_home/adventurous/cultural/foodie
	PlanningStyle         string    `gorm:"size:50" json:"planning_style"`      // spontaneous/planned
	GiftBudget            string    `gorm:"size:20" json:"gift_budget"`         // modest/flexible/generous
	CreatedAt             time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (OnboardingProfile) TableName() string {
	return "onboarding_profiles"
}
