package schema

import "time"

// WeeklyStatus 每周一次的状态问卷（生成建议的硬前置条件）
// 数据量级：每用户每周一行
type WeeklyStatus struct {
	ID                int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID            string    `gorm:"size:64;uniqueIndex:idx_status_user_week" json:"user_id"`
	WeekStart         string    `gorm:"size:10;uniqueIndex:idx_status_user_week" json:"week_start"` // YYYY-MM-DD，必须是周一
	AvailableTime     string    `gorm:"size:20" json:"available_time"`                              // very_limited/limited/moderate/plenty
	EmotionalCapacity string    `gorm:"size:20" json:"emotional_capacity"`                          // low/moderate/high
	StressLevel       string    `gorm:"size:20" json:"stress_level"`
	EnergyLevel       string    `gorm:"size:20" json:"energy_level"`
	WorkSchedule      string    `gorm:"size:20" json:"work_schedule"` // full_time/part_time/student/flexible/unemployed
	Challenges        JSONArray `gorm:"type:text" json:"challenges"`  // 本周困扰，如 work_deadline、family_issue
	Notes             string    `gorm:"type:text" json:"notes"`       // 自由备注
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (WeeklyStatus) TableName() string {
	return "weekly_statuses"
}
