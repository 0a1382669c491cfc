package schema

import (
	"database/sql/driver"
	"encoding/json"
)

// 领域内的枚举统一用字符串常量存储，序数关系由下方的 rank 表定义。
// 存库与打分共用同一套值，避免出现两套表述。

// 可用时间档位（每周问卷填写）
const (
	TimeVeryLimited = "very_limited"
	TimeLimited     = "limited"
	TimeModerate    = "moderate"
	TimePlenty      = "plenty"
)

// 情绪容量 / 压力 / 精力 三维共用的档位
const (
	LevelLow      = "low"
	LevelModerate = "moderate"
	LevelHigh     = "high"
)

// 行动模板的投入档位
const (
	EffortMinimal  = "minimal"
	EffortLow      = "low"
	EffortModerate = "moderate"
	EffortHigh     = "high"
)

// 建议的最佳时段
const (
	TimingMorning   = "morning"
	TimingAfternoon = "afternoon"
	TimingEvening   = "evening"
	TimingWeekend   = "weekend"
	TimingAny       = "any"
)

// 工作节奏类型
const (
	ScheduleFullTime   = "full_time"
	SchedulePartTime   = "part_time"
	ScheduleStudent    = "student"
	ScheduleFlexible   = "flexible"
	ScheduleUnemployed = "unemployed"
)

// 爱之语内部标签（对外展示名的映射见 service/lovelang.go）
const (
	LangWords   = "words_of_affirmation"
	LangQuality = "quality_time"
	LangActs    = "acts_of_service"
	LangGifts   = "receiving_gifts"
	LangTouch   = "physical_touch"
)

var timeRank = map[string]int{
	TimeVeryLimited: 0,
	TimeLimited:     1,
	TimeModerate:    2,
	TimePlenty:      3,
}

var levelRank = map[string]int{
	LevelLow:      0,
	LevelModerate: 1,
	LevelHigh:     2,
}

var effortRank = map[string]int{
	EffortMinimal:  0,
	EffortLow:      1,
	EffortModerate: 2,
	EffortHigh:     3,
}

// TimeRank 返回可用时间档位的序数，未知值按 moderate 处理
func TimeRank(level string) int {
	if r, ok := timeRank[level]; ok {
		return r
	}
	return timeRank[TimeModerate]
}

// LevelRank 返回 low/moderate/high 档位的序数，未知值按 moderate 处理
func LevelRank(level string) int {
	if r, ok := levelRank[level]; ok {
		return r
	}
	return levelRank[LevelModerate]
}

// EffortRank 返回投入档位的序数，未知值按 moderate 处理
func EffortRank(level string) int {
	if r, ok := effortRank[level]; ok {
		return r
	}
	return effortRank[EffortModerate]
}

// JSONArray 以 JSON 文本存储的字符串数组列
type JSONArray []string

// Value 实现 driver.Valuer 接口
func (j JSONArray) Value() (driver.Value, error) {
	if j == nil {
		return "[]", nil
	}
	return json.Marshal(j)
}

// Scan 实现 sql.Scanner 接口
func (j *JSONArray) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSONArray, 0)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*j = make(JSONArray, 0)
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Contains 判断数组中是否包含指定元素
func (j JSONArray) Contains(s string) bool {
	for _, v := range j {
		if v == s {
			return true
		}
	}
	return false
}

// JSONMap 以 JSON 文本存储的结构化快照列
type JSONMap map[string]any

// Value 实现 driver.Valuer 接口
func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return "{}", nil
	}
	return json.Marshal(j)
}

// Scan 实现 sql.Scanner 接口
func (j *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSONMap)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*j = make(JSONMap)
		return nil
	}

	return json.Unmarshal(bytes, j)
}
