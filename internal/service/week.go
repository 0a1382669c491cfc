package service

import (
	"fmt"
	"time"
)

const weekDateLayout = "2006-01-02"

// WeekStartOf 返回参考日期所在 ISO 周的周一（YYYY-MM-DD）
func WeekStartOf(t time.Time) string {
	// time.Weekday 以周日为 0，换算成周一为 0 的偏移
	offset := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -offset)
	return monday.Format(weekDateLayout)
}

// PriorWeekStart 返回给定周一的上一周周一
func PriorWeekStart(weekStart string) (string, error) {
	t, err := time.Parse(weekDateLayout, weekStart)
	if err != nil {
		return "", fmt.Errorf("解析周起始日期失败: %w", err)
	}
	return t.AddDate(0, 0, -7).Format(weekDateLayout), nil
}

// NormalizeWeekStart 将任意日期归一到所在周的周一；空串取当前周
func NormalizeWeekStart(date string) (string, error) {
	if date == "" {
		return WeekStartOf(time.Now()), nil
	}
	t, err := time.Parse(weekDateLayout, date)
	if err != nil {
		return "", fmt.Errorf("解析日期失败: %w", err)
	}
	return WeekStartOf(t), nil
}
