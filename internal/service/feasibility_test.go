package service

import (
	"testing"

	"github.com/liuynx/Tandem/internal/catalog"
	"github.com/liuynx/Tandem/internal/schema"
)

func TestCategoryFeasible_TightWeek(t *testing.T) {
	p := NewFeasibilityPolicy()
	wc := contextWith(statusWith(schema.TimeVeryLimited, schema.LevelModerate, schema.LevelLow))

	quick := &catalog.Category{ID: "quick_wins", MinTimeMinutes: 5, MaxTimeMinutes: 15}
	planning := &catalog.Category{ID: "planning_ahead", MinTimeMinutes: 45, MaxTimeMinutes: 90}

	if !p.CategoryFeasible(quick, wc) {
		t.Error("short category should stay feasible on a very limited week")
	}
	if p.CategoryFeasible(planning, wc) {
		t.Error("45-minute-minimum category should be infeasible on a very limited week")
	}
}

func TestCategoryFeasible_LowCapacity(t *testing.T) {
	p := NewFeasibilityPolicy()
	wc := contextWith(statusWith(schema.TimeModerate, schema.LevelLow, schema.LevelModerate))

	demanding := &catalog.Category{ID: "planning_ahead", MinTimeMinutes: 20, CapacityRequired: schema.LevelHigh}
	gentle := &catalog.Category{ID: "quick_wins", MinTimeMinutes: 5, CapacityRequired: schema.LevelLow}

	if p.CategoryFeasible(demanding, wc) {
		t.Error("high-capacity category should be infeasible when capacity is low")
	}
	if !p.CategoryFeasible(gentle, wc) {
		t.Error("low-capacity category should stay feasible")
	}
}

func TestCategoryFeasible_LoveLanguageOverride(t *testing.T) {
	p := NewFeasibilityPolicy()
	wc := contextWith(statusWith(schema.TimeVeryLimited, schema.LevelLow, schema.LevelLow))
	wc.PartnerLangs = &PartnerLanguages{
		Primary: schema.LangQuality,
		All:     map[string]struct{}{schema.LangQuality: {}},
	}

	// fails both the time and the capacity rule, but matches the partner's language
	cat := &catalog.Category{
		ID:               "quality_time",
		MinTimeMinutes:   60,
		CapacityRequired: schema.LevelHigh,
		LoveLanguageTags: []string{schema.LangQuality},
	}
	if !p.CategoryFeasible(cat, wc) {
		t.Error("partner love-language match should override the feasibility rules")
	}
}

func TestCategoryFeasible_MissingStatus(t *testing.T) {
	p := NewFeasibilityPolicy()
	wc := &WeeklyContext{PriorWeekTitles: map[string]struct{}{}}

	cat := &catalog.Category{ID: "quick_wins", MinTimeMinutes: 5}
	if p.CategoryFeasible(cat, wc) {
		t.Error("no status and no language match should be infeasible")
	}
}
