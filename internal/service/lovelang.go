package service

import (
	"strings"

	"github.com/liuynx/Tandem/internal/schema"
)

// 历史数据里爱之语既有展示名（"Quality Time"）也有内部标签（quality_time），
// 全部在上下文构建这一层归一成内部标签，下游只比较标签。
var loveLangAliases = map[string]string{
	"words of affirmation": schema.LangWords,
	"words":                schema.LangWords,
	"quality time":         schema.LangQuality,
	"time":                 schema.LangQuality,
	"acts of service":      schema.LangActs,
	"acts":                 schema.LangActs,
	"receiving gifts":      schema.LangGifts,
	"gifts":                schema.LangGifts,
	"physical touch":       schema.LangTouch,
	"touch":                schema.LangTouch,
}

// NormalizeLoveLanguage 将展示名或标签归一成内部标签，无法识别时返回空串
func NormalizeLoveLanguage(v string) string {
	s := strings.ToLower(strings.TrimSpace(v))
	if s == "" {
		return ""
	}
	switch s {
	case schema.LangWords, schema.LangQuality, schema.LangActs, schema.LangGifts, schema.LangTouch:
		return s
	}
	s = strings.ReplaceAll(s, "_", " ")
	if tag, ok := loveLangAliases[s]; ok {
		return tag
	}
	return ""
}

// PartnerLanguages 伴侣的爱之语集合（均为归一后的内部标签）
type PartnerLanguages struct {
	Primary   string
	Secondary string
	All       map[string]struct{} // 主、次及完整列表的并集
}

// Contains 判断标签是否在伴侣的爱之语并集内
func (p *PartnerLanguages) Contains(tag string) bool {
	if p == nil {
		return false
	}
	_, ok := p.All[tag]
	return ok
}

// ContainsAny 判断任一标签是否命中伴侣的爱之语并集
func (p *PartnerLanguages) ContainsAny(tags []string) bool {
	for _, tag := range tags {
		if p.Contains(tag) {
			return true
		}
	}
	return false
}

// partnerLanguagesFrom 从伴侣的注册问卷提取并归一爱之语集合
func partnerLanguagesFrom(profile *schema.OnboardingProfile) *PartnerLanguages {
	out := &PartnerLanguages{All: make(map[string]struct{})}
	if profile == nil {
		return out
	}

	add := func(v string) string {
		tag := NormalizeLoveLanguage(v)
		if tag != "" {
			out.All[tag] = struct{}{}
		}
		return tag
	}

	out.Primary = add(profile.LoveLanguagePrimary)
	out.Secondary = add(profile.LoveLanguageSecondary)
	for _, v := range profile.LoveLanguages {
		add(v)
	}
	return out
}
