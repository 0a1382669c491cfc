package service

import (
	"testing"

	"github.com/liuynx/Tandem/internal/schema"
)

func TestNormalizeLoveLanguage(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Quality Time", schema.LangQuality},
		{"quality_time", schema.LangQuality},
		{"  Words of Affirmation ", schema.LangWords},
		{"acts of service", schema.LangActs},
		{"Receiving Gifts", schema.LangGifts},
		{"gifts", schema.LangGifts},
		{"Physical Touch", schema.LangTouch},
		{"", ""},
		{"telepathy", ""},
	}

	for _, tc := range cases {
		if got := NormalizeLoveLanguage(tc.in); got != tc.want {
			t.Errorf("NormalizeLoveLanguage(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPartnerLanguagesFrom(t *testing.T) {
	langs := partnerLanguagesFrom(&schema.OnboardingProfile{
		LoveLanguagePrimary:   "Quality Time",
		LoveLanguageSecondary: "acts_of_service",
		LoveLanguages:         schema.JSONArray{"Receiving Gifts"},
	})

	if langs.Primary != schema.LangQuality {
		t.Errorf("primary = %q, want %q", langs.Primary, schema.LangQuality)
	}
	if langs.Secondary != schema.LangActs {
		t.Errorf("secondary = %q, want %q", langs.Secondary, schema.LangActs)
	}
	for _, tag := range []string{schema.LangQuality, schema.LangActs, schema.LangGifts} {
		if !langs.Contains(tag) {
			t.Errorf("All should contain %q", tag)
		}
	}
	if langs.Contains(schema.LangTouch) {
		t.Error("All should not contain a language the profile never listed")
	}
}

func TestPartnerLanguages_NilSafe(t *testing.T) {
	var langs *PartnerLanguages
	if langs.Contains(schema.LangWords) {
		t.Error("nil set should contain nothing")
	}
	if langs.ContainsAny([]string{schema.LangWords, schema.LangGifts}) {
		t.Error("nil set should match nothing")
	}

	empty := partnerLanguagesFrom(nil)
	if empty.Primary != "" || len(empty.All) != 0 {
		t.Errorf("nil profile should produce an empty set, got %+v", empty)
	}
}
