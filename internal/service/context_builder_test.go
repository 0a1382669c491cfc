package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/liuynx/Tandem/internal/schema"
)

// ===== Mock Implementations =====

type fakeStatusRepo struct {
	statuses map[string]*schema.WeeklyStatus // key: userID|weekStart
	err      error
}

func statusKey(userID, weekStart string) string { return userID + "|" + weekStart }

func (f *fakeStatusRepo) GetByUserWeek(ctx context.Context, userID, weekStart string) (*schema.WeeklyStatus, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.statuses[statusKey(userID, weekStart)], nil
}

type fakeRelationshipRepo struct {
	relationships map[string]*schema.Relationship
	err           error
}

func (f *fakeRelationshipRepo) GetByID(ctx context.Context, id string) (*schema.Relationship, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.relationships[id], nil
}

type fakeProfileRepo struct {
	profiles map[string]*schema.OnboardingProfile
	err      error
}

func (f *fakeProfileRepo) GetByUser(ctx context.Context, userID string) (*schema.OnboardingProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profiles[userID], nil
}

type fakeHintRepo struct {
	hints map[string][]schema.PartnerHint
	err   error
}

func (f *fakeHintRepo) GetActiveByAuthor(ctx context.Context, authorID string) ([]schema.PartnerHint, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.hints[authorID], nil
}

type fakeSuggestionRepo struct {
	byWeek    map[string][]schema.Suggestion // key: userID|weekStart
	inserted  []schema.Suggestion
	getErr    error
	insertErr error
}

func (f *fakeSuggestionRepo) GetByUserWeek(ctx context.Context, userID, weekStart string) ([]schema.Suggestion, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.byWeek[statusKey(userID, weekStart)], nil
}

func (f *fakeSuggestionRepo) Insert(ctx context.Context, s *schema.Suggestion) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, *s)
	return nil
}

func builderFixture() (*ContextBuilder, *fakeStatusRepo, *fakeRelationshipRepo, *fakeProfileRepo, *fakeHintRepo, *fakeSuggestionRepo) {
	statusRepo := &fakeStatusRepo{statuses: map[string]*schema.WeeklyStatus{
		statusKey("alice", "2026-08-31"): {
			UserID: "alice", WeekStart: "2026-08-31",
			AvailableTime: schema.TimeModerate, EmotionalCapacity: schema.LevelModerate,
		},
		statusKey("bob", "2026-08-31"): {
			UserID: "bob", WeekStart: "2026-08-31",
			AvailableTime: schema.TimeLimited, EmotionalCapacity: schema.LevelHigh,
		},
	}}
	relRepo := &fakeRelationshipRepo{relationships: map[string]*schema.Relationship{
		"rel-1": {ID: "rel-1", MemberAID: "alice", MemberBID: "bob", Status: "active"},
	}}
	profileRepo := &fakeProfileRepo{profiles: map[string]*schema.OnboardingProfile{
		"bob": {
			UserID: "bob", DisplayName: "Bob",
			LoveLanguagePrimary: "Quality Time",
		},
	}}
	hintRepo := &fakeHintRepo{hints: map[string][]schema.PartnerHint{
		"bob": {{AuthorID: "bob", HintType: "gift_idea", HintText: "new headphones"}},
	}}
	suggRepo := &fakeSuggestionRepo{byWeek: map[string][]schema.Suggestion{
		statusKey("alice", "2026-08-24"): {
			{UserID: "alice", WeekStart: "2026-08-24", CategoryID: "quick_wins", Title: "Send a sweet good morning text"},
		},
	}}

	builder := NewContextBuilder(statusRepo, relRepo, profileRepo, hintRepo, suggRepo)
	return builder, statusRepo, relRepo, profileRepo, hintRepo, suggRepo
}

func TestContextBuilder_FullBuild(t *testing.T) {
	builder, _, _, _, _, _ := builderFixture()

	wc, err := builder.Build(context.Background(), "alice", "rel-1", "2026-08-31")
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if wc.UserStatus == nil || wc.UserStatus.UserID != "alice" {
		t.Fatal("user status missing from context")
	}
	if wc.PartnerStatus == nil || wc.PartnerStatus.UserID != "bob" {
		t.Error("partner status should be loaded")
	}
	if wc.PartnerName() != "Bob" {
		t.Errorf("partner name = %q, want Bob", wc.PartnerName())
	}
	if wc.PartnerLangs.Primary != schema.LangQuality {
		t.Errorf("partner primary language = %q, want %q", wc.PartnerLangs.Primary, schema.LangQuality)
	}
	if len(wc.PartnerHints) != 1 || wc.PartnerHints[0].HintText != "new headphones" {
		t.Errorf("partner hints = %+v", wc.PartnerHints)
	}
	if _, ok := wc.PriorWeekTitles["Send a sweet good morning text"]; !ok {
		t.Error("prior week titles should include last week's suggestion")
	}
}

func TestContextBuilder_MissingStatusFatal(t *testing.T) {
	builder, _, _, _, _, _ := builderFixture()

	_, err := builder.Build(context.Background(), "alice", "rel-1", "2026-09-07")
	if !errors.Is(err, ErrWeeklyStatusMissing) {
		t.Fatalf("expected ErrWeeklyStatusMissing, got %v", err)
	}
}

func TestContextBuilder_MissingRelationshipFatal(t *testing.T) {
	builder, _, _, _, _, _ := builderFixture()

	_, err := builder.Build(context.Background(), "alice", "rel-unknown", "2026-08-31")
	if !errors.Is(err, ErrRelationshipNotFound) {
		t.Fatalf("expected ErrRelationshipNotFound, got %v", err)
	}
}

func TestContextBuilder_RelationshipFetchErrorFatal(t *testing.T) {
	builder, _, relRepo, _, _, _ := builderFixture()
	relRepo.err = fmt.Errorf("db is down")

	_, err := builder.Build(context.Background(), "alice", "rel-1", "2026-08-31")
	if err == nil {
		t.Fatal("relationship fetch failure should abort the build")
	}
}

func TestContextBuilder_UserNotInRelationship(t *testing.T) {
	builder, statusRepo, _, _, _, _ := builderFixture()
	statusRepo.statuses[statusKey("mallory", "2026-08-31")] = &schema.WeeklyStatus{
		UserID: "mallory", WeekStart: "2026-08-31",
	}

	_, err := builder.Build(context.Background(), "mallory", "rel-1", "2026-08-31")
	if !errors.Is(err, ErrUserNotInRelationship) {
		t.Fatalf("expected ErrUserNotInRelationship, got %v", err)
	}
}

func TestContextBuilder_OptionalFailuresDegrade(t *testing.T) {
	builder, _, _, profileRepo, hintRepo, _ := builderFixture()
	profileRepo.err = fmt.Errorf("profile table locked")
	hintRepo.err = fmt.Errorf("hint table locked")

	wc, err := builder.Build(context.Background(), "alice", "rel-1", "2026-08-31")
	if err != nil {
		t.Fatalf("optional fetch failures should not abort: %v", err)
	}
	if wc.PartnerProfile != nil {
		t.Error("partner profile should be absent after a fetch failure")
	}
	if wc.PartnerName() != "your partner" {
		t.Errorf("partner name should fall back, got %q", wc.PartnerName())
	}
	if len(wc.PartnerHints) != 0 {
		t.Error("hints should be empty after a fetch failure")
	}
}
