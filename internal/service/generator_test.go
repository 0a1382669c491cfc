package service

import (
	"context"
	"errors"
	"testing"

	"github.com/liuynx/Tandem/internal/catalog"
	"github.com/liuynx/Tandem/internal/eventbus"
	"github.com/liuynx/Tandem/internal/schema"
)

// fakeCatalog serves a fixed set of categories; template lookups can be
// overridden per category to simulate faulty pools.
type fakeCatalog struct {
	categories []catalog.Category
	templates  map[string][]catalog.Template
	panicOn    string
}

func (f *fakeCatalog) ListCategories() []catalog.Category {
	return f.categories
}

func (f *fakeCatalog) ListTemplates(categoryID string) []catalog.Template {
	if categoryID == f.panicOn {
		panic("template pool corrupted")
	}
	return f.templates[categoryID]
}

type recordingPublisher struct {
	events []eventbus.Event
}

func (r *recordingPublisher) Publish(evt eventbus.Event) {
	r.events = append(r.events, evt)
}

func (r *recordingPublisher) typesSeen() map[string]int {
	out := make(map[string]int)
	for _, e := range r.events {
		out[e.Type]++
	}
	return out
}

func testCatalog() *fakeCatalog {
	tpl := func(title string, minutes int) catalog.Template {
		return catalog.Template{
			Title:               title,
			Description:         "Do something kind for your partner.",
			TimeEstimateMinutes: minutes,
			EffortLevel:         schema.EffortLow,
			PreferredTiming:     schema.TimingEvening,
			Rationale:           "Kindness compounds.",
		}
	}
	return &fakeCatalog{
		categories: []catalog.Category{
			{ID: "quick_wins", MinTimeMinutes: 5, MaxTimeMinutes: 15, CapacityRequired: schema.LevelLow},
			{ID: "quality_time", MinTimeMinutes: 30, MaxTimeMinutes: 120, CapacityRequired: schema.LevelModerate},
		},
		templates: map[string][]catalog.Template{
			"quick_wins": {
				tpl("Send a voice memo", 5),
				tpl("Make their coffee", 10),
				tpl("Leave a sticky note", 5),
				tpl("Queue up their favorite song", 5),
			},
			"quality_time": {
				tpl("Cook dinner together", 45),
				tpl("Take an evening walk", 30),
				tpl("Play a board game", 60),
				tpl("Watch a movie together", 90),
			},
		},
	}
}

func newTestGenerator(cat TemplateCatalog, suggRepo *fakeSuggestionRepo, events EventPublisher) *Generator {
	builder, _, _, _, _, _ := builderFixture()
	builder.suggestionRepo = suggRepo
	return NewGenerator(
		builder,
		cat,
		NewFeasibilityPolicy(),
		NewScorer(),
		NewSelector(&SelectorConfig{Seed: 1}),
		NewPersonalizer(),
		suggRepo,
		events,
		nil,
	)
}

func TestGenerate_ProducesPerCategory(t *testing.T) {
	suggRepo := &fakeSuggestionRepo{byWeek: map[string][]schema.Suggestion{}}
	events := &recordingPublisher{}
	gen := newTestGenerator(testCatalog(), suggRepo, events)

	resp, err := gen.Generate(context.Background(), GenerateRequest{
		UserID: "alice", RelationshipID: "rel-1", WeekStart: "2026-08-31",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.Reused {
		t.Fatal("first generation should not be a reuse")
	}
	if got := resp.CategoryCounts["quick_wins"]; got != 3 {
		t.Errorf("quick_wins count = %d, want 3", got)
	}
	if got := resp.CategoryCounts["quality_time"]; got != 3 {
		t.Errorf("quality_time count = %d, want 3", got)
	}
	if len(resp.Suggestions) != 6 {
		t.Errorf("total suggestions = %d, want 6", len(resp.Suggestions))
	}
	if len(suggRepo.inserted) != 6 {
		t.Errorf("persisted = %d, want 6", len(suggRepo.inserted))
	}
	if events.typesSeen()[eventbus.EventRegenerated] != 1 {
		t.Error("a regeneration event should be published")
	}

	for _, s := range resp.Suggestions {
		if s.UserID != "alice" || s.WeekStart != "2026-08-31" {
			t.Errorf("suggestion carries wrong identity: %+v", s)
		}
		if s.Rationale == "" {
			t.Errorf("suggestion %q has no rationale", s.Title)
		}
	}
}

func TestGenerate_ReusesWhenCoverageSufficient(t *testing.T) {
	existing := []schema.Suggestion{
		{UserID: "alice", WeekStart: "2026-08-31", CategoryID: "quick_wins", Title: "a"},
		{UserID: "alice", WeekStart: "2026-08-31", CategoryID: "quality_time", Title: "b"},
	}
	suggRepo := &fakeSuggestionRepo{byWeek: map[string][]schema.Suggestion{
		statusKey("alice", "2026-08-31"): existing,
	}}
	events := &recordingPublisher{}
	gen := newTestGenerator(testCatalog(), suggRepo, events)

	resp, err := gen.Generate(context.Background(), GenerateRequest{
		UserID: "alice", RelationshipID: "rel-1", WeekStart: "2026-08-31",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !resp.Reused {
		t.Fatal("full coverage should reuse the existing batch")
	}
	if len(resp.Suggestions) != 2 {
		t.Errorf("reused %d suggestions, want 2", len(resp.Suggestions))
	}
	if len(suggRepo.inserted) != 0 {
		t.Error("reuse must not write anything")
	}
	if events.typesSeen()[eventbus.EventReused] != 1 {
		t.Error("a reuse event should be published")
	}
}

func TestGenerate_RegenerateFlagSkipsReuse(t *testing.T) {
	existing := []schema.Suggestion{
		{UserID: "alice", WeekStart: "2026-08-31", CategoryID: "quick_wins", Title: "a"},
		{UserID: "alice", WeekStart: "2026-08-31", CategoryID: "quality_time", Title: "b"},
	}
	suggRepo := &fakeSuggestionRepo{byWeek: map[string][]schema.Suggestion{
		statusKey("alice", "2026-08-31"): existing,
	}}
	gen := newTestGenerator(testCatalog(), suggRepo, nil)

	resp, err := gen.Generate(context.Background(), GenerateRequest{
		UserID: "alice", RelationshipID: "rel-1", WeekStart: "2026-08-31", Regenerate: true,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.Reused {
		t.Fatal("regenerate flag must bypass reuse")
	}
	if len(suggRepo.inserted) == 0 {
		t.Error("regeneration should persist fresh suggestions")
	}
}

func TestGenerate_PartialCoverageRegenerates(t *testing.T) {
	// 1 of 2 categories covered: below the 0.7 threshold
	existing := []schema.Suggestion{
		{UserID: "alice", WeekStart: "2026-08-31", CategoryID: "quick_wins", Title: "a"},
	}
	suggRepo := &fakeSuggestionRepo{byWeek: map[string][]schema.Suggestion{
		statusKey("alice", "2026-08-31"): existing,
	}}
	gen := newTestGenerator(testCatalog(), suggRepo, nil)

	resp, err := gen.Generate(context.Background(), GenerateRequest{
		UserID: "alice", RelationshipID: "rel-1", WeekStart: "2026-08-31",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.Reused {
		t.Fatal("half coverage should regenerate")
	}
}

func TestGenerate_MissingStatusFatal(t *testing.T) {
	suggRepo := &fakeSuggestionRepo{byWeek: map[string][]schema.Suggestion{}}
	gen := newTestGenerator(testCatalog(), suggRepo, nil)

	_, err := gen.Generate(context.Background(), GenerateRequest{
		UserID: "alice", RelationshipID: "rel-1", WeekStart: "2026-09-07",
	})
	if !errors.Is(err, ErrWeeklyStatusMissing) {
		t.Fatalf("expected ErrWeeklyStatusMissing, got %v", err)
	}
	if len(suggRepo.inserted) != 0 {
		t.Error("nothing may be persisted when the build fails")
	}
}

func TestGenerate_CategoryPanicIsolated(t *testing.T) {
	cat := testCatalog()
	cat.panicOn = "quality_time"
	suggRepo := &fakeSuggestionRepo{byWeek: map[string][]schema.Suggestion{}}
	events := &recordingPublisher{}
	gen := newTestGenerator(cat, suggRepo, events)

	resp, err := gen.Generate(context.Background(), GenerateRequest{
		UserID: "alice", RelationshipID: "rel-1", WeekStart: "2026-08-31",
	})
	if err != nil {
		t.Fatalf("one bad category must not fail the request: %v", err)
	}
	if got := resp.CategoryCounts["quick_wins"]; got != 3 {
		t.Errorf("healthy category should still produce, got %d", got)
	}
	if _, ok := resp.CategoryCounts["quality_time"]; ok {
		t.Error("panicking category should yield nothing")
	}
	if events.typesSeen()[eventbus.EventCategorySkipped] != 1 {
		t.Error("a skip event should be published for the failed category")
	}
}

func TestGenerate_PersistFailureKeptInResponse(t *testing.T) {
	suggRepo := &fakeSuggestionRepo{
		byWeek:    map[string][]schema.Suggestion{},
		insertErr: errors.New("disk full"),
	}
	events := &recordingPublisher{}
	gen := newTestGenerator(testCatalog(), suggRepo, events)

	resp, err := gen.Generate(context.Background(), GenerateRequest{
		UserID: "alice", RelationshipID: "rel-1", WeekStart: "2026-08-31",
	})
	if err != nil {
		t.Fatalf("persistence failures must not fail the request: %v", err)
	}
	if len(resp.Suggestions) != 6 {
		t.Errorf("response should still carry all suggestions, got %d", len(resp.Suggestions))
	}
	if events.typesSeen()[eventbus.EventPersistFailed] != 6 {
		t.Errorf("each failed write should publish an event, got %d", events.typesSeen()[eventbus.EventPersistFailed])
	}
}

func TestGenerate_InfeasibleCategorySkipped(t *testing.T) {
	cat := testCatalog()
	cat.categories[1].CapacityRequired = schema.LevelHigh

	suggRepo := &fakeSuggestionRepo{byWeek: map[string][]schema.Suggestion{}}
	events := &recordingPublisher{}

	builder, statusRepo, _, profileRepo, _, _ := builderFixture()
	builder.suggestionRepo = suggRepo
	// partner profile must not trigger the love-language override here
	delete(profileRepo.profiles, "bob")
	statusRepo.statuses[statusKey("alice", "2026-08-31")].EmotionalCapacity = schema.LevelLow

	gen := NewGenerator(builder, cat, NewFeasibilityPolicy(), NewScorer(),
		NewSelector(&SelectorConfig{Seed: 1}), NewPersonalizer(), suggRepo, events, nil)

	resp, err := gen.Generate(context.Background(), GenerateRequest{
		UserID: "alice", RelationshipID: "rel-1", WeekStart: "2026-08-31",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, ok := resp.CategoryCounts["quality_time"]; ok {
		t.Error("infeasible category should produce nothing")
	}
	if got := resp.CategoryCounts["quick_wins"]; got != 3 {
		t.Errorf("feasible category should still produce, got %d", got)
	}
	if events.typesSeen()[eventbus.EventCategorySkipped] != 1 {
		t.Error("infeasible category should publish a skip event")
	}
}
