package service

import "testing"

func TestWeekStartOf(t *testing.T) {
	cases := []struct {
		date string
		want string
	}{
		{"2026-08-31", "2026-08-31"}, // already a Monday
		{"2026-09-02", "2026-08-31"}, // Wednesday -> same week's Monday
		{"2026-09-06", "2026-08-31"}, // Sunday -> same week's Monday
		{"2026-09-07", "2026-09-07"}, // next Monday
	}

	for _, tc := range cases {
		got, err := NormalizeWeekStart(tc.date)
		if err != nil {
			t.Fatalf("NormalizeWeekStart(%s): %v", tc.date, err)
		}
		if got != tc.want {
			t.Errorf("NormalizeWeekStart(%s) = %s, want %s", tc.date, got, tc.want)
		}
	}
}

func TestNormalizeWeekStart_EmptyUsesCurrentWeek(t *testing.T) {
	got, err := NormalizeWeekStart("")
	if err != nil {
		t.Fatalf("empty date should not error: %v", err)
	}
	// Result must itself be a stable Monday
	again, err := NormalizeWeekStart(got)
	if err != nil {
		t.Fatalf("re-normalize: %v", err)
	}
	if again != got {
		t.Errorf("normalized week start %s is not a fixed point, got %s", got, again)
	}
}

func TestNormalizeWeekStart_Invalid(t *testing.T) {
	if _, err := NormalizeWeekStart("not-a-date"); err == nil {
		t.Fatal("invalid date should error")
	}
}

func TestPriorWeekStart(t *testing.T) {
	got, err := PriorWeekStart("2026-08-31")
	if err != nil {
		t.Fatalf("PriorWeekStart: %v", err)
	}
	if got != "2026-08-24" {
		t.Errorf("PriorWeekStart(2026-08-31) = %s, want 2026-08-24", got)
	}

	if _, err := PriorWeekStart("bogus"); err == nil {
		t.Fatal("invalid week start should error")
	}
}
