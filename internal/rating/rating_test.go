package rating

import "testing"

func TestSmoothedFirstReviewAssignsDirectly(t *testing.T) {
	if got := Smoothed(5.0, 0, 4.0); got != 4.0 {
		t.Fatalf("expected first review to set rating to 4.0, got %v", got)
	}
}

func TestSmoothedWeightedUpdate(t *testing.T) {
	// weight = min(0.3, 1/2) = 0.3 -> 5.0*0.7 + 3.0*0.3 = 4.4
	if got := Smoothed(5.0, 1, 3.0); got != 4.4 {
		t.Fatalf("expected 4.4, got %v", got)
	}
}

func TestSmoothedWeightShrinksWithHistory(t *testing.T) {
	// weight = min(0.3, 1/11) -> 5.0*(10/11) + 0*(1/11) ~= 4.55
	if got := Smoothed(5.0, 10, 0.0); got != 4.55 {
		t.Fatalf("expected 4.55, got %v", got)
	}
}

func TestSmoothedClamped(t *testing.T) {
	cases := []struct {
		name     string
		old      float64
		total    int
		incoming float64
	}{
		{"first review high", 5.0, 0, 5.0},
		{"first review low", 5.0, 0, 1.0},
		{"established low", 0.2, 5, 1.0},
		{"established high", 4.9, 5, 5.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Smoothed(tc.old, tc.total, tc.incoming)
			if got < 0.0 || got > 5.0 {
				t.Fatalf("rating %v outside [0, 5]", got)
			}
		})
	}
}

func TestLevel(t *testing.T) {
	cases := []struct {
		completed int
		want      int
	}{
		{0, 1},
		{1, 2},
		{2, 2},
		{3, 3},
		{6, 3},
		{7, 4},
		{14, 4},
		{15, 5},
	}
	for _, tc := range cases {
		if got := Level(tc.completed); got != tc.want {
			t.Fatalf("Level(%d) = %d, want %d", tc.completed, got, tc.want)
		}
	}
}

func TestLevelNonDecreasingAndCapped(t *testing.T) {
	prev := 0
	for completed := 0; completed <= 1<<20; completed = completed*2 + 1 {
		level := Level(completed)
		if level < prev {
			t.Fatalf("level decreased at %d completions: %d < %d", completed, level, prev)
		}
		if level > MaxLevel {
			t.Fatalf("level %d exceeds cap", level)
		}
		prev = level
	}
}

func TestExperienceBounds(t *testing.T) {
	for completed := 0; completed < 2000; completed++ {
		exp := Experience(completed)
		if exp < 0 || exp > 100 {
			t.Fatalf("Experience(%d) = %d outside [0, 100]", completed, exp)
		}
	}
}

func TestExperienceProgress(t *testing.T) {
	// level 3 spans completions 3..6 (thresholds 3 and 7).
	if got := Experience(3); got != 0 {
		t.Fatalf("expected 0%% at level start, got %d", got)
	}
	if got := Experience(5); got != 50 {
		t.Fatalf("expected 50%% mid-level, got %d", got)
	}
}

func TestPositiveRate(t *testing.T) {
	if got := PositiveRate(1, 0); got != 0 {
		t.Fatalf("expected 0 with no completions, got %v", got)
	}
	if got := PositiveRate(2, 3); got != 66.7 {
		t.Fatalf("expected 66.7, got %v", got)
	}
}

func TestReliabilityCapped(t *testing.T) {
	if got := Reliability(1000, 100); got != 100 {
		t.Fatalf("expected reliability capped at 100, got %v", got)
	}
	if got := Reliability(10, 80); got != 59 {
		t.Fatalf("expected 10*0.3 + 80*0.7 = 59, got %v", got)
	}
}

func TestCompositeScore(t *testing.T) {
	// rating 5.0, reliability 100, 20+ reviews: 5*0.4 + 4*0.4 + 2*0.2 = 4.0
	if got := CompositeScore(5.0, 100, 25); got != 4.0 {
		t.Fatalf("expected 4.0, got %v", got)
	}
	// bonus caps at 2.0 regardless of review count
	if CompositeScore(3.0, 50, 20) != CompositeScore(3.0, 50, 200) {
		t.Fatal("review bonus must cap at 2.0")
	}
}
