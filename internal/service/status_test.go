package service

import (
	"testing"
	"time"

	"domli-search/internal/model"
)

func fixedClassifier(year int) *StatusClassifier {
	return &StatusClassifier{now: func() time.Time {
		return time.Date(year, time.June, 1, 0, 0, 0, 0, time.UTC)
	}}
}

func TestStatusClassifier_ByCompletionYear(t *testing.T) {
	c := fixedClassifier(2026)

	tests := []struct {
		year int
		want model.Status
	}{
		{2020, model.StatusCompleted},
		{2026, model.StatusCompleted},
		{2027, model.StatusUnderConstruction},
		{2028, model.StatusForSale},
		{2030, model.StatusForSale},
	}

	for _, tt := range tests {
		year := tt.year
		if got := c.Classify(&year, "Южане", 1); got != tt.want {
			t.Errorf("Classify(year=%d) = %q, want %q", tt.year, got, tt.want)
		}
	}
}

func TestStatusClassifier_BucketFallback(t *testing.T) {
	c := fixedClassifier(2026)

	// "Южане" is 5 runes: id 10 → bucket 15, id 60 → bucket 65, id 90 → bucket 95
	tests := []struct {
		id   int
		want model.Status
	}{
		{10, model.StatusCompleted},
		{60, model.StatusForSale},
		{90, model.StatusUnderConstruction},
	}

	for _, tt := range tests {
		if got := c.Classify(nil, "Южане", tt.id); got != tt.want {
			t.Errorf("Classify(nil, id=%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestStatusClassifier_BucketUsesRuneCount(t *testing.T) {
	c := fixedClassifier(2026)

	// Cyrillic project names are counted in runes, not bytes: "Юг" is
	// 2 runes, so id 37 lands in bucket 39 (completed), not bucket 77.
	if got := c.Classify(nil, "Юг", 37); got != model.StatusCompleted {
		t.Errorf("Classify(nil, \"Юг\", 37) = %q, want %q", got, model.StatusCompleted)
	}
}

func TestStatusClassifier_IsTotal(t *testing.T) {
	c := fixedClassifier(2026)

	for id := 0; id < 200; id++ {
		got := c.Classify(nil, "", id)
		switch got {
		case model.StatusCompleted, model.StatusForSale, model.StatusUnderConstruction:
		default:
			t.Fatalf("Classify(nil, \"\", %d) returned unexpected status %q", id, got)
		}
	}
}
