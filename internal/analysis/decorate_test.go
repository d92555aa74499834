package analysis

import "testing"

func TestIconFor(t *testing.T) {
	tests := []struct {
		id    int
		icon  string
		color string
	}{
		{1, "Utensils", "bg-orange-500"},
		{2, "Heart", "bg-teal-500"},
		{3, "Sparkles", "bg-amber-500"},
		{4, "Armchair", "bg-indigo-500"},
		{5, "Zap", "bg-blue-500"},
		{6, "Target", "bg-purple-500"},
		{7, "Users", "bg-rose-500"},
		{8, "Award", "bg-emerald-500"},
		{9, "Share2", "bg-pink-500"},
		{0, "Sparkles", "bg-slate-500"},
		{10, "Sparkles", "bg-slate-500"},
		{-3, "Sparkles", "bg-slate-500"},
	}
	for _, tc := range tests {
		icon, color := IconFor(tc.id)
		if icon != tc.icon || color != tc.color {
			t.Fatalf("id %d: expected %s/%s got %s/%s", tc.id, tc.icon, tc.color, icon, color)
		}
	}
}

func TestDecorate(t *testing.T) {
	result := &Result{NeuroMetrics: []NeuroMetric{{ID: 7}, {ID: 42}}}
	Decorate(result)
	if result.NeuroMetrics[0].Icon != "Users" || result.NeuroMetrics[0].Color != "bg-rose-500" {
		t.Fatalf("unexpected display %+v", result.NeuroMetrics[0])
	}
	if result.NeuroMetrics[1].Icon != "Sparkles" || result.NeuroMetrics[1].Color != "bg-slate-500" {
		t.Fatalf("unexpected fallback %+v", result.NeuroMetrics[1])
	}
	if result.IdealImage != IdealImageURL {
		t.Fatalf("expected ideal image got %q", result.IdealImage)
	}

	Decorate(nil)
}
