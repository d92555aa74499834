package analysis

type display struct {
	icon  string
	color string
}

var metricDisplay = map[int]display{
	1: {"Utensils", "bg-orange-500"},
	2: {"Heart", "bg-teal-500"},
	3: {"Sparkles", "bg-amber-500"},
	4: {"Armchair", "bg-indigo-500"},
	5: {"Zap", "bg-blue-500"},
	6: {"Target", "bg-purple-500"},
	7: {"Users", "bg-rose-500"},
	8: {"Award", "bg-emerald-500"},
	9: {"Share2", "bg-pink-500"},
}

var fallbackDisplay = display{"Sparkles", "bg-slate-500"}

// IconFor returns the icon and color name the frontend renders for a card id.
func IconFor(id int) (string, string) {
	d, ok := metricDisplay[id]
	if !ok {
		d = fallbackDisplay
	}
	return d.icon, d.color
}

// Decorate attaches presentation fields to a normalized result.
func Decorate(result *Result) {
	if result == nil {
		return
	}
	for i := range result.NeuroMetrics {
		result.NeuroMetrics[i].Icon, result.NeuroMetrics[i].Color = IconFor(result.NeuroMetrics[i].ID)
	}
	result.IdealImage = IdealImageURL
}
