package analysis

// Defaults is the single table of fallback values applied when the model
// omits or malforms a field.
type Defaults struct {
	Scores       Scores
	Financials   Financials
	ChartTargets []ChartTarget
	Placeholders []NeuroMetric
}

// ChartTarget seeds a default radar axis. Current reads the matching score
// when ScoreKey is set, otherwise the fixed Current value is used.
type ChartTarget struct {
	Subject  string
	ScoreKey string
	Current  float64
	Target   float64
}

// CanonicalDefaults returns the defaults used in production.
func CanonicalDefaults() Defaults {
	return Defaults{
		Scores: Scores{
			Overall:   70,
			Saliency:  65,
			Biophilia: 40,
			Warmth:    60,
			Social:    55,
			Clutter:   50,
		},
		Financials: Financials{
			CurrentDwell:         45,
			PredictedDwell:       60,
			CurrentSpend:         30,
			PredictedSpend:       36,
			MonthlyRevenueUplift: 5000,
		},
		ChartTargets: []ChartTarget{
			{Subject: "Biophilia", ScoreKey: "biophilia", Target: 85},
			{Subject: "Warmth", ScoreKey: "warmth", Target: 90},
			{Subject: "Social Layout", ScoreKey: "social", Target: 80},
			{Subject: "Lighting", Current: 75, Target: 95},
			{Subject: "Cleanliness", Current: 70, Target: 90},
			{Subject: "Acoustics", Current: 65, Target: 75},
		},
		Placeholders: []NeuroMetric{
			{
				ID:             1,
				Title:          "Dopamine & Appetite Stimulation",
				Drivers:        []string{},
				NeuralImpact:   "Detailed neural analysis was unavailable for this image.",
				BusinessEffect: "Upload a clearer, well-lit photo of the dining area for a full assessment.",
			},
			{
				ID:             2,
				Title:          "Stress Reduction & Comfort",
				Drivers:        []string{},
				NeuralImpact:   "Detailed neural analysis was unavailable for this image.",
				BusinessEffect: "Upload a clearer, well-lit photo of the dining area for a full assessment.",
			},
		},
	}
}

func (s Scores) byKey(key string) (int, bool) {
	switch key {
	case "overall":
		return s.Overall, true
	case "saliency":
		return s.Saliency, true
	case "biophilia":
		return s.Biophilia, true
	case "warmth":
		return s.Warmth, true
	case "social":
		return s.Social, true
	case "clutter":
		return s.Clutter, true
	}
	return 0, false
}
