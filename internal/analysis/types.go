package analysis

// IdealImageURL is the reference interior shown next to every upload.
const IdealImageURL = "https://images.unsplash.com/photo-1559339352-11d035aa65de?q=80&w=1000&auto=format&fit=crop"

// Result is the fixed-shape document returned to the frontend.
type Result struct {
	Scores       Scores        `json:"scores"`
	NeuroMetrics []NeuroMetric `json:"neuroMetrics"`
	Metrics      []ChartMetric `json:"metrics"`
	Insights     []Insight     `json:"insights"`
	Financials   Financials    `json:"financials"`
	Objects      []Object      `json:"objects"`
	IdealImage   string        `json:"idealImage"`
}

// Scores are integer percentages. Clutter is inverted: higher is worse.
type Scores struct {
	Overall   int `json:"overall"`
	Saliency  int `json:"saliency"`
	Biophilia int `json:"biophilia"`
	Warmth    int `json:"warmth"`
	Social    int `json:"social"`
	Clutter   int `json:"clutter"`
}

// NeuroMetric is one narrative card. Score is on a 0-10 scale.
type NeuroMetric struct {
	ID             int      `json:"id"`
	Title          string   `json:"title"`
	Score          float64  `json:"score"`
	Drivers        []string `json:"drivers"`
	NeuralImpact   string   `json:"neuralImpact"`
	BusinessEffect string   `json:"businessEffect"`
	Tag            string   `json:"tag,omitempty"`
	Icon           string   `json:"icon"`
	Color          string   `json:"color"`
}

// ChartMetric is one radar chart axis: current (A) against target (B).
type ChartMetric struct {
	Subject  string  `json:"subject"`
	A        float64 `json:"A"`
	B        float64 `json:"B"`
	FullMark int     `json:"fullMark"`
}

// Insight is a free-form observation with its business impact.
type Insight struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Desc   string `json:"desc"`
	Impact string `json:"impact"`
}

// Financials holds dwell time (minutes) and spend (currency units).
type Financials struct {
	CurrentDwell         float64 `json:"currentDwell"`
	PredictedDwell       float64 `json:"predictedDwell"`
	CurrentSpend         float64 `json:"currentSpend"`
	PredictedSpend       float64 `json:"predictedSpend"`
	MonthlyRevenueUplift float64 `json:"monthlyRevenueUplift"`
}

// Object is a detected element with a bounding box in image percentages.
type Object struct {
	Label  string  `json:"label"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Type   string  `json:"type"`
}

const (
	ObjectPositive = "positive"
	ObjectNegative = "negative"
)

const chartFullMark = 100
