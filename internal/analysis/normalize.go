package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseError is returned when the model output is not a JSON object.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse ai response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// StripFences removes a surrounding markdown code fence, optionally tagged
// json. Text without a leading fence is only trimmed.
func StripFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if len(trimmed) >= 4 && strings.EqualFold(trimmed[:4], "json") {
		trimmed = trimmed[4:]
	}
	trimmed = strings.TrimSpace(trimmed)
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}

// Parse decodes the model output into a generic document.
func Parse(raw string) (map[string]any, error) {
	cleaned := StripFences(raw)
	if cleaned == "" {
		return nil, &ParseError{Err: fmt.Errorf("empty response")}
	}
	var decoded any
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return nil, &ParseError{Err: err}
	}
	switch doc := decoded.(type) {
	case map[string]any:
		return doc, nil
	case nil:
		return map[string]any{}, nil
	default:
		return nil, &ParseError{Err: fmt.Errorf("expected JSON object, got %s", describe(decoded))}
	}
}

// Normalizer fills gaps in model output from a Defaults table.
type Normalizer struct {
	defaults Defaults
}

// NewNormalizer builds a Normalizer around defaults.
func NewNormalizer(defaults Defaults) *Normalizer {
	return &Normalizer{defaults: defaults}
}

// Process parses raw model output and returns a complete, decorated Result.
// Only parsing can fail.
func (n *Normalizer) Process(raw string) (*Result, error) {
	doc, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	result := n.Normalize(doc)
	Decorate(result)
	return result, nil
}

// Normalize maps doc onto Result, substituting defaults field by field.
func (n *Normalizer) Normalize(doc map[string]any) *Result {
	if doc == nil {
		doc = map[string]any{}
	}
	result := &Result{}
	result.Scores = n.scores(object(doc["scores"]))
	result.Financials = n.financials(object(doc["financials"]))
	result.Metrics = n.chartMetrics(doc["metrics"], result.Scores)
	result.NeuroMetrics = n.neuroMetrics(doc["neuroMetrics"], result.Scores)
	result.Insights = insights(doc["insights"])
	result.Objects = detectedObjects(doc["objects"])
	return result
}

func (n *Normalizer) scores(src map[string]any) Scores {
	def := n.defaults.Scores
	score := func(key string, fallback int) int {
		return clampInt(intOr(src[key], fallback), 0, 100)
	}
	return Scores{
		Overall:   score("overall", def.Overall),
		Saliency:  score("saliency", def.Saliency),
		Biophilia: score("biophilia", def.Biophilia),
		Warmth:    score("warmth", def.Warmth),
		Social:    score("social", def.Social),
		Clutter:   score("clutter", def.Clutter),
	}
}

func (n *Normalizer) financials(src map[string]any) Financials {
	def := n.defaults.Financials
	return Financials{
		CurrentDwell:         numberOr(src["currentDwell"], def.CurrentDwell),
		PredictedDwell:       numberOr(src["predictedDwell"], def.PredictedDwell),
		CurrentSpend:         numberOr(src["currentSpend"], def.CurrentSpend),
		PredictedSpend:       numberOr(src["predictedSpend"], def.PredictedSpend),
		MonthlyRevenueUplift: numberOr(src["monthlyRevenueUplift"], def.MonthlyRevenueUplift),
	}
}

func (n *Normalizer) chartMetrics(value any, scores Scores) []ChartMetric {
	out := []ChartMetric{}
	for _, entry := range objects(value) {
		subject := text(entry["subject"])
		if subject == "" {
			continue
		}
		out = append(out, ChartMetric{
			Subject:  subject,
			A:        clampFloat(numberOr(entry["A"], 0), 0, chartFullMark),
			B:        clampFloat(numberOr(entry["B"], 0), 0, chartFullMark),
			FullMark: chartFullMark,
		})
	}
	if len(out) > 0 {
		return out
	}
	for _, target := range n.defaults.ChartTargets {
		current := target.Current
		if v, ok := scores.byKey(target.ScoreKey); ok {
			current = float64(v)
		}
		out = append(out, ChartMetric{
			Subject:  target.Subject,
			A:        current,
			B:        target.Target,
			FullMark: chartFullMark,
		})
	}
	return out
}

func (n *Normalizer) neuroMetrics(value any, scores Scores) []NeuroMetric {
	defaultScore := round1(float64(scores.Overall) / 10)
	out := []NeuroMetric{}
	for i, entry := range objects(value) {
		id := intOr(entry["id"], 0)
		if id <= 0 {
			id = i + 1
		}
		score := defaultScore
		if f, ok := number(entry["score"]); ok {
			score = round1(clampFloat(f, 0, 10))
		}
		out = append(out, NeuroMetric{
			ID:             id,
			Title:          text(entry["title"]),
			Score:          score,
			Drivers:        textList(entry["drivers"]),
			NeuralImpact:   text(entry["neuralImpact"]),
			BusinessEffect: text(entry["businessEffect"]),
			Tag:            text(entry["tag"]),
		})
	}
	if len(out) > 0 {
		return out
	}
	for _, placeholder := range n.defaults.Placeholders {
		card := placeholder
		card.Drivers = append([]string{}, placeholder.Drivers...)
		if card.Score == 0 {
			card.Score = defaultScore
		}
		out = append(out, card)
	}
	return out
}

func insights(value any) []Insight {
	out := []Insight{}
	for _, entry := range objects(value) {
		kind := strings.ToLower(text(entry["type"]))
		if kind == "" {
			kind = "info"
		}
		desc := text(entry["desc"])
		if desc == "" {
			desc = text(entry["description"])
		}
		out = append(out, Insight{
			Type:   kind,
			Title:  text(entry["title"]),
			Desc:   desc,
			Impact: text(entry["impact"]),
		})
	}
	return out
}

func detectedObjects(value any) []Object {
	out := []Object{}
	for _, entry := range objects(value) {
		kind := ObjectPositive
		if strings.EqualFold(text(entry["type"]), ObjectNegative) {
			kind = ObjectNegative
		}
		out = append(out, Object{
			Label:  text(entry["label"]),
			X:      clampFloat(numberOr(entry["x"], 0), 0, 100),
			Y:      clampFloat(numberOr(entry["y"], 0), 0, 100),
			Width:  clampFloat(numberOr(entry["width"], 0), 0, 100),
			Height: clampFloat(numberOr(entry["height"], 0), 0, 100),
			Type:   kind,
		})
	}
	return out
}
