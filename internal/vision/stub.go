package vision

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Stub is a deterministic, no-network analyzer for local runs and CI. The
// same image always yields the same schema-valid report.
type Stub struct{}

func NewStub() *Stub { return &Stub{} }

func (s *Stub) Provider() string { return ProviderStub }

func (s *Stub) Model() string { return "stub" }

func (s *Stub) Analyze(ctx context.Context, image []byte, mimeType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	sum := sha256.Sum256(image)
	short := hex.EncodeToString(sum[:4])

	// Each score draws from its own byte so they vary independently.
	pick := func(i, lo, hi int) int {
		return lo + int(sum[i])%(hi-lo+1)
	}
	overall := pick(0, 60, 95)
	biophilia := pick(2, 10, 90)
	warmth := pick(3, 40, 95)
	social := pick(4, 50, 90)

	out := map[string]any{
		"scores": map[string]any{
			"overall":   overall,
			"saliency":  pick(1, 50, 100),
			"biophilia": biophilia,
			"warmth":    warmth,
			"social":    social,
			"clutter":   pick(5, 30, 95),
		},
		"neuroMetrics": []map[string]any{
			{
				"id":             1,
				"title":          "Dopamine & Appetite Stimulation",
				"score":          float64(pick(6, 50, 95)) / 10,
				"drivers":        []string{"warm pendant lighting", "open kitchen sight line"},
				"neuralImpact":   fmt.Sprintf("Stub analysis %s: reward circuitry engaged by visible food preparation.", short),
				"businessEffect": "Higher appetizer attach rate.",
			},
			{
				"id":             2,
				"title":          "Stress Reduction & Comfort",
				"score":          float64(pick(7, 50, 95)) / 10,
				"drivers":        []string{"upholstered seating", "indirect lighting"},
				"neuralImpact":   "Lower cortisol from soft surfaces and diffuse light.",
				"businessEffect": "Longer dwell time.",
				"tag":            "Quick win",
			},
			{
				"id":             7,
				"title":          "Social Bonding",
				"score":          float64(social) / 10,
				"drivers":        []string{"communal table"},
				"neuralImpact":   "Oxytocin release from shared seating.",
				"businessEffect": "More group bookings.",
			},
		},
		"metrics": []map[string]any{
			{"subject": "Biophilia", "A": biophilia, "B": 85, "fullMark": 100},
			{"subject": "Warmth", "A": warmth, "B": 90, "fullMark": 100},
			{"subject": "Social Layout", "A": social, "B": 80, "fullMark": 100},
			{"subject": "Lighting", "A": pick(8, 40, 95), "B": 95, "fullMark": 100},
			{"subject": "Cleanliness", "A": pick(9, 40, 95), "B": 90, "fullMark": 100},
			{"subject": "Acoustics", "A": pick(10, 40, 90), "B": 75, "fullMark": 100},
		},
		"insights": []map[string]any{
			{"type": "warning", "title": "Cool overhead lighting", "desc": "Swap 4000K fixtures for 2700K warm white.", "impact": "+8% dwell time"},
			{"type": "positive", "title": "Natural materials", "desc": "Reclaimed wood tables read as warm and tactile.", "impact": "+4% perceived value"},
		},
		"financials": map[string]any{
			"currentDwell":         45,
			"predictedDwell":       45 + pick(11, 5, 20),
			"currentSpend":         30,
			"predictedSpend":       30 + pick(12, 2, 10),
			"monthlyRevenueUplift": 1000 * pick(13, 2, 12),
		},
		"objects": []map[string]any{
			{"label": "Pendant lights", "x": 20, "y": 5, "width": 30, "height": 15, "type": "positive"},
			{"label": "Cluttered service station", "x": 70, "y": 55, "width": 20, "height": 25, "type": "negative"},
		},
	}

	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
