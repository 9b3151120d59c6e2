// Package scoring implements the rule-based dispute analysis engine.
// Scoring is deterministic: the same context string always yields the
// same verdict, so re-running an analysis is safe.
package scoring

import (
	"math"
	"strings"

	"humanwork/internal/model"
)

// Result holds the outcome of one dispute analysis. Sub-scores are in
// [0,100]; confidence is in [0,0.95].
type Result struct {
	ComplianceScore float64
	QualityScore    float64
	TimelineScore   float64
	Verdict         string
	Confidence      float64
	Reasoning       string
}

const (
	complianceBaseline = 70
	qualityBaseline    = 65
	timelineBaseline   = 75

	maxConfidence = 0.95
)

// Analyze scores free-text dispute context against fixed keyword rules
// and derives a verdict from the mean of the three sub-scores.
func Analyze(details string) Result {
	compliance := complianceScore(details)
	quality := qualityScore(details)
	timeline := timelineScore(details)

	mean := (compliance + quality + timeline) / 3
	verdict, reasoning := verdictFor(mean)

	return Result{
		ComplianceScore: round2(compliance),
		QualityScore:    round2(quality),
		TimelineScore:   round2(timeline),
		Verdict:         verdict,
		Confidence:      round2(math.Min(mean/100, maxConfidence)),
		Reasoning:       reasoning,
	}
}

func complianceScore(details string) float64 {
	score := float64(complianceBaseline)
	// "incomplete" contains "complete"; the negative match wins.
	if strings.Contains(details, "incomplete") {
		score -= 20
	} else if strings.Contains(details, "complete") {
		score += 10
	}
	if strings.Contains(details, "approved") {
		score += 10
	}
	if strings.Contains(details, "verified") {
		score += 10
	}
	if strings.Contains(details, "failed") {
		score -= 15
	}
	return clamp(score)
}

func qualityScore(details string) float64 {
	score := float64(qualityBaseline)
	if strings.Contains(details, "high quality") {
		score += 20
	}
	if strings.Contains(details, "excellent") {
		score += 15
	}
	if strings.Contains(details, "professional") {
		score += 10
	}
	if strings.Contains(details, "poor quality") {
		score -= 25
	}
	if strings.Contains(details, "bugs") {
		score -= 15
	}
	return clamp(score)
}

func timelineScore(details string) float64 {
	score := float64(timelineBaseline)
	if strings.Contains(details, "on time") {
		score += 15
	}
	if strings.Contains(details, "early") {
		score += 20
	}
	if strings.Contains(details, "delayed") {
		score -= 25
	}
	if strings.Contains(details, "late") {
		score -= 20
	}
	return clamp(score)
}

// verdictFor picks the verdict by mean score. Boundaries are strictly
// greater than: 80 falls to PARTIAL_REFUND, 60 falls to CLIENT_WIN.
func verdictFor(mean float64) (string, string) {
	switch {
	case mean > 80:
		return model.VerdictFreelancerWin, "Strong evidence of work completion and quality standards met"
	case mean > 60:
		return model.VerdictPartialRefund, "Mixed evidence, partial compensation recommended based on work completed"
	default:
		return model.VerdictClientWin, "Insufficient work quality or completion requirements not met"
	}
}

func clamp(score float64) float64 {
	return math.Max(0, math.Min(100, score))
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
