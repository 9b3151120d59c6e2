package scoring

import (
	"testing"

	"humanwork/internal/model"
)

func TestAnalyzeBaseline(t *testing.T) {
	result := Analyze("")

	if result.ComplianceScore != 70 || result.QualityScore != 65 || result.TimelineScore != 75 {
		t.Fatalf("baseline scores mismatch: %+v", result)
	}
	if result.Verdict != model.VerdictPartialRefund {
		t.Fatalf("baseline verdict mismatch: %s", result.Verdict)
	}
	if result.Confidence != 0.7 {
		t.Fatalf("baseline confidence mismatch: %v", result.Confidence)
	}
}

func TestAnalyzeFreelancerWin(t *testing.T) {
	result := Analyze("complete, high quality, on time")

	if result.ComplianceScore != 80 {
		t.Fatalf("compliance mismatch: %v", result.ComplianceScore)
	}
	if result.QualityScore != 85 {
		t.Fatalf("quality mismatch: %v", result.QualityScore)
	}
	if result.TimelineScore != 90 {
		t.Fatalf("timeline mismatch: %v", result.TimelineScore)
	}
	if result.Verdict != model.VerdictFreelancerWin {
		t.Fatalf("verdict mismatch: %s", result.Verdict)
	}
	if result.Confidence != 0.85 {
		t.Fatalf("confidence mismatch: %v", result.Confidence)
	}
}

func TestAnalyzeClientWin(t *testing.T) {
	result := Analyze("incomplete, poor quality, delayed")

	if result.ComplianceScore != 50 {
		t.Fatalf("compliance mismatch: %v", result.ComplianceScore)
	}
	if result.QualityScore != 40 {
		t.Fatalf("quality mismatch: %v", result.QualityScore)
	}
	if result.TimelineScore != 50 {
		t.Fatalf("timeline mismatch: %v", result.TimelineScore)
	}
	if result.Verdict != model.VerdictClientWin {
		t.Fatalf("verdict mismatch: %s", result.Verdict)
	}
	if result.Confidence != 0.47 {
		t.Fatalf("confidence mismatch: %v", result.Confidence)
	}
}

func TestAnalyzeScoreBounds(t *testing.T) {
	inputs := []string{
		"",
		"complete approved verified high quality excellent professional on time early",
		"incomplete failed poor quality bugs delayed late",
		"complete incomplete approved failed high quality poor quality on time delayed late",
		"random text with no keywords at all",
	}

	for _, input := range inputs {
		result := Analyze(input)
		for _, score := range []float64{result.ComplianceScore, result.QualityScore, result.TimelineScore} {
			if score < 0 || score > 100 {
				t.Fatalf("score out of bounds for %q: %v", input, score)
			}
		}
		if result.Confidence < 0 || result.Confidence > 0.95 {
			t.Fatalf("confidence out of bounds for %q: %v", input, result.Confidence)
		}
	}
}

func TestAnalyzeConfidenceCapped(t *testing.T) {
	// All three scores clamp to 100; confidence still caps at 0.95.
	result := Analyze("complete approved verified high quality excellent professional on time early")

	if result.ComplianceScore != 100 || result.QualityScore != 100 || result.TimelineScore != 100 {
		t.Fatalf("expected maxed scores, got %+v", result)
	}
	if result.Confidence != 0.95 {
		t.Fatalf("confidence should cap at 0.95, got %v", result.Confidence)
	}
}

func TestVerdictThresholds(t *testing.T) {
	cases := []struct {
		mean float64
		want string
	}{
		{81, model.VerdictFreelancerWin},
		{80, model.VerdictPartialRefund},
		{61, model.VerdictPartialRefund},
		{60, model.VerdictClientWin},
	}

	for _, tc := range cases {
		got, _ := verdictFor(tc.mean)
		if got != tc.want {
			t.Fatalf("verdict for mean %v: got %s, want %s", tc.mean, got, tc.want)
		}
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	first := Analyze("excellent work delivered early")
	second := Analyze("excellent work delivered early")

	if first != second {
		t.Fatalf("analysis not deterministic: %+v != %+v", first, second)
	}
}
