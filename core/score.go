package core

import (
	"math"

	"github.com/huangsam/dqscore/internal/contract"
	"github.com/huangsam/dqscore/schema"
)

// failurePenalty is the fraction of a check's quality score lost when it fails.
// It is a fixed linear penalty and does not depend on how badly the check failed.
const failurePenalty = 0.5

// WeightedScore returns the contribution of one test to its field score.
// A passing test contributes its full quality score and a failing one loses half of it.
// The result is never negative.
func WeightedScore(t schema.QualityTest) float64 {
	base := float64(t.Config.QualityScore)
	penalty := 0.0
	if !t.Config.Success {
		penalty = 1.0
	}
	return math.Max(0, base-penalty*(base*failurePenalty))
}

// FieldScore returns the mean weighted score across the panel's tests, or 0 for an empty panel.
func FieldScore(p schema.FieldPanel) float64 {
	if len(p.Tests) == 0 {
		return 0
	}
	scores := make([]float64, len(p.Tests))
	for i, t := range p.Tests {
		scores[i] = WeightedScore(t)
	}
	return mean(scores)
}

// OverallScore returns the unweighted mean of field scores, or 0 for an empty dashboard.
// A field with one test counts the same as a field with ten.
func OverallScore(d schema.Dashboard) float64 {
	if len(d.Panels) == 0 {
		return 0
	}
	scores := make([]float64, len(d.Panels))
	for i, p := range d.Panels {
		scores[i] = FieldScore(p)
	}
	return mean(scores)
}

// ChecksSummary counts passed and failed tests and derives the rounded pass rate and average score.
// An empty panel yields an all-zero summary.
func ChecksSummary(p schema.FieldPanel) schema.ChecksSummary {
	total := len(p.Tests)
	if total == 0 {
		return schema.ChecksSummary{}
	}
	passed := 0
	for _, t := range p.Tests {
		if t.Config.Success {
			passed++
		}
	}
	return schema.ChecksSummary{
		TotalChecks:     total,
		Passed:          passed,
		Failed:          total - passed,
		PassRate:        round2(100 * float64(passed) / float64(total)),
		AvgQualityScore: round2(FieldScore(p)),
	}
}

// Summarize derives the display-ready summary for every panel, in panel order.
func Summarize(d schema.Dashboard) schema.DashboardSummary {
	fields := make([]schema.FieldSummary, len(d.Panels))
	for i, p := range d.Panels {
		fields[i] = schema.FieldSummary{Column: p.Column, ChecksSummary: ChecksSummary(p)}
	}
	return schema.DashboardSummary{
		Fields:          fields,
		OverallScore:    OverallScore(d),
		MaxQualityScore: maxQualityScore(d),
	}
}

// Label returns the display label of a score relative to the summary's best achievable score.
func Label(s schema.DashboardSummary, score float64) string {
	return contract.GetPlainLabel(s.Percent(score))
}

func maxQualityScore(d schema.Dashboard) int {
	best := 0
	for _, p := range d.Panels {
		for _, t := range p.Tests {
			best = max(best, t.Config.QualityScore)
		}
	}
	return best
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
