// Package score implements the weighted-mean scoring engine (§5): each
// inspector reports its own 0-100 subscore, and the engine combines the
// subscores of whichever inspections actually ran into one overall score
// plus an executive summary.
package score

import (
	"github.com/kubilitics/kube-inspector/internal/report"
)

// Weight is the fixed per-inspection contribution to the overall score.
// Inspections absent from the report are excluded from both the numerator
// and denominator,
// so the remaining weights are renormalised automatically by the division.
var Weight = map[report.InspectionType]float64{
	report.TypeNodes:            20,
	report.TypePods:             18,
	report.TypeSecurity:         15,
	report.TypeResources:        12,
	report.TypeNetwork:          10,
	report.TypeStorage:          10,
	report.TypeControlPlane:     8,
	report.TypeCertificates:     5,
	report.TypePolicies:         4,
	report.TypeAutoscaling:      3,
	report.TypeBatch:            3,
	report.TypeObservability:    2,
	report.TypeUpgrade:          2,
	report.TypeNamespaceSummary: 0, // informational only, never scored
}

// topRecommendations bounds the executive summary's recommendation list.
const topRecommendations = 10

// EmptyClusterScore is the neutral default overall score for a cluster with
// no nodes, namespaces, or pods at all (§8 boundary behaviour): there is
// nothing for the weighted mean to measure, so it is bypassed entirely
// rather than reported as a false 100.
const EmptyClusterScore = 75.0

// EmptyClusterRecommendation is the Info-severity note the dispatcher
// attaches to the executive summary whenever EmptyClusterScore applies.
func EmptyClusterRecommendation() report.Recommendation {
	return report.Recommendation{Severity: report.Info, Description: "no resources inspected"}
}

// Overall computes the weighted-mean overall score across the present
// inspections (§5). An inspection with zero weight (namespace-summary)
// never contributes to the mean even when present.
func Overall(inspections []report.InspectionResult) float64 {
	var weightedSum, totalWeight float64
	for _, insp := range inspections {
		w := Weight[insp.Type]
		if w <= 0 {
			continue
		}
		weightedSum += insp.Subscore * w
		totalWeight += w
	}
	if totalWeight == 0 {
		return 0
	}
	score := weightedSum / totalWeight
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// HealthBand maps an overall score to its band label (§5).
func HealthBand(overall float64) string {
	switch {
	case overall >= 90:
		return "Excellent"
	case overall >= 75:
		return "Good"
	case overall >= 60:
		return "Warning"
	case overall >= 40:
		return "Poor"
	default:
		return "Critical"
	}
}

// Summarize builds the ExecutiveSummary: severity counts across every
// inspection's issues, plus the top-N recommendations ranked by severity
// then rule code (§5).
func Summarize(inspections []report.InspectionResult, overall float64) report.ExecutiveSummary {
	summary := report.ExecutiveSummary{HealthBand: HealthBand(overall)}

	var all []report.Issue
	for _, insp := range inspections {
		summary.CriticalCount += insp.Summary.CriticalCount
		summary.WarningCount += insp.Summary.WarningCount
		summary.InfoCount += insp.Summary.InfoCount
		all = append(all, insp.Summary.Issues...)
	}

	report.SortIssues(all)

	n := topRecommendations
	if n > len(all) {
		n = len(all)
	}
	summary.Recommendations = make([]report.Recommendation, 0, n)
	for i := 0; i < n; i++ {
		issue := all[i]
		summary.Recommendations = append(summary.Recommendations, report.Recommendation{
			Severity:    issue.Severity,
			RuleCode:    issue.RuleCode,
			Description: issue.Description,
			Resource:    issue.Resource,
		})
	}

	return summary
}

// ClampCheckScore applies the default per-check scoring rubric (§5):
// start at 100, subtract 10 per Critical issue, 3 per Warning, 1 per Info,
// clamp to [0, 100]. Inspectors that compute a check's score directly
// (rather than deriving it from issue counts) do not use this helper.
func ClampCheckScore(criticalCount, warningCount, infoCount int) float64 {
	s := 100.0 - float64(criticalCount)*10 - float64(warningCount)*3 - float64(infoCount)*1
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
