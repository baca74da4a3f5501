package score

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kubilitics/kube-inspector/internal/report"
)

func TestOverallWeightedMean(t *testing.T) {
	inspections := []report.InspectionResult{
		{Type: report.TypeNodes, Subscore: 100},    // weight 20
		{Type: report.TypePods, Subscore: 50},      // weight 18
		{Type: report.TypeNamespaceSummary, Subscore: 0}, // weight 0, excluded
	}
	got := Overall(inspections)
	want := (100*Weight[report.TypeNodes] + 50*Weight[report.TypePods]) / (Weight[report.TypeNodes] + Weight[report.TypePods])
	assert.InDelta(t, want, got, 0.05)
	assert.GreaterOrEqual(t, got, 0.0)
	assert.LessOrEqual(t, got, 100.0)
}

func TestOverallNoWeightedInspectionsReturnsZero(t *testing.T) {
	got := Overall([]report.InspectionResult{{Type: report.TypeNamespaceSummary, Subscore: 100}})
	assert.Equal(t, 0.0, got)
}

func TestHealthBandThresholds(t *testing.T) {
	cases := []struct {
		score float64
		band  string
	}{
		{95, "Excellent"},
		{90, "Excellent"},
		{89.9, "Good"},
		{75, "Good"},
		{74.9, "Warning"},
		{60, "Warning"},
		{59.9, "Poor"},
		{40, "Poor"},
		{39.9, "Critical"},
		{0, "Critical"},
	}
	for _, c := range cases {
		assert.Equal(t, c.band, HealthBand(c.score), "score %v", c.score)
	}
}

func TestClampCheckScore(t *testing.T) {
	assert.Equal(t, 100.0, ClampCheckScore(0, 0, 0))
	assert.Equal(t, 0.0, ClampCheckScore(20, 0, 0)) // clamps instead of going negative
	assert.Equal(t, 87.0, ClampCheckScore(0, 0, 13))
	assert.Equal(t, 90.0, ClampCheckScore(1, 0, 0))
}

func TestSummarizeOrdersIssuesAndCountsSeverities(t *testing.T) {
	inspections := []report.InspectionResult{
		{
			Type: report.TypePods,
			Summary: report.InspectionSummary{
				CriticalCount: 1,
				WarningCount:  1,
				InfoCount:     1,
				Issues: []report.Issue{
					{Severity: report.Warning, RuleCode: "POD-003", Resource: "b"},
					{Severity: report.Critical, RuleCode: "POD-001", Resource: "a"},
					{Severity: report.Info, RuleCode: "POD-011", Resource: "c"},
				},
			},
		},
	}
	summary := Summarize(inspections, 80)
	assert.Equal(t, 1, summary.CriticalCount)
	assert.Equal(t, 1, summary.WarningCount)
	assert.Equal(t, 1, summary.InfoCount)
	assert.NotEmpty(t, summary.Recommendations)
	assert.Equal(t, "POD-001", summary.Recommendations[0].RuleCode) // Critical sorts first
}
