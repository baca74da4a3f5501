package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleReport() *ClusterReport {
	return &ClusterReport{
		ClusterName:      "demo",
		ReportID:         "r-1",
		GeneratedAt:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		DisplayTimestamp: "2026-03-01 12:00:00 UTC",
		OverallScore:     91.2,
		ExecutiveSummary: ExecutiveSummary{HealthBand: "Excellent"},
		Inspections: []InspectionResult{
			{
				Type: TypeStorage,
				Summary: InspectionSummary{
					WarningCount: 1,
					Issues: []Issue{
						{Severity: Warning, Category: "storage", RuleCode: "STO-009", Resource: "cluster", Description: "no default StorageClass"},
					},
				},
			},
		},
	}
}

func TestRenderMarkdownIsDeterministic(t *testing.T) {
	r := sampleReport()
	a, err := RenderMarkdown(r)
	assert.NoError(t, err)
	b, err := RenderMarkdown(r)
	assert.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Contains(t, string(a), "STO-009")
}

func TestRenderHTMLIsDeterministic(t *testing.T) {
	r := sampleReport()
	a, err := RenderHTML(r)
	assert.NoError(t, err)
	b, err := RenderHTML(r)
	assert.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Contains(t, string(a), "<html")
}

func TestRenderCSVFlattensIssues(t *testing.T) {
	r := sampleReport()
	b, err := RenderCSV(r)
	assert.NoError(t, err)
	out := string(b)
	assert.Contains(t, out, "category,severity,code,resource,description,recommendation")
	assert.Contains(t, out, "STO-009")
	assert.Contains(t, out, "Warning")
}

func TestRuleDocLinkFallsBackWhenCodeUnknown(t *testing.T) {
	assert.Equal(t, "docs/issues/FAKE-999.md", RuleDocLink("FAKE-999"))
}
