package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// RenderCSV flattens every Issue across all inspections into one row each:
// category, severity, code, resource, description, recommendation (§4.6).
func RenderCSV(r *ClusterReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"category", "severity", "code", "resource", "description", "recommendation"}); err != nil {
		return nil, err
	}
	for _, insp := range r.Inspections {
		for _, issue := range insp.Summary.Issues {
			row := []string{
				string(insp.Type),
				issue.Severity.String(),
				issue.RuleCode,
				issue.Resource,
				issue.Description,
				issue.Recommendation,
			}
			if err := w.Write(row); err != nil {
				return nil, fmt.Errorf("write csv row: %w", err)
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
