// Package inspect implements the 14 domain inspectors and the dispatcher
// that runs them concurrently and assembles a ClusterReport.
package inspect

import (
	"fmt"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"

	"github.com/kubilitics/kube-inspector/internal/report"
	"github.com/kubilitics/kube-inspector/internal/score"
)

// selectorMatches reports whether a LabelSelector matches a label set,
// shared by inspectors that join workloads to selector-based objects
// (PodDisruptionBudgets, Services).
func selectorMatches(sel *metav1.LabelSelector, podLabels map[string]string) (bool, error) {
	selector, err := metav1.LabelSelectorAsSelector(sel)
	if err != nil {
		return false, err
	}
	return selector.Matches(labels.Set(podLabels)), nil
}

// newResult seeds an InspectionResult for typ, stamped "now".
func newResult(typ report.InspectionType) report.InspectionResult {
	return report.InspectionResult{Type: typ, Timestamp: time.Now().UTC()}
}

// seal computes the subscore (arithmetic mean of check scores, clamped) and
// the severity counts, sorts the issue list, and returns the finished
// result. Every inspector funnels its checks and issues through this so the
// §4.3 common contract (subscore rule, issue ordering) is enforced in one
// place rather than reimplemented 14 times.
func seal(res report.InspectionResult, checks []report.CheckResult, issues []report.Issue) report.InspectionResult {
	res.Checks = checks
	report.SortIssues(issues)
	res.Summary.Issues = issues
	for _, issue := range issues {
		switch issue.Severity {
		case report.Critical:
			res.Summary.CriticalCount++
		case report.Warning:
			res.Summary.WarningCount++
		default:
			res.Summary.InfoCount++
		}
	}

	if len(checks) == 0 {
		res.Subscore = 100
		return res
	}
	var sum float64
	for _, c := range checks {
		sum += c.Score
	}
	res.Subscore = clamp(sum / float64(len(checks)))
	return res
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// checkFromIssues builds one CheckResult from the issues raised for a
// single resource kind, using the default severity-weighted rubric (§4.3).
func checkFromIssues(kind, name string, issues []report.Issue) report.CheckResult {
	var crit, warn, info int
	for _, i := range issues {
		switch i.Severity {
		case report.Critical:
			crit++
		case report.Warning:
			warn++
		default:
			info++
		}
	}
	scoreVal := score.ClampCheckScore(crit, warn, info)
	status := report.StatusOk
	switch {
	case crit > 0:
		status = report.StatusCritical
	case warn > 0:
		status = report.StatusWarning
	case info > 0:
		status = report.StatusInfo
	}
	detail := fmt.Sprintf("%d issue(s)", len(issues))
	return report.CheckResult{ResourceKind: kind, CheckName: name, Status: status, Score: scoreVal, Detail: detail}
}

// deadlineCheck produces the dispatcher's documented exception to the
// "Warning/Critical needs a rule code" invariant (§4.2, §8): a synthetic
// CheckResult with no backing Issue, used when ctx's deadline is exceeded
// partway through an inspector.
func deadlineCheck(kind string) report.CheckResult {
	return report.CheckResult{ResourceKind: kind, CheckName: "deadline", Status: report.StatusWarning, Score: 0, Detail: "deadline exceeded"}
}

func ruleTitle(code string) string {
	if info, ok := report.Rules[code]; ok {
		return info.Title
	}
	return code
}
