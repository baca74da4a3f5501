package inspect

import (
	"strings"

	appsv1 "k8s.io/api/apps/v1"

	"github.com/kubilitics/kube-inspector/internal/report"
)

var logAggregatorNames = []string{"fluent-bit", "fluentd", "vector"}

// InspectObservability checks for the presence of metrics-server,
// kube-state-metrics, a log-aggregation DaemonSet, and a Prometheus stack,
// by name-heuristic across the cluster's workloads (§4.3 OBS-001..OBS-004).
func InspectObservability(deployments []appsv1.Deployment, daemonSets []appsv1.DaemonSet, statefulSets []appsv1.StatefulSet) report.InspectionResult {
	res := newResult(report.TypeObservability)

	metricsServer, kubeStateMetrics, prometheus := false, false, false
	for _, dep := range deployments {
		name := strings.ToLower(dep.Name)
		metricsServer = metricsServer || strings.Contains(name, "metrics-server")
		kubeStateMetrics = kubeStateMetrics || strings.Contains(name, "kube-state-metrics")
		prometheus = prometheus || strings.Contains(name, "prometheus")
	}
	for _, sts := range statefulSets {
		name := strings.ToLower(sts.Name)
		prometheus = prometheus || strings.Contains(name, "prometheus")
	}

	logAggregator := false
	for _, ds := range daemonSets {
		name := strings.ToLower(ds.Name)
		for _, candidate := range logAggregatorNames {
			if strings.Contains(name, candidate) {
				logAggregator = true
			}
		}
	}

	var checks []report.CheckResult
	var issues []report.Issue

	type presenceCheck struct {
		present bool
		code    string
		sev     report.Severity
		desc    string
		rec     string
	}
	for _, pc := range []presenceCheck{
		{metricsServer, "OBS-001", report.Warning, "metrics-server not detected", "install metrics-server for resource-usage visibility and HPA support"},
		{kubeStateMetrics, "OBS-002", report.Info, "kube-state-metrics not detected", "install kube-state-metrics for object-state metrics"},
		{logAggregator, "OBS-003", report.Info, "log-aggregation DaemonSet not detected", "deploy a log shipper such as fluent-bit, fluentd, or vector"},
		{prometheus, "OBS-004", report.Info, "Prometheus stack not detected", "deploy Prometheus or an equivalent metrics backend"},
	} {
		if pc.present {
			checks = append(checks, checkFromIssues("Observability", pc.code, nil))
			continue
		}
		issue := report.Issue{Severity: pc.sev, Category: "observability", RuleCode: pc.code, Description: pc.desc, Recommendation: pc.rec}
		checks = append(checks, checkFromIssues("Observability", pc.code, []report.Issue{issue}))
		issues = append(issues, issue)
	}

	return seal(res, checks, issues)
}
