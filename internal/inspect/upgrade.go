package inspect

import (
	"fmt"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/version"

	"github.com/kubilitics/kube-inspector/internal/report"
)

// InspectUpgrade compares each node's kubelet minor version against the
// API-server minor version and emits a severity that escalates with the
// skew (§4.3 UPGRADE-001: Info at 1 minor, Warning at 2, Critical at 3+).
func InspectUpgrade(nodes []corev1.Node, serverVersion string) report.InspectionResult {
	res := newResult(report.TypeUpgrade)

	var checks []report.CheckResult
	var issues []report.Issue

	serverVer, err := version.ParseGeneric(serverVersion)
	if err != nil {
		checks = append(checks, report.CheckResult{ResourceKind: "APIServer", CheckName: "version", Status: report.StatusWarning, Score: 50, Detail: "cannot parse API server version: " + err.Error()})
		return seal(res, checks, issues)
	}

	for _, node := range nodes {
		kubeletVersion := node.Status.NodeInfo.KubeletVersion
		nodeVer, err := version.ParseGeneric(kubeletVersion)
		if err != nil {
			checks = append(checks, report.CheckResult{ResourceKind: "Node", CheckName: "kubelet-version", Status: report.StatusWarning, Score: 50, Detail: "cannot parse kubelet version: " + err.Error()})
			continue
		}

		skew := minorSkew(serverVer, nodeVer)
		if skew <= 0 {
			checks = append(checks, checkFromIssues("Node", node.Name, nil))
			continue
		}

		severity := report.Info
		switch {
		case skew >= 3:
			severity = report.Critical
		case skew == 2:
			severity = report.Warning
		}
		issue := report.Issue{
			Severity: severity, Category: "upgrade", RuleCode: "UPGRADE-001",
			Description: fmt.Sprintf("node %s kubelet %s is %d minor version(s) behind API server %s", node.Name, kubeletVersion, skew, serverVersion), Resource: node.Name,
			Recommendation: "upgrade the kubelet to within one minor version of the control plane",
		}
		checks = append(checks, checkFromIssues("Node", node.Name, []report.Issue{issue}))
		issues = append(issues, issue)
	}

	return seal(res, checks, issues)
}

func minorSkew(server, node *version.Version) int {
	skew := int(server.Minor()) - int(node.Minor())
	if server.Major() != node.Major() {
		skew += (int(server.Major()) - int(node.Major())) * 100
	}
	if skew < 0 {
		return -skew
	}
	return skew
}
