package inspect

import (
	"fmt"

	corev1 "k8s.io/api/core/v1"

	"github.com/kubilitics/kube-inspector/internal/report"
)

// mountPressureWarn/Crit are the NODE-004/NODE-005 thresholds (§4.3).
const (
	mountPressureWarnPct = 60.0
	mountPressureCritPct = 90.0
)

// InspectNodes evaluates node readiness, pressure conditions, zombie
// processes (sourced from the node-agent payload when available), and disk
// mount usage. listErr propagates a failed node list as a single Warning
// Issue (§7 PermanentClusterError: nodes are essential to this inspector).
func InspectNodes(nodes []corev1.Node, listErr error, agentNodes []report.NodeInspectionResult) report.InspectionResult {
	res := newResult(report.TypeNodes)

	if listErr != nil {
		issue := report.Issue{Severity: report.Warning, Category: "nodes", Description: "cannot list nodes: " + listErr.Error(), Recommendation: "verify RBAC access to list nodes"}
		return seal(res, []report.CheckResult{{ResourceKind: "Node", CheckName: "list", Status: report.StatusWarning, Score: 0, Detail: listErr.Error()}}, []report.Issue{issue})
	}

	agentByName := make(map[string]report.NodeInspectionResult, len(agentNodes))
	for _, n := range agentNodes {
		agentByName[n.NodeName] = n
	}

	var checks []report.CheckResult
	var issues []report.Issue

	for _, node := range nodes {
		var nodeIssues []report.Issue
		ready := conditionStatus(node, corev1.NodeReady)
		if ready != corev1.ConditionTrue {
			nodeIssues = append(nodeIssues, report.Issue{
				Severity: report.Critical, Category: "nodes", RuleCode: "NODE-001",
				Description: fmt.Sprintf("node %s is not Ready", node.Name), Resource: node.Name,
				Recommendation: "investigate kubelet health and node conditions",
			})
		}
		for _, condType := range []corev1.NodeConditionType{corev1.NodeMemoryPressure, corev1.NodeDiskPressure, corev1.NodePIDPressure} {
			if conditionStatus(node, condType) == corev1.ConditionTrue {
				nodeIssues = append(nodeIssues, report.Issue{
					Severity: report.Warning, Category: "nodes", RuleCode: "NODE-002",
					Description: fmt.Sprintf("node %s reports %s", node.Name, condType), Resource: node.Name,
					Recommendation: "free up the pressured resource or scale the node pool",
				})
			}
		}

		if agent, ok := agentByName[node.Name]; ok {
			if agent.ZombieCount != nil && *agent.ZombieCount > 0 {
				nodeIssues = append(nodeIssues, report.Issue{
					Severity: report.Warning, Category: "nodes", RuleCode: "NODE-003",
					Description: fmt.Sprintf("node %s has %d zombie process(es)", node.Name, *agent.ZombieCount), Resource: node.Name,
					Recommendation: "investigate processes stuck in defunct state",
				})
			}
			for _, disk := range agent.Disks {
				switch {
				case disk.UsedPct >= mountPressureCritPct:
					nodeIssues = append(nodeIssues, report.Issue{
						Severity: report.Critical, Category: "nodes", RuleCode: "NODE-005",
						Description: fmt.Sprintf("mount %s on %s at %.1f%% used", disk.MountPoint, node.Name, disk.UsedPct), Resource: node.Name,
						Recommendation: "free disk space or expand the volume",
					})
				case disk.UsedPct >= mountPressureWarnPct:
					nodeIssues = append(nodeIssues, report.Issue{
						Severity: report.Warning, Category: "nodes", RuleCode: "NODE-004",
						Description: fmt.Sprintf("mount %s on %s at %.1f%% used", disk.MountPoint, node.Name, disk.UsedPct), Resource: node.Name,
						Recommendation: "monitor disk usage trend",
					})
				}
			}
		}

		checks = append(checks, checkFromIssues("Node", node.Name, nodeIssues))
		issues = append(issues, nodeIssues...)
	}

	return seal(res, checks, issues)
}

func conditionStatus(node corev1.Node, typ corev1.NodeConditionType) corev1.ConditionStatus {
	for _, c := range node.Status.Conditions {
		if c.Type == typ {
			return c.Status
		}
	}
	return corev1.ConditionUnknown
}
