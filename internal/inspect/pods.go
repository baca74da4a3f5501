package inspect

import (
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"

	"github.com/kubilitics/kube-inspector/internal/report"
)

// containerCreatingGrace and notReadyGrace bound how long a pod may sit in
// a transitional state before it is treated as stuck (POD-008, POD-012).
const (
	containerCreatingGrace = 10 * time.Minute
	notReadyGrace          = 5 * time.Minute
)

// waitingReasonCodes maps a container's waiting.reason to its rule code
// and severity (§4.3).
var waitingReasonCodes = map[string]struct {
	code     string
	severity report.Severity
}{
	"ImagePullBackOff":            {"POD-005", report.Warning},
	"ErrImagePull":                {"POD-006", report.Warning},
	"CrashLoopBackOff":            {"POD-007", report.Critical},
	"CreateContainerConfigError":  {"POD-009", report.Warning},
}

// InspectPods evaluates pod phase, scheduling, container status, restart
// counts, and readiness staleness. restartWarnThreshold/restartCritThreshold
// implement the two-tier POD-003 rule left open by §9 design note (a).
func InspectPods(pods []corev1.Pod, restartWarnThreshold, restartCritThreshold int32) report.InspectionResult {
	res := newResult(report.TypePods)

	var checks []report.CheckResult
	var issues []report.Issue
	var stateTables []report.PodContainerStateRow

	for _, pod := range pods {
		ref := pod.Namespace + "/" + pod.Name
		var podIssues []report.Issue

		if pod.Status.Phase == corev1.PodFailed {
			podIssues = append(podIssues, report.Issue{
				Severity: report.Critical, Category: "pods", RuleCode: "POD-001",
				Description: fmt.Sprintf("pod %s is in Failed phase", ref), Resource: ref,
				Recommendation: "inspect pod events and container termination reasons",
			})
		}

		for _, cond := range pod.Status.Conditions {
			if cond.Type == corev1.PodScheduled && cond.Status == corev1.ConditionFalse && cond.Reason == "Unschedulable" {
				podIssues = append(podIssues, report.Issue{
					Severity: report.Warning, Category: "pods", RuleCode: "POD-002",
					Description: fmt.Sprintf("pod %s is unschedulable: %s", ref, cond.Message), Resource: ref,
					Recommendation: "check node capacity, taints, and affinity rules",
				})
			}
			if cond.Type == corev1.PodReady && cond.Status == corev1.ConditionFalse && pod.Status.Phase == corev1.PodRunning {
				if time.Since(cond.LastTransitionTime.Time) > notReadyGrace {
					podIssues = append(podIssues, report.Issue{
						Severity: report.Warning, Category: "pods", RuleCode: "POD-012",
						Description: fmt.Sprintf("pod %s has been Running but not Ready since %s", ref, cond.LastTransitionTime.Time.Format(time.RFC3339)), Resource: ref,
						Recommendation: "check readiness probe configuration and dependency health",
					})
				}
			}
		}

		var maxRestarts int32
		for _, cs := range pod.Status.ContainerStatuses {
			if cs.RestartCount > maxRestarts {
				maxRestarts = cs.RestartCount
			}
			containerRef := ref + "/" + cs.Name
			stateTables = append(stateTables, containerStateRow(ref, cs))

			if cs.State.Waiting != nil {
				if entry, ok := waitingReasonCodes[cs.State.Waiting.Reason]; ok {
					podIssues = append(podIssues, report.Issue{
						Severity: entry.severity, Category: "pods", RuleCode: entry.code,
						Description: fmt.Sprintf("container %s waiting: %s", containerRef, cs.State.Waiting.Reason), Resource: containerRef,
						Recommendation: "check " + ruleTitle(entry.code),
					})
				}
				if cs.State.Waiting.Reason == "ContainerCreating" && time.Since(pod.CreationTimestamp.Time) > containerCreatingGrace {
					podIssues = append(podIssues, report.Issue{
						Severity: report.Warning, Category: "pods", RuleCode: "POD-008",
						Description: fmt.Sprintf("container %s stuck in ContainerCreating", containerRef), Resource: containerRef,
						Recommendation: "check image pull, volume mounts, and CNI health",
					})
				}
			}
			if cs.State.Terminated != nil {
				switch {
				case cs.State.Terminated.Reason == "OOMKilled":
					podIssues = append(podIssues, report.Issue{
						Severity: report.Critical, Category: "pods", RuleCode: "POD-010",
						Description: fmt.Sprintf("container %s was OOMKilled", containerRef), Resource: containerRef,
						Recommendation: "raise the memory limit or fix the memory leak",
					})
				case cs.State.Terminated.ExitCode != 0:
					podIssues = append(podIssues, report.Issue{
						Severity: report.Warning, Category: "pods", RuleCode: "POD-011",
						Description: fmt.Sprintf("container %s exited with code %d", containerRef, cs.State.Terminated.ExitCode), Resource: containerRef,
						Recommendation: "inspect container logs for the failure cause",
					})
				}
			}
		}

		if maxRestarts >= restartWarnThreshold {
			sev := report.Warning
			if maxRestarts >= restartCritThreshold {
				sev = report.Critical
			}
			podIssues = append(podIssues, report.Issue{
				Severity: sev, Category: "pods", RuleCode: "POD-003",
				Description: fmt.Sprintf("pod %s has a container with %d restarts", ref, maxRestarts), Resource: ref,
				Recommendation: "inspect container logs for the crash cause",
			})
		}

		checks = append(checks, checkFromIssues("Pod", ref, podIssues))
		issues = append(issues, podIssues...)
	}

	res = seal(res, checks, issues)
	res.PodContainerStates = stateTables
	return res
}

func containerStateRow(podRef string, cs corev1.ContainerStatus) report.PodContainerStateRow {
	row := report.PodContainerStateRow{Resource: podRef, Container: cs.Name, RestartCount: cs.RestartCount}
	switch {
	case cs.State.Running != nil:
		row.State = "Running"
	case cs.State.Waiting != nil:
		row.State = "Waiting"
		row.Reason = cs.State.Waiting.Reason
	case cs.State.Terminated != nil:
		row.State = "Terminated"
		row.Reason = cs.State.Terminated.Reason
	}
	return row
}
