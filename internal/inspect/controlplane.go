package inspect

import (
	"fmt"

	corev1 "k8s.io/api/core/v1"

	"github.com/kubilitics/kube-inspector/internal/report"
)

// staticPodPrefixes heuristically identifies control-plane static pods by
// name prefix, since they carry no owner reference to key off.
var staticPodPrefixes = []string{"kube-apiserver", "kube-controller-manager", "kube-scheduler", "etcd"}

// InspectControlPlane evaluates legacy componentstatus health (where
// exposed) and static control-plane pod readiness in kube-system
// (§4.3 CTRL-001, CTRL-002).
func InspectControlPlane(componentStatuses []corev1.ComponentStatus, kubeSystemPods []corev1.Pod) report.InspectionResult {
	res := newResult(report.TypeControlPlane)

	var checks []report.CheckResult
	var issues []report.Issue

	for _, cs := range componentStatuses {
		healthy := true
		for _, cond := range cs.Conditions {
			if cond.Type == corev1.ComponentHealthy && cond.Status != corev1.ConditionTrue {
				healthy = false
			}
		}
		if !healthy {
			issue := report.Issue{
				Severity: report.Critical, Category: "control-plane", RuleCode: "CTRL-001",
				Description: fmt.Sprintf("componentstatus %s is unhealthy", cs.Name), Resource: cs.Name,
				Recommendation: "inspect the component's logs and health endpoint",
			}
			checks = append(checks, checkFromIssues("ComponentStatus", cs.Name, []report.Issue{issue}))
			issues = append(issues, issue)
		} else {
			checks = append(checks, checkFromIssues("ComponentStatus", cs.Name, nil))
		}
	}

	for _, pod := range kubeSystemPods {
		if !isStaticPodCandidate(pod.Name) {
			continue
		}
		ready := false
		for _, cond := range pod.Status.Conditions {
			if cond.Type == corev1.PodReady && cond.Status == corev1.ConditionTrue {
				ready = true
			}
		}
		ref := pod.Namespace + "/" + pod.Name
		if !ready {
			issue := report.Issue{
				Severity: report.Critical, Category: "control-plane", RuleCode: "CTRL-002",
				Description: fmt.Sprintf("static pod %s is not Ready", ref), Resource: ref,
				Recommendation: "check the kubelet and the component's own logs on the hosting node",
			}
			checks = append(checks, checkFromIssues("Pod", ref, []report.Issue{issue}))
			issues = append(issues, issue)
		} else {
			checks = append(checks, checkFromIssues("Pod", ref, nil))
		}
	}

	return seal(res, checks, issues)
}

func isStaticPodCandidate(name string) bool {
	for _, prefix := range staticPodPrefixes {
		if len(name) >= len(prefix) && name[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}
