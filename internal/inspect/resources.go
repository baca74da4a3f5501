package inspect

import (
	"fmt"

	corev1 "k8s.io/api/core/v1"

	"github.com/kubilitics/kube-inspector/internal/quantity"
	"github.com/kubilitics/kube-inspector/internal/report"
)

// InspectResources checks per-container resource requests/limits and
// per-namespace ResourceQuota presence. quotaPresent maps namespace name to
// whether at least one ResourceQuota exists there (shared with the
// policies inspector so the quota list is only fetched once per namespace).
func InspectResources(pods []corev1.Pod, namespaces []corev1.Namespace, quotaPresent map[string]bool) report.InspectionResult {
	res := newResult(report.TypeResources)

	var checks []report.CheckResult
	var issues []report.Issue

	for _, pod := range pods {
		ref := pod.Namespace + "/" + pod.Name
		var podIssues []report.Issue
		for _, c := range pod.Spec.Containers {
			containerRef := ref + "/" + c.Name
			cpuReq := c.Resources.Requests.Cpu().String()
			memReq := c.Resources.Requests.Memory().String()
			cpuLim := c.Resources.Limits.Cpu().String()
			memLim := c.Resources.Limits.Memory().String()

			if quantity.IsZero(cpuReq) {
				podIssues = append(podIssues, report.Issue{
					Severity: report.Warning, Category: "resources", RuleCode: "RES-001",
					Description: fmt.Sprintf("container %s has no CPU request", containerRef), Resource: containerRef,
					Recommendation: "set a CPU request",
				})
			}
			if quantity.IsZero(memReq) {
				podIssues = append(podIssues, report.Issue{
					Severity: report.Warning, Category: "resources", RuleCode: "RES-001",
					Description: fmt.Sprintf("container %s has no memory request", containerRef), Resource: containerRef,
					Recommendation: "set a memory request",
				})
			}
			if quantity.IsZero(cpuLim) {
				podIssues = append(podIssues, report.Issue{
					Severity: report.Warning, Category: "resources", RuleCode: "RES-002",
					Description: fmt.Sprintf("container %s has no CPU limit", containerRef), Resource: containerRef,
					Recommendation: "set a CPU limit",
				})
			}
			if quantity.IsZero(memLim) {
				podIssues = append(podIssues, report.Issue{
					Severity: report.Warning, Category: "resources", RuleCode: "RES-002",
					Description: fmt.Sprintf("container %s has no memory limit", containerRef), Resource: containerRef,
					Recommendation: "set a memory limit",
				})
			}
			if !quantity.IsZero(cpuLim) && !quantity.IsZero(cpuReq) && quantity.Less(cpuLim, cpuReq) {
				podIssues = append(podIssues, report.Issue{
					Severity: report.Warning, Category: "resources", RuleCode: "RES-004",
					Description: fmt.Sprintf("container %s CPU limit is below its request", containerRef), Resource: containerRef,
					Recommendation: "raise the CPU limit to at least the request",
				})
			}
			if !quantity.IsZero(memLim) && !quantity.IsZero(memReq) && quantity.Less(memLim, memReq) {
				podIssues = append(podIssues, report.Issue{
					Severity: report.Warning, Category: "resources", RuleCode: "RES-005",
					Description: fmt.Sprintf("container %s memory limit is below its request", containerRef), Resource: containerRef,
					Recommendation: "raise the memory limit to at least the request",
				})
			}
		}
		if len(podIssues) > 0 {
			checks = append(checks, checkFromIssues("Pod", ref, podIssues))
			issues = append(issues, podIssues...)
		}
	}

	for _, ns := range namespaces {
		if !quotaPresent[ns.Name] {
			issue := report.Issue{
				Severity: report.Warning, Category: "resources", RuleCode: "RES-003",
				Description: fmt.Sprintf("namespace %s has no ResourceQuota", ns.Name), Resource: ns.Name,
				Recommendation: "define a ResourceQuota to bound namespace consumption",
			}
			checks = append(checks, checkFromIssues("Namespace", ns.Name, []report.Issue{issue}))
			issues = append(issues, issue)
		} else {
			checks = append(checks, checkFromIssues("Namespace", ns.Name, nil))
		}
	}

	return seal(res, checks, issues)
}
