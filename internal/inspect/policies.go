package inspect

import (
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	policyv1 "k8s.io/api/policy/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/kubilitics/kube-inspector/internal/report"
)

// criticalWorkloadMinReplicas is the replica floor for the POLICY-003
// "critical workload" heuristic (Deployment with replicas>=2 in a
// non-system namespace).
const criticalWorkloadMinReplicas = 2

// InspectPolicies evaluates ResourceQuota/LimitRange presence and
// PodDisruptionBudget coverage and sanity (§4.3 POLICY-001..POLICY-004).
// quotaPresent/limitRangePresent are shared with the resources inspector so
// each namespace's quota/limit-range objects are listed only once.
func InspectPolicies(namespaces []corev1.Namespace, quotaPresent, limitRangePresent map[string]bool, deployments []appsv1.Deployment, pdbs []policyv1.PodDisruptionBudget) report.InspectionResult {
	res := newResult(report.TypePolicies)

	var checks []report.CheckResult
	var issues []report.Issue

	for _, ns := range namespaces {
		if systemNamespaces[ns.Name] {
			continue
		}
		var nsIssues []report.Issue
		if !quotaPresent[ns.Name] {
			nsIssues = append(nsIssues, report.Issue{
				Severity: report.Info, Category: "policies", RuleCode: "POLICY-001",
				Description: fmt.Sprintf("namespace %s has no ResourceQuota", ns.Name), Resource: ns.Name,
				Recommendation: "define a ResourceQuota",
			})
		}
		if !limitRangePresent[ns.Name] {
			nsIssues = append(nsIssues, report.Issue{
				Severity: report.Info, Category: "policies", RuleCode: "POLICY-002",
				Description: fmt.Sprintf("namespace %s has no LimitRange", ns.Name), Resource: ns.Name,
				Recommendation: "define a LimitRange for default requests/limits",
			})
		}
		checks = append(checks, checkFromIssues("Namespace", ns.Name, nsIssues))
		issues = append(issues, nsIssues...)
	}

	pdbByNamespace := make(map[string][]policyv1.PodDisruptionBudget, len(pdbs))
	for _, pdb := range pdbs {
		pdbByNamespace[pdb.Namespace] = append(pdbByNamespace[pdb.Namespace], pdb)
	}

	for _, dep := range deployments {
		if systemNamespaces[dep.Namespace] {
			continue
		}
		replicas := int32(1)
		if dep.Spec.Replicas != nil {
			replicas = *dep.Spec.Replicas
		}
		if replicas < criticalWorkloadMinReplicas {
			continue
		}
		ref := dep.Namespace + "/" + dep.Name
		if !pdbCoversWorkload(dep, pdbByNamespace[dep.Namespace]) {
			issue := report.Issue{
				Severity: report.Warning, Category: "policies", RuleCode: "POLICY-003",
				Description: fmt.Sprintf("Deployment %s has %d replicas but no PodDisruptionBudget", ref, replicas), Resource: ref,
				Recommendation: "define a PodDisruptionBudget for this workload",
			}
			checks = append(checks, checkFromIssues("Deployment", ref, []report.Issue{issue}))
			issues = append(issues, issue)
		} else {
			checks = append(checks, checkFromIssues("Deployment", ref, nil))
		}
	}

	for _, pdb := range pdbs {
		ref := pdb.Namespace + "/" + pdb.Name
		if pdb.Spec.MinAvailable != nil && pdb.Spec.MinAvailable.Type == intstr.Int {
			minAvail := pdb.Spec.MinAvailable.IntVal
			if minAvail > pdb.Status.CurrentHealthy {
				issue := report.Issue{
					Severity: report.Warning, Category: "policies", RuleCode: "POLICY-004",
					Description: fmt.Sprintf("PodDisruptionBudget %s requires minAvailable=%d but only %d pods are healthy", ref, minAvail, pdb.Status.CurrentHealthy), Resource: ref,
					Recommendation: "lower minAvailable or scale up the backing workload",
				}
				checks = append(checks, checkFromIssues("PodDisruptionBudget", ref, []report.Issue{issue}))
				issues = append(issues, issue)
				continue
			}
		}
		checks = append(checks, checkFromIssues("PodDisruptionBudget", ref, nil))
	}

	return seal(res, checks, issues)
}

func pdbCoversWorkload(dep appsv1.Deployment, pdbs []policyv1.PodDisruptionBudget) bool {
	for _, pdb := range pdbs {
		sel, err := selectorMatches(pdb.Spec.Selector, dep.Spec.Template.Labels)
		if err == nil && sel {
			return true
		}
	}
	return false
}
