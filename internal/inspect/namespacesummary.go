package inspect

import (
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"

	"github.com/kubilitics/kube-inspector/internal/report"
)

// InspectNamespaceSummary is the non-evaluating inspector (§4.3): it raises
// no Issues and scores 100 by construction, producing only a reference
// table of per-namespace counts.
func InspectNamespaceSummary(namespaces []corev1.Namespace, pods []corev1.Pod, deployments []appsv1.Deployment, netpols []networkingv1.NetworkPolicy, quotaPresent, limitRangePresent map[string]bool) report.InspectionResult {
	res := newResult(report.TypeNamespaceSummary)

	podCount := make(map[string]int)
	for _, p := range pods {
		podCount[p.Namespace]++
	}
	deploymentCount := make(map[string]int)
	for _, d := range deployments {
		deploymentCount[d.Namespace]++
	}
	netpolPresent := make(map[string]bool)
	for _, np := range netpols {
		netpolPresent[np.Namespace] = true
	}

	var rows []report.NamespaceSummaryRow
	for _, ns := range namespaces {
		rows = append(rows, report.NamespaceSummaryRow{
			Namespace:        ns.Name,
			PodCount:         podCount[ns.Name],
			DeploymentCount:  deploymentCount[ns.Name],
			HasNetworkPolicy: netpolPresent[ns.Name],
			HasResourceQuota: quotaPresent[ns.Name],
			HasLimitRange:    limitRangePresent[ns.Name],
		})
	}

	res = seal(res, nil, nil)
	res.NamespaceSummaryRows = rows
	return res
}
