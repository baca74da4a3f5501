package inspect

import (
	"fmt"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"

	"github.com/kubilitics/kube-inspector/internal/report"
)

const (
	loadBalancerGrace = 10 * time.Minute
	nodePortMin       = 30000
	nodePortMax       = 32767
)

// InspectNetwork evaluates Services, their Endpoints, and cluster DNS
// health. deployments is the full cluster deployment list, used to locate
// the CoreDNS/kube-dns Deployment in kube-system.
func InspectNetwork(services []corev1.Service, endpoints []corev1.Endpoints, deployments []appsv1.Deployment) report.InspectionResult {
	res := newResult(report.TypeNetwork)

	endpointsByRef := make(map[string]corev1.Endpoints, len(endpoints))
	for _, ep := range endpoints {
		endpointsByRef[ep.Namespace+"/"+ep.Name] = ep
	}

	var checks []report.CheckResult
	var issues []report.Issue

	dnsServicePresent := false

	for _, svc := range services {
		ref := svc.Namespace + "/" + svc.Name
		var svcIssues []report.Issue

		if svc.Namespace == "kube-system" && svc.Name == "kube-dns" {
			dnsServicePresent = true
		}

		if svc.Spec.Type == corev1.ServiceTypeLoadBalancer {
			if len(svc.Status.LoadBalancer.Ingress) == 0 && time.Since(svc.CreationTimestamp.Time) > loadBalancerGrace {
				svcIssues = append(svcIssues, report.Issue{
					Severity: report.Warning, Category: "network", RuleCode: "NET-001",
					Description: fmt.Sprintf("LoadBalancer service %s has no ingress address", ref), Resource: ref,
					Recommendation: "check cloud provider load balancer provisioning",
				})
			}
		}

		for _, port := range svc.Spec.Ports {
			if port.NodePort != 0 && (port.NodePort < nodePortMin || port.NodePort > nodePortMax) {
				svcIssues = append(svcIssues, report.Issue{
					Severity: report.Warning, Category: "network", RuleCode: "NET-002",
					Description: fmt.Sprintf("service %s uses NodePort %d outside %d-%d", ref, port.NodePort, nodePortMin, nodePortMax), Resource: ref,
					Recommendation: "use a NodePort within the configured range",
				})
			}
		}

		if len(svc.Spec.Selector) > 0 {
			ep, ok := endpointsByRef[ref]
			if !ok || !hasAddresses(ep) {
				svcIssues = append(svcIssues, report.Issue{
					Severity: report.Warning, Category: "network", RuleCode: "NET-003",
					Description: fmt.Sprintf("service %s selector matches no endpoints", ref), Resource: ref,
					Recommendation: "verify the selector matches running pod labels",
				})
			}
		} else {
			if ep, ok := endpointsByRef[ref]; !ok || !hasAddresses(ep) {
				svcIssues = append(svcIssues, report.Issue{
					Severity: report.Warning, Category: "network", RuleCode: "NET-003",
					Description: fmt.Sprintf("headless service %s has no manual Endpoints", ref), Resource: ref,
					Recommendation: "create a matching Endpoints object or add a selector",
				})
			}
		}

		checks = append(checks, checkFromIssues("Service", ref, svcIssues))
		issues = append(issues, svcIssues...)
	}

	if !dnsServicePresent {
		issue := report.Issue{
			Severity: report.Critical, Category: "network", RuleCode: "NET-005",
			Description: "kube-dns Service absent in kube-system", Resource: "kube-system/kube-dns",
			Recommendation: "install or restore the cluster DNS add-on",
		}
		checks = append(checks, checkFromIssues("Service", "kube-system/kube-dns", []report.Issue{issue}))
		issues = append(issues, issue)
	}

	for _, dep := range deployments {
		if dep.Namespace != "kube-system" {
			continue
		}
		if dep.Name != "coredns" && dep.Name != "kube-dns" {
			continue
		}
		desired := int32(1)
		if dep.Spec.Replicas != nil {
			desired = *dep.Spec.Replicas
		}
		if dep.Status.ReadyReplicas < desired {
			ref := dep.Namespace + "/" + dep.Name
			issue := report.Issue{
				Severity: report.Warning, Category: "network", RuleCode: "NET-004",
				Description: fmt.Sprintf("DNS deployment %s has %d/%d ready replicas", ref, dep.Status.ReadyReplicas, desired), Resource: ref,
				Recommendation: "investigate why CoreDNS pods are not becoming ready",
			}
			checks = append(checks, checkFromIssues("Deployment", ref, []report.Issue{issue}))
			issues = append(issues, issue)
		}
	}

	return seal(res, checks, issues)
}

func hasAddresses(ep corev1.Endpoints) bool {
	for _, subset := range ep.Subsets {
		if len(subset.Addresses) > 0 {
			return true
		}
	}
	return false
}
