package inspect

import (
	"fmt"

	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	rbacv1 "k8s.io/api/rbac/v1"

	"github.com/kubilitics/kube-inspector/internal/report"
)

// clusterAdminAllowlist names ClusterRoles expected to carry wildcard
// permissions (SEC-001 evaluates wildcard verbs only, per the stricter
// reading of the open rule in §9 design note (b)).
var clusterAdminAllowlist = map[string]bool{"cluster-admin": true}

var systemNamespaces = map[string]bool{"kube-system": true, "kube-public": true, "kube-node-lease": true}

// InspectSecurity evaluates RBAC wildcard grants, cluster-admin bindings,
// pod/container security contexts, NetworkPolicy coverage, and default
// ServiceAccount usage (§4.3 SEC-001..SEC-009).
func InspectSecurity(clusterRoles []rbacv1.ClusterRole, clusterRoleBindings []rbacv1.ClusterRoleBinding, pods []corev1.Pod, namespaces []corev1.Namespace, netpols []networkingv1.NetworkPolicy) report.InspectionResult {
	res := newResult(report.TypeSecurity)

	var checks []report.CheckResult
	var issues []report.Issue

	for _, cr := range clusterRoles {
		if clusterAdminAllowlist[cr.Name] {
			continue
		}
		if hasWildcardGrant(cr) {
			issue := report.Issue{
				Severity: report.Critical, Category: "security", RuleCode: "SEC-001",
				Description: fmt.Sprintf("ClusterRole %s grants verbs=* on resources=*", cr.Name), Resource: cr.Name,
				Recommendation: "scope the role to the specific verbs and resources it needs",
			}
			checks = append(checks, checkFromIssues("ClusterRole", cr.Name, []report.Issue{issue}))
			issues = append(issues, issue)
		}
	}

	for _, crb := range clusterRoleBindings {
		if crb.RoleRef.Name != "cluster-admin" {
			continue
		}
		for _, subj := range crb.Subjects {
			ref := crb.Name + "/" + subj.Name
			switch subj.Kind {
			case rbacv1.UserKind:
				issue := report.Issue{
					Severity: report.Warning, Category: "security", RuleCode: "SEC-002",
					Description: fmt.Sprintf("user %s is bound to cluster-admin via %s", subj.Name, crb.Name), Resource: ref,
					Recommendation: "bind users to a narrower role",
				}
				checks = append(checks, checkFromIssues("ClusterRoleBinding", ref, []report.Issue{issue}))
				issues = append(issues, issue)
			case rbacv1.ServiceAccountKind:
				issue := report.Issue{
					Severity: report.Critical, Category: "security", RuleCode: "SEC-003",
					Description: fmt.Sprintf("ServiceAccount %s/%s is bound to cluster-admin via %s", subj.Namespace, subj.Name, crb.Name), Resource: ref,
					Recommendation: "bind the ServiceAccount to the minimum required role",
				}
				checks = append(checks, checkFromIssues("ClusterRoleBinding", ref, []report.Issue{issue}))
				issues = append(issues, issue)
			}
		}
	}

	for _, pod := range pods {
		ref := pod.Namespace + "/" + pod.Name
		var podIssues []report.Issue

		if sc := pod.Spec.SecurityContext; sc != nil && sc.RunAsUser != nil && *sc.RunAsUser == 0 {
			podIssues = append(podIssues, report.Issue{
				Severity: report.Warning, Category: "security", RuleCode: "SEC-004",
				Description: fmt.Sprintf("pod %s runs as root (runAsUser=0)", ref), Resource: ref,
				Recommendation: "set a non-root runAsUser",
			})
		}

		if !systemNamespaces[pod.Namespace] && (pod.Spec.ServiceAccountName == "" || pod.Spec.ServiceAccountName == "default") && len(pod.OwnerReferences) > 0 {
			podIssues = append(podIssues, report.Issue{
				Severity: report.Info, Category: "security", RuleCode: "SEC-009",
				Description: fmt.Sprintf("pod %s uses the default ServiceAccount", ref), Resource: ref,
				Recommendation: "create and assign a dedicated ServiceAccount",
			})
		}

		for _, c := range pod.Spec.Containers {
			containerRef := ref + "/" + c.Name
			if c.SecurityContext == nil {
				continue
			}
			if c.SecurityContext.Privileged != nil && *c.SecurityContext.Privileged {
				podIssues = append(podIssues, report.Issue{
					Severity: report.Critical, Category: "security", RuleCode: "SEC-005",
					Description: fmt.Sprintf("container %s runs privileged", containerRef), Resource: containerRef,
					Recommendation: "remove privileged mode; use specific capabilities instead",
				})
			}
			if c.SecurityContext.RunAsUser != nil && *c.SecurityContext.RunAsUser == 0 {
				podIssues = append(podIssues, report.Issue{
					Severity: report.Warning, Category: "security", RuleCode: "SEC-006",
					Description: fmt.Sprintf("container %s runs as root", containerRef), Resource: containerRef,
					Recommendation: "set a non-root runAsUser at the container level",
				})
			}
			if c.SecurityContext.AllowPrivilegeEscalation != nil && *c.SecurityContext.AllowPrivilegeEscalation {
				podIssues = append(podIssues, report.Issue{
					Severity: report.Warning, Category: "security", RuleCode: "SEC-007",
					Description: fmt.Sprintf("container %s allows privilege escalation", containerRef), Resource: containerRef,
					Recommendation: "set allowPrivilegeEscalation: false",
				})
			}
		}

		if len(podIssues) > 0 {
			checks = append(checks, checkFromIssues("Pod", ref, podIssues))
			issues = append(issues, podIssues...)
		}
	}

	netpolNamespaces := make(map[string]bool, len(netpols))
	for _, np := range netpols {
		netpolNamespaces[np.Namespace] = true
	}
	for _, ns := range namespaces {
		if systemNamespaces[ns.Name] {
			continue
		}
		if !netpolNamespaces[ns.Name] {
			issue := report.Issue{
				Severity: report.Warning, Category: "security", RuleCode: "SEC-008",
				Description: fmt.Sprintf("namespace %s has no NetworkPolicy", ns.Name), Resource: ns.Name,
				Recommendation: "define at least a default-deny NetworkPolicy",
			}
			checks = append(checks, checkFromIssues("Namespace", ns.Name, []report.Issue{issue}))
			issues = append(issues, issue)
		} else {
			checks = append(checks, checkFromIssues("Namespace", ns.Name, nil))
		}
	}

	return seal(res, checks, issues)
}

func hasWildcardGrant(cr rbacv1.ClusterRole) bool {
	for _, rule := range cr.Rules {
		if containsStr(rule.Verbs, "*") && containsStr(rule.Resources, "*") {
			return true
		}
	}
	return false
}

func containsStr(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}
