package inspect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/kubilitics/kube-inspector/internal/report"
)

func TestInspectSecurityWildcardClusterRoleRaisesCritical(t *testing.T) {
	cr := rbacv1.ClusterRole{
		ObjectMeta: metav1.ObjectMeta{Name: "super"},
		Rules:      []rbacv1.PolicyRule{{Verbs: []string{"*"}, Resources: []string{"*"}}},
	}
	result := InspectSecurity([]rbacv1.ClusterRole{cr}, nil, nil, nil, nil)
	issue := findIssue(result.Summary.Issues, "SEC-001")
	assert.NotNil(t, issue)
	assert.Equal(t, report.Critical, issue.Severity)
}

func TestInspectSecurityClusterAdminAllowlisted(t *testing.T) {
	cr := rbacv1.ClusterRole{
		ObjectMeta: metav1.ObjectMeta{Name: "cluster-admin"},
		Rules:      []rbacv1.PolicyRule{{Verbs: []string{"*"}, Resources: []string{"*"}}},
	}
	result := InspectSecurity([]rbacv1.ClusterRole{cr}, nil, nil, nil, nil)
	assert.Nil(t, findIssue(result.Summary.Issues, "SEC-001"))
}

func TestInspectSecurityServiceAccountBoundToClusterAdmin(t *testing.T) {
	crb := rbacv1.ClusterRoleBinding{
		ObjectMeta: metav1.ObjectMeta{Name: "dangerous-binding"},
		RoleRef:    rbacv1.RoleRef{Name: "cluster-admin"},
		Subjects:   []rbacv1.Subject{{Kind: rbacv1.ServiceAccountKind, Namespace: "default", Name: "ci"}},
	}
	result := InspectSecurity(nil, []rbacv1.ClusterRoleBinding{crb}, nil, nil, nil)
	issue := findIssue(result.Summary.Issues, "SEC-003")
	assert.NotNil(t, issue)
	assert.Equal(t, report.Critical, issue.Severity)
}

func TestInspectSecurityPrivilegedContainerRaisesCritical(t *testing.T) {
	privileged := true
	pod := corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: "priv"},
		Spec: corev1.PodSpec{Containers: []corev1.Container{{
			Name:            "app",
			SecurityContext: &corev1.SecurityContext{Privileged: &privileged},
		}}},
	}
	result := InspectSecurity(nil, nil, []corev1.Pod{pod}, nil, nil)
	issue := findIssue(result.Summary.Issues, "SEC-005")
	assert.NotNil(t, issue)
	assert.Equal(t, report.Critical, issue.Severity)
}

func TestInspectSecurityNamespaceWithoutNetworkPolicy(t *testing.T) {
	namespaces := []corev1.Namespace{{ObjectMeta: metav1.ObjectMeta{Name: "team-a"}}}
	result := InspectSecurity(nil, nil, nil, namespaces, nil)
	issue := findIssue(result.Summary.Issues, "SEC-008")
	assert.NotNil(t, issue)
}

func TestInspectSecuritySystemNamespacesExemptFromNetworkPolicyCheck(t *testing.T) {
	namespaces := []corev1.Namespace{{ObjectMeta: metav1.ObjectMeta{Name: "kube-system"}}}
	result := InspectSecurity(nil, nil, nil, namespaces, nil)
	assert.Nil(t, findIssue(result.Summary.Issues, "SEC-008"))
}
