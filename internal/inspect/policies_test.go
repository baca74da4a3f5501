package inspect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	policyv1 "k8s.io/api/policy/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
)

func TestInspectPoliciesNamespaceMissingQuotaAndLimitRange(t *testing.T) {
	namespaces := []corev1.Namespace{{ObjectMeta: metav1.ObjectMeta{Name: "team-a"}}}
	result := InspectPolicies(namespaces, map[string]bool{}, map[string]bool{}, nil, nil)

	assert.NotNil(t, findIssue(result.Summary.Issues, "POLICY-001"))
	assert.NotNil(t, findIssue(result.Summary.Issues, "POLICY-002"))
}

func TestInspectPoliciesSystemNamespaceExempt(t *testing.T) {
	namespaces := []corev1.Namespace{{ObjectMeta: metav1.ObjectMeta{Name: "kube-system"}}}
	result := InspectPolicies(namespaces, map[string]bool{}, map[string]bool{}, nil, nil)
	assert.Empty(t, result.Summary.Issues)
}

func TestInspectPoliciesCriticalWorkloadWithoutPDB(t *testing.T) {
	replicas := int32(3)
	dep := appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Namespace: "team-a", Name: "api"},
		Spec:       appsv1.DeploymentSpec{Replicas: &replicas},
	}
	result := InspectPolicies(nil, nil, nil, []appsv1.Deployment{dep}, nil)
	issue := findIssue(result.Summary.Issues, "POLICY-003")
	assert.NotNil(t, issue)
}

func TestInspectPoliciesDeploymentCoveredByMatchingPDB(t *testing.T) {
	replicas := int32(3)
	labels := map[string]string{"app": "api"}
	dep := appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Namespace: "team-a", Name: "api"},
		Spec: appsv1.DeploymentSpec{
			Replicas: &replicas,
			Template: corev1.PodTemplateSpec{ObjectMeta: metav1.ObjectMeta{Labels: labels}},
		},
	}
	pdb := policyv1.PodDisruptionBudget{
		ObjectMeta: metav1.ObjectMeta{Namespace: "team-a", Name: "api-pdb"},
		Spec:       policyv1.PodDisruptionBudgetSpec{Selector: &metav1.LabelSelector{MatchLabels: labels}},
	}
	result := InspectPolicies(nil, nil, nil, []appsv1.Deployment{dep}, []policyv1.PodDisruptionBudget{pdb})
	assert.Nil(t, findIssue(result.Summary.Issues, "POLICY-003"))
}

func TestInspectPoliciesPDBMinAvailableExceedsHealthy(t *testing.T) {
	pdb := policyv1.PodDisruptionBudget{
		ObjectMeta: metav1.ObjectMeta{Namespace: "team-a", Name: "api-pdb"},
		Spec:       policyv1.PodDisruptionBudgetSpec{MinAvailable: intstrPtr(3)},
		Status:     policyv1.PodDisruptionBudgetStatus{CurrentHealthy: 1},
	}
	result := InspectPolicies(nil, nil, nil, nil, []policyv1.PodDisruptionBudget{pdb})
	issue := findIssue(result.Summary.Issues, "POLICY-004")
	assert.NotNil(t, issue)
}

func intstrPtr(v int32) *intstr.IntOrString {
	iv := intstr.FromInt32(v)
	return &iv
}
