package inspect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/kubilitics/kube-inspector/internal/report"
)

func TestInspectResourcesNoRequestsOrLimits(t *testing.T) {
	pods := []corev1.Pod{
		{
			ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: "bare"},
			Spec:       corev1.PodSpec{Containers: []corev1.Container{{Name: "app"}}},
		},
	}
	result := InspectResources(pods, nil, nil)

	assert.NotNil(t, findIssue(result.Summary.Issues, "RES-001"))
	assert.NotNil(t, findIssue(result.Summary.Issues, "RES-002"))
}

func TestInspectResourcesMissingOnlyMemoryRequestIsFlagged(t *testing.T) {
	pods := []corev1.Pod{
		{
			ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: "half-requested"},
			Spec: corev1.PodSpec{Containers: []corev1.Container{{
				Name: "app",
				Resources: corev1.ResourceRequirements{
					Requests: corev1.ResourceList{corev1.ResourceCPU: resource.MustParse("500m")},
					Limits: corev1.ResourceList{
						corev1.ResourceCPU:    resource.MustParse("500m"),
						corev1.ResourceMemory: resource.MustParse("256Mi"),
					},
				},
			}}},
		},
	}
	result := InspectResources(pods, nil, nil)

	var memoryRequestIssues int
	for _, issue := range result.Summary.Issues {
		if issue.RuleCode == "RES-001" {
			memoryRequestIssues++
			assert.Contains(t, issue.Description, "memory request")
		}
	}
	assert.Equal(t, 1, memoryRequestIssues)
	assert.Nil(t, findIssue(result.Summary.Issues, "RES-002"))
}

func TestInspectResourcesMissingOnlyCPULimitIsFlagged(t *testing.T) {
	pods := []corev1.Pod{
		{
			ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: "half-limited"},
			Spec: corev1.PodSpec{Containers: []corev1.Container{{
				Name: "app",
				Resources: corev1.ResourceRequirements{
					Requests: corev1.ResourceList{
						corev1.ResourceCPU:    resource.MustParse("500m"),
						corev1.ResourceMemory: resource.MustParse("256Mi"),
					},
					Limits: corev1.ResourceList{corev1.ResourceMemory: resource.MustParse("256Mi")},
				},
			}}},
		},
	}
	result := InspectResources(pods, nil, nil)

	var cpuLimitIssues int
	for _, issue := range result.Summary.Issues {
		if issue.RuleCode == "RES-002" {
			cpuLimitIssues++
			assert.Contains(t, issue.Description, "CPU limit")
		}
	}
	assert.Equal(t, 1, cpuLimitIssues)
	assert.Nil(t, findIssue(result.Summary.Issues, "RES-001"))
}

func TestInspectResourcesLimitBelowRequest(t *testing.T) {
	pods := []corev1.Pod{
		{
			ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: "shrink"},
			Spec: corev1.PodSpec{Containers: []corev1.Container{{
				Name: "app",
				Resources: corev1.ResourceRequirements{
					Requests: corev1.ResourceList{corev1.ResourceCPU: resource.MustParse("500m")},
					Limits:   corev1.ResourceList{corev1.ResourceCPU: resource.MustParse("100m")},
				},
			}}},
		},
	}
	result := InspectResources(pods, nil, nil)
	issue := findIssue(result.Summary.Issues, "RES-004")
	assert.NotNil(t, issue)
	assert.Equal(t, report.Warning, issue.Severity)
}

func TestInspectResourcesNamespaceWithoutQuota(t *testing.T) {
	namespaces := []corev1.Namespace{{ObjectMeta: metav1.ObjectMeta{Name: "team-a"}}}
	result := InspectResources(nil, namespaces, map[string]bool{})
	issue := findIssue(result.Summary.Issues, "RES-003")
	assert.NotNil(t, issue)
	assert.Equal(t, "team-a", issue.Resource)
}

func TestInspectResourcesNamespaceWithQuotaRaisesNoIssue(t *testing.T) {
	namespaces := []corev1.Namespace{{ObjectMeta: metav1.ObjectMeta{Name: "team-a"}}}
	result := InspectResources(nil, namespaces, map[string]bool{"team-a": true})
	assert.Nil(t, findIssue(result.Summary.Issues, "RES-003"))
}
