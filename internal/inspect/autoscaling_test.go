package inspect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	autoscalingv1 "k8s.io/api/autoscaling/v1"
	autoscalingv2 "k8s.io/api/autoscaling/v2"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/kubilitics/kube-inspector/internal/k8s"
	"github.com/kubilitics/kube-inspector/internal/report"
)

func TestInspectAutoscalingNarrowMinMaxRaisesWarning(t *testing.T) {
	min := int32(2)
	hpa := autoscalingv2.HorizontalPodAutoscaler{
		ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: "api"},
		Spec: autoscalingv2.HorizontalPodAutoscalerSpec{
			MinReplicas:    &min,
			MaxReplicas:    2,
			ScaleTargetRef: autoscalingv2.CrossVersionObjectReference{Name: "api"},
			Metrics:        []autoscalingv2.MetricSpec{{Type: autoscalingv2.ResourceMetricSourceType, Resource: &autoscalingv2.ResourceMetricSource{Target: autoscalingv2.MetricTarget{AverageUtilization: int32Ptr(80)}}}},
		},
	}
	result := InspectAutoscaling([]k8s.HPAResult{{V2: &hpa}})
	issue := findIssue(result.Summary.Issues, "AUTO-001")
	assert.NotNil(t, issue)
	assert.Equal(t, report.Warning, issue.Severity)
}

func TestInspectAutoscalingEmptyMetricsList(t *testing.T) {
	min := int32(1)
	hpa := autoscalingv2.HorizontalPodAutoscaler{
		ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: "api"},
		Spec: autoscalingv2.HorizontalPodAutoscalerSpec{
			MinReplicas:    &min,
			MaxReplicas:    10,
			ScaleTargetRef: autoscalingv2.CrossVersionObjectReference{Name: "api"},
		},
	}
	result := InspectAutoscaling([]k8s.HPAResult{{V2: &hpa}})
	issue := findIssue(result.Summary.Issues, "AUTO-002")
	assert.NotNil(t, issue)
}

func TestInspectAutoscalingMissingScaleTarget(t *testing.T) {
	min := int32(1)
	hpa := autoscalingv2.HorizontalPodAutoscaler{
		ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: "api"},
		Spec: autoscalingv2.HorizontalPodAutoscalerSpec{
			MinReplicas: &min,
			MaxReplicas: 10,
			Metrics:     []autoscalingv2.MetricSpec{{Type: autoscalingv2.ResourceMetricSourceType, Resource: &autoscalingv2.ResourceMetricSource{Target: autoscalingv2.MetricTarget{AverageUtilization: int32Ptr(80)}}}},
		},
	}
	result := InspectAutoscaling([]k8s.HPAResult{{V2: &hpa}})
	issue := findIssue(result.Summary.Issues, "AUTO-003")
	assert.NotNil(t, issue)
}

func TestInspectAutoscalingV1FallbackUsesMinMaxOnly(t *testing.T) {
	min := int32(1)
	hpa := autoscalingv1.HorizontalPodAutoscaler{
		ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: "legacy"},
		Spec:       autoscalingv1.HorizontalPodAutoscalerSpec{MinReplicas: &min, MaxReplicas: 2},
	}
	result := InspectAutoscaling([]k8s.HPAResult{{V1: &hpa}})
	issue := findIssue(result.Summary.Issues, "AUTO-001")
	assert.NotNil(t, issue)
	assert.Equal(t, "default/legacy", issue.Resource)
}

func int32Ptr(v int32) *int32 { return &v }
