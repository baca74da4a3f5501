package inspect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	appsv1 "k8s.io/api/apps/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func TestInspectObservabilityNothingDeployedRaisesAllFour(t *testing.T) {
	result := InspectObservability(nil, nil, nil)
	assert.NotNil(t, findIssue(result.Summary.Issues, "OBS-001"))
	assert.NotNil(t, findIssue(result.Summary.Issues, "OBS-002"))
	assert.NotNil(t, findIssue(result.Summary.Issues, "OBS-003"))
	assert.NotNil(t, findIssue(result.Summary.Issues, "OBS-004"))
}

func TestInspectObservabilityMetricsServerDetectedSuppressesOBS001(t *testing.T) {
	dep := appsv1.Deployment{ObjectMeta: metav1.ObjectMeta{Namespace: "kube-system", Name: "metrics-server"}}
	result := InspectObservability([]appsv1.Deployment{dep}, nil, nil)
	assert.Nil(t, findIssue(result.Summary.Issues, "OBS-001"))
	assert.NotNil(t, findIssue(result.Summary.Issues, "OBS-004"))
}

func TestInspectObservabilityPrometheusAsStatefulSetDetected(t *testing.T) {
	sts := appsv1.StatefulSet{ObjectMeta: metav1.ObjectMeta{Namespace: "monitoring", Name: "prometheus-server"}}
	result := InspectObservability(nil, nil, []appsv1.StatefulSet{sts})
	assert.Nil(t, findIssue(result.Summary.Issues, "OBS-004"))
}

func TestInspectObservabilityLogAggregatorDetected(t *testing.T) {
	ds := appsv1.DaemonSet{ObjectMeta: metav1.ObjectMeta{Namespace: "logging", Name: "fluent-bit"}}
	result := InspectObservability(nil, []appsv1.DaemonSet{ds}, nil)
	assert.Nil(t, findIssue(result.Summary.Issues, "OBS-003"))
}
