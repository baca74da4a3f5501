package inspect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/kubilitics/kube-inspector/internal/k8s"
)

func TestBuildOverviewCountsNodesPodsAndNamespaces(t *testing.T) {
	readyNode := corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: "worker01"},
		Status: corev1.NodeStatus{
			Conditions: []corev1.NodeCondition{{Type: corev1.NodeReady, Status: corev1.ConditionTrue}},
		},
	}
	notReadyNode := corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: "worker02"},
		Status: corev1.NodeStatus{
			Conditions: []corev1.NodeCondition{{Type: corev1.NodeReady, Status: corev1.ConditionFalse}},
		},
	}
	ns := corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: "default"}}
	pod := corev1.Pod{ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: "p1"}}

	clientset := fake.NewSimpleClientset(&readyNode, &notReadyNode, &ns, &pod)
	client := k8s.NewClientForTest(clientset)

	nodes := []corev1.Node{readyNode, notReadyNode}
	overview := buildOverview(context.Background(), client, nodes, []corev1.Pod{pod}, []corev1.Namespace{ns})

	assert.Equal(t, 2, overview.NodeCount)
	assert.Equal(t, 1, overview.PodCount)
	assert.Equal(t, 1, overview.NamespaceCount)
	assert.Equal(t, 1, overview.ReadyNodeCount)
	assert.Len(t, overview.NodeConditions, 2)
}

func TestBuildOverviewFailsSoftOnMetricsError(t *testing.T) {
	clientset := fake.NewSimpleClientset()
	client := k8s.NewClientForTest(clientset)

	overview := buildOverview(context.Background(), client, nil, nil, nil)

	assert.Equal(t, 0, overview.NodeCount)
	assert.Empty(t, overview.TopContainerUsage)
}
