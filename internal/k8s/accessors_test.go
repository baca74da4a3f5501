package k8s

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/kubernetes/fake"
	clienttesting "k8s.io/client-go/testing"
)

func TestListNodesSortsByName(t *testing.T) {
	clientset := fake.NewSimpleClientset(
		&corev1.Node{ObjectMeta: metav1.ObjectMeta{Name: "zeta"}},
		&corev1.Node{ObjectMeta: metav1.ObjectMeta{Name: "alpha"}},
	)
	client := NewClientForTest(clientset)

	nodes, err := client.ListNodes(context.Background())
	assert.NoError(t, err)
	assert.Len(t, nodes, 2)
	assert.Equal(t, "alpha", nodes[0].Name)
	assert.Equal(t, "zeta", nodes[1].Name)
}

func TestListPodsFiltersByNamespace(t *testing.T) {
	clientset := fake.NewSimpleClientset(
		&corev1.Pod{ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: "a"}},
		&corev1.Pod{ObjectMeta: metav1.ObjectMeta{Namespace: "other", Name: "b"}},
	)
	client := NewClientForTest(clientset)

	pods, err := client.ListPods(context.Background(), "default", "")
	assert.NoError(t, err)
	assert.Len(t, pods, 1)
	assert.Equal(t, "a", pods[0].Name)
}

func TestListComponentStatusesAbsorbsForbidden(t *testing.T) {
	clientset := fake.NewSimpleClientset()
	clientset.PrependReactor("list", "componentstatuses", func(action clienttesting.Action) (bool, runtime.Object, error) {
		return true, nil, apierrors.NewForbidden(schema.GroupResource{Resource: "componentstatuses"}, "", nil)
	})
	client := NewClientForTest(clientset)

	statuses, err := client.ListComponentStatuses(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, statuses)
}

func TestListResourceQuotasSortsByNamespacedName(t *testing.T) {
	clientset := fake.NewSimpleClientset(
		&corev1.ResourceQuota{ObjectMeta: metav1.ObjectMeta{Namespace: "team-b", Name: "q"}},
		&corev1.ResourceQuota{ObjectMeta: metav1.ObjectMeta{Namespace: "team-a", Name: "q"}},
	)
	client := NewClientForTest(clientset)

	quotas, err := client.ListResourceQuotas(context.Background(), "")
	assert.NoError(t, err)
	assert.Len(t, quotas, 2)
	assert.Equal(t, "team-a", quotas[0].Namespace)
}
