package inspect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func TestInspectNamespaceSummaryCountsPodsAndFlags(t *testing.T) {
	namespaces := []corev1.Namespace{{ObjectMeta: metav1.ObjectMeta{Name: "team-a"}}}
	pods := []corev1.Pod{
		{ObjectMeta: metav1.ObjectMeta{Namespace: "team-a", Name: "p1"}},
		{ObjectMeta: metav1.ObjectMeta{Namespace: "team-a", Name: "p2"}},
	}

	result := InspectNamespaceSummary(namespaces, pods, nil, nil, map[string]bool{"team-a": true}, nil)

	assert.Empty(t, result.Summary.Issues)
	assert.Equal(t, 100.0, result.Subscore)
	assert.Len(t, result.NamespaceSummaryRows, 1)
	row := result.NamespaceSummaryRows[0]
	assert.Equal(t, "team-a", row.Namespace)
	assert.Equal(t, 2, row.PodCount)
	assert.True(t, row.HasResourceQuota)
	assert.False(t, row.HasLimitRange)
}
