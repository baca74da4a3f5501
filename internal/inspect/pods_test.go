package inspect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/kubilitics/kube-inspector/internal/report"
)

// Scenario 1 (spec §8): all nodes Ready, one failed Pod.
func TestInspectPodsFailedPhase(t *testing.T) {
	pods := []corev1.Pod{
		{
			ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: "crasher"},
			Status:     corev1.PodStatus{Phase: corev1.PodFailed},
		},
	}
	result := InspectPods(pods, 10, 30)

	issue := findIssue(result.Summary.Issues, "POD-001")
	assert.NotNil(t, issue)
	assert.Equal(t, report.Critical, issue.Severity)
	assert.Equal(t, "default/crasher", issue.Resource)
	assert.Less(t, result.Subscore, 100.0)
}

// Scenario 2 (spec §8): container waiting on CrashLoopBackOff.
func TestInspectPodsCrashLoopBackOff(t *testing.T) {
	pods := []corev1.Pod{
		{
			ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: "looper"},
			Status: corev1.PodStatus{
				Phase: corev1.PodRunning,
				ContainerStatuses: []corev1.ContainerStatus{
					{
						Name:  "app",
						State: corev1.ContainerState{Waiting: &corev1.ContainerStateWaiting{Reason: "CrashLoopBackOff"}},
					},
				},
			},
		},
	}
	result := InspectPods(pods, 10, 30)

	issue := findIssue(result.Summary.Issues, "POD-007")
	assert.NotNil(t, issue)
	assert.Equal(t, report.Critical, issue.Severity)
}

func TestInspectPodsHealthyPodHasNoIssues(t *testing.T) {
	pods := []corev1.Pod{
		{
			ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: "ok"},
			Status: corev1.PodStatus{
				Phase: corev1.PodRunning,
				ContainerStatuses: []corev1.ContainerStatus{
					{Name: "app", State: corev1.ContainerState{Running: &corev1.ContainerStateRunning{}}},
				},
			},
		},
	}
	result := InspectPods(pods, 10, 30)
	assert.Empty(t, result.Summary.Issues)
	assert.Equal(t, 100.0, result.Subscore)
}

func TestInspectPodsRestartThresholdTwoTier(t *testing.T) {
	podWithRestarts := func(n int32) corev1.Pod {
		return corev1.Pod{
			ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: "flaky"},
			Status: corev1.PodStatus{
				Phase:             corev1.PodRunning,
				ContainerStatuses: []corev1.ContainerStatus{{Name: "app", RestartCount: n}},
			},
		}
	}

	warn := InspectPods([]corev1.Pod{podWithRestarts(12)}, 10, 30)
	issue := findIssue(warn.Summary.Issues, "POD-003")
	assert.NotNil(t, issue)
	assert.Equal(t, report.Warning, issue.Severity)

	crit := InspectPods([]corev1.Pod{podWithRestarts(35)}, 10, 30)
	issue = findIssue(crit.Summary.Issues, "POD-003")
	assert.NotNil(t, issue)
	assert.Equal(t, report.Critical, issue.Severity)
}
