package inspect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/kubilitics/kube-inspector/internal/report"
)

func nodeWithKubeletVersion(name, version string) corev1.Node {
	return corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Status:     corev1.NodeStatus{NodeInfo: corev1.NodeSystemInfo{KubeletVersion: version}},
	}
}

func TestInspectUpgradeNoSkewRaisesNoIssue(t *testing.T) {
	result := InspectUpgrade([]corev1.Node{nodeWithKubeletVersion("worker01", "v1.29.3")}, "v1.29.0")
	assert.Empty(t, result.Summary.Issues)
}

func TestInspectUpgradeOneMinorBehindIsInfo(t *testing.T) {
	result := InspectUpgrade([]corev1.Node{nodeWithKubeletVersion("worker01", "v1.28.3")}, "v1.29.0")
	issue := findIssue(result.Summary.Issues, "UPGRADE-001")
	assert.NotNil(t, issue)
	assert.Equal(t, report.Info, issue.Severity)
}

func TestInspectUpgradeThreeMinorsBehindIsCritical(t *testing.T) {
	result := InspectUpgrade([]corev1.Node{nodeWithKubeletVersion("worker01", "v1.26.3")}, "v1.29.0")
	issue := findIssue(result.Summary.Issues, "UPGRADE-001")
	assert.NotNil(t, issue)
	assert.Equal(t, report.Critical, issue.Severity)
}

func TestInspectUpgradeUnparseableServerVersionSkipsAllNodes(t *testing.T) {
	result := InspectUpgrade([]corev1.Node{nodeWithKubeletVersion("worker01", "v1.29.3")}, "not-a-version")
	assert.Empty(t, result.Summary.Issues)
}
