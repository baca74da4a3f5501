package inspect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	storagev1 "k8s.io/api/storage/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/kubilitics/kube-inspector/internal/report"
)

func storageClass(name string, isDefault bool) storagev1.StorageClass {
	allowExpansion := true
	sc := storagev1.StorageClass{
		ObjectMeta:           metav1.ObjectMeta{Name: name},
		Provisioner:          "kubernetes.io/aws-ebs",
		AllowVolumeExpansion: &allowExpansion,
	}
	if isDefault {
		sc.Annotations = map[string]string{defaultStorageClassAnnotation: "true"}
	}
	return sc
}

func findIssue(issues []report.Issue, code string) *report.Issue {
	for i := range issues {
		if issues[i].RuleCode == code {
			return &issues[i]
		}
	}
	return nil
}

// Scenario 5 (spec §8): no StorageClass carries the default annotation.
func TestInspectStorageNoDefaultStorageClass(t *testing.T) {
	classes := []storagev1.StorageClass{storageClass("standard", false)}
	result := InspectStorage(nil, nil, classes)

	issue := findIssue(result.Summary.Issues, "STO-009")
	assert.NotNil(t, issue)
	assert.Equal(t, report.Warning, issue.Severity)
}

// Scenario 6 (spec §8): two StorageClasses both annotated default.
func TestInspectStorageTwoDefaultStorageClasses(t *testing.T) {
	classes := []storagev1.StorageClass{storageClass("standard", true), storageClass("fast", true)}
	result := InspectStorage(nil, nil, classes)

	issue := findIssue(result.Summary.Issues, "STO-010")
	assert.NotNil(t, issue)
	assert.Equal(t, report.Critical, issue.Severity)
	assert.Less(t, result.Subscore, 100.0)
}

func TestInspectStorageExactlyOneDefaultRaisesNoIssue(t *testing.T) {
	classes := []storagev1.StorageClass{storageClass("standard", true)}
	result := InspectStorage(nil, nil, classes)

	assert.Nil(t, findIssue(result.Summary.Issues, "STO-009"))
	assert.Nil(t, findIssue(result.Summary.Issues, "STO-010"))
}
