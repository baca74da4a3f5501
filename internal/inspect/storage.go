package inspect

import (
	"fmt"

	corev1 "k8s.io/api/core/v1"
	storagev1 "k8s.io/api/storage/v1"

	"github.com/kubilitics/kube-inspector/internal/report"
)

const defaultStorageClassAnnotation = "storageclass.kubernetes.io/is-default-class"

// InspectStorage evaluates PersistentVolume phases, PersistentVolumeClaim
// binding state, and StorageClass configuration (§4.3 STO-001..STO-010).
func InspectStorage(pvs []corev1.PersistentVolume, pvcs []corev1.PersistentVolumeClaim, classes []storagev1.StorageClass) report.InspectionResult {
	res := newResult(report.TypeStorage)

	var checks []report.CheckResult
	var issues []report.Issue

	for _, pv := range pvs {
		var pvIssues []report.Issue
		switch pv.Status.Phase {
		case corev1.VolumeFailed:
			pvIssues = append(pvIssues, report.Issue{
				Severity: report.Critical, Category: "storage", RuleCode: "STO-007",
				Description: fmt.Sprintf("PersistentVolume %s is in Failed phase", pv.Name), Resource: pv.Name,
				Recommendation: "investigate the underlying storage backend",
			})
		case corev1.VolumeReleased:
			pvIssues = append(pvIssues, report.Issue{
				Severity: report.Info, Category: "storage", RuleCode: "STO-006",
				Description: fmt.Sprintf("PersistentVolume %s is Released but not reclaimed", pv.Name), Resource: pv.Name,
				Recommendation: "reclaim or delete the released volume",
			})
		case corev1.VolumePending:
			pvIssues = append(pvIssues, report.Issue{
				Severity: report.Warning, Category: "storage", RuleCode: "STO-001",
				Description: fmt.Sprintf("PersistentVolume %s is in Pending phase", pv.Name), Resource: pv.Name,
				Recommendation: "investigate volume provisioning",
			})
		}
		if pv.Spec.PersistentVolumeReclaimPolicy == "" {
			pvIssues = append(pvIssues, report.Issue{
				Severity: report.Info, Category: "storage", RuleCode: "STO-002",
				Description: fmt.Sprintf("PersistentVolume %s has no reclaim policy set", pv.Name), Resource: pv.Name,
				Recommendation: "set an explicit reclaim policy",
			})
		}
		checks = append(checks, checkFromIssues("PersistentVolume", pv.Name, pvIssues))
		issues = append(issues, pvIssues...)
	}

	for _, pvc := range pvcs {
		ref := pvc.Namespace + "/" + pvc.Name
		var pvcIssues []report.Issue
		switch pvc.Status.Phase {
		case corev1.ClaimLost:
			pvcIssues = append(pvcIssues, report.Issue{
				Severity: report.Critical, Category: "storage", RuleCode: "STO-005",
				Description: fmt.Sprintf("PersistentVolumeClaim %s is Lost", ref), Resource: ref,
				Recommendation: "recreate the claim and verify the backing volume",
			})
		case corev1.ClaimPending:
			pvcIssues = append(pvcIssues, report.Issue{
				Severity: report.Warning, Category: "storage", RuleCode: "STO-004",
				Description: fmt.Sprintf("PersistentVolumeClaim %s is Pending", ref), Resource: ref,
				Recommendation: "check StorageClass provisioner and capacity",
			})
		}
		checks = append(checks, checkFromIssues("PersistentVolumeClaim", ref, pvcIssues))
		issues = append(issues, pvcIssues...)
	}

	defaultCount := 0
	var defaultNames []string
	for _, sc := range classes {
		var scIssues []report.Issue
		if sc.Provisioner == "" {
			scIssues = append(scIssues, report.Issue{
				Severity: report.Warning, Category: "storage", RuleCode: "STO-003",
				Description: fmt.Sprintf("StorageClass %s has no provisioner", sc.Name), Resource: sc.Name,
				Recommendation: "set a valid provisioner",
			})
		}
		if sc.AllowVolumeExpansion == nil || !*sc.AllowVolumeExpansion {
			scIssues = append(scIssues, report.Issue{
				Severity: report.Info, Category: "storage", RuleCode: "STO-008",
				Description: fmt.Sprintf("StorageClass %s does not allow volume expansion", sc.Name), Resource: sc.Name,
				Recommendation: "set allowVolumeExpansion: true if the provisioner supports it",
			})
		}
		if sc.Annotations[defaultStorageClassAnnotation] == "true" {
			defaultCount++
			defaultNames = append(defaultNames, sc.Name)
		}
		checks = append(checks, checkFromIssues("StorageClass", sc.Name, scIssues))
		issues = append(issues, scIssues...)
	}

	switch {
	case defaultCount == 0:
		issue := report.Issue{
			Severity: report.Warning, Category: "storage", RuleCode: "STO-009",
			Description: "no default StorageClass is configured",
			Recommendation: "mark one StorageClass as default",
		}
		checks = append(checks, checkFromIssues("StorageClass", "cluster", []report.Issue{issue}))
		issues = append(issues, issue)
	case defaultCount > 1:
		issue := report.Issue{
			Severity: report.Critical, Category: "storage", RuleCode: "STO-010",
			Description: fmt.Sprintf("%d StorageClasses are marked default: %v", defaultCount, defaultNames),
			Recommendation: "keep exactly one default StorageClass",
		}
		checks = append(checks, checkFromIssues("StorageClass", "cluster", []report.Issue{issue}))
		issues = append(issues, issue)
	}

	return seal(res, checks, issues)
}
