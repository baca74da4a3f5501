package inspect

import (
	"fmt"
	"time"

	batchv1 "k8s.io/api/batch/v1"

	"github.com/kubilitics/kube-inspector/internal/report"
)

// jobStuckGrace bounds how long a Job may run without an
// activeDeadlineSeconds before it is considered stuck (BATCH-005).
const jobStuckGrace = 24 * time.Hour

// InspectBatch evaluates CronJob scheduling health and Job completion
// state (§4.3 BATCH-001..BATCH-005).
func InspectBatch(cronJobs []batchv1.CronJob, jobs []batchv1.Job) report.InspectionResult {
	res := newResult(report.TypeBatch)

	var checks []report.CheckResult
	var issues []report.Issue

	for _, cj := range cronJobs {
		ref := cj.Namespace + "/" + cj.Name
		var cjIssues []report.Issue

		if cj.Spec.Suspend != nil && *cj.Spec.Suspend {
			cjIssues = append(cjIssues, report.Issue{
				Severity: report.Info, Category: "batch", RuleCode: "BATCH-001",
				Description: fmt.Sprintf("CronJob %s is suspended", ref), Resource: ref,
				Recommendation: "confirm the suspension is intentional",
			})
		}

		switch {
		case cj.Status.LastScheduleTime == nil:
			cjIssues = append(cjIssues, report.Issue{
				Severity: report.Info, Category: "batch", RuleCode: "BATCH-003",
				Description: fmt.Sprintf("CronJob %s has never been scheduled", ref), Resource: ref,
				Recommendation: "verify the schedule expression and controller health",
			})
		case cj.Status.LastSuccessfulTime == nil || cj.Status.LastSuccessfulTime.Before(cj.Status.LastScheduleTime):
			cjIssues = append(cjIssues, report.Issue{
				Severity: report.Warning, Category: "batch", RuleCode: "BATCH-002",
				Description: fmt.Sprintf("CronJob %s's last scheduled run did not succeed", ref), Resource: ref,
				Recommendation: "inspect the most recent Job's pod logs",
			})
		}

		checks = append(checks, checkFromIssues("CronJob", ref, cjIssues))
		issues = append(issues, cjIssues...)
	}

	for _, job := range jobs {
		ref := job.Namespace + "/" + job.Name
		var jobIssues []report.Issue

		limit := int32(6)
		if job.Spec.BackoffLimit != nil {
			limit = *job.Spec.BackoffLimit
		}
		if job.Status.Failed > limit {
			jobIssues = append(jobIssues, report.Issue{
				Severity: report.Warning, Category: "batch", RuleCode: "BATCH-004",
				Description: fmt.Sprintf("Job %s has %d failures, beyond its backoffLimit of %d", ref, job.Status.Failed, limit), Resource: ref,
				Recommendation: "inspect pod logs for the recurring failure cause",
			})
		}

		stillActive := job.Status.Succeeded == 0 && job.Status.CompletionTime == nil
		if stillActive && job.Spec.ActiveDeadlineSeconds == nil && time.Since(job.CreationTimestamp.Time) > jobStuckGrace {
			jobIssues = append(jobIssues, report.Issue{
				Severity: report.Warning, Category: "batch", RuleCode: "BATCH-005",
				Description: fmt.Sprintf("Job %s has been running for over %s with no activeDeadlineSeconds", ref, jobStuckGrace), Resource: ref,
				Recommendation: "set activeDeadlineSeconds or investigate why the job has not completed",
			})
		}

		checks = append(checks, checkFromIssues("Job", ref, jobIssues))
		issues = append(issues, jobIssues...)
	}

	return seal(res, checks, issues)
}
