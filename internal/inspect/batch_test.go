package inspect

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	batchv1 "k8s.io/api/batch/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func TestInspectBatchSuspendedCronJob(t *testing.T) {
	suspend := true
	cj := batchv1.CronJob{
		ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: "nightly"},
		Spec:       batchv1.CronJobSpec{Suspend: &suspend},
	}
	result := InspectBatch([]batchv1.CronJob{cj}, nil)
	assert.NotNil(t, findIssue(result.Summary.Issues, "BATCH-001"))
}

func TestInspectBatchNeverScheduledCronJob(t *testing.T) {
	cj := batchv1.CronJob{ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: "never"}}
	result := InspectBatch([]batchv1.CronJob{cj}, nil)
	assert.NotNil(t, findIssue(result.Summary.Issues, "BATCH-003"))
}

func TestInspectBatchLastRunFailed(t *testing.T) {
	scheduled := metav1.NewTime(time.Now())
	successful := metav1.NewTime(time.Now().Add(-time.Hour))
	cj := batchv1.CronJob{
		ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: "flaky"},
		Status:     batchv1.CronJobStatus{LastScheduleTime: &scheduled, LastSuccessfulTime: &successful},
	}
	result := InspectBatch([]batchv1.CronJob{cj}, nil)
	issue := findIssue(result.Summary.Issues, "BATCH-002")
	assert.NotNil(t, issue)
}

func TestInspectBatchJobExceedsBackoffLimit(t *testing.T) {
	limit := int32(3)
	job := batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{Namespace: "default", Name: "etl"},
		Spec:       batchv1.JobSpec{BackoffLimit: &limit},
		Status:     batchv1.JobStatus{Failed: 5},
	}
	result := InspectBatch(nil, []batchv1.Job{job})
	issue := findIssue(result.Summary.Issues, "BATCH-004")
	assert.NotNil(t, issue)
}

func TestInspectBatchStuckJobWithNoDeadline(t *testing.T) {
	job := batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{
			Namespace:         "default",
			Name:              "stuck",
			CreationTimestamp: metav1.NewTime(time.Now().Add(-48 * time.Hour)),
		},
	}
	result := InspectBatch(nil, []batchv1.Job{job})
	issue := findIssue(result.Summary.Issues, "BATCH-005")
	assert.NotNil(t, issue)
}
