package inspect

import (
	"fmt"

	autoscalingv2 "k8s.io/api/autoscaling/v2"

	"github.com/kubilitics/kube-inspector/internal/k8s"
	"github.com/kubilitics/kube-inspector/internal/report"
)

// restrictiveBehaviorPeriodSeconds and the percent/pods floors define
// AUTO-004's "overly restrictive scaling behaviour" heuristic.
const (
	restrictiveBehaviorPeriodSeconds = 15
	restrictivePercentFloor          = 10
	restrictivePodsFloor             = 2
)

// InspectAutoscaling evaluates HorizontalPodAutoscaler configuration across
// whichever API version each object was read as (§4.3 AUTO-001..AUTO-005).
func InspectAutoscaling(hpas []k8s.HPAResult) report.InspectionResult {
	res := newResult(report.TypeAutoscaling)

	var checks []report.CheckResult
	var issues []report.Issue

	for _, hpa := range hpas {
		var ref string
		var issuesForHPA []report.Issue

		switch {
		case hpa.V2 != nil:
			ref = hpa.V2.Namespace + "/" + hpa.V2.Name
			issuesForHPA = evaluateHPAv2(ref, hpa.V2)
		case hpa.V1 != nil:
			ref = hpa.V1.Namespace + "/" + hpa.V1.Name
			issuesForHPA = evaluateMinMax(ref, hpa.V1.Spec.MinReplicas, hpa.V1.Spec.MaxReplicas)
		default:
			continue
		}

		checks = append(checks, checkFromIssues("HorizontalPodAutoscaler", ref, issuesForHPA))
		issues = append(issues, issuesForHPA...)
	}

	return seal(res, checks, issues)
}

func evaluateHPAv2(ref string, hpa *autoscalingv2.HorizontalPodAutoscaler) []report.Issue {
	issues := evaluateMinMax(ref, hpa.Spec.MinReplicas, hpa.Spec.MaxReplicas)

	if len(hpa.Spec.Metrics) == 0 {
		issues = append(issues, report.Issue{
			Severity: report.Warning, Category: "autoscaling", RuleCode: "AUTO-002",
			Description: fmt.Sprintf("HPA %s has an empty metrics list", ref), Resource: ref,
			Recommendation: "define at least one scaling metric",
		})
	}
	for _, m := range hpa.Spec.Metrics {
		if metricMissingTarget(m) {
			issues = append(issues, report.Issue{
				Severity: report.Warning, Category: "autoscaling", RuleCode: "AUTO-005",
				Description: fmt.Sprintf("HPA %s has a metric entry missing its target", ref), Resource: ref,
				Recommendation: "set a target value, averageValue, or averageUtilization",
			})
		}
	}

	targetMissing := hpa.Spec.ScaleTargetRef.Name == ""
	metricsConditionFalse := false
	for _, cond := range hpa.Status.Conditions {
		if cond.Type == autoscalingv2.ScalingActive && cond.Status == autoscalingv2.ConditionFalse {
			metricsConditionFalse = true
		}
	}
	if targetMissing || metricsConditionFalse {
		issues = append(issues, report.Issue{
			Severity: report.Warning, Category: "autoscaling", RuleCode: "AUTO-003",
			Description: fmt.Sprintf("HPA %s has no scale target or its metrics are not active", ref), Resource: ref,
			Recommendation: "verify the scaleTargetRef exists and metrics are reachable",
		})
	}

	if behavior := hpa.Spec.Behavior; behavior != nil {
		if isRestrictive(behavior.ScaleUp) || isRestrictive(behavior.ScaleDown) {
			issues = append(issues, report.Issue{
				Severity: report.Info, Category: "autoscaling", RuleCode: "AUTO-004",
				Description: fmt.Sprintf("HPA %s has an overly restrictive scaling behaviour", ref), Resource: ref,
				Recommendation: "raise the percent/pods step or lengthen the stabilization period",
			})
		}
	}

	return issues
}

func evaluateMinMax(ref string, minReplicas *int32, maxReplicas int32) []report.Issue {
	min := int32(1)
	if minReplicas != nil {
		min = *minReplicas
	}
	if min == maxReplicas || (maxReplicas-min) < 2 {
		return []report.Issue{{
			Severity: report.Warning, Category: "autoscaling", RuleCode: "AUTO-001",
			Description: fmt.Sprintf("HPA %s has a narrow min/max replica spread (%d/%d)", ref, min, maxReplicas), Resource: ref,
			Recommendation: "widen the min/max replica range to allow meaningful scaling",
		}}
	}
	return nil
}

func metricMissingTarget(m autoscalingv2.MetricSpec) bool {
	switch m.Type {
	case autoscalingv2.ResourceMetricSourceType:
		return m.Resource == nil || targetEmpty(m.Resource.Target)
	case autoscalingv2.PodsMetricSourceType:
		return m.Pods == nil || targetEmpty(m.Pods.Target)
	case autoscalingv2.ObjectMetricSourceType:
		return m.Object == nil || targetEmpty(m.Object.Target)
	case autoscalingv2.ExternalMetricSourceType:
		return m.External == nil || targetEmpty(m.External.Target)
	case autoscalingv2.ContainerResourceMetricSourceType:
		return m.ContainerResource == nil || targetEmpty(m.ContainerResource.Target)
	default:
		return false
	}
}

func targetEmpty(t autoscalingv2.MetricTarget) bool {
	return t.Value == nil && t.AverageValue == nil && t.AverageUtilization == nil
}

func isRestrictive(rules *autoscalingv2.HPAScalingRules) bool {
	if rules == nil {
		return false
	}
	for _, policy := range rules.Policies {
		if policy.PeriodSeconds > restrictiveBehaviorPeriodSeconds {
			continue
		}
		if policy.Type == autoscalingv2.PercentScalingPolicy && policy.Value < restrictivePercentFloor {
			return true
		}
		if policy.Type == autoscalingv2.PodsScalingPolicy && policy.Value < restrictivePodsFloor {
			return true
		}
	}
	return false
}
