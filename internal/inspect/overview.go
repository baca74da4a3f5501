package inspect

import (
	"context"
	"sort"
	"time"

	corev1 "k8s.io/api/core/v1"

	"github.com/kubilitics/kube-inspector/internal/k8s"
	"github.com/kubilitics/kube-inspector/internal/report"
)

const topContainerUsageRows = 10

// buildOverview assembles the ClusterOverview (§3, §4.2 step 1). It fails
// soft: any individual list call that errors leaves its corresponding
// overview field at its zero value rather than aborting the report.
func buildOverview(ctx context.Context, client *k8s.Client, nodes []corev1.Node, allPods []corev1.Pod, namespaces []corev1.Namespace) *report.ClusterOverview {
	overview := &report.ClusterOverview{
		NodeCount:      len(nodes),
		PodCount:       len(allPods),
		NamespaceCount: len(namespaces),
	}

	if v, err := client.GetServerVersion(ctx); err == nil {
		overview.ServerVersion = v
	}

	for _, ns := range namespaces {
		if ns.Name == "kube-system" {
			overview.ClusterAgeDays = int(time.Since(ns.CreationTimestamp.Time).Hours() / 24)
		}
	}

	for _, node := range nodes {
		ready := conditionStatus(node, corev1.NodeReady) == corev1.ConditionTrue
		if ready {
			overview.ReadyNodeCount++
		}
		overview.NodeConditions = append(overview.NodeConditions, report.NodeConditionFlags{
			Name: node.Name, Ready: ready,
			MemoryPressure: conditionStatus(node, corev1.NodeMemoryPressure) == corev1.ConditionTrue,
			DiskPressure:   conditionStatus(node, corev1.NodeDiskPressure) == corev1.ConditionTrue,
			PIDPressure:    conditionStatus(node, corev1.NodePIDPressure) == corev1.ConditionTrue,
		})
		if overview.ContainerRuntime == "" {
			overview.ContainerRuntime = node.Status.NodeInfo.ContainerRuntimeVersion
		}
	}

	deployments, _ := client.ListDeployments(ctx, "")
	for _, d := range deployments {
		overview.Workloads.Deployments++
		overview.Workloads.DeploymentsReady += int(d.Status.ReadyReplicas)
	}
	statefulSets, _ := client.ListStatefulSets(ctx, "")
	for _, s := range statefulSets {
		overview.Workloads.StatefulSets++
		overview.Workloads.StatefulSetsReady += int(s.Status.ReadyReplicas)
	}
	daemonSets, _ := client.ListDaemonSets(ctx, "")
	for _, d := range daemonSets {
		overview.Workloads.DaemonSets++
		overview.Workloads.DaemonSetsReady += int(d.Status.NumberReady)
	}

	pvs, _ := client.ListPersistentVolumes(ctx)
	overview.Storage.PersistentVolumes = len(pvs)
	for _, pv := range pvs {
		if pv.Status.Phase == corev1.VolumeBound {
			overview.Storage.Bound++
		}
	}
	pvcs, _ := client.ListPersistentVolumeClaims(ctx, "")
	overview.Storage.PersistentVolumeClaims = len(pvcs)
	classes, _ := client.ListStorageClasses(ctx)
	overview.Storage.StorageClassCount = len(classes)
	for _, sc := range classes {
		if sc.Annotations[defaultStorageClassAnnotation] == "true" {
			overview.Storage.DefaultPresent = true
		}
	}

	if usage, err := client.GetTopPodUsage(ctx, ""); err == nil && len(usage) > 0 {
		sort.Slice(usage, func(i, j int) bool { return usage[i].CPUMilli > usage[j].CPUMilli })
		limit := topContainerUsageRows
		if limit > len(usage) {
			limit = len(usage)
		}
		for _, pu := range usage[:limit] {
			for _, c := range pu.Containers {
				overview.TopContainerUsage = append(overview.TopContainerUsage, report.ContainerUsageRow{
					Namespace: pu.Namespace, Pod: pu.Name, Container: c.Name, CPUMilli: c.CPUMilli, MemoryMiB: c.MemoryMiB,
				})
			}
		}
	}

	return overview
}
