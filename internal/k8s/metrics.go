package k8s

import (
	"context"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/api/meta"
	metricsv1beta1 "k8s.io/metrics/pkg/apis/metrics/v1beta1"
	"k8s.io/metrics/pkg/client/clientset/versioned"
)

// ContainerUsage is one container's current CPU/memory usage.
type ContainerUsage struct {
	Name      string
	CPUMilli  float64
	MemoryMiB float64
}

// PodUsage is a pod's current CPU/memory usage, summed across containers.
type PodUsage struct {
	Name       string
	Namespace  string
	CPUMilli   float64
	MemoryMiB  float64
	Containers []ContainerUsage
}

func podUsageFromMetrics(pm metricsv1beta1.PodMetrics) PodUsage {
	var totalCPU, totalMem float64
	containers := make([]ContainerUsage, 0, len(pm.Containers))
	for _, cu := range pm.Containers {
		cpuMilli := cu.Usage.Cpu().AsApproximateFloat64() * 1000
		memMi := float64(cu.Usage.Memory().Value()) / (1024 * 1024)
		totalCPU += cpuMilli
		totalMem += memMi
		containers = append(containers, ContainerUsage{Name: cu.Name, CPUMilli: cpuMilli, MemoryMiB: memMi})
	}
	return PodUsage{
		Name: pm.Name, Namespace: pm.Namespace,
		CPUMilli: totalCPU, MemoryMiB: totalMem, Containers: containers,
	}
}

// GetTopPodUsage returns current usage for every pod in namespace (""=all),
// sourced from the metrics-server API. Absence of the metrics subsystem is
// an expected condition (§4.1): it returns an empty slice, not an error.
func (c *Client) GetTopPodUsage(ctx context.Context, namespace string) ([]PodUsage, error) {
	metricsClient, err := versioned.NewForConfig(c.Config)
	if err != nil {
		return nil, fmt.Errorf("metrics client: %w", err)
	}
	items, err := call(c, ctx, func(ctx context.Context) ([]metricsv1beta1.PodMetrics, error) {
		l, err := metricsClient.MetricsV1beta1().PodMetricses(namespace).List(ctx, metav1.ListOptions{})
		if err != nil {
			if metricsSubsystemAbsent(err) {
				return nil, nil
			}
			return nil, err
		}
		return l.Items, nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]PodUsage, 0, len(items))
	for _, pm := range items {
		out = append(out, podUsageFromMetrics(pm))
	}
	return out, nil
}

// GetNodeUsage returns current CPU/memory usage for one node. ok is false
// when the metrics subsystem is absent.
func (c *Client) GetNodeUsage(ctx context.Context, nodeName string) (cpuMilli, memMi float64, ok bool, err error) {
	metricsClient, err := versioned.NewForConfig(c.Config)
	if err != nil {
		return 0, 0, false, fmt.Errorf("metrics client: %w", err)
	}
	type usage struct {
		cpuMilli, memMi float64
		ok              bool
	}
	u, err := call(c, ctx, func(ctx context.Context) (usage, error) {
		nm, err := metricsClient.MetricsV1beta1().NodeMetricses().Get(ctx, nodeName, metav1.GetOptions{})
		if err != nil {
			if metricsSubsystemAbsent(err) {
				return usage{}, nil
			}
			return usage{}, err
		}
		return usage{
			cpuMilli: nm.Usage.Cpu().AsApproximateFloat64() * 1000,
			memMi:    float64(nm.Usage.Memory().Value()) / (1024 * 1024),
			ok:       true,
		}, nil
	})
	if err != nil {
		return 0, 0, false, err
	}
	return u.cpuMilli, u.memMi, u.ok, nil
}

// metricsSubsystemAbsent reports whether err indicates metrics-server is not
// installed (no API group / no resource registered), as opposed to a
// transient or permission error that should propagate.
func metricsSubsystemAbsent(err error) bool {
	if err == nil {
		return false
	}
	if meta.IsNoMatchError(err) {
		return true
	}
	return apierrors.IsNotFound(err) || apierrors.IsServiceUnavailable(err)
}
