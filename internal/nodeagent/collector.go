package nodeagent

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
	corev1 "k8s.io/api/core/v1"

	"github.com/kubilitics/kube-inspector/internal/k8s"
	"github.com/kubilitics/kube-inspector/internal/report"
)

// agentLabel selects the node-inspector DaemonSet's pods within the
// configured namespace (§6.2).
const agentLabel = "app=kubeowler-node-inspector"

const agentTailLines = 4096

// agentContainerName is the single container in the node-inspector pod
// spec whose log carries the trailing JSON payload (§4.4 step 2).
const agentContainerName = "inspector"

// collectorPoolSize mirrors the dispatcher's §5 default of
// min(cpu_count*2, 16) so per-pod log fetches share the same bound.
func collectorPoolSize() int {
	n := runtime.NumCPU() * 2
	if n > 16 {
		n = 16
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Diagnostic records one node whose agent payload could not be collected,
// so the dispatcher can surface it without failing the whole report.
type Diagnostic struct {
	NodeName string
	Reason   string
}

// Collect fetches the agent payload from every node-inspector pod in
// nodeInspectorNamespace, joins it with the API-derived per-node container
// state counts, and returns one NodeInspectionResult per node that
// responded, sorted by node name. Pods that fail to produce a usable
// payload are skipped and reported as Diagnostics rather than aborting
// the whole collection (§6.2, §7 partial-failure tolerance).
func Collect(ctx context.Context, client *k8s.Client, nodeInspectorNamespace string, allPods []corev1.Pod) ([]report.NodeInspectionResult, []Diagnostic) {
	agentPods, err := client.ListPods(ctx, nodeInspectorNamespace, "")
	if err != nil {
		return nil, []Diagnostic{{Reason: fmt.Sprintf("list node-inspector pods: %v", err)}}
	}

	var targets []corev1.Pod
	for _, p := range agentPods {
		if p.Labels["app"] == "kubeowler-node-inspector" {
			targets = append(targets, p)
		}
	}

	stateCounts := containerStateCountsByNode(allPods)

	var (
		mu          sync.Mutex
		results     []report.NodeInspectionResult
		diagnostics []Diagnostic
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(collectorPoolSize())

	for _, pod := range targets {
		pod := pod
		g.Go(func() error {
			nodeName := pod.Spec.NodeName
			logs, err := client.GetPodLogs(gctx, pod.Namespace, pod.Name, agentContainerName, agentTailLines)
			if err != nil {
				mu.Lock()
				diagnostics = append(diagnostics, Diagnostic{NodeName: nodeName, Reason: fmt.Sprintf("fetch logs: %v", err)})
				mu.Unlock()
				return nil
			}
			payload, ok := LastJSONObject([]byte(logs))
			if !ok {
				mu.Lock()
				diagnostics = append(diagnostics, Diagnostic{NodeName: nodeName, Reason: "no complete JSON payload found in log output"})
				mu.Unlock()
				return nil
			}
			node := toNodeInspectionResult(payload)
			node.ContainerStateCounts = stateCounts[node.NodeName]

			mu.Lock()
			results = append(results, node)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].NodeName < results[j].NodeName })
	sort.Slice(diagnostics, func(i, j int) bool { return diagnostics[i].NodeName < diagnostics[j].NodeName })

	return results, diagnostics
}

// containerStateCountsByNode aggregates running/waiting/terminated
// container states across all pods, keyed by the node they are scheduled
// on, so they can be joined onto a node-agent payload even when the agent
// itself cannot see container runtime state directly.
func containerStateCountsByNode(pods []corev1.Pod) map[string]map[string]int {
	out := make(map[string]map[string]int)
	for _, pod := range pods {
		if pod.Spec.NodeName == "" {
			continue
		}
		counts := out[pod.Spec.NodeName]
		if counts == nil {
			counts = map[string]int{"running": 0, "waiting": 0, "terminated": 0}
			out[pod.Spec.NodeName] = counts
		}
		for _, cs := range pod.Status.ContainerStatuses {
			switch {
			case cs.State.Running != nil:
				counts["running"]++
			case cs.State.Waiting != nil:
				counts["waiting"]++
			case cs.State.Terminated != nil:
				counts["terminated"]++
			}
		}
	}
	return out
}

func toNodeInspectionResult(p Payload) report.NodeInspectionResult {
	n := report.NodeInspectionResult{
		NodeName:       p.NodeName,
		Hostname:       p.Hostname,
		AgentUTCTime:   p.AgentUTCTime,
		AgentLocalTime: p.AgentLocal,
		Runtime:        p.Runtime,
		OSVersion:      p.OSVersion,
		KernelVersion:  p.KernelVersion,
		Uptime:         p.Uptime,
	}

	if p.Resources != nil {
		n.Resources = report.NodeResources{
			CPUCores: p.Resources.CPUCores, CPUUsed: p.Resources.CPUUsed, CPUUsedPct: p.Resources.CPUUsedPct,
			MemoryTotalMiB: p.Resources.MemoryTotalMiB, MemoryUsedMiB: p.Resources.MemoryUsedMiB, MemoryUsedPct: p.Resources.MemoryUsedPct,
			RootDiskPct: p.Resources.RootDiskPct, DiskTotalG: p.Resources.DiskTotalG, DiskUsedG: p.Resources.DiskUsedG, DiskUsedPct: p.Resources.DiskUsedPct,
			Load1m: p.Resources.Load1m, Load5m: p.Resources.Load5m, Load15m: p.Resources.Load15m,
			SwapEnabled: p.Resources.SwapEnabled, SwapTotalG: p.Resources.SwapTotalG, SwapUsedG: p.Resources.SwapUsedG, SwapUsedPct: p.Resources.SwapUsedPct,
			Status: p.Resources.Status, Detail: p.Resources.Detail,
		}
	}
	if p.Services != nil {
		n.Services = report.NodeServices{
			Runtime: p.Services.Runtime, NTPSynced: p.Services.NTPSynced, JournaldActive: p.Services.JournaldActive,
			CrontabPresent: p.Services.CrontabPresent, KubeletRunning: p.Services.KubeletRunning, ContainerRuntimeRunning: p.Services.ContainerRuntimeRunning,
			Status: p.Services.Status, Detail: p.Services.Detail,
		}
	}
	if p.Security != nil {
		n.Security = report.NodeSecurity{
			SELinux: p.Security.SELinux, FirewalldActive: p.Security.FirewalldActive, IPVSLoaded: p.Security.IPVSLoaded,
			BrNetfilterLoaded: p.Security.BrNetfilterLoaded, OverlayLoaded: p.Security.OverlayLoaded, NFConntrackLoaded: p.Security.NFConntrackLoaded,
			NFConntrackCount: p.Security.NFConntrackCount, NFConntrackMax: p.Security.NFConntrackMax,
			Status: p.Security.Status, Detail: p.Security.Detail,
		}
	}
	if p.Kernel != nil {
		n.Kernel = report.NodeKernel{
			NetIPv4IPForward: p.Kernel.NetIPv4IPForward, VMSwappiness: p.Kernel.VMSwappiness, NetCoreSomaxconn: p.Kernel.NetCoreSomaxconn,
			Status: p.Kernel.Status, Detail: p.Kernel.Detail,
		}
	}
	if p.Stability != nil {
		n.Stability = &report.NodeStability{
			InodeUsedPct: p.Stability.InodeUsedPct, OOMKillCount: p.Stability.OOMKillCount,
			FileNrOpen: p.Stability.FileNrOpen, FileNrMax: p.Stability.FileNrMax,
		}
	}
	n.ZombieCount = p.ZombieCount
	n.IssueCount = p.IssueCount

	for _, c := range p.Certificates {
		n.Certificates = append(n.Certificates, report.NodeCertificate{
			Path: c.Path, ExpirationDate: c.ExpirationDate, DaysRemaining: c.DaysRemaining, Status: c.Status,
		})
	}
	for _, d := range p.Disks {
		n.Disks = append(n.Disks, report.NodeDiskMount{
			Device: d.Device, MountPoint: d.MountPoint, FSType: d.FSType, TotalG: d.TotalG, UsedG: d.UsedG, UsedPct: d.UsedPct,
		})
	}

	return n
}
