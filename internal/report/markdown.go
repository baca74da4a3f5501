package report

import (
	"fmt"
	"strings"
)

// RuleDocLink returns the relative doc path for a rule code (§6.3).
func RuleDocLink(code string) string {
	if code == "" {
		return ""
	}
	if info, ok := Rules[code]; ok {
		return "docs/issues/" + info.DocPath
	}
	return "docs/issues/" + code + ".md"
}

// stripHostPrefix removes a leading "/host" mount-namespace prefix so node
// paths and certificate paths are shown in host perspective (§4.6).
func stripHostPrefix(path string) string {
	return strings.TrimPrefix(path, "/host")
}

// RenderMarkdown is the canonical renderer (§4.6): deterministic, pure.
func RenderMarkdown(r *ClusterReport) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# Kubernetes Inspection Report: %s\n\n", r.ClusterName)
	fmt.Fprintf(&b, "Generated: %s\n\n", r.DisplayTimestamp)
	fmt.Fprintf(&b, "Report ID: `%s`\n\n", r.ReportID)
	fmt.Fprintf(&b, "## Overall Score: %.1f (%s)\n\n", r.OverallScore, r.ExecutiveSummary.HealthBand)

	b.WriteString("## Executive Summary\n\n")
	fmt.Fprintf(&b, "- Critical: %d\n", r.ExecutiveSummary.CriticalCount)
	fmt.Fprintf(&b, "- Warning: %d\n", r.ExecutiveSummary.WarningCount)
	fmt.Fprintf(&b, "- Info: %d\n\n", r.ExecutiveSummary.InfoCount)
	if len(r.ExecutiveSummary.Recommendations) > 0 {
		b.WriteString("### Top Recommendations\n\n")
		for _, rec := range r.ExecutiveSummary.Recommendations {
			fmt.Fprintf(&b, "- **[%s]** [%s](%s): %s", rec.Severity.String(), rec.RuleCode, RuleDocLink(rec.RuleCode), rec.Description)
			if rec.Resource != "" {
				fmt.Fprintf(&b, " (`%s`)", rec.Resource)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if r.Overview != nil {
		renderOverview(&b, r.Overview)
	}

	for _, insp := range r.Inspections {
		renderInspection(&b, insp)
	}

	if len(r.Nodes) > 0 {
		renderNodes(&b, r.Nodes)
	}

	if len(r.Events) > 0 {
		renderEvents(&b, r.Events)
	}

	return []byte(b.String()), nil
}

func renderOverview(b *strings.Builder, o *ClusterOverview) {
	b.WriteString("## Cluster Overview\n\n")
	fmt.Fprintf(b, "- Server version: %s\n", o.ServerVersion)
	fmt.Fprintf(b, "- Nodes: %d (%d Ready)\n", o.NodeCount, o.ReadyNodeCount)
	fmt.Fprintf(b, "- Pods: %d\n", o.PodCount)
	fmt.Fprintf(b, "- Namespaces: %d\n", o.NamespaceCount)
	fmt.Fprintf(b, "- Cluster age: %d days\n", o.ClusterAgeDays)
	fmt.Fprintf(b, "- Container runtime: %s\n", o.ContainerRuntime)
	fmt.Fprintf(b, "- Deployments: %d/%d ready\n", o.Workloads.DeploymentsReady, o.Workloads.Deployments)
	fmt.Fprintf(b, "- StatefulSets: %d/%d ready\n", o.Workloads.StatefulSetsReady, o.Workloads.StatefulSets)
	fmt.Fprintf(b, "- DaemonSets: %d/%d ready\n", o.Workloads.DaemonSetsReady, o.Workloads.DaemonSets)
	fmt.Fprintf(b, "- PVs/PVCs: %d/%d (%d bound), %d StorageClasses, default present: %v\n\n",
		o.Storage.PersistentVolumes, o.Storage.PersistentVolumeClaims, o.Storage.Bound,
		o.Storage.StorageClassCount, o.Storage.DefaultPresent)

	if len(o.TopContainerUsage) > 0 {
		b.WriteString("### Top Container Usage\n\n")
		b.WriteString("| Namespace | Pod | Container | CPU (m) | Memory (MiB) |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, row := range o.TopContainerUsage {
			fmt.Fprintf(b, "| %s | %s | %s | %.0f | %.0f |\n", row.Namespace, row.Pod, row.Container, row.CPUMilli, row.MemoryMiB)
		}
		b.WriteString("\n")
	}
}

func renderInspection(b *strings.Builder, insp InspectionResult) {
	fmt.Fprintf(b, "## %s (subscore: %.1f)\n\n", string(insp.Type), insp.Subscore)

	if len(insp.Summary.Issues) == 0 {
		b.WriteString("No issues found.\n\n")
	} else {
		b.WriteString("| Severity | Code | Resource | Description | Recommendation |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, issue := range insp.Summary.Issues {
			code := issue.RuleCode
			link := ""
			if code != "" {
				link = fmt.Sprintf("[%s](%s)", code, RuleDocLink(code))
			}
			fmt.Fprintf(b, "| %s | %s | %s | %s | %s |\n",
				issue.Severity.String(), link, stripHostPrefix(issue.Resource), issue.Description, issue.Recommendation)
		}
		b.WriteString("\n")
	}

	if len(insp.CertificateTable) > 0 {
		b.WriteString("### Certificates\n\n")
		b.WriteString("| Resource | Days to Expiry | Expired |\n|---|---|---|\n")
		for _, row := range insp.CertificateTable {
			fmt.Fprintf(b, "| %s | %d | %v |\n", row.Resource, row.DaysToExpiry, row.Expired)
		}
		b.WriteString("\n")
	}

	if len(insp.PodContainerStates) > 0 {
		b.WriteString("### Container States\n\n")
		b.WriteString("| Resource | Container | State | Reason | Restarts |\n|---|---|---|---|---|\n")
		for _, row := range insp.PodContainerStates {
			fmt.Fprintf(b, "| %s | %s | %s | %s | %d |\n", row.Resource, row.Container, row.State, row.Reason, row.RestartCount)
		}
		b.WriteString("\n")
	}

	if len(insp.NamespaceSummaryRows) > 0 {
		b.WriteString("### Namespace Summary\n\n")
		b.WriteString("| Namespace | Pods | Deployments | NetworkPolicy | ResourceQuota | LimitRange |\n|---|---|---|---|---|---|\n")
		for _, row := range insp.NamespaceSummaryRows {
			fmt.Fprintf(b, "| %s | %d | %d | %v | %v | %v |\n",
				row.Namespace, row.PodCount, row.DeploymentCount, row.HasNetworkPolicy, row.HasResourceQuota, row.HasLimitRange)
		}
		b.WriteString("\n")
	}
}

func renderNodes(b *strings.Builder, nodes []NodeInspectionResult) {
	b.WriteString("## Node Inspection\n\n")
	for _, n := range nodes {
		fmt.Fprintf(b, "### %s\n\n", n.NodeName)
		if n.Hostname != "" {
			fmt.Fprintf(b, "- Hostname: %s\n", n.Hostname)
		}
		if n.Runtime != "" {
			fmt.Fprintf(b, "- Runtime: %s\n", n.Runtime)
		}
		if n.OSVersion != "" {
			fmt.Fprintf(b, "- OS: %s\n", n.OSVersion)
		}
		if n.KernelVersion != "" {
			fmt.Fprintf(b, "- Kernel: %s\n", n.KernelVersion)
		}
		if n.AgentLocalTime != "" {
			fmt.Fprintf(b, "- Agent local time: %s\n", n.AgentLocalTime)
		}
		if len(n.ContainerStateCounts) > 0 {
			fmt.Fprintf(b, "- Containers: running=%d waiting=%d terminated=%d\n",
				n.ContainerStateCounts["running"], n.ContainerStateCounts["waiting"], n.ContainerStateCounts["terminated"])
		}
		if len(n.Certificates) > 0 {
			b.WriteString("\n| Path | Expiration | Days Remaining | Status |\n|---|---|---|---|\n")
			for _, cert := range n.Certificates {
				fmt.Fprintf(b, "| %s | %s | %d | %s |\n", stripHostPrefix(cert.Path), cert.ExpirationDate, cert.DaysRemaining, cert.Status)
			}
		}
		if len(n.Disks) > 0 {
			b.WriteString("\n| Mount | Device | FSType | Used % |\n|---|---|---|---|\n")
			for _, d := range n.Disks {
				fmt.Fprintf(b, "| %s | %s | %s | %.1f |\n", stripHostPrefix(d.MountPoint), d.Device, d.FSType, d.UsedPct)
			}
		}
		b.WriteString("\n")
	}
}

func renderEvents(b *strings.Builder, events []EventRow) {
	b.WriteString("## Recent Events\n\n")
	b.WriteString("| Namespace | Object | Level | Reason | Message | Last Seen |\n|---|---|---|---|---|---|\n")
	for _, e := range events {
		fmt.Fprintf(b, "| %s | %s/%s | %s | %s | %s | %s |\n",
			e.Namespace, e.InvolvedObjectKind, e.InvolvedObjectName, e.Level, e.Reason, e.Message, e.LastSeen.Format("2006-01-02T15:04:05Z"))
	}
	b.WriteString("\n")
}
