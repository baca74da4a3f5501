package inspect

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
	corev1 "k8s.io/api/core/v1"

	"github.com/kubilitics/kube-inspector/internal/k8s"
	"github.com/kubilitics/kube-inspector/internal/nodeagent"
	"github.com/kubilitics/kube-inspector/internal/report"
	"github.com/kubilitics/kube-inspector/internal/score"
)

// eventMessageMaxGraphemes bounds a recent event's message width (§4.2 step 5).
const eventMessageMaxGraphemes = 60

// maxRecentEvents bounds the number of recent warning events carried in the report.
const maxRecentEvents = 50

// Options configures one dispatcher run.
type Options struct {
	Namespace                string // "" scopes to the whole cluster
	NodeInspectorNamespace   string
	ClusterName              string
	Deadline                 time.Duration
	RestartWarnThreshold     int32
	RestartCriticalThreshold int32
	WorkerPoolSize           int
}

// poolSize implements the §5 default: min(cpu_count*2, 16), unless overridden.
func (o Options) poolSize() int {
	if o.WorkerPoolSize > 0 {
		return o.WorkerPoolSize
	}
	n := runtime.NumCPU() * 2
	if n > 16 {
		n = 16
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Run executes every domain inspector plus the node-agent collector,
// assembles the ClusterOverview, and seals a finished ClusterReport
// (§4.2 Inspection Dispatcher algorithm).
func Run(ctx context.Context, client *k8s.Client, opts Options) *report.ClusterReport {
	if opts.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Deadline)
		defer cancel()
	}

	nodes, nodesErr := client.ListNodes(ctx)
	namespaces, _ := client.ListNamespaces(ctx)
	if opts.Namespace != "" {
		namespaces = filterNamespaces(namespaces, opts.Namespace)
	}
	allPods, _ := client.ListPods(ctx, "", "")
	scopedPods, _ := client.ListPods(ctx, opts.Namespace, "")

	quotaPresent, limitRangePresent := namespacePolicyPresence(ctx, client, namespaces)

	var (
		mu      sync.Mutex
		results []report.InspectionResult
		agentNodes []report.NodeInspectionResult
		diagnostics []nodeagent.Diagnostic
	)
	appendResult := func(r report.InspectionResult) {
		mu.Lock()
		results = append(results, r)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.poolSize())

	g.Go(func() error {
		appendResult(InspectNodes(nodes, nodesErr, nil)) // zombie/mount checks filled in after agent collection
		return nil
	})
	g.Go(func() error {
		appendResult(InspectPods(scopedPods, orDefault32(opts.RestartWarnThreshold, 10), orDefault32(opts.RestartCriticalThreshold, 30)))
		return nil
	})
	g.Go(func() error {
		appendResult(InspectResources(scopedPods, namespaces, quotaPresent))
		return nil
	})
	g.Go(func() error {
		services, _ := client.ListServices(gctx, opts.Namespace)
		endpoints, _ := client.ListEndpoints(gctx, opts.Namespace)
		deployments, _ := client.ListDeployments(gctx, "")
		appendResult(InspectNetwork(services, endpoints, deployments))
		return nil
	})
	g.Go(func() error {
		pvs, _ := client.ListPersistentVolumes(gctx)
		pvcs, _ := client.ListPersistentVolumeClaims(gctx, opts.Namespace)
		classes, _ := client.ListStorageClasses(gctx)
		appendResult(InspectStorage(pvs, pvcs, classes))
		return nil
	})
	g.Go(func() error {
		clusterRoles, _ := client.ListClusterRoles(gctx)
		clusterRoleBindings, _ := client.ListClusterRoleBindings(gctx)
		netpols, _ := client.ListNetworkPolicies(gctx, opts.Namespace)
		appendResult(InspectSecurity(clusterRoles, clusterRoleBindings, scopedPods, namespaces, netpols))
		return nil
	})
	g.Go(func() error {
		componentStatuses, _ := client.ListComponentStatuses(gctx)
		kubeSystemPods, _ := client.ListPods(gctx, "kube-system", "")
		appendResult(InspectControlPlane(componentStatuses, kubeSystemPods))
		return nil
	})
	g.Go(func() error {
		hpas, _ := client.ListHPAs(gctx, opts.Namespace)
		appendResult(InspectAutoscaling(hpas))
		return nil
	})
	g.Go(func() error {
		cronJobs, _ := client.ListCronJobs(gctx, opts.Namespace)
		jobs, _ := client.ListJobs(gctx, opts.Namespace)
		appendResult(InspectBatch(cronJobs, jobs))
		return nil
	})
	g.Go(func() error {
		deployments, _ := client.ListDeployments(gctx, opts.Namespace)
		pdbs, _ := client.ListPodDisruptionBudgets(gctx, opts.Namespace)
		appendResult(InspectPolicies(namespaces, quotaPresent, limitRangePresent, deployments, pdbs))
		return nil
	})
	g.Go(func() error {
		deployments, _ := client.ListDeployments(gctx, "")
		daemonSets, _ := client.ListDaemonSets(gctx, "")
		statefulSets, _ := client.ListStatefulSets(gctx, "")
		appendResult(InspectObservability(deployments, daemonSets, statefulSets))
		return nil
	})
	g.Go(func() error {
		csrs, _ := client.ListCertificateSigningRequests(gctx)
		tlsSecrets, _ := client.ListTLSSecrets(gctx, opts.Namespace)
		appendResult(InspectCertificates(csrs, tlsSecrets, time.Now().UTC()))
		return nil
	})
	g.Go(func() error {
		serverVersion, _ := client.GetServerVersion(gctx)
		appendResult(InspectUpgrade(nodes, serverVersion))
		return nil
	})
	g.Go(func() error {
		deployments, _ := client.ListDeployments(gctx, "")
		netpols, _ := client.ListNetworkPolicies(gctx, "")
		appendResult(InspectNamespaceSummary(namespaces, allPods, deployments, netpols, quotaPresent, limitRangePresent))
		return nil
	})
	g.Go(func() error {
		an, diags := nodeagent.Collect(gctx, client, opts.NodeInspectorNamespace, allPods)
		mu.Lock()
		agentNodes = an
		diagnostics = diags
		mu.Unlock()
		return nil
	})

	_ = g.Wait()

	if ctx.Err() == context.DeadlineExceeded {
		for i := range results {
			results[i].Checks = append(results[i].Checks, deadlineCheck(string(results[i].Type)))
		}
	}

	for i, r := range results {
		if r.Type == report.TypeNodes {
			results[i] = InspectNodes(nodes, nodesErr, agentNodes)
		}
	}

	sort.Slice(results, func(i, j int) bool { return ordinalIndex(results[i].Type) < ordinalIndex(results[j].Type) })

	overview := buildOverview(ctx, client, nodes, allPods, namespaces)

	events := collectEvents(ctx, client)

	displayTimestamp := time.Now().UTC().Format("2006-01-02 15:04:05 MST")
	if len(agentNodes) > 0 && agentNodes[0].AgentLocalTime != "" {
		displayTimestamp = agentNodes[0].AgentLocalTime
	}

	overall := score.Overall(results)
	exec := score.Summarize(results, overall)

	if len(nodes) == 0 && len(namespaces) == 0 && len(allPods) == 0 {
		overall = score.EmptyClusterScore
		exec.HealthBand = score.HealthBand(overall)
		exec.InfoCount++
		exec.Recommendations = append([]report.Recommendation{score.EmptyClusterRecommendation()}, exec.Recommendations...)
	}

	for _, d := range diagnostics {
		exec.Recommendations = append(exec.Recommendations, report.Recommendation{
			Severity: report.Warning, Description: "node-agent collection skipped " + d.NodeName + ": " + d.Reason,
		})
	}

	return &report.ClusterReport{
		ClusterName:      opts.ClusterName,
		GeneratedAt:      time.Now().UTC(),
		DisplayTimestamp: displayTimestamp,
		OverallScore:     overall,
		ExecutiveSummary: exec,
		Inspections:      results,
		Overview:         overview,
		Nodes:            agentNodes,
		Events:           events,
	}
}

func orDefault32(v, def int32) int32 {
	if v > 0 {
		return v
	}
	return def
}

func ordinalIndex(t report.InspectionType) int {
	for i, ord := range report.Ordinal {
		if ord == t {
			return i
		}
	}
	return len(report.Ordinal)
}

func filterNamespaces(namespaces []corev1.Namespace, name string) []corev1.Namespace {
	for _, ns := range namespaces {
		if ns.Name == name {
			return []corev1.Namespace{ns}
		}
	}
	return nil
}

// namespacePolicyPresence lists ResourceQuotas and LimitRanges once per
// namespace so the resources, policies, and namespace-summary inspectors
// all share the same presence maps instead of re-listing.
func namespacePolicyPresence(ctx context.Context, client *k8s.Client, namespaces []corev1.Namespace) (map[string]bool, map[string]bool) {
	quota := make(map[string]bool, len(namespaces))
	limitRange := make(map[string]bool, len(namespaces))
	for _, ns := range namespaces {
		quotas, _ := client.ListResourceQuotas(ctx, ns.Name)
		quota[ns.Name] = len(quotas) > 0
		limitRanges, _ := client.ListLimitRanges(ctx, ns.Name)
		limitRange[ns.Name] = len(limitRanges) > 0
	}
	return quota, limitRange
}

func collectEvents(ctx context.Context, client *k8s.Client) []report.EventRow {
	events, err := client.ListRecentWarningEvents(ctx, maxRecentEvents)
	if err != nil {
		return nil
	}
	rows := make([]report.EventRow, 0, len(events))
	for _, e := range events {
		rows = append(rows, report.EventRow{
			Namespace: e.Namespace, InvolvedObjectKind: e.InvolvedObject.Kind, InvolvedObjectName: e.InvolvedObject.Name,
			Level: e.Type, Reason: e.Reason, Message: truncateGraphemes(e.Message, eventMessageMaxGraphemes),
			LastSeen: e.LastTimestamp.Time,
		})
	}
	return rows
}

func truncateGraphemes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
