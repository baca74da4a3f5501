package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kubilitics/kube-inspector/internal/config"
	"github.com/kubilitics/kube-inspector/internal/inspect"
	"github.com/kubilitics/kube-inspector/internal/k8s"
	"github.com/kubilitics/kube-inspector/internal/logger"
	"github.com/kubilitics/kube-inspector/internal/report"
)

type checkOptions struct {
	clusterName            string
	namespace              string
	nodeInspectorNamespace string
	output                 string
	format                 string
	configFile             string
	level                  string
}

func newRootCommand() *cobra.Command {
	opts := &checkOptions{}

	root := &cobra.Command{
		Use:   "kube-inspector",
		Short: "Read-only audit of a Kubernetes cluster's health, security, and hygiene",
	}

	check := &cobra.Command{
		Use:   "check",
		Short: "Inspect the cluster and write a report",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), opts)
		},
	}

	check.Flags().StringVar(&opts.clusterName, "cluster-name", "", "report title (default: kubeconfig current-context, else \"default\")")
	check.Flags().StringVarP(&opts.namespace, "namespace", "n", "", "scope inspection to one namespace (default: all)")
	check.Flags().StringVar(&opts.nodeInspectorNamespace, "node-inspector-namespace", "kubeowler", "namespace where node-agent pods live")
	check.Flags().StringVarP(&opts.output, "output", "o", "", "output file path (default: derived from cluster and timestamp)")
	check.Flags().StringVarP(&opts.format, "format", "f", "md", "output format: md | json | csv | html")
	check.Flags().StringVarP(&opts.configFile, "config-file", "c", "", "kubeconfig path (default: $KUBECONFIG, then ~/.kube/config)")
	check.Flags().StringVarP(&opts.level, "level", "l", "warning,critical", "\"all\" or CSV of info,warning,critical")

	root.AddCommand(check)
	return root
}

func runCheck(ctx context.Context, opts *checkOptions) error {
	ext, ok := formatExtensions[opts.format]
	if !ok {
		return invalidArgument("unsupported --format %q: must be one of md, json, csv, html", opts.format)
	}
	allowed, err := report.ParseSeverityFilter(opts.level)
	if err != nil {
		return invalidArgument("invalid --level %q: must be \"all\" or a CSV of info,warning,critical", opts.level)
	}

	// config.Load reads ambient tunables (worker pool size, timeouts, log
	// level) from KUBEOWLER_* environment variables and built-in defaults;
	// it is independent of --config-file, which names the kubeconfig.
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("%w: %v", report.ErrConfig, err)
	}
	log := logger.New(cfg.LogFormat, cfg.LogLevel)

	kubeconfigPath := resolveKubeconfigPath(opts.configFile)
	_, currentContext, _ := k8s.GetKubeconfigContexts(kubeconfigPath)

	clusterName := opts.clusterName
	if clusterName == "" {
		clusterName = currentContext
	}
	if clusterName == "" {
		clusterName = "default"
	}
	log.Info("starting cluster inspection", "cluster", clusterName, "namespace", opts.namespace, "format", opts.format)

	client, err := k8s.NewClient(kubeconfigPath, currentContext)
	if err != nil {
		return fmt.Errorf("%w: %v", report.ErrConfig, err)
	}
	client.SetTimeout(time.Duration(cfg.K8sTimeoutSec) * time.Second)
	client.SetClusterID(clusterName)

	if err := client.TestConnection(ctx); err != nil {
		log.Error("cluster connection failed", "error", err)
		return fmt.Errorf("connect to cluster: %w", err)
	}
	log.Debug("cluster connection established")

	result := inspect.Run(ctx, client, inspect.Options{
		Namespace:                opts.namespace,
		NodeInspectorNamespace:   opts.nodeInspectorNamespace,
		ClusterName:              clusterName,
		RestartWarnThreshold:     int32(cfg.RestartWarnThreshold),
		RestartCriticalThreshold: int32(cfg.RestartCriticalThreshold),
		WorkerPoolSize:           cfg.WorkerPoolSize,
	})
	result.ReportID = uuid.NewString()

	result = report.FilterSeverity(result, allowed)

	for _, rec := range result.ExecutiveSummary.Recommendations {
		if rec.RuleCode == "" {
			log.Warn("node-agent diagnostic", "detail", rec.Description)
		}
	}

	body, err := renderReport(opts.format, result)
	if err != nil {
		return fmt.Errorf("%w: %v", report.ErrRender, err)
	}

	outPath := opts.output
	if outPath == "" {
		outPath = defaultOutputPath(clusterName, result.DisplayTimestamp, ext)
	}
	if err := os.WriteFile(outPath, body, 0o644); err != nil {
		return fmt.Errorf("%w: %v", report.ErrRender, err)
	}

	log.Info("wrote report", "path", outPath, "overall_score", result.OverallScore)
	fmt.Printf("wrote %s report to %s (overall score %.1f)\n", opts.format, outPath, result.OverallScore)
	return nil
}

var formatExtensions = map[string]string{
	"md":   "md",
	"json": "json",
	"csv":  "csv",
	"html": "html",
}

func renderReport(format string, r *report.ClusterReport) ([]byte, error) {
	switch format {
	case "md":
		return report.RenderMarkdown(r)
	case "json":
		return report.RenderJSON(r)
	case "csv":
		return report.RenderCSV(r)
	case "html":
		return report.RenderHTML(r)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// resolveKubeconfigPath implements the --config-file default chain: the
// flag, then $KUBECONFIG, then the client's own default-location fallback
// (left as "" so k8s.NewClient applies in-cluster/~/.kube/config rules).
func resolveKubeconfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("KUBECONFIG"); env != "" {
		return strings.Split(env, string(os.PathListSeparator))[0]
	}
	return ""
}

// defaultOutputPath implements §4.6's naming convention, parsing the
// report's already-localised display timestamp back into the filename's
// compact form.
func defaultOutputPath(clusterName, displayTimestamp, ext string) string {
	stamp := time.Now().UTC().Format("2006-01-02-150405")
	if t, err := time.Parse("2006-01-02 15:04:05 MST", displayTimestamp); err == nil {
		stamp = t.Format("2006-01-02-150405")
	}
	name := fmt.Sprintf("%s-kubernetes-inspection-report-%s.%s", sanitizeForFilename(clusterName), stamp, ext)
	return filepath.Clean(name)
}

func sanitizeForFilename(s string) string {
	replacer := strings.NewReplacer("/", "-", "\\", "-", ":", "-", " ", "-")
	return replacer.Replace(s)
}
