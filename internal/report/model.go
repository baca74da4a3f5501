// Package report holds the ClusterReport data model, the rule-code
// catalogue, and the renderers that turn a sealed ClusterReport into bytes.
package report

import "time"

// Severity orders Info < Warning < Critical, matching the §3 stable
// ordering used when sorting Issues inside a summary.
type Severity int

const (
	Info Severity = iota
	Warning
	Critical
)

func (s Severity) String() string {
	switch s {
	case Critical:
		return "Critical"
	case Warning:
		return "Warning"
	default:
		return "Info"
	}
}

// rank returns the sort position for severity ordering: Critical first.
func (s Severity) rank() int {
	switch s {
	case Critical:
		return 0
	case Warning:
		return 1
	default:
		return 2
	}
}

// Status is a CheckResult's outcome.
type Status string

const (
	StatusOk       Status = "Ok"
	StatusInfo     Status = "Info"
	StatusWarning  Status = "Warning"
	StatusCritical Status = "Critical"
)

// InspectionType names one of the 14 domain inspectors, in the canonical
// ordinal order the dispatcher reassembles results in.
type InspectionType string

const (
	TypeNodes            InspectionType = "nodes"
	TypePods             InspectionType = "pods"
	TypeResources        InspectionType = "resources"
	TypeNetwork          InspectionType = "network"
	TypeStorage          InspectionType = "storage"
	TypeSecurity         InspectionType = "security"
	TypeControlPlane     InspectionType = "control-plane"
	TypeAutoscaling      InspectionType = "autoscaling"
	TypeBatch            InspectionType = "batch"
	TypePolicies         InspectionType = "policies"
	TypeObservability    InspectionType = "observability"
	TypeCertificates     InspectionType = "certificates"
	TypeUpgrade          InspectionType = "upgrade"
	TypeNamespaceSummary InspectionType = "namespace-summary"
)

// Ordinal is the canonical InspectionType ordering the dispatcher
// reassembles results in (§5 "Ordering guarantees").
var Ordinal = []InspectionType{
	TypeNodes, TypePods, TypeResources, TypeNetwork, TypeStorage, TypeSecurity,
	TypeControlPlane, TypeAutoscaling, TypeBatch, TypePolicies, TypeObservability,
	TypeCertificates, TypeUpgrade, TypeNamespaceSummary,
}

// ClusterReport is the top-level artifact produced by one invocation.
type ClusterReport struct {
	ClusterName      string             `json:"cluster_name"`
	ReportID         string             `json:"report_id"`
	GeneratedAt      time.Time          `json:"generated_at"` // UTC
	DisplayTimestamp string             `json:"display_timestamp"`
	OverallScore     float64            `json:"overall_score"`
	ExecutiveSummary ExecutiveSummary   `json:"executive_summary"`
	Inspections      []InspectionResult `json:"inspections"`

	Overview *ClusterOverview `json:"overview,omitempty"`
	Nodes    []NodeInspectionResult `json:"nodes,omitempty"`
	Events   []EventRow             `json:"events,omitempty"`
}

// ExecutiveSummary aggregates severity counts and the top-N recommendations.
type ExecutiveSummary struct {
	CriticalCount   int              `json:"critical_count"`
	WarningCount    int              `json:"warning_count"`
	InfoCount       int              `json:"info_count"`
	HealthBand      string           `json:"health_band"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Recommendation is one top-N actionable item, derived from an Issue.
type Recommendation struct {
	Severity    Severity `json:"severity"`
	RuleCode    string   `json:"rule_code"`
	Description string   `json:"description"`
	Resource    string   `json:"resource,omitempty"`
}

// ClusterOverview is the cluster-wide snapshot assembled by the dispatcher.
type ClusterOverview struct {
	ServerVersion   string    `json:"server_version"`
	NodeCount       int       `json:"node_count"`
	ReadyNodeCount  int       `json:"ready_node_count"`
	PodCount        int       `json:"pod_count"`
	NamespaceCount  int       `json:"namespace_count"`
	ClusterAgeDays  int       `json:"cluster_age_days"`
	ContainerRuntime string   `json:"container_runtime"`

	NodeConditions []NodeConditionFlags `json:"node_conditions"`
	Workloads      WorkloadSummary      `json:"workloads"`
	Storage        StorageSummary       `json:"storage"`

	TopContainerUsage []ContainerUsageRow `json:"top_container_usage,omitempty"`
}

// NodeConditionFlags carries one node's condition booleans for the overview.
type NodeConditionFlags struct {
	Name           string `json:"name"`
	Ready          bool   `json:"ready"`
	MemoryPressure bool   `json:"memory_pressure"`
	DiskPressure   bool   `json:"disk_pressure"`
	PIDPressure    bool   `json:"pid_pressure"`
}

// WorkloadSummary totals and ready counts for the main workload kinds.
type WorkloadSummary struct {
	Deployments      int `json:"deployments"`
	DeploymentsReady int `json:"deployments_ready"`
	StatefulSets      int `json:"statefulsets"`
	StatefulSetsReady int `json:"statefulsets_ready"`
	DaemonSets        int `json:"daemonsets"`
	DaemonSetsReady   int `json:"daemonsets_ready"`
}

// StorageSummary is the overview's PV/PVC/StorageClass roll-up.
type StorageSummary struct {
	PersistentVolumes      int  `json:"persistent_volumes"`
	PersistentVolumeClaims int  `json:"persistent_volume_claims"`
	Bound                  int  `json:"bound"`
	StorageClassCount      int  `json:"storage_class_count"`
	DefaultPresent         bool `json:"default_present"`
}

// ContainerUsageRow is one row of the optional top-N usage table.
type ContainerUsageRow struct {
	Namespace string  `json:"namespace"`
	Pod       string  `json:"pod"`
	Container string  `json:"container"`
	CPUMilli  float64 `json:"cpu_milli"`
	MemoryMiB float64 `json:"memory_mib"`
}

// InspectionResult is the output of one inspector run.
type InspectionResult struct {
	Type      InspectionType `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Subscore  float64        `json:"subscore"`
	Checks    []CheckResult  `json:"checks"`
	Summary   InspectionSummary `json:"summary"`

	CertificateTable     []CertificateRow     `json:"certificate_table,omitempty"`
	PodContainerStates   []PodContainerStateRow `json:"pod_container_states,omitempty"`
	NamespaceSummaryRows []NamespaceSummaryRow `json:"namespace_summary_rows,omitempty"`
}

// CheckResult is one per-resource-kind evaluation within an inspection.
type CheckResult struct {
	ResourceKind string `json:"resource_kind"`
	CheckName    string `json:"check_name"`
	Status       Status `json:"status"`
	Score        float64 `json:"score"`
	Detail       string `json:"detail"`
}

// InspectionSummary carries severity counts and the ordered Issue list.
type InspectionSummary struct {
	CriticalCount int     `json:"critical_count"`
	WarningCount  int     `json:"warning_count"`
	InfoCount     int     `json:"info_count"`
	Issues        []Issue `json:"issues"`
}

// Issue is one substantive finding.
type Issue struct {
	Severity       Severity `json:"severity"`
	Category       string   `json:"category"`
	Description    string   `json:"description"`
	Resource       string   `json:"resource,omitempty"`
	Recommendation string   `json:"recommendation"`
	RuleCode       string   `json:"rule_code,omitempty"`
}

// SortIssues orders issues per §3: severity (Critical, Warning, Info), then
// rule code, then resource reference, all ascending.
func SortIssues(issues []Issue) {
	less := func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.Severity.rank() != b.Severity.rank() {
			return a.Severity.rank() < b.Severity.rank()
		}
		if a.RuleCode != b.RuleCode {
			return a.RuleCode < b.RuleCode
		}
		return a.Resource < b.Resource
	}
	insertionSort(issues, less)
}

func insertionSort(issues []Issue, less func(i, j int) bool) {
	for i := 1; i < len(issues); i++ {
		for j := i; j > 0 && less(j, j-1); j-- {
			issues[j], issues[j-1] = issues[j-1], issues[j]
		}
	}
}

// NodeInspectionResult is one node's host-level record, joined from the
// node-agent payload and API-derived container state counts.
type NodeInspectionResult struct {
	NodeName        string `json:"node_name"`
	Hostname        string `json:"hostname,omitempty"`
	AgentUTCTime    string `json:"agent_utc_time,omitempty"`
	AgentLocalTime  string `json:"agent_local_time,omitempty"`
	Runtime         string `json:"runtime,omitempty"`
	OSVersion       string `json:"os_version,omitempty"`
	KernelVersion   string `json:"kernel_version,omitempty"`
	Uptime          string `json:"uptime,omitempty"`

	Resources NodeResources `json:"resources"`
	Services  NodeServices  `json:"services"`
	Security  NodeSecurity  `json:"security"`
	Kernel    NodeKernel    `json:"kernel"`
	Stability *NodeStability `json:"stability,omitempty"`

	ContainerStateCounts map[string]int `json:"container_state_counts,omitempty"`
	ZombieCount          *int           `json:"zombie_count,omitempty"`
	IssueCount           *int           `json:"issue_count,omitempty"`

	Certificates []NodeCertificate `json:"certificates,omitempty"`
	Disks        []NodeDiskMount   `json:"disks,omitempty"`
}

type NodeResources struct {
	CPUCores      float64 `json:"cpu_cores,omitempty"`
	CPUUsed       string  `json:"cpu_used,omitempty"`
	CPUUsedPct    float64 `json:"cpu_used_pct,omitempty"`
	MemoryTotalMiB float64 `json:"memory_total_mib,omitempty"`
	MemoryUsedMiB  float64 `json:"memory_used_mib,omitempty"`
	MemoryUsedPct  float64 `json:"memory_used_pct,omitempty"`
	RootDiskPct    float64 `json:"root_disk_pct,omitempty"`
	DiskTotalG     float64 `json:"disk_total_g,omitempty"`
	DiskUsedG      float64 `json:"disk_used_g,omitempty"`
	DiskUsedPct    float64 `json:"disk_used_pct,omitempty"`
	Load1m         string  `json:"load_1m,omitempty"`
	Load5m         string  `json:"load_5m,omitempty"`
	Load15m        string  `json:"load_15m,omitempty"`
	SwapEnabled    bool    `json:"swap_enabled,omitempty"`
	SwapTotalG     float64 `json:"swap_total_g,omitempty"`
	SwapUsedG      float64 `json:"swap_used_g,omitempty"`
	SwapUsedPct    float64 `json:"swap_used_pct,omitempty"`
	Status         string  `json:"status,omitempty"`
	Detail         string  `json:"detail,omitempty"`
}

type NodeServices struct {
	Runtime                 string `json:"runtime,omitempty"`
	NTPSynced               bool   `json:"ntp_synced,omitempty"`
	JournaldActive          bool   `json:"journald_active,omitempty"`
	CrontabPresent          bool   `json:"crontab_present,omitempty"`
	KubeletRunning          bool   `json:"kubelet_running,omitempty"`
	ContainerRuntimeRunning bool   `json:"container_runtime_running,omitempty"`
	Status                  string `json:"status,omitempty"`
	Detail                  string `json:"detail,omitempty"`
}

type NodeSecurity struct {
	SELinux             string `json:"selinux,omitempty"`
	FirewalldActive     bool   `json:"firewalld_active,omitempty"`
	IPVSLoaded          bool   `json:"ipvs_loaded,omitempty"`
	BrNetfilterLoaded   bool   `json:"br_netfilter_loaded,omitempty"`
	OverlayLoaded       bool   `json:"overlay_loaded,omitempty"`
	NFConntrackLoaded   bool   `json:"nf_conntrack_loaded,omitempty"`
	NFConntrackCount    int    `json:"nf_conntrack_count,omitempty"`
	NFConntrackMax      int    `json:"nf_conntrack_max,omitempty"`
	Status              string `json:"status,omitempty"`
	Detail              string `json:"detail,omitempty"`
}

type NodeKernel struct {
	NetIPv4IPForward  int    `json:"net_ipv4_ip_forward,omitempty"`
	VMSwappiness      int    `json:"vm_swappiness,omitempty"`
	NetCoreSomaxconn  int    `json:"net_core_somaxconn,omitempty"`
	Status            string `json:"status,omitempty"`
	Detail            string `json:"detail,omitempty"`
}

type NodeStability struct {
	InodeUsedPct float64 `json:"inode_used_pct,omitempty"`
	OOMKillCount int     `json:"oom_kill_count,omitempty"`
	FileNrOpen   int     `json:"file_nr_open,omitempty"`
	FileNrMax    int     `json:"file_nr_max,omitempty"`
}

// NodeCertificate is one row of a node's on-disk certificate inventory.
type NodeCertificate struct {
	Path           string `json:"path"`
	ExpirationDate string `json:"expiration_date"`
	DaysRemaining  int    `json:"days_remaining"`
	Status         string `json:"status"` // Valid | Expiring soon | Expired
}

// NodeDiskMount is one row of a node's mounted filesystems.
type NodeDiskMount struct {
	Device     string  `json:"device"`
	MountPoint string  `json:"mount_point"`
	FSType     string  `json:"fstype"`
	TotalG     float64 `json:"total_g"`
	UsedG      float64 `json:"used_g"`
	UsedPct    float64 `json:"used_pct"`
}

// CertificateRow is one row of the certificates inspector's TLS-secret table.
type CertificateRow struct {
	Resource      string `json:"resource"` // "namespace/name"
	DaysToExpiry  int    `json:"days_to_expiry"`
	Expired       bool   `json:"expired"`
}

// PodContainerStateRow is one row of a pod's per-container state summary.
type PodContainerStateRow struct {
	Resource      string `json:"resource"`
	Container     string `json:"container"`
	State         string `json:"state"`
	Reason        string `json:"reason,omitempty"`
	RestartCount  int32  `json:"restart_count"`
}

// NamespaceSummaryRow is one row of the namespace-summary inspector's table.
type NamespaceSummaryRow struct {
	Namespace         string `json:"namespace"`
	PodCount          int    `json:"pod_count"`
	DeploymentCount   int    `json:"deployment_count"`
	HasNetworkPolicy  bool   `json:"has_network_policy"`
	HasResourceQuota  bool   `json:"has_resource_quota"`
	HasLimitRange     bool   `json:"has_limit_range"`
}

// EventRow is one recent warning/error cluster Event.
type EventRow struct {
	Namespace          string    `json:"namespace"`
	InvolvedObjectKind string    `json:"involved_object_kind"`
	InvolvedObjectName string    `json:"involved_object_name"`
	Level              string    `json:"level"`
	Reason             string    `json:"reason"`
	Message            string    `json:"message"`
	LastSeen           time.Time `json:"last_seen"`
}
