// Package nodeagent collects the per-node JSON payload emitted by the
// kubeowler-node-inspector DaemonSet and joins it with API-derived
// container-state counts to build NodeInspectionResult rows (§6.2).
package nodeagent

// Payload is the JSON object one node-agent pod writes to its own log
// stream. Only NodeName is required; every other field is tolerated
// missing, so an agent running an older or newer script still joins.
type Payload struct {
	NodeName      string `json:"node_name"`
	Hostname      string `json:"hostname"`
	AgentUTCTime  string `json:"timestamp"`
	AgentLocal    string `json:"timestamp_local"`
	Runtime       string `json:"runtime"`
	OSVersion     string `json:"os_version"`
	KernelVersion string `json:"kernel_version"`
	Uptime        string `json:"uptime"`

	Resources *PayloadResources `json:"resources"`
	Services  *PayloadServices  `json:"services"`
	Security  *PayloadSecurity  `json:"security"`
	Kernel    *PayloadKernel    `json:"kernel"`
	Stability *PayloadStability `json:"stability"`

	ZombieCount *int             `json:"zombie_count"`
	IssueCount  *int             `json:"issue_count"`
	Certificates []PayloadCert   `json:"node_certificates"`
	Disks        []PayloadDisk   `json:"node_disks"`
}

type PayloadResources struct {
	CPUCores       float64 `json:"cpu_cores"`
	CPUUsed        string  `json:"cpu_used"`
	CPUUsedPct     float64 `json:"cpu_used_pct"`
	MemoryTotalMiB float64 `json:"memory_total_mib"`
	MemoryUsedMiB  float64 `json:"memory_used_mib"`
	MemoryUsedPct  float64 `json:"memory_used_pct"`
	RootDiskPct    float64 `json:"root_disk_pct"`
	DiskTotalG     float64 `json:"disk_total_g"`
	DiskUsedG      float64 `json:"disk_used_g"`
	DiskUsedPct    float64 `json:"disk_used_pct"`
	Load1m         string  `json:"load_1m"`
	Load5m         string  `json:"load_5m"`
	Load15m        string  `json:"load_15m"`
	SwapEnabled    bool    `json:"swap_enabled"`
	SwapTotalG     float64 `json:"swap_total_g"`
	SwapUsedG      float64 `json:"swap_used_g"`
	SwapUsedPct    float64 `json:"swap_used_pct"`
	Status         string  `json:"status"`
	Detail         string  `json:"detail"`
}

type PayloadServices struct {
	Runtime                 string `json:"runtime"`
	NTPSynced               bool   `json:"ntp_synced"`
	JournaldActive          bool   `json:"journald_active"`
	CrontabPresent          bool   `json:"crontab_present"`
	KubeletRunning          bool   `json:"kubelet_running"`
	ContainerRuntimeRunning bool   `json:"container_runtime_running"`
	Status                  string `json:"status"`
	Detail                  string `json:"detail"`
}

type PayloadSecurity struct {
	SELinux           string `json:"selinux"`
	FirewalldActive   bool   `json:"firewalld_active"`
	IPVSLoaded        bool   `json:"ipvs_loaded"`
	BrNetfilterLoaded bool   `json:"br_netfilter_loaded"`
	OverlayLoaded     bool   `json:"overlay_loaded"`
	NFConntrackLoaded bool   `json:"nf_conntrack_loaded"`
	NFConntrackCount  int    `json:"nf_conntrack_count"`
	NFConntrackMax    int    `json:"nf_conntrack_max"`
	Status            string `json:"status"`
	Detail            string `json:"detail"`
}

type PayloadKernel struct {
	NetIPv4IPForward int    `json:"net_ipv4_ip_forward"`
	VMSwappiness     int    `json:"vm_swappiness"`
	NetCoreSomaxconn int    `json:"net_core_somaxconn"`
	Status           string `json:"status"`
	Detail           string `json:"detail"`
}

type PayloadStability struct {
	InodeUsedPct float64 `json:"inode_used_pct"`
	OOMKillCount int     `json:"oom_kill_count"`
	FileNrOpen   int     `json:"file_nr_open"`
	FileNrMax    int     `json:"file_nr_max"`
}

type PayloadCert struct {
	Path           string `json:"path"`
	ExpirationDate string `json:"expiration_date"`
	DaysRemaining  int    `json:"days_remaining"`
	Status         string `json:"status"`
}

type PayloadDisk struct {
	Device     string  `json:"device"`
	MountPoint string  `json:"mount_point"`
	FSType     string  `json:"fstype"`
	TotalG     float64 `json:"total_g"`
	UsedG      float64 `json:"used_g"`
	UsedPct    float64 `json:"used_pct"`
}
