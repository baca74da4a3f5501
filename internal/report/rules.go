package report

// RuleInfo is the catalogue entry for one rule code: a short human title,
// its fixed severity, and the relative path to its doc page (§4.7, §6.3).
// The catalogue is the single source of truth consulted by both inspectors
// (at emission time) and the renderer (at link-generation time); codes are
// never synthesised at runtime.
type RuleInfo struct {
	Title    string
	Severity Severity
	DocPath  string // relative to docs/issues/
}

// Rules is the static rule_code -> RuleInfo catalogue. Adding an entry is
// additive; removing one requires a deprecation note here, not deletion.
var Rules = map[string]RuleInfo{
	"NODE-001": {"Node not Ready", Critical, "NODE-001.md"},
	"NODE-002": {"Node reporting a pressure condition", Warning, "NODE-002.md"},
	"NODE-003": {"Node has zombie processes", Warning, "NODE-003.md"},
	"NODE-004": {"Node mount usage elevated (60-90%)", Warning, "NODE-004.md"},
	"NODE-005": {"Node mount usage critical (>=90%)", Critical, "NODE-005.md"},

	"POD-001": {"Pod in Failed phase", Critical, "POD-001.md"},
	"POD-002": {"Pod unschedulable", Warning, "POD-002.md"},
	"POD-003": {"Pod container restart count elevated", Warning, "POD-003.md"},
	"POD-005": {"Container ImagePullBackOff", Warning, "POD-005.md"},
	"POD-006": {"Container ErrImagePull", Warning, "POD-006.md"},
	"POD-007": {"Container CrashLoopBackOff", Critical, "POD-007.md"},
	"POD-008": {"Container stuck ContainerCreating", Warning, "POD-008.md"},
	"POD-009": {"Container CreateContainerConfigError", Warning, "POD-009.md"},
	"POD-010": {"Container OOMKilled", Critical, "POD-010.md"},
	"POD-011": {"Container exited non-zero", Warning, "POD-011.md"},
	"POD-012": {"Pod Running but not Ready", Warning, "POD-012.md"},

	"RES-001": {"Container missing resource requests", Warning, "RES-001.md"},
	"RES-002": {"Container missing resource limits", Warning, "RES-002.md"},
	"RES-003": {"Namespace without a ResourceQuota", Warning, "RES-003.md"},
	"RES-004": {"Container CPU limit below request", Warning, "RES-004.md"},
	"RES-005": {"Container memory limit below request", Warning, "RES-005.md"},

	"NET-001": {"LoadBalancer Service has no ingress address", Warning, "NET-001.md"},
	"NET-002": {"NodePort outside the typical range", Warning, "NET-002.md"},
	"NET-003": {"Service selector matches no endpoints", Warning, "NET-003.md"},
	"NET-004": {"CoreDNS/kube-dns replicas below desired", Warning, "NET-004.md"},
	"NET-005": {"DNS Service absent in kube-system", Critical, "NET-005.md"},

	"STO-001": {"PersistentVolume in abnormal phase", Warning, "STO-001.md"},
	"STO-002": {"PersistentVolume missing reclaim policy", Info, "STO-002.md"},
	"STO-003": {"StorageClass missing provisioner", Warning, "STO-003.md"},
	"STO-004": {"PersistentVolumeClaim pending", Warning, "STO-004.md"},
	"STO-005": {"PersistentVolumeClaim lost", Critical, "STO-005.md"},
	"STO-006": {"PersistentVolume Released but not reclaimed", Info, "STO-006.md"},
	"STO-007": {"PersistentVolume Failed phase", Critical, "STO-007.md"},
	"STO-008": {"StorageClass allows volume expansion disabled", Info, "STO-008.md"},
	"STO-009": {"No default StorageClass", Warning, "STO-009.md"},
	"STO-010": {"Multiple default StorageClasses", Critical, "STO-010.md"},

	"SEC-001": {"ClusterRole grants wildcard verbs on wildcard resources", Critical, "SEC-001.md"},
	"SEC-002": {"User subject bound to cluster-admin", Warning, "SEC-002.md"},
	"SEC-003": {"ServiceAccount subject bound to cluster-admin", Critical, "SEC-003.md"},
	"SEC-004": {"Pod runs as root (runAsUser=0)", Warning, "SEC-004.md"},
	"SEC-005": {"Container runs privileged", Critical, "SEC-005.md"},
	"SEC-006": {"Container-level root user", Warning, "SEC-006.md"},
	"SEC-007": {"Container allows privilege escalation", Warning, "SEC-007.md"},
	"SEC-008": {"Namespace lacks a NetworkPolicy", Warning, "SEC-008.md"},
	"SEC-009": {"Workload pod uses the default ServiceAccount", Info, "SEC-009.md"},

	"CTRL-001": {"Unhealthy componentstatus", Critical, "CTRL-001.md"},
	"CTRL-002": {"Static pod in kube-system not Ready", Critical, "CTRL-002.md"},

	"AUTO-001": {"HPA min/max spread too narrow", Warning, "AUTO-001.md"},
	"AUTO-002": {"HPA has an empty metrics list", Warning, "AUTO-002.md"},
	"AUTO-003": {"HPA target missing or metrics condition False", Warning, "AUTO-003.md"},
	"AUTO-004": {"HPA scaling behaviour overly restrictive", Info, "AUTO-004.md"},
	"AUTO-005": {"HPA metric entry missing its target", Warning, "AUTO-005.md"},

	"BATCH-001": {"CronJob suspended", Info, "BATCH-001.md"},
	"BATCH-002": {"CronJob last run failed", Warning, "BATCH-002.md"},
	"BATCH-003": {"CronJob never scheduled", Info, "BATCH-003.md"},
	"BATCH-004": {"Job exceeded backoffLimit", Warning, "BATCH-004.md"},
	"BATCH-005": {"Job stuck or missing activeDeadlineSeconds", Warning, "BATCH-005.md"},

	"POLICY-001": {"ResourceQuota absent", Info, "POLICY-001.md"},
	"POLICY-002": {"LimitRange absent", Info, "POLICY-002.md"},
	"POLICY-003": {"Critical workload without a PodDisruptionBudget", Warning, "POLICY-003.md"},
	"POLICY-004": {"PodDisruptionBudget minAvailable exceeds ready replicas", Warning, "POLICY-004.md"},

	"OBS-001": {"metrics-server not detected", Warning, "OBS-001.md"},
	"OBS-002": {"kube-state-metrics not detected", Info, "OBS-002.md"},
	"OBS-003": {"Log-aggregation DaemonSet not detected", Info, "OBS-003.md"},
	"OBS-004": {"Prometheus stack not detected", Info, "OBS-004.md"},

	"CERT-001": {"Abnormal CertificateSigningRequest", Warning, "CERT-001.md"},
	"CERT-002": {"TLS certificate expiring soon", Warning, "CERT-002.md"},
	"CERT-003": {"TLS certificate expired", Critical, "CERT-003.md"},
	"CERT-004": {"TLS secret has a malformed certificate", Warning, "CERT-004.md"},

	"UPGRADE-001": {"Kubelet/control-plane version skew", Info, "UPGRADE-001.md"},
}
