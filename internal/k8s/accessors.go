package k8s

import (
	"context"
	"sort"

	appsv1 "k8s.io/api/apps/v1"
	autoscalingv1 "k8s.io/api/autoscaling/v1"
	autoscalingv2 "k8s.io/api/autoscaling/v2"
	batchv1 "k8s.io/api/batch/v1"
	certificatesv1 "k8s.io/api/certificates/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	policyv1 "k8s.io/api/policy/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	storagev1 "k8s.io/api/storage/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// call wraps any outbound read with rate limiting, the circuit breaker, the
// per-call timeout, and retry-on-transient — the choke point every accessor
// below goes through, except GetPodLogs, which streams from the clientset
// directly.
func call[T any](c *Client, ctx context.Context, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if err := c.waitRateLimit(ctx); err != nil {
		return zero, err
	}
	var result T
	err := c.circuitBreaker.Execute(ctx, func() error {
		cctx, cancel := c.withTimeout(ctx)
		defer cancel()
		var fnErr error
		result, fnErr = doWithRetryValue(cctx, defaultRetryAttempts, func() (T, error) {
			return fn(cctx)
		})
		return fnErr
	})
	c.updateHealth(err)
	if err != nil {
		return zero, err
	}
	return result, nil
}

// ignoreNotFoundOrForbidden maps 403/404 to an empty, non-error result —
// PermanentClusterError semantics (spec §7): the inspector that needed this
// resource kind decides whether the absence itself is worth an Issue.
func ignoreNotFoundOrForbidden[T any](v T, err error) (T, error) {
	if err != nil && (apierrors.IsNotFound(err) || apierrors.IsForbidden(err)) {
		var zero T
		return zero, nil
	}
	return v, err
}

func (c *Client) ListNodes(ctx context.Context) ([]corev1.Node, error) {
	items, err := call(c, ctx, func(ctx context.Context) ([]corev1.Node, error) {
		list, err := c.Clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (c *Client) ListNamespaces(ctx context.Context) ([]corev1.Namespace, error) {
	items, err := call(c, ctx, func(ctx context.Context) ([]corev1.Namespace, error) {
		list, err := c.Clientset.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

// ListPods lists pods, optionally scoped to one namespace ("" means all) and
// optionally filtered to one node name ("" means all nodes).
func (c *Client) ListPods(ctx context.Context, namespace, nodeName string) ([]corev1.Pod, error) {
	opts := metav1.ListOptions{}
	if nodeName != "" {
		opts.FieldSelector = "spec.nodeName=" + nodeName
	}
	items, err := call(c, ctx, func(ctx context.Context) ([]corev1.Pod, error) {
		list, err := c.Clientset.CoreV1().Pods(namespace).List(ctx, opts)
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Namespace != items[j].Namespace {
			return items[i].Namespace < items[j].Namespace
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}

func (c *Client) ListServices(ctx context.Context, namespace string) ([]corev1.Service, error) {
	items, err := call(c, ctx, func(ctx context.Context) ([]corev1.Service, error) {
		list, err := c.Clientset.CoreV1().Services(namespace).List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	})
	return sortByNamespacedName(items, func(s corev1.Service) (string, string) { return s.Namespace, s.Name }), err
}

func (c *Client) ListEndpoints(ctx context.Context, namespace string) ([]corev1.Endpoints, error) {
	items, err := call(c, ctx, func(ctx context.Context) ([]corev1.Endpoints, error) {
		list, err := c.Clientset.CoreV1().Endpoints(namespace).List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	})
	return items, err
}

func (c *Client) ListDeployments(ctx context.Context, namespace string) ([]appsv1.Deployment, error) {
	items, err := call(c, ctx, func(ctx context.Context) ([]appsv1.Deployment, error) {
		list, err := c.Clientset.AppsV1().Deployments(namespace).List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	})
	return sortByNamespacedName(items, func(d appsv1.Deployment) (string, string) { return d.Namespace, d.Name }), err
}

func (c *Client) ListReplicaSets(ctx context.Context, namespace string) ([]appsv1.ReplicaSet, error) {
	items, err := call(c, ctx, func(ctx context.Context) ([]appsv1.ReplicaSet, error) {
		list, err := c.Clientset.AppsV1().ReplicaSets(namespace).List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	})
	return items, err
}

func (c *Client) ListDaemonSets(ctx context.Context, namespace string) ([]appsv1.DaemonSet, error) {
	items, err := call(c, ctx, func(ctx context.Context) ([]appsv1.DaemonSet, error) {
		list, err := c.Clientset.AppsV1().DaemonSets(namespace).List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	})
	return sortByNamespacedName(items, func(d appsv1.DaemonSet) (string, string) { return d.Namespace, d.Name }), err
}

func (c *Client) ListStatefulSets(ctx context.Context, namespace string) ([]appsv1.StatefulSet, error) {
	items, err := call(c, ctx, func(ctx context.Context) ([]appsv1.StatefulSet, error) {
		list, err := c.Clientset.AppsV1().StatefulSets(namespace).List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	})
	return sortByNamespacedName(items, func(d appsv1.StatefulSet) (string, string) { return d.Namespace, d.Name }), err
}

func (c *Client) ListJobs(ctx context.Context, namespace string) ([]batchv1.Job, error) {
	items, err := call(c, ctx, func(ctx context.Context) ([]batchv1.Job, error) {
		list, err := c.Clientset.BatchV1().Jobs(namespace).List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	})
	return sortByNamespacedName(items, func(j batchv1.Job) (string, string) { return j.Namespace, j.Name }), err
}

func (c *Client) ListCronJobs(ctx context.Context, namespace string) ([]batchv1.CronJob, error) {
	items, err := call(c, ctx, func(ctx context.Context) ([]batchv1.CronJob, error) {
		list, err := c.Clientset.BatchV1().CronJobs(namespace).List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	})
	return sortByNamespacedName(items, func(j batchv1.CronJob) (string, string) { return j.Namespace, j.Name }), err
}

func (c *Client) ListPersistentVolumes(ctx context.Context) ([]corev1.PersistentVolume, error) {
	items, err := call(c, ctx, func(ctx context.Context) ([]corev1.PersistentVolume, error) {
		list, err := c.Clientset.CoreV1().PersistentVolumes().List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (c *Client) ListPersistentVolumeClaims(ctx context.Context, namespace string) ([]corev1.PersistentVolumeClaim, error) {
	items, err := call(c, ctx, func(ctx context.Context) ([]corev1.PersistentVolumeClaim, error) {
		list, err := c.Clientset.CoreV1().PersistentVolumeClaims(namespace).List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	})
	return sortByNamespacedName(items, func(p corev1.PersistentVolumeClaim) (string, string) { return p.Namespace, p.Name }), err
}

func (c *Client) ListStorageClasses(ctx context.Context) ([]storagev1.StorageClass, error) {
	items, err := call(c, ctx, func(ctx context.Context) ([]storagev1.StorageClass, error) {
		list, err := c.Clientset.StorageV1().StorageClasses().List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (c *Client) ListNetworkPolicies(ctx context.Context, namespace string) ([]networkingv1.NetworkPolicy, error) {
	items, err := call(c, ctx, func(ctx context.Context) ([]networkingv1.NetworkPolicy, error) {
		list, err := c.Clientset.NetworkingV1().NetworkPolicies(namespace).List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	})
	return sortByNamespacedName(items, func(p networkingv1.NetworkPolicy) (string, string) { return p.Namespace, p.Name }), err
}

func (c *Client) ListClusterRoles(ctx context.Context) ([]rbacv1.ClusterRole, error) {
	items, err := call(c, ctx, func(ctx context.Context) ([]rbacv1.ClusterRole, error) {
		list, err := c.Clientset.RbacV1().ClusterRoles().List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (c *Client) ListClusterRoleBindings(ctx context.Context) ([]rbacv1.ClusterRoleBinding, error) {
	items, err := call(c, ctx, func(ctx context.Context) ([]rbacv1.ClusterRoleBinding, error) {
		list, err := c.Clientset.RbacV1().ClusterRoleBindings().List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (c *Client) ListRoleBindings(ctx context.Context, namespace string) ([]rbacv1.RoleBinding, error) {
	items, err := call(c, ctx, func(ctx context.Context) ([]rbacv1.RoleBinding, error) {
		list, err := c.Clientset.RbacV1().RoleBindings(namespace).List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	})
	return sortByNamespacedName(items, func(r rbacv1.RoleBinding) (string, string) { return r.Namespace, r.Name }), err
}

func (c *Client) ListCertificateSigningRequests(ctx context.Context) ([]certificatesv1.CertificateSigningRequest, error) {
	items, err := call(c, ctx, func(ctx context.Context) ([]certificatesv1.CertificateSigningRequest, error) {
		list, err := c.Clientset.CertificatesV1().CertificateSigningRequests().List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	})
	items, err = ignoreNotFoundOrForbidden(items, err)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

// ListTLSSecrets lists Secrets of type kubernetes.io/tls.
func (c *Client) ListTLSSecrets(ctx context.Context, namespace string) ([]corev1.Secret, error) {
	items, err := call(c, ctx, func(ctx context.Context) ([]corev1.Secret, error) {
		list, err := c.Clientset.CoreV1().Secrets(namespace).List(ctx, metav1.ListOptions{
			FieldSelector: "type=" + string(corev1.SecretTypeTLS),
		})
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	})
	return sortByNamespacedName(items, func(s corev1.Secret) (string, string) { return s.Namespace, s.Name }), err
}

// HPAResult carries whichever API version responded; callers read Min/Max/etc via accessor methods.
type HPAResult struct {
	V2 *autoscalingv2.HorizontalPodAutoscaler
	V1 *autoscalingv1.HorizontalPodAutoscaler
}

// ListHPAs tries autoscaling/v2 first, falling back to v1 for older clusters.
func (c *Client) ListHPAs(ctx context.Context, namespace string) ([]HPAResult, error) {
	v2items, err := call(c, ctx, func(ctx context.Context) ([]autoscalingv2.HorizontalPodAutoscaler, error) {
		list, err := c.Clientset.AutoscalingV2().HorizontalPodAutoscalers(namespace).List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	})
	if err == nil {
		out := make([]HPAResult, 0, len(v2items))
		for i := range v2items {
			out = append(out, HPAResult{V2: &v2items[i]})
		}
		return sortByNamespacedName(out, func(h HPAResult) (string, string) { return h.V2.Namespace, h.V2.Name }), nil
	}
	v1items, err := call(c, ctx, func(ctx context.Context) ([]autoscalingv1.HorizontalPodAutoscaler, error) {
		list, err := c.Clientset.AutoscalingV1().HorizontalPodAutoscalers(namespace).List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]HPAResult, 0, len(v1items))
	for i := range v1items {
		out = append(out, HPAResult{V1: &v1items[i]})
	}
	return sortByNamespacedName(out, func(h HPAResult) (string, string) { return h.V1.Namespace, h.V1.Name }), nil
}

func (c *Client) ListPodDisruptionBudgets(ctx context.Context, namespace string) ([]policyv1.PodDisruptionBudget, error) {
	items, err := call(c, ctx, func(ctx context.Context) ([]policyv1.PodDisruptionBudget, error) {
		list, err := c.Clientset.PolicyV1().PodDisruptionBudgets(namespace).List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	})
	return sortByNamespacedName(items, func(p policyv1.PodDisruptionBudget) (string, string) { return p.Namespace, p.Name }), err
}

func (c *Client) ListResourceQuotas(ctx context.Context, namespace string) ([]corev1.ResourceQuota, error) {
	items, err := call(c, ctx, func(ctx context.Context) ([]corev1.ResourceQuota, error) {
		list, err := c.Clientset.CoreV1().ResourceQuotas(namespace).List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	})
	return sortByNamespacedName(items, func(r corev1.ResourceQuota) (string, string) { return r.Namespace, r.Name }), err
}

func (c *Client) ListLimitRanges(ctx context.Context, namespace string) ([]corev1.LimitRange, error) {
	items, err := call(c, ctx, func(ctx context.Context) ([]corev1.LimitRange, error) {
		list, err := c.Clientset.CoreV1().LimitRanges(namespace).List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	})
	return sortByNamespacedName(items, func(l corev1.LimitRange) (string, string) { return l.Namespace, l.Name }), err
}

// ListRecentWarningEvents lists warning/error Events across all namespaces, newest first.
func (c *Client) ListRecentWarningEvents(ctx context.Context, limit int) ([]corev1.Event, error) {
	items, err := call(c, ctx, func(ctx context.Context) ([]corev1.Event, error) {
		list, err := c.Clientset.CoreV1().Events("").List(ctx, metav1.ListOptions{
			FieldSelector: "type=" + corev1.EventTypeWarning,
			Limit:         int64(limit * 4), // over-fetch; we sort then truncate
		})
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].LastTimestamp.After(items[j].LastTimestamp.Time)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// GetPodLogs fetches logs for one container, retrying once against the
// previous container instance if the current one is not ready.
func (c *Client) GetPodLogs(ctx context.Context, namespace, pod, container string, tailLines int64) (string, error) {
	fetch := func(previous bool) (string, error) {
		opts := &corev1.PodLogOptions{Container: container, Previous: previous}
		if tailLines > 0 {
			opts.TailLines = &tailLines
		}
		req := c.Clientset.CoreV1().Pods(namespace).GetLogs(pod, opts)
		stream, err := req.Stream(ctx)
		if err != nil {
			return "", err
		}
		defer stream.Close()
		buf := make([]byte, 0, 64*1024)
		chunk := make([]byte, 32*1024)
		for {
			n, rerr := stream.Read(chunk)
			if n > 0 {
				buf = append(buf, chunk[:n]...)
			}
			if rerr != nil {
				break
			}
		}
		return string(buf), nil
	}
	out, err := fetch(false)
	if err != nil {
		if out2, err2 := fetch(true); err2 == nil {
			return out2, nil
		}
		return "", err
	}
	return out, nil
}

// ListComponentStatuses reads the (deprecated, often disabled) legacy
// componentstatuses API. Its absence is treated as empty-not-error: most
// managed clusters no longer expose it.
func (c *Client) ListComponentStatuses(ctx context.Context) ([]corev1.ComponentStatus, error) {
	items, err := call(c, ctx, func(ctx context.Context) ([]corev1.ComponentStatus, error) {
		list, err := c.Clientset.CoreV1().ComponentStatuses().List(ctx, metav1.ListOptions{})
		if err != nil {
			return nil, err
		}
		return list.Items, nil
	})
	items, err = ignoreNotFoundOrForbidden(items, err)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func sortByNamespacedName[T any](items []T, key func(T) (string, string)) []T {
	sort.Slice(items, func(i, j int) bool {
		ni, ki := key(items[i])
		nj, kj := key(items[j])
		if ni != nj {
			return ni < nj
		}
		return ki < kj
	})
	return items
}
