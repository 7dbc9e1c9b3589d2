package kube

import (
	"context"
	"fmt"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/wait"
)

// DefaultPollInterval is the fixed recheck interval for readiness polls.
const DefaultPollInterval = 5 * time.Second

// WaitForNodesReady polls until at least minReady nodes report Ready,
// bounded by timeout. Timing out is fatal for the pipeline.
func (c *Client) WaitForNodesReady(ctx context.Context, minReady int, timeout time.Duration) error {
	err := wait.PollUntilContextTimeout(ctx, DefaultPollInterval, timeout, true, func(ctx context.Context) (bool, error) {
		nodes, err := c.clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
		if err != nil {
			// The API server may still be settling right after
			// provisioning; keep polling.
			return false, nil
		}

		ready := 0
		for _, node := range nodes.Items {
			if isNodeReady(&node) {
				ready++
			}
		}
		return ready >= minReady, nil
	})
	if err != nil {
		return fmt.Errorf("timed out after %s waiting for %d ready node(s): %w", timeout, minReady, err)
	}
	return nil
}

// WaitForDeploymentReady polls until the deployment has all replicas
// available, bounded by timeout.
func (c *Client) WaitForDeploymentReady(ctx context.Context, namespace, name string, timeout time.Duration) error {
	err := wait.PollUntilContextTimeout(ctx, DefaultPollInterval, timeout, true, func(ctx context.Context) (bool, error) {
		deployment, err := c.clientset.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return false, nil
		}
		return isDeploymentReady(deployment), nil
	})
	if err != nil {
		return fmt.Errorf("timed out after %s waiting for deployment %s/%s: %w", timeout, namespace, name, err)
	}
	return nil
}

// WaitForLoadBalancerHost polls for the service's load-balancer address.
// Returns empty string (no error) on timeout: cloud-side LB provisioning
// lag is expected and non-fatal.
func (c *Client) WaitForLoadBalancerHost(ctx context.Context, namespace, name string, timeout time.Duration) (string, error) {
	var host string
	err := wait.PollUntilContextTimeout(ctx, DefaultPollInterval, timeout, true, func(ctx context.Context) (bool, error) {
		h, err := c.ServiceLoadBalancerHost(ctx, namespace, name)
		if err != nil {
			return false, err
		}
		host = h
		return host != "", nil
	})
	if err != nil {
		if wait.Interrupted(err) {
			return "", nil
		}
		return "", err
	}
	return host, nil
}

// DeleteNamespace deletes a namespace and waits (bounded) for it to be
// fully removed. A namespace that does not exist is success, keeping
// teardown idempotent.
func (c *Client) DeleteNamespace(ctx context.Context, name string, timeout time.Duration) error {
	err := c.clientset.CoreV1().Namespaces().Delete(ctx, name, metav1.DeleteOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to delete namespace %s: %w", name, err)
	}

	err = wait.PollUntilContextTimeout(ctx, 2*time.Second, timeout, true, func(ctx context.Context) (bool, error) {
		_, err := c.clientset.CoreV1().Namespaces().Get(ctx, name, metav1.GetOptions{})
		if apierrors.IsNotFound(err) {
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return fmt.Errorf("timed out after %s waiting for namespace %s to terminate: %w", timeout, name, err)
	}
	return nil
}

func isNodeReady(node *corev1.Node) bool {
	for _, condition := range node.Status.Conditions {
		if condition.Type == corev1.NodeReady && condition.Status == corev1.ConditionTrue {
			return true
		}
	}
	return false
}

func isDeploymentReady(deployment *appsv1.Deployment) bool {
	if deployment.Spec.Replicas == nil {
		return false
	}
	want := *deployment.Spec.Replicas
	if deployment.Status.UpdatedReplicas != want ||
		deployment.Status.Replicas != want ||
		deployment.Status.AvailableReplicas != want {
		return false
	}

	for _, condition := range deployment.Status.Conditions {
		if condition.Type == appsv1.DeploymentAvailable && condition.Status == corev1.ConditionTrue {
			return true
		}
	}
	return false
}
