package kube

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/util/yaml"
)

// Apply applies a (possibly multi-document) YAML manifest using the
// dynamic client. Existing resources are updated in place, so re-running
// a deploy is idempotent.
func (c *Client) Apply(ctx context.Context, manifest []byte) error {
	decoder := yaml.NewYAMLOrJSONDecoder(strings.NewReader(string(manifest)), 4096)

	for {
		var obj unstructured.Unstructured
		if err := decoder.Decode(&obj); err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("failed to decode manifest: %w", err)
		}
		if len(obj.Object) == 0 {
			continue
		}

		if err := c.applyObject(ctx, &obj); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) applyObject(ctx context.Context, obj *unstructured.Unstructured) error {
	gvk := obj.GroupVersionKind()
	gvr := schema.GroupVersionResource{
		Group:    gvk.Group,
		Version:  gvk.Version,
		Resource: resourceForKind(gvk.Kind),
	}

	ri := c.dynamic.Resource(gvr).Namespace(obj.GetNamespace())

	_, err := ri.Create(ctx, obj, metav1.CreateOptions{})
	if err == nil {
		log.Printf("created %s/%s", strings.ToLower(obj.GetKind()), obj.GetName())
		return nil
	}
	if !apierrors.IsAlreadyExists(err) {
		return fmt.Errorf("failed to create %s/%s: %w", obj.GetKind(), obj.GetName(), err)
	}

	// Update needs the live resourceVersion.
	live, err := ri.Get(ctx, obj.GetName(), metav1.GetOptions{})
	if err != nil {
		return fmt.Errorf("failed to read existing %s/%s: %w", obj.GetKind(), obj.GetName(), err)
	}
	obj.SetResourceVersion(live.GetResourceVersion())

	if _, err := ri.Update(ctx, obj, metav1.UpdateOptions{}); err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", obj.GetKind(), obj.GetName(), err)
	}
	log.Printf("updated %s/%s", strings.ToLower(obj.GetKind()), obj.GetName())
	return nil
}

// resourceForKind maps the kinds in the manifest set to their resource
// names.
func resourceForKind(kind string) string {
	switch kind {
	case "Namespace":
		return "namespaces"
	case "ConfigMap":
		return "configmaps"
	case "Deployment":
		return "deployments"
	case "Service":
		return "services"
	case "HorizontalPodAutoscaler":
		return "horizontalpodautoscalers"
	case "Secret":
		return "secrets"
	case "ServiceAccount":
		return "serviceaccounts"
	default:
		return strings.ToLower(kind) + "s"
	}
}
