package kube

import (
	"fmt"
	"os"

	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"

	platformaws "github.com/swarmup/swarmup/internal/platform/aws"
)

// WriteKubeconfig writes a standalone kubeconfig for the EKS cluster.
// Authentication uses the aws CLI's token plugin so credentials stay
// short-lived and outside the file.
func WriteKubeconfig(path string, cluster *platformaws.ClusterInfo, region string) error {
	cfg := clientcmdapi.NewConfig()

	cfg.Clusters[cluster.Name] = &clientcmdapi.Cluster{
		Server:                   cluster.Endpoint,
		CertificateAuthorityData: cluster.CAData,
	}

	cfg.AuthInfos[cluster.Name] = &clientcmdapi.AuthInfo{
		Exec: &clientcmdapi.ExecConfig{
			APIVersion: "client.authentication.k8s.io/v1beta1",
			Command:    "aws",
			Args: []string{
				"eks", "get-token",
				"--cluster-name", cluster.Name,
				"--region", region,
			},
			InteractiveMode: clientcmdapi.NeverExecInteractiveMode,
		},
	}

	cfg.Contexts[cluster.Name] = &clientcmdapi.Context{
		Cluster:  cluster.Name,
		AuthInfo: cluster.Name,
	}
	cfg.CurrentContext = cluster.Name

	if err := clientcmd.WriteToFile(*cfg, path); err != nil {
		return fmt.Errorf("failed to write kubeconfig: %w", err)
	}
	return nil
}

// RemoveKubeconfig deletes the standalone kubeconfig written by
// WriteKubeconfig. A file that is already gone is success.
func RemoveKubeconfig(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove kubeconfig: %w", err)
	}
	return nil
}

// PruneContext removes a stale cluster entry from an existing
// kubeconfig file, typically the operator's ~/.kube/config after
// teardown. Missing file or missing entries are success.
func PruneContext(path, clusterName string) error {
	cfg, err := clientcmd.LoadFromFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to load kubeconfig %s: %w", path, err)
	}

	_, hasCluster := cfg.Clusters[clusterName]
	_, hasContext := cfg.Contexts[clusterName]
	_, hasUser := cfg.AuthInfos[clusterName]
	if !hasCluster && !hasContext && !hasUser {
		return nil
	}

	delete(cfg.Clusters, clusterName)
	delete(cfg.Contexts, clusterName)
	delete(cfg.AuthInfos, clusterName)

	if cfg.CurrentContext == clusterName {
		cfg.CurrentContext = ""
	}

	if err := clientcmd.WriteToFile(*cfg, path); err != nil {
		return fmt.Errorf("failed to rewrite kubeconfig %s: %w", path, err)
	}
	return nil
}
