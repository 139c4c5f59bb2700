// Package ssh provides an SSH client for executing commands on provisioned nodes.
//
// It is used to fetch the cluster admin kubeconfig from the initial master
// once the VMs are up. The client authenticates with the key pair kubeprox
// injects into every node and retries connection attempts while a node is
// still booting.
package ssh
