// Package main is the entry point for the kubeprox CLI.
//
// kubeprox turns one declarative cluster description into everything needed
// to stand up a Kubernetes cluster on a single Proxmox host: per-node init
// scripts, cloud-init user and network data, VM playbooks, an Ansible
// inventory and a plan manifest. It can then run the playbooks.
//
// Commands: init, plan, render, template, apply, kubeconfig.
//
// For detailed usage information, run:
//
//	kubeprox --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/kubeprox/cmd/kubeprox/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
