package cluster

import (
	"fmt"

	"github.com/chronodb/chronotest/internal/harness"
	"github.com/chronodb/chronotest/internal/query"
)

// Provisioner builds process-backed nodes with HTTP query clients for
// harness runs.
type Provisioner struct{}

// NewProvisioner creates the default process-backed provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Provision creates a node handle plus a query client bound to it.
func (p *Provisioner) Provision(run *harness.Run, name string) (harness.Node, harness.Client, error) {
	cfg := run.Config()

	node, err := NewNode(name, Options{
		Command:         cfg.Command,
		WorkingDir:      run.WorkingDir(),
		StartTimeout:    cfg.StartTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Logger:          run.Logger(),
	})
	if err != nil {
		return nil, nil, err
	}

	client := query.NewClient(node.URL(), cfg.QueryTimeout)
	return node, client, nil
}

// InitCluster issues the cluster-topology creation against the first
// node's HTTP endpoint.
func (p *Provisioner) InitCluster(run *harness.Run, first harness.Node) error {
	node, ok := first.(*Node)
	if !ok {
		return fmt.Errorf("node %s is not process-backed", first.Name())
	}

	client := query.NewClient(node.URL(), run.Config().QueryTimeout)
	return client.InitCluster(run.Context())
}
