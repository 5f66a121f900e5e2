// Package harness orchestrates multi-node clusters of the service under
// test. It provisions nodes around a scenario body and provides the
// polling assertions that tolerate the service's eventual consistency.
package harness

import (
	"context"

	"github.com/chronodb/chronotest/internal/query"
	"github.com/chronodb/chronotest/internal/series"
)

// Node is one cluster process of the service under test. A node handle
// is owned exclusively by the fixture that provisioned it.
type Node interface {
	// Name returns the node's stable identity within a run.
	Name() string
	// Create provisions the node's on-disk configuration.
	Create() error
	// Start launches the node process and blocks until it accepts
	// connections. A started node is not necessarily healthy yet.
	Start(ctx context.Context) error
	// Stop terminates the node process and reports whether it exited
	// cleanly.
	Stop(ctx context.Context) bool
}

// Client issues queries against the node it is bound to.
type Client interface {
	Query(ctx context.Context, text string) (*query.Result, error)
	Insert(ctx context.Context, batch ...*series.Series) error
}

// Provisioner builds the collaborators a cluster fixture needs.
type Provisioner interface {
	// Provision creates a node handle together with a client bound to it.
	Provision(run *Run, name string) (Node, Client, error)
	// InitCluster issues the cluster-topology creation against the first
	// node of a freshly started cluster.
	InitCluster(run *Run, first Node) error
}
