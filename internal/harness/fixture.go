package harness

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Teardown tells the fixture what to do with the cluster after the
// scenario body returns.
type Teardown int

const (
	// TeardownAndVerify stops every node and fails the scenario if any
	// of them does not exit cleanly.
	TeardownAndVerify Teardown = iota
	// SkipTeardown leaves the cluster running, e.g. for manual
	// inspection or chained scenarios.
	SkipTeardown
)

// Fixture is one provisioned cluster: n started nodes, a query client
// bound to each, and the descriptor used as convergence ground truth.
// It is constructed once per Cluster call and read-only afterwards.
type Fixture struct {
	desc    *Descriptor
	nodes   []Node
	clients []Client
}

// Descriptor returns the expected-node ground truth for this cluster.
func (fx *Fixture) Descriptor() *Descriptor {
	return fx.desc
}

// Size returns the number of nodes in the cluster.
func (fx *Fixture) Size() int {
	return len(fx.nodes)
}

// Node returns node handle i.
func (fx *Fixture) Node(i int) Node {
	return fx.nodes[i]
}

// Client returns the query client bound to node i.
func (fx *Fixture) Client(i int) Client {
	return fx.clients[i]
}

// NodeByName looks a node handle up by its name.
func (fx *Fixture) NodeByName(name string) (Node, bool) {
	for _, node := range fx.nodes {
		if node.Name() == name {
			return node, true
		}
	}

	return nil, false
}

// Cluster provisions an n-node cluster, runs body against it, and tears
// it down according to the body's Teardown result. Nodes are created
// and started one at a time, in index order; node i is fully started
// before node i+1 is created. Provisioning and startup failures abort
// the scenario immediately.
func (r *Run) Cluster(n int, body func(*Fixture) Teardown) {
	if n < 1 {
		n = 1
	}

	prov := r.config.Provisioner
	if prov == nil {
		panic("no provisioner configured for this run")
	}

	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("node%d", i)
	}

	fx := &Fixture{desc: NewDescriptor(names...)}
	r.track(fx)

	for _, name := range names {
		node, client, err := prov.Provision(r, name)
		if err != nil {
			panic(fmt.Sprintf("provisioning %s: %v", name, err))
		}

		if err := node.Create(); err != nil {
			panic(fmt.Sprintf("creating %s: %v", name, err))
		}
		if err := node.Start(r.ctx); err != nil {
			panic(fmt.Sprintf("starting %s: %v", name, err))
		}

		fx.nodes = append(fx.nodes, node)
		fx.clients = append(fx.clients, client)
	}

	r.Settle(r.config.StartupSettle)

	if err := prov.InitCluster(r, fx.nodes[0]); err != nil {
		panic(fmt.Sprintf("initializing cluster topology: %v", err))
	}
	r.Settle(r.config.TopologySettle)

	if body(fx) == SkipTeardown {
		r.logger.Info("teardown skipped, cluster left running",
			zap.Strings("nodes", fx.desc.Names()),
			zap.String("dir", r.workingDir))
		r.untrack(fx)
		return
	}

	// Best-effort cleanup: every node gets a stop attempt before any
	// failure is reported.
	var unclean []string
	for _, node := range fx.nodes {
		if !node.Stop(r.ctx) {
			unclean = append(unclean, node.Name())
		}
	}
	r.untrack(fx)

	if len(unclean) > 0 {
		panic(fmt.Sprintf("node(s) did not close correctly: %s",
			strings.Join(unclean, ", ")))
	}
}
