package convergence

import "github.com/chronodb/chronotest/internal/registry"

func init() {
	pack := &registry.Pack{
		Name: "Cluster Convergence",
		Summary: `Brings up single- and multi-node clusters and verifies that every
expected node converges to a running state.`,
	}

	pack.AddScenario("single-node", "Single Node Reports Running", SingleNode)
	pack.AddScenario("three-node", "Three-Node Cluster Converges", ThreeNode)
	pack.AddScenario("inspect", "Leave Cluster Running for Inspection", Inspect)

	registry.RegisterPack("convergence", pack)
}
