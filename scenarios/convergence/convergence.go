package convergence

import (
	"github.com/chronodb/chronotest/internal/harness"
)

// SingleNode checks that a one-node cluster is immediately healthy
// after the fixture's settle intervals.
func SingleNode() *harness.Suite {
	return harness.New().
		Scenario("single node reports running", func(r *harness.Run) {
			r.Cluster(1, func(fx *harness.Fixture) harness.Teardown {
				r.ExpectRunning(fx.Client(0), fx.Descriptor(), harness.NoRetry())
				return harness.TeardownAndVerify
			})
		})
}

// ThreeNode checks that a three-node cluster converges from every
// node's point of view. Joins and gossip take a while, so each check
// gets a retry budget.
func ThreeNode() *harness.Suite {
	return harness.New().
		Scenario("three-node cluster converges", func(r *harness.Run) {
			r.Cluster(3, func(fx *harness.Fixture) harness.Teardown {
				for i := 0; i < fx.Size(); i++ {
					r.ExpectRunning(fx.Client(i), fx.Descriptor(), harness.Retries(30))
				}
				return harness.TeardownAndVerify
			})
		})
}

// Inspect brings a cluster up, verifies it, and leaves it running so
// the operator can poke at it by hand. The run directory printed in the
// harness log names the node ports.
func Inspect() *harness.Suite {
	return harness.New().
		Scenario("cluster left running for inspection", func(r *harness.Run) {
			r.Cluster(2, func(fx *harness.Fixture) harness.Teardown {
				r.ExpectRunning(fx.Client(0), fx.Descriptor(), harness.Retries(30))
				return harness.SkipTeardown
			})
		})
}
