package harness_test

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/chronodb/chronotest/internal/harness"
	"github.com/chronodb/chronotest/internal/query"
	"github.com/chronodb/chronotest/internal/series"
)

// recorder collects lifecycle events from fake collaborators.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (rec *recorder) add(format string, args ...any) {
	rec.mu.Lock()
	defer rec.mu.Unlock()

	rec.events = append(rec.events, fmt.Sprintf(format, args...))
}

func (rec *recorder) all() []string {
	rec.mu.Lock()
	defer rec.mu.Unlock()

	return slices.Clone(rec.events)
}

func (rec *recorder) index(event string) int {
	return slices.Index(rec.all(), event)
}

type fakeNode struct {
	name   string
	rec    *recorder
	stopOK bool
}

func (n *fakeNode) Name() string { return n.name }

func (n *fakeNode) Create() error {
	n.rec.add("create %s", n.name)
	return nil
}

func (n *fakeNode) Start(ctx context.Context) error {
	n.rec.add("start %s", n.name)
	return nil
}

func (n *fakeNode) Stop(ctx context.Context) bool {
	n.rec.add("stop %s", n.name)
	return n.stopOK
}

type fakeClient struct {
	payload string
}

func (c *fakeClient) Query(ctx context.Context, text string) (*query.Result, error) {
	return query.NewResult([]byte(c.payload)), nil
}

func (c *fakeClient) Insert(ctx context.Context, batch ...*series.Series) error {
	return nil
}

type fakeProvisioner struct {
	rec    *recorder
	stopOK bool
}

func (p *fakeProvisioner) Provision(run *harness.Run, name string) (harness.Node, harness.Client, error) {
	p.rec.add("provision %s", name)
	return &fakeNode{name: name, rec: p.rec, stopOK: p.stopOK},
		&fakeClient{payload: `{}`}, nil
}

func (p *fakeProvisioner) InitCluster(run *harness.Run, first harness.Node) error {
	p.rec.add("init %s", first.Name())
	return nil
}

// runCluster executes one Cluster scenario against a fake provisioner.
func runCluster(t *testing.T, stopOK bool, n int, body func(*harness.Fixture) harness.Teardown) (bool, *recorder) {
	t.Helper()

	rec := &recorder{}
	passed := harness.New().
		WithConfig(&harness.Config{
			WorkingDir:     t.TempDir(),
			StartupSettle:  1,
			TopologySettle: 1,
			PollInterval:   1,
			Provisioner:    &fakeProvisioner{rec: rec, stopOK: stopOK},
		}).
		Scenario("scenario", func(r *harness.Run) {
			r.Cluster(n, body)
		}).
		Run(context.Background())

	return passed, rec
}

func TestClusterTeardownStopsEveryNode(t *testing.T) {
	passed, rec := runCluster(t, true, 3, func(fx *harness.Fixture) harness.Teardown {
		return harness.TeardownAndVerify
	})
	if !passed {
		t.Fatal("scenario should pass when every node stops cleanly")
	}

	for i := 0; i < 3; i++ {
		if rec.index(fmt.Sprintf("stop node%d", i)) == -1 {
			t.Errorf("node%d was not stopped during teardown", i)
		}
	}
}

func TestSkipTeardownLeavesClusterRunning(t *testing.T) {
	passed, rec := runCluster(t, true, 3, func(fx *harness.Fixture) harness.Teardown {
		return harness.SkipTeardown
	})
	if !passed {
		t.Fatal("scenario should pass when teardown is skipped")
	}

	for _, event := range rec.all() {
		if event == "stop node0" || event == "stop node1" || event == "stop node2" {
			t.Errorf("no node should be stopped after SkipTeardown, got %q", event)
		}
	}
}

func TestClusterStartupIsSequential(t *testing.T) {
	passed, rec := runCluster(t, true, 3, func(fx *harness.Fixture) harness.Teardown {
		return harness.TeardownAndVerify
	})
	if !passed {
		t.Fatal("scenario should pass")
	}

	// Node i must be fully started before node i+1 is even created.
	for i := 0; i < 2; i++ {
		started := rec.index(fmt.Sprintf("start node%d", i))
		created := rec.index(fmt.Sprintf("create node%d", i+1))
		if started == -1 || created == -1 {
			t.Fatalf("missing lifecycle events: %v", rec.all())
		}
		if started > created {
			t.Errorf("node%d was created before node%d finished starting", i+1, i)
		}
	}
}

func TestClusterInitializesTopologyOnFirstNode(t *testing.T) {
	passed, rec := runCluster(t, true, 2, func(fx *harness.Fixture) harness.Teardown {
		names := fx.Descriptor().Names()
		if len(names) != 2 || names[0] != "node0" || names[1] != "node1" {
			t.Errorf("unexpected descriptor names: %v", names)
		}
		return harness.TeardownAndVerify
	})
	if !passed {
		t.Fatal("scenario should pass")
	}

	initIdx := rec.index("init node0")
	if initIdx == -1 {
		t.Fatalf("topology was never initialized: %v", rec.all())
	}
	if lastStart := rec.index("start node1"); initIdx < lastStart {
		t.Error("topology was initialized before all nodes were started")
	}
}

func TestClusterTeardownCollectsAllStopFailures(t *testing.T) {
	passed, rec := runCluster(t, false, 3, func(fx *harness.Fixture) harness.Teardown {
		return harness.TeardownAndVerify
	})
	if passed {
		t.Fatal("scenario should fail when nodes do not stop cleanly")
	}

	// Every node gets a stop attempt before the failure is reported.
	for i := 0; i < 3; i++ {
		if rec.index(fmt.Sprintf("stop node%d", i)) == -1 {
			t.Errorf("node%d was not given a stop attempt", i)
		}
	}
}

func TestClusterReapsNodesAfterBodyPanic(t *testing.T) {
	passed, rec := runCluster(t, true, 2, func(fx *harness.Fixture) harness.Teardown {
		panic("assertion failed mid-body")
	})
	if passed {
		t.Fatal("scenario should fail when the body panics")
	}

	// The run's cleanup pass stops what the fixture left behind.
	for i := 0; i < 2; i++ {
		if rec.index(fmt.Sprintf("stop node%d", i)) == -1 {
			t.Errorf("node%d was not reaped after the body panicked", i)
		}
	}
}

// cancelAwareNode records whether the run context was still live when
// its stop was attempted.
type cancelAwareNode struct {
	name string
	rec  *recorder
	run  *harness.Run
}

func (n *cancelAwareNode) Name() string                    { return n.name }
func (n *cancelAwareNode) Create() error                   { return nil }
func (n *cancelAwareNode) Start(ctx context.Context) error { return nil }

func (n *cancelAwareNode) Stop(ctx context.Context) bool {
	if n.run.Context().Err() != nil {
		n.rec.add("stop %s after cancel", n.name)
	} else {
		n.rec.add("stop %s before cancel", n.name)
	}
	return true
}

type cancelAwareProvisioner struct {
	rec *recorder
}

func (p *cancelAwareProvisioner) Provision(run *harness.Run, name string) (harness.Node, harness.Client, error) {
	return &cancelAwareNode{name: name, rec: p.rec, run: run},
		&fakeClient{payload: `{}`}, nil
}

func (p *cancelAwareProvisioner) InitCluster(run *harness.Run, first harness.Node) error {
	return nil
}

func TestRunReapsLeftoverNodesBeforeCancelling(t *testing.T) {
	rec := &recorder{}
	passed := harness.New().
		WithConfig(&harness.Config{
			WorkingDir:     t.TempDir(),
			StartupSettle:  1,
			TopologySettle: 1,
			PollInterval:   1,
			Provisioner:    &cancelAwareProvisioner{rec: rec},
		}).
		Scenario("scenario", func(r *harness.Run) {
			r.Cluster(2, func(fx *harness.Fixture) harness.Teardown {
				panic("assertion failed mid-body")
			})
		}).
		Run(context.Background())
	if passed {
		t.Fatal("scenario should fail when the body panics")
	}

	// Leftover nodes get their graceful stop while the run context is
	// still live, so a ShutdownTimeout can elapse before any kill.
	for i := 0; i < 2; i++ {
		if rec.index(fmt.Sprintf("stop node%d before cancel", i)) == -1 {
			t.Errorf("node%d was not stopped before the run was cancelled: %v", i, rec.all())
		}
	}
}

func TestFixtureAccessors(t *testing.T) {
	passed, _ := runCluster(t, true, 2, func(fx *harness.Fixture) harness.Teardown {
		if fx.Size() != 2 {
			t.Errorf("Size() = %d, want 2", fx.Size())
		}
		if fx.Node(1).Name() != "node1" {
			t.Errorf("Node(1).Name() = %q, want node1", fx.Node(1).Name())
		}
		if fx.Client(0) == nil {
			t.Error("Client(0) should be bound")
		}
		if _, ok := fx.NodeByName("node0"); !ok {
			t.Error("NodeByName(node0) should find the node")
		}
		if _, ok := fx.NodeByName("node9"); ok {
			t.Error("NodeByName(node9) should not find a node")
		}
		return harness.TeardownAndVerify
	})
	if !passed {
		t.Fatal("scenario should pass")
	}
}
