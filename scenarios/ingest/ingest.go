package ingest

import (
	"fmt"
	"time"

	"github.com/chronodb/chronotest/internal/harness"
	"github.com/chronodb/chronotest/internal/series"
)

// WriteReconcile writes one series and reconciles its point count. The
// first check runs while points may still be pending commit; the second
// is strict, after the pending state has been consumed and the cluster
// has had time to flush.
func WriteReconcile() *harness.Suite {
	return harness.New().
		Scenario("write points then reconcile", func(r *harness.Run) {
			r.Cluster(1, func(fx *harness.Fixture) harness.Teardown {
				s := series.New("temperature.living_room")
				base := time.Now().Unix()
				for i := 0; i < 10; i++ {
					s.Add(base+int64(i), 20.0+float64(i)/10)
				}

				if err := fx.Client(0).Insert(r.Context(), s); err != nil {
					panic(fmt.Sprintf("inserting points: %v", err))
				}

				// Tolerant while the write buffer drains.
				r.ExpectSeries(fx.Client(0), s)

				r.Settle(2 * time.Second)

				// Strict once everything is committed.
				r.ExpectSeries(fx.Client(0), s)

				return harness.TeardownAndVerify
			})
		})
}

// MultiSeries writes several series, one of them empty, and reconciles
// them in a single listing. The empty series must not be required to
// appear in the result.
func MultiSeries() *harness.Suite {
	return harness.New().
		Scenario("multiple series reconcile in one listing", func(r *harness.Run) {
			r.Cluster(2, func(fx *harness.Fixture) harness.Teardown {
				base := time.Now().Unix()

				cpu := series.New("cpu.node0.load")
				for i := 0; i < 25; i++ {
					cpu.Add(base+int64(i), float64(i%4))
				}

				mem := series.New("mem.node0.rss")
				for i := 0; i < 5; i++ {
					mem.Add(base+int64(i*60), 512.0+float64(i))
				}

				empty := series.New("disk.node0.unused")

				if err := fx.Client(0).Insert(r.Context(), cpu, mem); err != nil {
					panic(fmt.Sprintf("inserting points: %v", err))
				}

				r.Settle(2 * time.Second)

				// Query through the other node to cross-check replication.
				r.ExpectRunning(fx.Client(1), fx.Descriptor(), harness.Retries(30))
				r.ExpectSeries(fx.Client(1), cpu, mem, empty)

				return harness.TeardownAndVerify
			})
		})
}
