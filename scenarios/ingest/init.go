package ingest

import "github.com/chronodb/chronotest/internal/registry"

func init() {
	pack := &registry.Pack{
		Name: "Series Ingest & Reconciliation",
		Summary: `Writes time series to the cluster and reconciles the reported point
counts against the in-memory expectations, tolerating points that are
still pending commit.`,
	}

	pack.AddScenario("write-reconcile", "Write Points and Reconcile Counts", WriteReconcile)
	pack.AddScenario("multi-series", "Multiple Series in One Listing", MultiSeries)

	registry.RegisterPack("ingest", pack)
}
