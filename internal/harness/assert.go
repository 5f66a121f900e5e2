package harness

import (
	"fmt"
	"time"

	"github.com/chronodb/chronotest/internal/query"
	"github.com/chronodb/chronotest/internal/series"
)

// StatusRunning is the only node status this harness treats as healthy.
const StatusRunning = "running"

// ExpectRunning polls the cluster through client until every node named
// by desc reports a running status. The policy bounds how many failing
// polls are tolerated before the mismatch becomes fatal; NoRetry fails
// on the first. Convergence time is non-deterministic (replication,
// leader election), so the retry budget absorbs it without a fixed
// sleep.
func (r *Run) ExpectRunning(client Client, desc *Descriptor, policy RetryPolicy) {
	remaining := policy.attempts

	for {
		result, err := client.Query(r.ctx, "list servers name, status")
		if err != nil {
			panic(fmt.Sprintf("cluster status query failed: %v", err))
		}

		ok, mismatch := converged(result.Servers(), desc)
		if ok {
			return
		}
		if remaining <= 0 {
			panic(mismatch)
		}
		remaining--

		select {
		case <-r.ctx.Done():
			panic("cluster status polling cancelled")
		case <-time.After(r.config.PollInterval):
		}
	}
}

// converged reports whether rows covers desc completely and healthily.
// On failure it describes the mismatch with the observed rows.
func converged(rows []query.ServerStatus, desc *Descriptor) (bool, string) {
	if len(rows) != desc.Size() {
		return false, fmt.Sprintf("server(s) are missing: %v (expecting: %v)",
			rows, desc.Names())
	}

	for _, row := range rows {
		if row.Status != StatusRunning {
			return false, fmt.Sprintf("not all servers have status running: %v", rows)
		}
	}

	return true, ""
}

// ExpectSeries checks that every series with at least one expected point
// is reported by the cluster with the expected length, via a single
// listing query. A count mismatch is excused when the series still has
// points pending commit; a series missing from the result never is.
// Series with zero expected points are not checked at all.
func (r *Run) ExpectSeries(client Client, batch ...*series.Series) {
	text := fmt.Sprintf("list series name, length limit %d", len(batch))
	result, err := client.Query(r.ctx, text)
	if err != nil {
		panic(fmt.Sprintf("series listing query failed: %v", err))
	}

	reported := make(map[string]int, len(batch))
	for _, row := range result.Series() {
		reported[row.Name] = row.Length
	}

	for _, s := range batch {
		if s.Len() == 0 {
			continue
		}

		length, found := reported[s.Name()]
		if !found {
			panic(fmt.Sprintf("series %q is missing in the result", s.Name()))
		}
		if length != s.Len() && !s.CommitPending() {
			panic(fmt.Sprintf("expected %d point(s) but found %d point(s) for series %q",
				s.Len(), length, s.Name()))
		}
	}
}
