package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/chronodb/chronotest/pkg/threadsafe"
)

// Run is the execution context shared by every scenario in one suite
// invocation: working directory, diagnostic logger, cancellation, and
// the registry of fixtures whose nodes are still alive.
type Run struct {
	config     *Config
	workingDir string
	logger     *zap.Logger
	fixtures   *threadsafe.Map[*Fixture, bool]

	ctx    context.Context
	cancel context.CancelFunc
}

// newRun creates a new Run with its own timestamped working directory.
func newRun(ctx context.Context, config *Config) *Run {
	runCtx, cancel := context.WithCancel(ctx)

	timestamp := time.Now().Format("20060102-150405")
	workingDir := filepath.Join(config.WorkingDir, fmt.Sprintf("run-%s", timestamp))

	err := os.MkdirAll(workingDir, 0o755)
	if err != nil {
		cancel()
		panic(fmt.Sprintf("failed to create working directory: %v", err))
	}

	return &Run{
		config:     config,
		workingDir: workingDir,
		logger:     newLogger(workingDir),
		fixtures:   threadsafe.NewMap[*Fixture, bool](),
		ctx:        runCtx,
		cancel:     cancel,
	}
}

// newLogger builds the run's diagnostic logger, writing to harness.log
// inside the run's working directory.
func newLogger(dir string) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{filepath.Join(dir, "harness.log")}
	cfg.ErrorOutputPaths = cfg.OutputPaths

	logger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to create run logger: %v", err))
	}

	return logger
}

// Config returns the run's configuration.
func (r *Run) Config() *Config {
	return r.config
}

// WorkingDir returns the run's working directory.
func (r *Run) WorkingDir() string {
	return r.workingDir
}

// Logger returns the run's diagnostic logger.
func (r *Run) Logger() *zap.Logger {
	return r.logger
}

// Context returns the run's context.
func (r *Run) Context() context.Context {
	return r.ctx
}

// Cancel aborts the run.
func (r *Run) Cancel() {
	r.cancel()
}

// Settle pauses for the given duration to let asynchronous background
// effects complete, returning early if the run is cancelled.
func (r *Run) Settle(d time.Duration) {
	select {
	case <-r.ctx.Done():
	case <-time.After(d):
	}
}

// Done stops the nodes of any fixture a scenario left behind, e.g.
// after a mid-body assertion failure, then cancels the run. Fixtures
// that tore down normally, and fixtures deliberately left running via
// SkipTeardown, have already deregistered themselves.
func (r *Run) Done() {
	var leftover []*Fixture
	r.fixtures.Range(func(fx *Fixture, _ bool) bool {
		leftover = append(leftover, fx)
		return true
	})

	// Reap before cancelling so leftover nodes get a graceful stop
	// while the run context is still live.
	for _, fx := range leftover {
		for _, node := range fx.nodes {
			if !node.Stop(context.Background()) {
				r.logger.Warn("leftover node did not stop cleanly",
					zap.String("node", node.Name()))
			}
		}
		r.fixtures.Delete(fx)
	}

	r.cancel()
	r.logger.Sync()
}

func (r *Run) track(fx *Fixture) {
	r.fixtures.Set(fx, true)
}

func (r *Run) untrack(fx *Fixture) {
	r.fixtures.Delete(fx)
}
