package harness

import "time"

// Config holds configuration options for the harness.
type Config struct {
	// Command launches one node of the service under test.
	Command string

	// WorkingDir is the base directory for run artifacts.
	WorkingDir string

	// StartupSettle is the pause after all nodes have started, before
	// any query is issued.
	StartupSettle time.Duration
	// TopologySettle is the pause after cluster-topology initialization.
	TopologySettle time.Duration
	// PollInterval between convergence polls.
	PollInterval time.Duration

	// StartTimeout for a node to accept connections after launch.
	StartTimeout time.Duration
	// ShutdownTimeout before a stopping node is killed.
	ShutdownTimeout time.Duration
	// QueryTimeout for client requests.
	QueryTimeout time.Duration

	// Provisioner builds node handles and bound clients. Required for
	// scenarios that call Cluster.
	Provisioner Provisioner
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Command:         "./run.sh",
		WorkingDir:      ".chronotest",
		StartupSettle:   2 * time.Second,
		TopologySettle:  2 * time.Second,
		PollInterval:    time.Second,
		StartTimeout:    10 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		QueryTimeout:    5 * time.Second,
	}
}
