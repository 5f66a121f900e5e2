// Package cluster provides the process-backed node handles and the
// provisioner that builds them for harness runs.
package cluster

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/goccy/go-yaml"
	"go.uber.org/zap"
)

// nodeConfig is the on-disk configuration one node process reads at boot.
type nodeConfig struct {
	Name    string `yaml:"name"`
	Port    int    `yaml:"port"`
	DataDir string `yaml:"data_dir"`
}

// Options configure a process-backed node.
type Options struct {
	// Command launches the node process.
	Command string
	// WorkingDir holds the node's data directory and log file.
	WorkingDir string

	// StartTimeout bounds the wait for the node to accept connections.
	StartTimeout time.Duration
	// ShutdownTimeout before a stopping node is killed.
	ShutdownTimeout time.Duration
	// PortPollInterval between connection attempts during startup.
	PortPollInterval time.Duration

	Logger *zap.Logger
}

// Node is one process of the service under test. Lifecycle: created
// (config provisioned on disk), started (process running), stopped
// (process terminated).
type Node struct {
	name string
	opts Options

	port    int
	dataDir string
	cmd     *exec.Cmd
	logFile *os.File
}

// NewNode reserves an OS-assigned port and builds a node handle. The
// port is reserved up front so it can be written into the node's config
// before the process starts.
func NewNode(name string, opts Options) (*Node, error) {
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		return nil, fmt.Errorf("reserving port: %w", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.PortPollInterval == 0 {
		opts.PortPollInterval = 100 * time.Millisecond
	}

	return &Node{
		name:    name,
		opts:    opts,
		port:    port,
		dataDir: filepath.Join(opts.WorkingDir, name),
	}, nil
}

// Name returns the node's stable identity.
func (n *Node) Name() string {
	return n.name
}

// Addr returns the node's host:port address.
func (n *Node) Addr() string {
	return fmt.Sprintf("127.0.0.1:%d", n.port)
}

// URL returns the node's HTTP base URL.
func (n *Node) URL() string {
	return "http://" + n.Addr()
}

// ConfigPath returns the path of the node's config file.
func (n *Node) ConfigPath() string {
	return filepath.Join(n.dataDir, "node.yaml")
}

// Create provisions the node's data directory and config file.
// Idempotent within a run.
func (n *Node) Create() error {
	if err := os.MkdirAll(n.dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory for %s: %w", n.name, err)
	}

	raw, err := yaml.Marshal(nodeConfig{
		Name:    n.name,
		Port:    n.port,
		DataDir: n.dataDir,
	})
	if err != nil {
		return fmt.Errorf("encoding config for %s: %w", n.name, err)
	}

	if err := os.WriteFile(n.ConfigPath(), raw, 0o644); err != nil {
		return fmt.Errorf("writing config for %s: %w", n.name, err)
	}

	return nil
}

// Start launches the node process in its own process group, redirects
// its output to a per-node log file, and waits for it to accept
// connections.
func (n *Node) Start(ctx context.Context) error {
	configArg := fmt.Sprintf("--config=%s", n.ConfigPath())
	// The process is not bound to ctx: a cluster left running via
	// SkipTeardown must outlive the run. Cleanup goes through Stop.
	cmd := exec.Command(n.opts.Command, configArg)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	logPath := filepath.Join(n.opts.WorkingDir, fmt.Sprintf("%s.log", n.name))
	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("creating log file for %s: %w", n.name, err)
	}
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		logFile.Close()
		return fmt.Errorf("starting %s: %w", n.name, err)
	}

	n.cmd = cmd
	n.logFile = logFile
	n.opts.Logger.Info("node started",
		zap.String("node", n.name),
		zap.Int("port", n.port),
		zap.Int("pid", cmd.Process.Pid))

	return n.waitForPort(ctx)
}

// waitForPort waits for the node to accept connections on its port.
func (n *Node) waitForPort(ctx context.Context) error {
	deadline := time.Now().Add(n.opts.StartTimeout)

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(n.opts.PortPollInterval):
			conn, err := net.DialTimeout("tcp", n.Addr(), 100*time.Millisecond)
			if err == nil {
				conn.Close()
				return nil
			}
		}
	}

	return fmt.Errorf("node %s did not accept connections on %s within %s",
		n.name, n.Addr(), n.opts.StartTimeout)
}

// Stop terminates the node's process group with SIGTERM, escalating to
// SIGKILL after the shutdown timeout. It reports whether the node
// exited cleanly, i.e. with a zero status before the escalation.
func (n *Node) Stop(ctx context.Context) bool {
	if n.cmd == nil || n.cmd.Process == nil {
		// Never started, or already stopped.
		return true
	}

	pgid := n.cmd.Process.Pid
	if err := syscall.Kill(-pgid, syscall.SIGTERM); err != nil {
		n.opts.Logger.Warn("signalling node failed",
			zap.String("node", n.name), zap.Error(err))
	}

	done := make(chan error, 1)
	go func() {
		done <- n.cmd.Wait()
	}()

	clean := true
	var waitErr error
	select {
	case waitErr = <-done:
	case <-time.After(n.opts.ShutdownTimeout):
		clean = false
		syscall.Kill(-pgid, syscall.SIGKILL)
		waitErr = <-done
	}

	if waitErr != nil {
		clean = false
	}

	if n.logFile != nil {
		n.logFile.Close()
		n.logFile = nil
	}
	n.cmd = nil

	n.opts.Logger.Info("node stopped",
		zap.String("node", n.name),
		zap.Bool("clean", clean))

	return clean
}
