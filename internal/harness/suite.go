package harness

import (
	"context"
	"fmt"

	"github.com/fatih/color"
)

var (
	green     = color.New(color.FgGreen).SprintFunc()
	red       = color.New(color.FgRed).SprintFunc()
	bold      = color.New(color.Bold).SprintFunc()
	checkMark = green("✓")
	crossMark = red("✗")
)

// Suite represents a test suite with setup and scenario functions.
type Suite struct {
	setupFn   func(*Run)
	scenarios []Scenario
	config    *Config
}

// Scenario represents a single test case with name and function.
type Scenario struct {
	Name string
	Fn   func(*Run)
}

// New creates a new empty test suite.
func New() *Suite {
	return &Suite{scenarios: make([]Scenario, 0)}
}

// WithConfig sets the configuration for the test suite.
func (s *Suite) WithConfig(config *Config) *Suite {
	merged := DefaultConfig()

	if config.Command != "" {
		merged.Command = config.Command
	}

	if config.WorkingDir != "" {
		merged.WorkingDir = config.WorkingDir
	}

	if config.StartupSettle != 0 {
		merged.StartupSettle = config.StartupSettle
	}

	if config.TopologySettle != 0 {
		merged.TopologySettle = config.TopologySettle
	}

	if config.PollInterval != 0 {
		merged.PollInterval = config.PollInterval
	}

	if config.StartTimeout != 0 {
		merged.StartTimeout = config.StartTimeout
	}

	if config.ShutdownTimeout != 0 {
		merged.ShutdownTimeout = config.ShutdownTimeout
	}

	if config.QueryTimeout != 0 {
		merged.QueryTimeout = config.QueryTimeout
	}

	if config.Provisioner != nil {
		merged.Provisioner = config.Provisioner
	}

	s.config = merged
	return s
}

// Setup adds a setup function that runs before all scenarios.
func (s *Suite) Setup(fn func(*Run)) *Suite {
	s.setupFn = fn
	return s
}

// Scenario adds a test case to the suite.
func (s *Suite) Scenario(name string, fn func(*Run)) *Suite {
	s.scenarios = append(s.scenarios, Scenario{Name: name, Fn: fn})
	return s
}

// Run executes the test suite and returns whether it passed.
func (s *Suite) Run(ctx context.Context) bool {
	config := s.config
	if config == nil {
		config = DefaultConfig()
	}

	run := newRun(ctx, config)
	defer run.Done()

	// Run setup function if defined
	var failed bool
	if s.setupFn != nil {
		func() {
			defer func() {
				err := recover()
				if err != nil {
					failed = true

					fmt.Printf("%s %s\n", crossMark, "SETUP")
					fmt.Printf("\n%s\n", err)
				}
			}()

			s.setupFn(run)
		}()
	}

	// Run each scenario, stopping on first failure or cancellation
	for _, scenario := range s.scenarios {
		if failed {
			break
		}

		select {
		case <-ctx.Done():
			return false
		default:
		}

		func() {
			defer func() {
				err := recover()
				if err != nil {
					failed = true

					fmt.Printf("%s %s\n", crossMark, scenario.Name)
					fmt.Printf("\n%s\n", err)
				}
			}()

			scenario.Fn(run)
		}()

		if !failed {
			fmt.Printf("%s %s\n", checkMark, scenario.Name)
		}
	}

	if failed {
		fmt.Printf("\n%s %s\n", bold("FAILED"), crossMark)
	} else {
		fmt.Printf("\n%s %s\n", bold("PASSED"), checkMark)
	}

	return !failed
}
