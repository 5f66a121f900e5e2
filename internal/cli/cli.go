// Package cli implements the chronotest command actions.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	commands "github.com/urfave/cli/v3"

	"github.com/chronodb/chronotest/internal/cluster"
	"github.com/chronodb/chronotest/internal/config"
	"github.com/chronodb/chronotest/internal/harness"
	"github.com/chronodb/chronotest/internal/registry"
	_ "github.com/chronodb/chronotest/scenarios"
)

// Init scaffolds a chronotest.yaml in the target directory.
func Init(ctx context.Context, cmd *commands.Command) error {
	targetPath := "."
	if cmd.NArg() > 0 {
		targetPath = cmd.Args().First()

		if err := os.MkdirAll(targetPath, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", targetPath, err)
		}
	}

	cfg := config.Default()
	configPath := filepath.Join(targetPath, "chronotest.yaml")
	if err := config.SaveTo(cfg, configPath); err != nil {
		return err
	}

	fmt.Printf("Created %s\n", configPath)
	fmt.Println()
	fmt.Println("Point 'command' at the script that launches one node of your")
	fmt.Println("service, then run 'chronotest run' to execute every pack.")

	return nil
}

// Run executes scenario packs: all of them, one pack, or one scenario.
func Run(ctx context.Context, cmd *commands.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	hcfg, err := cfg.Harness()
	if err != nil {
		return err
	}
	hcfg.Provisioner = cluster.NewProvisioner()

	if strings.Contains(hcfg.Command, "/") {
		if _, err := os.Stat(hcfg.Command); os.IsNotExist(err) {
			return fmt.Errorf("command %s not found\nCreate an executable script that starts one node of your service", hcfg.Command)
		}
	}

	args := cmd.Args().Slice()
	switch cmd.NArg() {
	case 0:
		for _, key := range sortedPackKeys() {
			pack, _ := registry.GetPack(key)
			if err := runPack(ctx, hcfg, pack); err != nil {
				return err
			}
		}
		return nil
	case 1:
		pack, err := registry.GetPack(args[0])
		if err != nil {
			return err
		}
		return runPack(ctx, hcfg, pack)
	case 2:
		pack, err := registry.GetPack(args[0])
		if err != nil {
			return err
		}

		scenario, err := pack.GetScenario(args[1])
		if err != nil {
			return fmt.Errorf("%w\n%s", err, availableScenarios(pack))
		}
		return runScenario(ctx, hcfg, pack.Key, args[1], scenario)
	default:
		return fmt.Errorf("too many arguments\nUsage: chronotest run [pack] [scenario]")
	}
}

func runPack(ctx context.Context, hcfg *harness.Config, pack *registry.Pack) error {
	for _, key := range pack.ScenarioOrder {
		scenario := pack.Scenarios[key]
		if err := runScenario(ctx, hcfg, pack.Key, key, scenario); err != nil {
			return err
		}
	}

	return nil
}

func runScenario(ctx context.Context, hcfg *harness.Config, packKey, key string, scenario *registry.Scenario) error {
	fmt.Printf("%s / %s: %s\n\n", packKey, key, scenario.Name)

	suite := scenario.Fn().WithConfig(hcfg)
	if !suite.Run(ctx) {
		return fmt.Errorf("scenario %s/%s failed", packKey, key)
	}

	fmt.Println()
	return nil
}

// List shows the registered packs.
func List(ctx context.Context, cmd *commands.Command) error {
	fmt.Println("Available packs:")
	fmt.Println()

	for _, key := range sortedPackKeys() {
		pack, _ := registry.GetPack(key)
		fmt.Printf("  %-16s - %s (%d scenarios)\n", key, pack.Name, pack.Len())
	}

	fmt.Println()
	fmt.Println("Run with: chronotest run <pack>")

	return nil
}

// Info shows one pack's details.
func Info(ctx context.Context, cmd *commands.Command) error {
	if cmd.NArg() == 0 {
		return fmt.Errorf("pack name is required\nUsage: chronotest info <pack>")
	}

	pack, err := registry.GetPack(cmd.Args().First())
	if err != nil {
		return err
	}

	fmt.Println(pack.Name)
	fmt.Println()
	fmt.Println(pack.Summary)
	fmt.Println()

	fmt.Println("Scenarios:")
	for _, key := range pack.ScenarioOrder {
		fmt.Printf("  %-18s - %s\n", key, pack.Scenarios[key].Name)
	}

	return nil
}

func sortedPackKeys() []string {
	var keys []string
	for key := range registry.GetAllPacks() {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}

func availableScenarios(pack *registry.Pack) string {
	msg := "Available scenarios:\n"
	for _, key := range pack.ScenarioOrder {
		msg += fmt.Sprintf("- %s\n", key)
	}

	return msg
}
