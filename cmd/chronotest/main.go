package main

import (
	"context"
	"log"
	"os"

	commands "github.com/urfave/cli/v3"

	"github.com/chronodb/chronotest/internal/cli"
)

func main() {
	cmd := &commands.Command{
		Name:  "chronotest",
		Usage: "Test harness for ChronoDB clusters",
		Commands: []*commands.Command{
			{
				Name:      "init",
				Usage:     "Scaffold a chronotest.yaml",
				ArgsUsage: "[path]",
				Action:    cli.Init,
			},
			{
				Name:      "run",
				Usage:     "Run scenario packs against your service",
				ArgsUsage: "[pack] [scenario]",
				Action:    cli.Run,
			},
			{
				Name:   "list",
				Usage:  "Show available scenario packs",
				Action: cli.List,
			},
			{
				Name:      "info",
				Usage:     "Show pack details",
				ArgsUsage: "<pack>",
				Action:    cli.Info,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
