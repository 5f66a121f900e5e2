// Package scenarios registers the built-in scenario packs.
package scenarios

import (
	_ "github.com/chronodb/chronotest/scenarios/convergence"
	_ "github.com/chronodb/chronotest/scenarios/ingest"
)
