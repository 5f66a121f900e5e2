// Package registry holds the named scenario packs the CLI can run.
package registry

import (
	"fmt"
	"log"

	"github.com/chronodb/chronotest/internal/harness"
)

func init() {
	log.SetFlags(0)
}

var packs = make(map[string]*Pack)

// Pack is an ordered collection of scenario suites around one theme.
type Pack struct {
	Key           string
	Name          string
	Summary       string
	Scenarios     map[string]*Scenario
	ScenarioOrder []string
}

// Scenario names a suite-building function.
type Scenario struct {
	Name string
	Fn   SuiteFunc
}

// SuiteFunc builds the suite for one scenario.
type SuiteFunc func() *harness.Suite

// AddScenario registers a scenario under the given key.
func (p *Pack) AddScenario(key, name string, fn SuiteFunc) {
	if p.Scenarios == nil {
		p.Scenarios = make(map[string]*Scenario)
	}

	p.Scenarios[key] = &Scenario{Name: name, Fn: fn}
	p.ScenarioOrder = append(p.ScenarioOrder, key)
}

// GetScenario looks a scenario up by key.
func (p *Pack) GetScenario(key string) (*Scenario, error) {
	scenario, exists := p.Scenarios[key]
	if !exists {
		return nil, fmt.Errorf("scenario %q not found in pack %s", key, p.Key)
	}

	return scenario, nil
}

// Len returns the number of scenarios in the pack.
func (p *Pack) Len() int {
	return len(p.ScenarioOrder)
}

// RegisterPack adds a pack to the registry.
func RegisterPack(key string, pack *Pack) {
	if len(pack.Scenarios) == 0 {
		log.Fatalf("Cannot register empty pack %s.", key)
	}

	pack.Key = key
	packs[key] = pack
}

// GetPack looks a pack up by key.
func GetPack(key string) (*Pack, error) {
	pack, exists := packs[key]
	if !exists {
		return nil, fmt.Errorf("pack %s not found", key)
	}

	return pack, nil
}

// GetAllPacks returns every registered pack.
func GetAllPacks() map[string]*Pack {
	return packs
}
