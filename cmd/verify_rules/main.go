// Command verify_rules sanity-checks the static tables in internal/rules
// at build/startup time, failing fast with a non-zero exit code if any of
// them is internally inconsistent. It exists so a bad edit to a cost table
// or distribution is caught before a rollout or host server ever starts.
package main

import (
	"fmt"
	"os"

	"github.com/lukev/catan2p/internal/rules"
)

type check struct {
	name string
	run  func() error
}

func main() {
	checks := []check{
		{"dev card deck composition", checkDevDeck},
		{"bank starting stock", checkBank},
		{"port distribution", checkPorts},
		{"build costs", checkBuildCosts},
		{"terrain/pip distribution", checkTerrainAndPips},
	}

	failed := false
	for _, c := range checks {
		if err := c.run(); err != nil {
			fmt.Printf("✗ %s: %v\n", c.name, err)
			failed = true
			continue
		}
		fmt.Printf("✓ %s\n", c.name)
	}

	if failed {
		os.Exit(1)
	}
	fmt.Println("\n✅ all rules tables verified")
}

func checkDevDeck() error {
	deck := rules.DefaultDevDeck()
	if len(deck) != 25 {
		return fmt.Errorf("expected 25 development cards, got %d", len(deck))
	}
	counts := make(map[rules.DevCardKind]int)
	for _, c := range deck {
		counts[c]++
	}
	want := map[rules.DevCardKind]int{
		rules.Knight:       14,
		rules.VictoryPoint: 5,
		rules.RoadBuilding: 2,
		rules.YearOfPlenty: 2,
		rules.Monopoly:     2,
	}
	for kind, n := range want {
		if counts[kind] != n {
			return fmt.Errorf("expected %d of %v, got %d", n, kind, counts[kind])
		}
	}
	return nil
}

func checkBank() error {
	bank := rules.DefaultBank()
	for _, r := range rules.Resources {
		if n := bank.Get(r); n != 19 {
			return fmt.Errorf("expected 19 %v in the bank, got %d", r, n)
		}
	}
	return nil
}

func checkPorts() error {
	ports := rules.PortDistribution()
	if len(ports) != rules.PortCount {
		return fmt.Errorf("expected %d ports, got %d", rules.PortCount, len(ports))
	}
	counts := make(map[rules.PortKind]int)
	for _, p := range ports {
		counts[p]++
	}
	if counts[rules.PortAny] != 4 {
		return fmt.Errorf("expected 4 3:1 ports, got %d", counts[rules.PortAny])
	}
	specific := []rules.PortKind{rules.PortBrick, rules.PortLumber, rules.PortWool, rules.PortGrain, rules.PortOre}
	for _, kind := range specific {
		if counts[kind] != 1 {
			return fmt.Errorf("expected exactly 1 2:1 port for %v, got %d", kind, counts[kind])
		}
	}
	return nil
}

func checkBuildCosts() error {
	costs := []struct {
		name string
		cost rules.ResourceBundle
	}{
		{"road", rules.RoadCost()},
		{"settlement", rules.SettlementCost()},
		{"city", rules.CityCost()},
		{"development card", rules.DevelopmentCost()},
	}
	for _, c := range costs {
		if c.cost.Total() <= 0 {
			return fmt.Errorf("%s cost must be positive, got total %d", c.name, c.cost.Total())
		}
	}
	return nil
}

func checkTerrainAndPips() error {
	terrain := rules.TerrainDistribution()
	if len(terrain) != rules.TileCount {
		return fmt.Errorf("expected %d tiles, got %d", rules.TileCount, len(terrain))
	}
	deserts := 0
	for _, t := range terrain {
		if t == rules.TerrainDesert {
			deserts++
		}
	}
	if deserts != 1 {
		return fmt.Errorf("expected exactly 1 desert tile, got %d", deserts)
	}

	pips := rules.PipDistribution()
	if len(pips) != 18 {
		return fmt.Errorf("expected 18 numbered pip tokens (one per non-desert tile), got %d", len(pips))
	}
	for _, p := range pips {
		if p == 7 || p < 2 || p > 12 {
			return fmt.Errorf("invalid pip value %d", p)
		}
	}
	return nil
}
