package rules

import "testing"

func TestDefaultBankHasStandardStock(t *testing.T) {
	bank := DefaultBank()
	for _, r := range Resources {
		if n := bank.Get(r); n != BankStockPerRes {
			t.Fatalf("expected %d of %v, got %d", BankStockPerRes, r, n)
		}
	}
}

func TestDefaultDevDeckComposition(t *testing.T) {
	deck := DefaultDevDeck()
	if len(deck) != DefaultDevDeckTotal {
		t.Fatalf("expected %d cards, got %d", DefaultDevDeckTotal, len(deck))
	}
	counts := make(map[DevCardKind]int)
	for _, c := range deck {
		counts[c]++
	}
	want := map[DevCardKind]int{Knight: 14, VictoryPoint: 5, RoadBuilding: 2, YearOfPlenty: 2, Monopoly: 2}
	for k, n := range want {
		if counts[k] != n {
			t.Fatalf("expected %d of %v, got %d", n, k, counts[k])
		}
	}
}

func TestDiscardOwedIsFloorHalfAboveLimit(t *testing.T) {
	cases := []struct {
		hand int
		want int
	}{
		{0, 0},
		{9, 0},
		{10, 5},
		{11, 5},
		{12, 6},
	}
	for _, c := range cases {
		if got := DiscardOwed(c.hand); got != c.want {
			t.Fatalf("DiscardOwed(%d): got %d want %d", c.hand, got, c.want)
		}
	}
}

func TestResourceBundleArithmetic(t *testing.T) {
	a := Single(Brick, 3).Add(Single(Ore, 1))
	b := Single(Brick, 1)

	sum := a.Add(b)
	if sum.Get(Brick) != 4 || sum.Get(Ore) != 1 {
		t.Fatalf("unexpected sum: %+v", sum)
	}

	diff := a.Sub(b)
	if diff.Get(Brick) != 2 {
		t.Fatalf("unexpected diff: %+v", diff)
	}
	if !diff.NonNegative() {
		t.Fatalf("expected diff to remain non-negative")
	}

	if !a.GreaterOrEqual(b) {
		t.Fatalf("expected a >= b")
	}
	if b.GreaterOrEqual(a) {
		t.Fatalf("expected b < a")
	}
}

func TestTerrainAndPipDistributionsMatchTileCount(t *testing.T) {
	terrain := TerrainDistribution()
	if len(terrain) != TileCount {
		t.Fatalf("expected %d tiles, got %d", TileCount, len(terrain))
	}
	pips := PipDistribution()
	if len(pips) != TileCount-1 {
		t.Fatalf("expected %d pip tokens (one per non-desert tile), got %d", TileCount-1, len(pips))
	}
	for _, p := range pips {
		if p == 7 {
			t.Fatalf("pip distribution must never include 7")
		}
	}
}

func TestPortDistributionMatchesPortCount(t *testing.T) {
	ports := PortDistribution()
	if len(ports) != PortCount {
		t.Fatalf("expected %d ports, got %d", PortCount, len(ports))
	}
}
