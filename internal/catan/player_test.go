package catan

import (
	"testing"

	"github.com/lukev/catan2p/internal/board"
	"github.com/lukev/catan2p/internal/rules"
)

func TestBestTradeRateDefaultsToFour(t *testing.T) {
	b := board.NewStandardBoard()
	p := NewPlayer(0, "A")
	if rate := p.BestTradeRate(b, rules.Brick); rate != 4 {
		t.Fatalf("expected default rate 4, got %d", rate)
	}
}

func TestBestTradeRateWithSpecificPort(t *testing.T) {
	b := board.NewStandardBoard()
	var portVertex int
	var portKind rules.PortKind
	for v := range b.Vertices {
		if k, ok := b.PortAt(v); ok && k != rules.PortAny {
			portVertex, portKind = v, k
			break
		}
	}
	p := NewPlayer(0, "A")
	p.Settlements = append(p.Settlements, portVertex)

	if rate := p.BestTradeRate(b, portKind.Resource()); rate != 2 {
		t.Fatalf("expected rate 2 at a specific-resource port, got %d", rate)
	}
	other := rules.Brick
	if portKind.Resource() == rules.Brick {
		other = rules.Lumber
	}
	if rate := p.BestTradeRate(b, other); rate != 4 {
		t.Fatalf("a specific port should not discount an unrelated resource, got rate %d", rate)
	}
}

func TestPayPanicsWhenUnaffordable(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected Pay to panic when the player cannot afford the cost")
		}
	}()
	p := NewPlayer(0, "A")
	p.Pay(rules.SettlementCost())
}

func TestCloneIsIndependent(t *testing.T) {
	p := NewPlayer(0, "A")
	p.Settlements = append(p.Settlements, 1, 2)
	clone := p.Clone()
	clone.Settlements = append(clone.Settlements, 3)
	if len(p.Settlements) != 2 {
		t.Fatalf("mutating a clone's settlements must not affect the original")
	}
}
