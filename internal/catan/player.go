package catan

import (
	"fmt"

	"github.com/lukev/catan2p/internal/board"
	"github.com/lukev/catan2p/internal/rules"
)

// DevCardBuckets separates a player's development cards into the three
// buckets the rules require: a card bought this turn cannot be played
// until a later turn (§9: "do not collapse buckets").
type DevCardBuckets struct {
	Playable map[rules.DevCardKind]int
	Fresh    map[rules.DevCardKind]int
	Spent    map[rules.DevCardKind]int
}

func newDevCardBuckets() DevCardBuckets {
	return DevCardBuckets{
		Playable: make(map[rules.DevCardKind]int),
		Fresh:    make(map[rules.DevCardKind]int),
		Spent:    make(map[rules.DevCardKind]int),
	}
}

func (d DevCardBuckets) clone() DevCardBuckets {
	out := newDevCardBuckets()
	for k, v := range d.Playable {
		out.Playable[k] = v
	}
	for k, v := range d.Fresh {
		out.Fresh[k] = v
	}
	for k, v := range d.Spent {
		out.Spent[k] = v
	}
	return out
}

// Player is the per-player mutable accounting record (§3 Player).
type Player struct {
	ID            int
	Name          string
	Resources     rules.ResourceBundle
	Settlements   []int
	Cities        []int
	Roads         []int
	DevCards      DevCardBuckets
	VisibleVP     int
	HiddenVP      int
	LongestRoad   int // cached length of this player's longest road path
	ArmySize      int // spent knights
}

// NewPlayer creates an empty player record.
func NewPlayer(id int, name string) *Player {
	return &Player{
		ID:       id,
		Name:     name,
		DevCards: newDevCardBuckets(),
	}
}

// Clone deep-copies the player record. The transition function always
// mutates a clone, never the original (§3 Lifecycle, §9).
func (p *Player) Clone() *Player {
	cp := *p
	cp.Settlements = append([]int(nil), p.Settlements...)
	cp.Cities = append([]int(nil), p.Cities...)
	cp.Roads = append([]int(nil), p.Roads...)
	cp.DevCards = p.DevCards.clone()
	return &cp
}

// TotalVP returns visible + hidden victory points.
func (p *Player) TotalVP() int { return p.VisibleVP + p.HiddenVP }

// TotalCards returns the size of the player's resource hand.
func (p *Player) TotalCards() int { return p.Resources.Total() }

// CanAfford reports whether the player's hand covers cost.
func (p *Player) CanAfford(cost rules.ResourceBundle) bool {
	return p.Resources.GreaterOrEqual(cost)
}

// Pay deducts cost from the player's hand. It panics if the player cannot
// afford it; callers must check legality first (§4.3).
func (p *Player) Pay(cost rules.ResourceBundle) {
	if !p.CanAfford(cost) {
		panic(fmt.Sprintf("player %d cannot pay cost %v from hand %v", p.ID, cost, p.Resources))
	}
	p.Resources = p.Resources.Sub(cost)
}

// Receive credits bundle to the player's hand.
func (p *Player) Receive(bundle rules.ResourceBundle) {
	p.Resources = p.Resources.Add(bundle)
}

// PortKinds returns the set of port kinds reachable from any settlement or
// city the player owns.
func (p *Player) PortKinds(b *board.Board) map[rules.PortKind]bool {
	out := make(map[rules.PortKind]bool)
	for _, v := range p.Settlements {
		if k, ok := b.PortAt(v); ok {
			out[k] = true
		}
	}
	for _, v := range p.Cities {
		if k, ok := b.PortAt(v); ok {
			out[k] = true
		}
	}
	return out
}

// BestTradeRate returns the best (lowest) bank-trade rate the player has
// for resource r (§4.5): 4 by default, 3 with an ANY port, 2 with an
// r-specific port; take the minimum.
func (p *Player) BestTradeRate(b *board.Board, r rules.ResourceKind) int {
	rate := 4
	ports := p.PortKinds(b)
	if ports[rules.PortAny] && rate > 3 {
		rate = 3
	}
	for pk := range ports {
		if pk != rules.PortAny && pk.Resource() == r && rate > 2 {
			rate = 2
		}
	}
	return rate
}

// OwnsVertex reports whether the player has a settlement or city at v.
func (p *Player) OwnsVertex(v int) bool {
	for _, s := range p.Settlements {
		if s == v {
			return true
		}
	}
	for _, c := range p.Cities {
		if c == v {
			return true
		}
	}
	return false
}

// OwnsRoad reports whether the player has a road at edge e.
func (p *Player) OwnsRoad(e int) bool {
	for _, r := range p.Roads {
		if r == e {
			return true
		}
	}
	return false
}
