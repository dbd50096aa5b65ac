package catan

import (
	"sort"

	"github.com/lukev/catan2p/internal/rules"
)

// Apply is the transition function (§4.7): it returns a new State with
// every invariant re-established, or an error if a is not legal against
// s. s itself is never mutated.
func Apply(s *State, a Action) (*State, error) {
	if s.GameOver {
		return nil, &GameOverError{}
	}
	if !IsLegal(s, a) {
		return nil, &IllegalActionError{Action: a, Reason: "action failed the legality predicate"}
	}

	next := s.Clone()
	recomputeRoad, recomputeArmy := false, false

	switch a.Kind {
	case PlaceSettlement:
		recomputeRoad = applyPlaceSettlement(next, a)
	case PlaceRoad:
		applyPlaceRoad(next, a)
		recomputeRoad = true
	case BuildCity:
		applyBuildCity(next, a)
	case RollDice:
		applyRollDice(next, a)
	case DiscardResources:
		applyDiscard(next, a)
	case MoveRobber:
		applyMoveRobber(next, a)
	case OfferPlayerTrade:
		applyOfferTrade(next, a)
	case AcceptPlayerTrade:
		applyAcceptTrade(next)
	case DeclinePlayerTrade:
		applyDeclineTrade(next)
	case TradeBank:
		applyTradeBank(next, a)
	case BuyDevelopment:
		applyBuyDevelopment(next)
	case PlayKnight:
		applyPlayKnight(next)
		recomputeArmy = true
	case PlayProgress:
		recomputeRoad = applyPlayProgress(next, a)
	case EndTurn:
		applyEndTurn(next)
	}

	if recomputeRoad {
		recomputeLongestRoad(next)
	}
	if recomputeArmy {
		recomputeLargestArmy(next)
	}
	checkVictory(next)

	return next, nil
}

func applyPlaceSettlement(s *State, a Action) (recomputeRoad bool) {
	actor := s.Actor()
	actor.Settlements = append(actor.Settlements, a.Vertex)
	actor.VisibleVP++
	if !a.Free {
		actor.Pay(rules.SettlementCost())
		s.Bank = s.Bank.Add(rules.SettlementCost())
	}
	if s.Phase == SetupRound1 || s.Phase == SetupRound2 {
		s.SetupSettlementsPlaced++
		s.ExpectingRoad = true
	}
	return true
}

func applyPlaceRoad(s *State, a Action) {
	actor := s.Actor()
	actor.Roads = append(actor.Roads, a.Edge)
	if !a.Free {
		actor.Pay(rules.RoadCost())
		s.Bank = s.Bank.Add(rules.RoadCost())
	}
	if s.Phase == SetupRound1 || s.Phase == SetupRound2 {
		s.SetupRoadsPlaced++
		s.ExpectingRoad = false
		if s.Phase == SetupRound2 {
			grantSecondRoundResources(s, actor)
		}
		advanceSetupCursor(s)
	}
}

// grantSecondRoundResources credits one resource per non-desert tile
// adjacent to the just-placed (last) settlement (§4.7 PlaceRoad).
func grantSecondRoundResources(s *State, actor *Player) {
	lastSettlement := actor.Settlements[len(actor.Settlements)-1]
	v := s.Board.GetVertex(lastSettlement)
	for _, tid := range v.Tiles {
		tile := s.Board.GetTile(tid)
		if tile.Terrain.Produces() {
			r := tile.Terrain.Resource()
			actor.Receive(rules.Single(r, 1))
			s.Bank = s.Bank.Sub(rules.Single(r, 1))
		}
	}
}

// advanceSetupCursor implements §4.7.y.
func advanceSetupCursor(s *State) {
	switch s.Phase {
	case SetupRound1:
		if s.CurrentActor == 0 {
			s.CurrentActor = 1
		} else {
			s.Phase = SetupRound2
			// actor stays 1 (snake order)
		}
	case SetupRound2:
		if s.CurrentActor == 1 {
			s.CurrentActor = 0
		} else {
			s.Phase = Play
			s.CurrentActor = 0
			s.TurnNumber = 1
		}
	}
}

func applyBuildCity(s *State, a Action) {
	actor := s.Actor()
	actor.Settlements = removeInt(actor.Settlements, a.Vertex)
	actor.Cities = append(actor.Cities, a.Vertex)
	actor.VisibleVP++
	actor.Pay(rules.CityCost())
	s.Bank = s.Bank.Add(rules.CityCost())
}

func removeInt(s []int, v int) []int {
	out := make([]int, 0, len(s))
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

func applyTradeBank(s *State, a Action) {
	actor := s.Actor()
	actor.Resources = actor.Resources.Sub(a.Give)
	s.Bank = s.Bank.Add(a.Give)
	s.Bank = s.Bank.Sub(a.Receive)
	actor.Resources = actor.Resources.Add(a.Receive)
}

func applyOfferTrade(s *State, a Action) {
	s.PendingTrade = &PendingTrade{
		Proposer:  s.CurrentActor,
		Responder: 1 - s.CurrentActor,
		Give:      a.Give,
		Receive:   a.Receive,
	}
	s.SubPhase = TradeResponse
	s.CurrentActor = 1 - s.CurrentActor
}

func applyAcceptTrade(s *State) {
	pt := s.PendingTrade
	proposer := s.Players[pt.Proposer]
	responder := s.Players[pt.Responder]
	proposer.Resources = proposer.Resources.Sub(pt.Give)
	responder.Resources = responder.Resources.Add(pt.Give)
	responder.Resources = responder.Resources.Sub(pt.Receive)
	proposer.Resources = proposer.Resources.Add(pt.Receive)
	s.PendingTrade = nil
	s.SubPhase = Main
	s.CurrentActor = pt.Proposer
}

func applyDeclineTrade(s *State) {
	proposer := s.PendingTrade.Proposer
	s.PendingTrade = nil
	s.SubPhase = Main
	s.CurrentActor = proposer
}

func applyBuyDevelopment(s *State) {
	card := s.DevDeck[0]
	s.DevDeck = s.DevDeck[1:]
	actor := s.Actor()
	actor.Pay(rules.DevelopmentCost())
	s.Bank = s.Bank.Add(rules.DevelopmentCost())
	actor.DevCards.Fresh[card]++
	if card == rules.VictoryPoint {
		actor.HiddenVP++
	}
}

func applyPlayKnight(s *State) {
	actor := s.Actor()
	actor.DevCards.Playable[rules.Knight]--
	actor.DevCards.Spent[rules.Knight]++
	s.SubPhase = RobberMove
	s.RobberMover = s.CurrentActor
}

func applyPlayProgress(s *State, a Action) (recomputeRoad bool) {
	actor := s.Actor()
	switch a.ProgressKind {
	case rules.RoadBuilding:
		actor.Roads = append(actor.Roads, a.Edge, a.Edge2)
		recomputeRoad = true
	case rules.YearOfPlenty:
		s.Bank = s.Bank.Sub(a.Give)
		actor.Receive(a.Give)
	case rules.Monopoly:
		r := a.MonopolyResource
		swept := 0
		for _, p := range s.Players {
			if p.ID == actor.ID {
				continue
			}
			swept += p.Resources.Get(r)
			p.Resources = p.Resources.Set(r, 0)
		}
		actor.Resources = actor.Resources.Add(rules.Single(r, swept))
	}
	actor.DevCards.Playable[a.ProgressKind]--
	actor.DevCards.Spent[a.ProgressKind]++
	return recomputeRoad
}

func applyRollDice(s *State, a Action) {
	var d1, d2 int
	if a.DiceForced {
		d1, d2 = a.Die1, a.Die2
	} else {
		d1, d2 = s.RNG.RollDie(), s.RNG.RollDie()
	}
	total := d1 + d2
	s.LastDiceTotal = total
	s.DiceRolled = true

	if total != 7 {
		distributeResources(s, total)
		return
	}

	owed := make(map[int]int)
	var queue []int
	for _, p := range s.Players {
		if n := rules.DiscardOwed(p.TotalCards()); n > 0 {
			owed[p.ID] = n
			queue = append(queue, p.ID)
		}
	}
	sort.Ints(queue)
	s.RobberMover = s.CurrentActor
	if len(queue) == 0 {
		s.SubPhase = RobberMove
		return
	}
	s.PendingDiscards = owed
	s.DiscardQueue = queue
	s.SubPhase = RobberDiscard
	s.CurrentActor = queue[0]
}

// distributeResources implements the simple "unlimited bank" resource
// distribution rule (§4.7 RollDice, §9 Open Questions): every non-desert,
// non-robbed tile matching the roll pays its adjacent settlements (1) and
// cities (2).
func distributeResources(s *State, roll int) {
	type grant struct {
		playerID int
		resource rules.ResourceKind
		amount   int
	}
	var grants []grant
	for _, tid := range s.Board.TilesWithPip(roll) {
		tile := s.Board.GetTile(tid)
		if tile.HasRobber || !tile.Terrain.Produces() {
			continue
		}
		res := tile.Terrain.Resource()
		for _, vid := range tileVertexIDsForBoard(s, tid) {
			for _, p := range s.Players {
				for _, sv := range p.Settlements {
					if sv == vid {
						grants = append(grants, grant{p.ID, res, 1})
					}
				}
				for _, cv := range p.Cities {
					if cv == vid {
						grants = append(grants, grant{p.ID, res, 2})
					}
				}
			}
		}
	}
	for _, g := range grants {
		s.Players[g.playerID].Receive(rules.Single(g.resource, g.amount))
		s.Bank = s.Bank.Sub(rules.Single(g.resource, g.amount))
	}
}

func tileVertexIDsForBoard(s *State, tile int) []int {
	var out []int
	for _, v := range s.Board.Vertices {
		for _, t := range v.Tiles {
			if t == tile {
				out = append(out, v.ID)
				break
			}
		}
	}
	return out
}

func applyDiscard(s *State, a Action) {
	actor := s.Actor()
	actor.Resources = actor.Resources.Sub(a.Give)
	s.Bank = s.Bank.Add(a.Give)
	delete(s.PendingDiscards, s.CurrentActor)
	s.DiscardQueue = s.DiscardQueue[1:]
	if len(s.DiscardQueue) == 0 {
		s.SubPhase = RobberMove
		s.CurrentActor = s.RobberMover
		return
	}
	s.CurrentActor = s.DiscardQueue[0]
}

func applyMoveRobber(s *State, a Action) {
	s.Board = s.Board.WithRobberAt(a.Tile)
	mover := s.RobberMover
	if a.Victim != none {
		victim := s.Players[a.Victim]
		for _, r := range rules.Resources {
			if victim.Resources.Get(r) > 0 {
				victim.Resources = victim.Resources.Sub(rules.Single(r, 1))
				s.Players[mover].Resources = s.Players[mover].Resources.Add(rules.Single(r, 1))
				break
			}
		}
	}
	s.SubPhase = Main
	s.CurrentActor = mover
	s.RobberMover = none
}

func applyEndTurn(s *State) {
	actor := s.Actor()
	for kind, n := range actor.DevCards.Fresh {
		actor.DevCards.Playable[kind] += n
	}
	actor.DevCards.Fresh = make(map[rules.DevCardKind]int)
	s.CurrentActor = 1 - s.CurrentActor
	s.TurnNumber++
	s.DiceRolled = false
	s.SubPhase = Main
}
