package catan

import "github.com/lukev/catan2p/internal/rules"

// LegalActions enumerates every legal action for the current actor
// (§4.6). Most variants are tested exhaustively against IsLegal; a few
// combinatorial spots are deliberately restricted as the spec allows:
// player trade offers to 1-for-1 distinct-resource swaps, and road
// building to one ordering per unordered edge pair. Discard multisets are
// enumerated in full by backtracking over the owed amount.
func LegalActions(s *State) []Action {
	if s.GameOver {
		return nil
	}

	if s.Phase == SetupRound1 || s.Phase == SetupRound2 {
		return enumerateSetup(s)
	}

	switch s.SubPhase {
	case RobberDiscard:
		return enumerateDiscards(s)
	case RobberMove:
		return enumerateMoveRobber(s)
	case TradeResponse:
		out := []Action{NewDeclinePlayerTrade()}
		if accept := NewAcceptPlayerTrade(); IsLegal(s, accept) {
			out = append(out, accept)
		}
		return out
	default:
		return enumerateMain(s)
	}
}

func enumerateSetup(s *State) []Action {
	var out []Action
	if s.ExpectingRoad {
		for _, e := range s.Board.Edges {
			a := NewPlaceRoad(e.ID, true)
			if IsLegal(s, a) {
				out = append(out, a)
			}
		}
		return out
	}
	for _, v := range s.Board.Vertices {
		a := NewPlaceSettlement(v.ID, true)
		if IsLegal(s, a) {
			out = append(out, a)
		}
	}
	return out
}

func enumerateDiscards(s *State) []Action {
	owed, ok := s.PendingDiscards[s.CurrentActor]
	if !ok {
		return nil
	}
	actor := s.Actor()
	var out []Action
	var bundle rules.ResourceBundle
	var backtrack func(idx, remaining int)
	backtrack = func(idx, remaining int) {
		if idx == len(rules.Resources) {
			if remaining == 0 {
				out = append(out, NewDiscardResources(bundle))
			}
			return
		}
		r := rules.Resources[idx]
		maxTake := actor.Resources.Get(r)
		if maxTake > remaining {
			maxTake = remaining
		}
		for take := 0; take <= maxTake; take++ {
			bundle = bundle.Set(r, take)
			backtrack(idx+1, remaining-take)
		}
		bundle = bundle.Set(r, 0)
	}
	backtrack(0, owed)
	return out
}

func enumerateMoveRobber(s *State) []Action {
	var out []Action
	for _, t := range s.Board.Tiles {
		if t.ID == s.Board.RobberTile() {
			continue
		}
		candidates := robberVictimCandidates(s, t.ID)
		if len(candidates) == 0 {
			out = append(out, NewMoveRobber(t.ID, none))
			continue
		}
		for _, v := range candidates {
			out = append(out, NewMoveRobber(t.ID, v))
		}
	}
	return out
}

func enumerateMain(s *State) []Action {
	var out []Action
	if !s.DiceRolled {
		return []Action{NewRollDice()}
	}

	actor := s.Actor()

	for _, v := range s.Board.Vertices {
		a := NewPlaceSettlement(v.ID, false)
		if IsLegal(s, a) {
			out = append(out, a)
		}
	}
	for _, e := range s.Board.Edges {
		a := NewPlaceRoad(e.ID, false)
		if IsLegal(s, a) {
			out = append(out, a)
		}
	}
	for _, v := range actor.Settlements {
		a := NewBuildCity(v)
		if IsLegal(s, a) {
			out = append(out, a)
		}
	}

	out = append(out, enumerateBankTrades(s, actor)...)

	if IsLegal(s, NewBuyDevelopment()) {
		out = append(out, NewBuyDevelopment())
	}
	if IsLegal(s, NewPlayKnight()) {
		out = append(out, NewPlayKnight())
	}
	out = append(out, enumerateProgressPlays(s, actor)...)
	out = append(out, enumerateOfferTrades(s, actor)...)

	out = append(out, NewEndTurn())
	return out
}

func enumerateBankTrades(s *State, actor *Player) []Action {
	var out []Action
	for _, give := range rules.Resources {
		rate := actor.BestTradeRate(s.Board, give)
		have := actor.Resources.Get(give)
		for amount := rate; amount <= have; amount += rate {
			for _, recv := range rules.Resources {
				if recv == give {
					continue
				}
				a := NewTradeBank(rules.Single(give, amount), rules.Single(recv, amount/rate))
				if IsLegal(s, a) {
					out = append(out, a)
				}
			}
		}
	}
	return out
}

func enumerateProgressPlays(s *State, actor *Player) []Action {
	var out []Action
	if actor.DevCards.Playable[rules.RoadBuilding] > 0 {
		edges := s.Board.Edges
		for i := 0; i < len(edges); i++ {
			for j := i + 1; j < len(edges); j++ {
				// Unordered pair: try e[i] then e[j], falling back to the
				// reverse order since the second edge may only become
				// legal because of the first (§4.6).
				a := NewPlayRoadBuilding(edges[i].ID, edges[j].ID)
				if IsLegal(s, a) {
					out = append(out, a)
					continue
				}
				aRev := NewPlayRoadBuilding(edges[j].ID, edges[i].ID)
				if IsLegal(s, aRev) {
					out = append(out, aRev)
				}
			}
		}
	}
	if actor.DevCards.Playable[rules.YearOfPlenty] > 0 {
		for i, r1 := range rules.Resources {
			for j := i; j < len(rules.Resources); j++ {
				r2 := rules.Resources[j]
				bundle := rules.Single(r1, 1).Add(rules.Single(r2, 1))
				a := NewPlayYearOfPlenty(bundle)
				if IsLegal(s, a) {
					out = append(out, a)
				}
			}
		}
	}
	if actor.DevCards.Playable[rules.Monopoly] > 0 {
		for _, r := range rules.Resources {
			a := NewPlayMonopoly(r)
			if IsLegal(s, a) {
				out = append(out, a)
			}
		}
	}
	return out
}

func enumerateOfferTrades(s *State, actor *Player) []Action {
	var out []Action
	for _, give := range rules.Resources {
		if actor.Resources.Get(give) <= 0 {
			continue
		}
		for _, recv := range rules.Resources {
			if recv == give {
				continue
			}
			a := NewOfferPlayerTrade(rules.Single(give, 1), rules.Single(recv, 1))
			if IsLegal(s, a) {
				out = append(out, a)
			}
		}
	}
	return out
}
