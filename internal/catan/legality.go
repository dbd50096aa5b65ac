package catan

import "github.com/lukev/catan2p/internal/rules"

// IsLegal is the single pure predicate deciding whether action a may be
// applied to state s (§4.4).
func IsLegal(s *State, a Action) bool {
	if s.GameOver {
		return false
	}

	if s.Phase == SetupRound1 || s.Phase == SetupRound2 {
		return legalSetup(s, a)
	}

	switch s.SubPhase {
	case RobberDiscard:
		return a.Kind == DiscardResources && legalDiscard(s, a)
	case RobberMove:
		return a.Kind == MoveRobber && legalMoveRobber(s, a)
	case TradeResponse:
		return legalTradeResponse(s, a)
	default:
		return legalMain(s, a)
	}
}

func legalSetup(s *State, a Action) bool {
	switch a.Kind {
	case PlaceSettlement:
		return legalSetupSettlement(s, a)
	case PlaceRoad:
		return legalSetupRoad(s, a)
	default:
		return false
	}
}

func legalSetupSettlement(s *State, a Action) bool {
	if s.ExpectingRoad {
		return false
	}
	if a.Vertex < 0 || a.Vertex >= len(s.Board.Vertices) {
		return false
	}
	return vertexSatisfiesDistanceRule(s, a.Vertex)
}

// vertexSatisfiesDistanceRule reports that v is unoccupied by any player
// and every vertex one edge away is also unoccupied.
func vertexSatisfiesDistanceRule(s *State, v int) bool {
	for _, p := range s.Players {
		if p.OwnsVertex(v) {
			return false
		}
	}
	for _, adj := range s.Board.AdjacentVertices(v) {
		for _, p := range s.Players {
			if p.OwnsVertex(adj) {
				return false
			}
		}
	}
	return true
}

func legalSetupRoad(s *State, a Action) bool {
	if !s.ExpectingRoad {
		return false
	}
	if a.Edge < 0 || a.Edge >= len(s.Board.Edges) {
		return false
	}
	if edgeOccupied(s, a.Edge) {
		return false
	}
	actor := s.Actor()
	lastSettlement := actor.Settlements[len(actor.Settlements)-1]
	e := s.Board.GetEdge(a.Edge)
	return e.V1 == lastSettlement || e.V2 == lastSettlement
}

func edgeOccupied(s *State, e int) bool {
	for _, p := range s.Players {
		if p.OwnsRoad(e) {
			return true
		}
	}
	return false
}

func legalDiscard(s *State, a Action) bool {
	owed, ok := s.PendingDiscards[s.CurrentActor]
	if !ok {
		return false
	}
	if a.Give.Total() != owed {
		return false
	}
	if !a.Give.NonNegative() {
		return false
	}
	actor := s.Actor()
	for _, r := range rules.Resources {
		if a.Give.Get(r) > actor.Resources.Get(r) {
			return false
		}
	}
	return true
}

func legalMoveRobber(s *State, a Action) bool {
	if a.Tile < 0 || a.Tile >= len(s.Board.Tiles) {
		return false
	}
	if a.Tile == s.Board.RobberTile() {
		return false
	}
	if s.CurrentActor != s.RobberMover {
		return false
	}
	candidates := robberVictimCandidates(s, a.Tile)
	if len(candidates) == 0 {
		return a.Victim == none
	}
	for _, c := range candidates {
		if c == a.Victim {
			return true
		}
	}
	return false
}

// robberVictimCandidates returns opponent ids that own a building on tile
// and hold at least one resource card.
func robberVictimCandidates(s *State, tile int) []int {
	var out []int
	tileVertices := tileVertexIDs(s, tile)
	for _, p := range s.Players {
		if p.ID == s.CurrentActor {
			continue
		}
		if p.Resources.Total() == 0 {
			continue
		}
		for _, vid := range tileVertices {
			if p.OwnsVertex(vid) {
				out = append(out, p.ID)
				break
			}
		}
	}
	return out
}

func tileVertexIDs(s *State, tile int) []int {
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

func legalTradeResponse(s *State, a Action) bool {
	if s.PendingTrade == nil {
		return false
	}
	if s.CurrentActor != s.PendingTrade.Responder {
		return false
	}
	switch a.Kind {
	case DeclinePlayerTrade:
		return true
	case AcceptPlayerTrade:
		proposer := s.Players[s.PendingTrade.Proposer]
		responder := s.Players[s.PendingTrade.Responder]
		return proposer.CanAfford(s.PendingTrade.Give) && responder.CanAfford(s.PendingTrade.Receive)
	default:
		return false
	}
}

func legalMain(s *State, a Action) bool {
	if a.Kind == RollDice {
		return !s.DiceRolled
	}
	if !s.DiceRolled {
		return false
	}

	switch a.Kind {
	case PlaceSettlement:
		return legalMainSettlement(s, a)
	case PlaceRoad:
		return legalMainRoad(s, a)
	case BuildCity:
		return legalBuildCity(s, a)
	case TradeBank:
		return legalTradeBank(s, a)
	case BuyDevelopment:
		return len(s.DevDeck) > 0
	case PlayKnight:
		return s.Actor().DevCards.Playable[rules.Knight] > 0
	case PlayProgress:
		return legalPlayProgress(s, a)
	case OfferPlayerTrade:
		return legalOfferTrade(s, a)
	case EndTurn:
		return true
	default:
		return false
	}
}

func legalMainSettlement(s *State, a Action) bool {
	if a.Vertex < 0 || a.Vertex >= len(s.Board.Vertices) {
		return false
	}
	actor := s.Actor()
	if len(actor.Settlements) >= rules.MaxSettlements {
		return false
	}
	if !actor.CanAfford(rules.SettlementCost()) {
		return false
	}
	if !vertexSatisfiesDistanceRule(s, a.Vertex) {
		return false
	}
	return vertexConnectedToOwner(s, actor, a.Vertex)
}

func vertexConnectedToOwner(s *State, p *Player, v int) bool {
	for _, e := range s.Board.Vertices[v].Edges {
		if p.OwnsRoad(e) {
			return true
		}
	}
	return false
}

func legalMainRoad(s *State, a Action) bool {
	if a.Edge < 0 || a.Edge >= len(s.Board.Edges) {
		return false
	}
	if edgeOccupied(s, a.Edge) {
		return false
	}
	actor := s.Actor()
	if len(actor.Roads) >= rules.MaxRoads {
		return false
	}
	if !actor.CanAfford(rules.RoadCost()) {
		return false
	}
	return edgeConnectedToOwner(s, actor, a.Edge)
}

func edgeConnectedToOwner(s *State, p *Player, e int) bool {
	edge := s.Board.GetEdge(e)
	if p.OwnsVertex(edge.V1) || p.OwnsVertex(edge.V2) {
		return true
	}
	for _, other := range p.Roads {
		oe := s.Board.GetEdge(other)
		if oe.V1 == edge.V1 || oe.V1 == edge.V2 || oe.V2 == edge.V1 || oe.V2 == edge.V2 {
			return true
		}
	}
	return false
}

func legalBuildCity(s *State, a Action) bool {
	actor := s.Actor()
	if len(actor.Cities) >= rules.MaxCities {
		return false
	}
	if !actor.CanAfford(rules.CityCost()) {
		return false
	}
	for _, v := range actor.Settlements {
		if v == a.Vertex {
			return true
		}
	}
	return false
}

func legalTradeBank(s *State, a Action) bool {
	giveRes, giveAmt, ok := singleResource(a.Give)
	if !ok || giveAmt <= 0 {
		return false
	}
	recvRes, recvAmt, ok := singleResource(a.Receive)
	if !ok || recvAmt <= 0 {
		return false
	}
	if giveRes == recvRes {
		return false
	}
	actor := s.Actor()
	rate := actor.BestTradeRate(s.Board, giveRes)
	if giveAmt%rate != 0 {
		return false
	}
	if recvAmt != giveAmt/rate {
		return false
	}
	if !actor.CanAfford(a.Give) {
		return false
	}
	if s.Bank.Get(recvRes) < recvAmt {
		return false
	}
	return true
}

// singleResource reports whether bundle holds a positive amount of
// exactly one resource kind, and returns that kind and amount.
func singleResource(bundle rules.ResourceBundle) (rules.ResourceKind, int, bool) {
	kind := rules.ResourceKind(-1)
	amount := 0
	nonZero := 0
	for _, r := range rules.Resources {
		if n := bundle.Get(r); n != 0 {
			if n < 0 {
				return 0, 0, false
			}
			nonZero++
			kind = r
			amount = n
		}
	}
	if nonZero != 1 {
		return 0, 0, false
	}
	return kind, amount, true
}

func legalPlayProgress(s *State, a Action) bool {
	actor := s.Actor()
	if actor.DevCards.Playable[a.ProgressKind] <= 0 {
		return false
	}
	switch a.ProgressKind {
	case rules.RoadBuilding:
		if a.Edge == a.Edge2 {
			return false
		}
		firstLegal := roadPlacementLegalIgnoringCost(s, actor, a.Edge)
		if !firstLegal {
			return false
		}
		// The second edge may become legal only because of the first.
		simulated := s.Clone()
		simulatedActor := simulated.Actor()
		simulatedActor.Roads = append(simulatedActor.Roads, a.Edge)
		return roadPlacementLegalIgnoringCost(simulated, simulatedActor, a.Edge2)
	case rules.YearOfPlenty:
		total := a.Give.Total()
		if total != 2 {
			return false
		}
		if !a.Give.NonNegative() {
			return false
		}
		return s.Bank.GreaterOrEqual(a.Give)
	case rules.Monopoly:
		for _, r := range rules.Resources {
			if r == a.MonopolyResource {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// roadPlacementLegalIgnoringCost checks the geometric/connectivity rules
// for a road placement without checking affordability or piece caps,
// since dev-card road building is free and uncapped by the normal build
// legality helper.
func roadPlacementLegalIgnoringCost(s *State, p *Player, e int) bool {
	if e < 0 || e >= len(s.Board.Edges) {
		return false
	}
	if edgeOccupied(s, e) {
		return false
	}
	return edgeConnectedToOwner(s, p, e)
}

func legalOfferTrade(s *State, a Action) bool {
	if s.PendingTrade != nil {
		return false
	}
	if !onlyResources(a.Give) || !onlyResources(a.Receive) {
		return false
	}
	if a.Give.Total() == 0 || a.Receive.Total() == 0 {
		return false
	}
	return s.Actor().CanAfford(a.Give)
}

func onlyResources(b rules.ResourceBundle) bool {
	return b.NonNegative()
}
