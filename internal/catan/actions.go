package catan

import (
	"fmt"

	"github.com/lukev/catan2p/internal/rules"
)

// ActionKind discriminates the tagged Action sum (§3 Action variants,
// §9: "prefer a tagged sum whose variants carry their payloads").
type ActionKind int

const (
	PlaceSettlement ActionKind = iota
	PlaceRoad
	BuildCity
	RollDice
	MoveRobber
	DiscardResources
	OfferPlayerTrade
	AcceptPlayerTrade
	DeclinePlayerTrade
	TradeBank
	BuyDevelopment
	PlayKnight
	PlayProgress
	EndTurn
)

func (k ActionKind) String() string {
	switch k {
	case PlaceSettlement:
		return "PlaceSettlement"
	case PlaceRoad:
		return "PlaceRoad"
	case BuildCity:
		return "BuildCity"
	case RollDice:
		return "RollDice"
	case MoveRobber:
		return "MoveRobber"
	case DiscardResources:
		return "DiscardResources"
	case OfferPlayerTrade:
		return "OfferPlayerTrade"
	case AcceptPlayerTrade:
		return "AcceptPlayerTrade"
	case DeclinePlayerTrade:
		return "DeclinePlayerTrade"
	case TradeBank:
		return "TradeBank"
	case BuyDevelopment:
		return "BuyDevelopment"
	case PlayKnight:
		return "PlayKnight"
	case PlayProgress:
		return "PlayProgress"
	case EndTurn:
		return "EndTurn"
	default:
		return "Unknown"
	}
}

// none is the sentinel value for unused integer payload fields (Tile,
// Victim), kept distinct from any real board id (board ids start at 0).
const (
	none = -1
)

// Action is a single tagged-sum value covering every move the engine
// understands. It holds no slices or maps so it stays comparable and
// cheap to copy, and so it can key the action catalog directly (§4.6,
// §9).
type Action struct {
	Kind ActionKind

	// PlaceSettlement / BuildCity
	Vertex int
	// PlaceRoad / PlayProgress(ROAD_BUILDING) first edge
	Edge int
	// PlayProgress(ROAD_BUILDING) second edge
	Edge2 int
	// PlaceSettlement / PlaceRoad: placed without cost during setup.
	Free bool

	// RollDice
	DiceForced bool
	Die1       int
	Die2       int

	// MoveRobber
	Tile   int
	Victim int // none, or opponent player id

	// DiscardResources / TradeBank(give) / OfferPlayerTrade(give) /
	// PlayProgress(YEAR_OF_PLENTY)
	Give rules.ResourceBundle
	// TradeBank(receive) / OfferPlayerTrade(receive)
	Receive rules.ResourceBundle

	// PlayProgress
	ProgressKind     rules.DevCardKind
	MonopolyResource rules.ResourceKind
}

func (a Action) String() string {
	switch a.Kind {
	case PlaceSettlement:
		return fmt.Sprintf("PlaceSettlement(v=%d,free=%v)", a.Vertex, a.Free)
	case PlaceRoad:
		return fmt.Sprintf("PlaceRoad(e=%d,free=%v)", a.Edge, a.Free)
	case BuildCity:
		return fmt.Sprintf("BuildCity(v=%d)", a.Vertex)
	case RollDice:
		if a.DiceForced {
			return fmt.Sprintf("RollDice(forced=%d,%d)", a.Die1, a.Die2)
		}
		return "RollDice()"
	case MoveRobber:
		return fmt.Sprintf("MoveRobber(tile=%d,victim=%d)", a.Tile, a.Victim)
	case DiscardResources:
		return fmt.Sprintf("DiscardResources(%v)", a.Give)
	case OfferPlayerTrade:
		return fmt.Sprintf("OfferPlayerTrade(give=%v,receive=%v)", a.Give, a.Receive)
	case AcceptPlayerTrade:
		return "AcceptPlayerTrade()"
	case DeclinePlayerTrade:
		return "DeclinePlayerTrade()"
	case TradeBank:
		return fmt.Sprintf("TradeBank(give=%v,receive=%v)", a.Give, a.Receive)
	case BuyDevelopment:
		return "BuyDevelopment()"
	case PlayKnight:
		return "PlayKnight()"
	case PlayProgress:
		switch a.ProgressKind {
		case rules.RoadBuilding:
			return fmt.Sprintf("PlayProgress(ROAD_BUILDING,e1=%d,e2=%d)", a.Edge, a.Edge2)
		case rules.YearOfPlenty:
			return fmt.Sprintf("PlayProgress(YEAR_OF_PLENTY,%v)", a.Give)
		case rules.Monopoly:
			return fmt.Sprintf("PlayProgress(MONOPOLY,%v)", a.MonopolyResource)
		}
		return "PlayProgress(?)"
	case EndTurn:
		return "EndTurn()"
	default:
		return "Unknown()"
	}
}

// NewPlaceSettlement builds a settlement placement action.
func NewPlaceSettlement(vertex int, free bool) Action {
	return Action{Kind: PlaceSettlement, Vertex: vertex, Free: free, Tile: none, Victim: none}
}

// NewPlaceRoad builds a road placement action.
func NewPlaceRoad(edge int, free bool) Action {
	return Action{Kind: PlaceRoad, Edge: edge, Free: free, Tile: none, Victim: none}
}

// NewBuildCity builds a city upgrade action.
func NewBuildCity(vertex int) Action {
	return Action{Kind: BuildCity, Vertex: vertex, Tile: none, Victim: none}
}

// NewRollDice builds an unforced dice roll action.
func NewRollDice() Action {
	return Action{Kind: RollDice, Tile: none, Victim: none}
}

// NewForcedRollDice builds a dice roll action with a pinned outcome (for
// deterministic tests and replay).
func NewForcedRollDice(die1, die2 int) Action {
	return Action{Kind: RollDice, DiceForced: true, Die1: die1, Die2: die2, Tile: none, Victim: none}
}

// NewMoveRobber builds a robber move action. Pass victim = none for no
// steal.
func NewMoveRobber(tile, victim int) Action {
	return Action{Kind: MoveRobber, Tile: tile, Victim: victim}
}

// NewDiscardResources builds a discard action.
func NewDiscardResources(bundle rules.ResourceBundle) Action {
	return Action{Kind: DiscardResources, Give: bundle, Tile: none, Victim: none}
}

// NewOfferPlayerTrade builds a player-trade offer action.
func NewOfferPlayerTrade(give, receive rules.ResourceBundle) Action {
	return Action{Kind: OfferPlayerTrade, Give: give, Receive: receive, Tile: none, Victim: none}
}

// NewAcceptPlayerTrade builds an accept action.
func NewAcceptPlayerTrade() Action {
	return Action{Kind: AcceptPlayerTrade, Tile: none, Victim: none}
}

// NewDeclinePlayerTrade builds a decline action.
func NewDeclinePlayerTrade() Action {
	return Action{Kind: DeclinePlayerTrade, Tile: none, Victim: none}
}

// NewTradeBank builds a bank-trade action.
func NewTradeBank(give, receive rules.ResourceBundle) Action {
	return Action{Kind: TradeBank, Give: give, Receive: receive, Tile: none, Victim: none}
}

// NewBuyDevelopment builds a development-card purchase action.
func NewBuyDevelopment() Action {
	return Action{Kind: BuyDevelopment, Tile: none, Victim: none}
}

// NewPlayKnight builds a knight-play action.
func NewPlayKnight() Action {
	return Action{Kind: PlayKnight, Tile: none, Victim: none}
}

// NewPlayRoadBuilding builds a ROAD_BUILDING progress-card action.
func NewPlayRoadBuilding(e1, e2 int) Action {
	return Action{Kind: PlayProgress, ProgressKind: rules.RoadBuilding, Edge: e1, Edge2: e2, Tile: none, Victim: none}
}

// NewPlayYearOfPlenty builds a YEAR_OF_PLENTY progress-card action.
func NewPlayYearOfPlenty(bundle rules.ResourceBundle) Action {
	return Action{Kind: PlayProgress, ProgressKind: rules.YearOfPlenty, Give: bundle, Tile: none, Victim: none}
}

// NewPlayMonopoly builds a MONOPOLY progress-card action.
func NewPlayMonopoly(resource rules.ResourceKind) Action {
	return Action{Kind: PlayProgress, ProgressKind: rules.Monopoly, MonopolyResource: resource, Tile: none, Victim: none}
}

// NewEndTurn builds an end-turn action.
func NewEndTurn() Action {
	return Action{Kind: EndTurn, Tile: none, Victim: none}
}
