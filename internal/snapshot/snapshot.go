// Package snapshot implements the self-describing state record that the
// engine serializes to and deserializes from (§6 Snapshot contract). A
// round trip must reproduce the same catan.State, including a
// bit-identical next RNG draw.
package snapshot

import (
	"fmt"

	"github.com/lukev/catan2p/internal/board"
	"github.com/lukev/catan2p/internal/catan"
	"github.com/lukev/catan2p/internal/catan/rng"
	"github.com/lukev/catan2p/internal/rules"
)

// SchemaVersion is bumped whenever a field is added, removed or
// reinterpreted. To rejects any other value.
const SchemaVersion = "catan2p/v1"

// RNGState is the opaque typed blob §6 describes as
// {type: "py_random"|"pcg64"|…, state: …}. This engine always uses pcg64.
type RNGState struct {
	Type  string `json:"type"`
	Seed1 uint64 `json:"seed1"`
	Seed2 uint64 `json:"seed2"`
	Steps uint64 `json:"steps"`
}

// PendingDiscard pairs a player id with the cards they still owe.
type PendingDiscard struct {
	PlayerID int `json:"player_id"`
	Amount   int `json:"amount"`
}

// PendingTrade mirrors catan.PendingTrade.
type PendingTrade struct {
	Proposer  int                  `json:"proposer"`
	Responder int                  `json:"responder"`
	Give      map[string]int       `json:"give"`
	Receive   map[string]int       `json:"receive"`
}

// DevCardBuckets mirrors catan.DevCardBuckets with string-keyed maps so the
// JSON encoding is self-describing.
type DevCardBuckets struct {
	Playable map[string]int `json:"playable"`
	Fresh    map[string]int `json:"fresh"`
	Spent    map[string]int `json:"spent"`
}

// PlayerRecord is one player's snapshot block.
type PlayerRecord struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	Resources   map[string]int `json:"resources"`
	Settlements []int          `json:"settlements"`
	Cities      []int          `json:"cities"`
	Roads       []int          `json:"roads"`
	DevCards    DevCardBuckets `json:"dev_cards"`
	VisibleVP   int            `json:"visible_vp"`
	HiddenVP    int            `json:"hidden_vp"`
}

// Snapshot is the complete self-describing record (§6).
type Snapshot struct {
	SchemaVersion string `json:"schema_version"`

	VictoryPointsToWin int `json:"victory_points_to_win"`
	DiscardThreshold   int `json:"discard_threshold"`

	BoardSchema string `json:"board_schema"`
	RobberTile  int    `json:"robber_tile"`

	Phase    string `json:"phase"`
	SubPhase string `json:"sub_phase"`

	TurnNumber   int `json:"turn_number"`
	CurrentActor int `json:"current_actor"`

	SetupSettlementsPlaced int  `json:"setup_settlements_placed"`
	SetupRoadsPlaced       int  `json:"setup_roads_placed"`
	ExpectingRoad          bool `json:"expecting_road"`

	LastDiceTotal int  `json:"last_dice_total"`
	DiceRolled    bool `json:"dice_rolled"`

	PendingDiscards []PendingDiscard `json:"pending_discards"`
	DiscardQueue    []int            `json:"discard_queue"`
	PendingTrade    *PendingTrade    `json:"pending_trade"`
	RobberMover     int              `json:"robber_mover"`

	DevDeck []string       `json:"dev_deck"`
	Bank    map[string]int `json:"bank"`

	RNG RNGState `json:"rng"`

	LongestRoadOwner  int `json:"longest_road_owner"`
	LongestRoadLength int `json:"longest_road_length"`
	LargestArmyOwner  int `json:"largest_army_owner"`
	LargestArmySize   int `json:"largest_army_size"`

	GameOver bool `json:"game_over"`
	Winner   int  `json:"winner"`

	Players []PlayerRecord `json:"players"`
}

// boardSchemaTag identifies the fixed standard-board topology. The board
// itself is never re-derived from this tag; To rejects a snapshot carrying
// any other tag, and does not inspect the board the caller supplies.
const boardSchemaTag = "standard-19-54-72-9"

// From builds a Snapshot from a live state.
func From(s *catan.State) Snapshot {
	snap := Snapshot{
		SchemaVersion:           SchemaVersion,
		VictoryPointsToWin:      rules.VictoryPointsToWin,
		DiscardThreshold:        rules.DiscardHandLimit,
		BoardSchema:             boardSchemaTag,
		RobberTile:              s.Board.RobberTile(),
		Phase:                   s.Phase.String(),
		SubPhase:                s.SubPhase.String(),
		TurnNumber:              s.TurnNumber,
		CurrentActor:            s.CurrentActor,
		SetupSettlementsPlaced:  s.SetupSettlementsPlaced,
		SetupRoadsPlaced:        s.SetupRoadsPlaced,
		ExpectingRoad:           s.ExpectingRoad,
		LastDiceTotal:           s.LastDiceTotal,
		DiceRolled:              s.DiceRolled,
		DiscardQueue:            append([]int(nil), s.DiscardQueue...),
		RobberMover:             s.RobberMover,
		DevDeck:                 encodeDevDeck(s.DevDeck),
		Bank:                    encodeBundle(s.Bank),
		LongestRoadOwner:        s.LongestRoadOwner,
		LongestRoadLength:       s.LongestRoadLength,
		LargestArmyOwner:        s.LargestArmyOwner,
		LargestArmySize:         s.LargestArmySize,
		GameOver:                s.GameOver,
		Winner:                  s.Winner,
	}

	for id, amount := range s.PendingDiscards {
		snap.PendingDiscards = append(snap.PendingDiscards, PendingDiscard{PlayerID: id, Amount: amount})
	}

	seed1, seed2 := s.RNG.Seeds()
	snap.RNG = RNGState{Type: "pcg64", Seed1: seed1, Seed2: seed2, Steps: s.RNG.Steps()}

	if s.PendingTrade != nil {
		snap.PendingTrade = &PendingTrade{
			Proposer:  s.PendingTrade.Proposer,
			Responder: s.PendingTrade.Responder,
			Give:      encodeBundle(s.PendingTrade.Give),
			Receive:   encodeBundle(s.PendingTrade.Receive),
		}
	}

	for _, p := range s.Players {
		snap.Players = append(snap.Players, PlayerRecord{
			ID:          p.ID,
			Name:        p.Name,
			Resources:   encodeBundle(p.Resources),
			Settlements: append([]int(nil), p.Settlements...),
			Cities:      append([]int(nil), p.Cities...),
			Roads:       append([]int(nil), p.Roads...),
			DevCards: DevCardBuckets{
				Playable: encodeDevCounts(p.DevCards.Playable),
				Fresh:    encodeDevCounts(p.DevCards.Fresh),
				Spent:    encodeDevCounts(p.DevCards.Spent),
			},
			VisibleVP: p.VisibleVP,
			HiddenVP:  p.HiddenVP,
		})
	}

	return snap
}

// To reconstructs a *catan.State from a snapshot against the supplied
// board (the board's own geometry is not part of the snapshot payload; only
// the robber tile and a schema tag are, per §6).
func To(snap Snapshot, b *board.Board) (*catan.State, error) {
	if snap.SchemaVersion != SchemaVersion {
		return nil, &catan.IllegalStateError{Reason: fmt.Sprintf("unknown schema version %q", snap.SchemaVersion)}
	}
	if snap.BoardSchema != boardSchemaTag {
		return nil, &catan.IllegalStateError{Reason: fmt.Sprintf("unknown board schema %q", snap.BoardSchema)}
	}
	if len(snap.Players) != rules.NumPlayers {
		return nil, &catan.IllegalStateError{Reason: fmt.Sprintf("expected %d players, got %d", rules.NumPlayers, len(snap.Players))}
	}

	phase, err := decodePhase(snap.Phase)
	if err != nil {
		return nil, err
	}
	sub, err := decodeSubPhase(snap.SubPhase)
	if err != nil {
		return nil, err
	}

	bank, err := decodeBundle(snap.Bank)
	if err != nil {
		return nil, err
	}
	deck, err := decodeDevDeck(snap.DevDeck)
	if err != nil {
		return nil, err
	}

	if snap.RNG.Type != "pcg64" {
		return nil, &catan.IllegalStateError{Reason: fmt.Sprintf("unsupported rng type %q", snap.RNG.Type)}
	}

	players := make([]*catan.Player, len(snap.Players))
	for _, pr := range snap.Players {
		if pr.ID < 0 || pr.ID >= len(players) {
			return nil, &catan.IllegalStateError{Reason: fmt.Sprintf("player id %d out of range", pr.ID)}
		}
		res, err := decodeBundle(pr.Resources)
		if err != nil {
			return nil, err
		}
		playable, err := decodeDevCounts(pr.DevCards.Playable)
		if err != nil {
			return nil, err
		}
		fresh, err := decodeDevCounts(pr.DevCards.Fresh)
		if err != nil {
			return nil, err
		}
		spent, err := decodeDevCounts(pr.DevCards.Spent)
		if err != nil {
			return nil, err
		}
		p := catan.NewPlayer(pr.ID, pr.Name)
		p.Resources = res
		p.Settlements = append([]int(nil), pr.Settlements...)
		p.Cities = append([]int(nil), pr.Cities...)
		p.Roads = append([]int(nil), pr.Roads...)
		p.DevCards.Playable = playable
		p.DevCards.Fresh = fresh
		p.DevCards.Spent = spent
		p.VisibleVP = pr.VisibleVP
		p.HiddenVP = pr.HiddenVP
		players[pr.ID] = p
	}
	for i, p := range players {
		if p == nil {
			return nil, &catan.IllegalStateError{Reason: fmt.Sprintf("missing player record for id %d", i)}
		}
	}

	pendingDiscards := make(map[int]int, len(snap.PendingDiscards))
	for _, pd := range snap.PendingDiscards {
		pendingDiscards[pd.PlayerID] = pd.Amount
	}

	var pendingTrade *catan.PendingTrade
	if snap.PendingTrade != nil {
		give, err := decodeBundle(snap.PendingTrade.Give)
		if err != nil {
			return nil, err
		}
		receive, err := decodeBundle(snap.PendingTrade.Receive)
		if err != nil {
			return nil, err
		}
		pendingTrade = &catan.PendingTrade{
			Proposer:  snap.PendingTrade.Proposer,
			Responder: snap.PendingTrade.Responder,
			Give:      give,
			Receive:   receive,
		}
	}

	s := &catan.State{
		Board:                   b.WithRobberAt(snap.RobberTile),
		Players:                 players,
		Phase:                   phase,
		SubPhase:                sub,
		CurrentActor:            snap.CurrentActor,
		TurnNumber:              snap.TurnNumber,
		SetupSettlementsPlaced:  snap.SetupSettlementsPlaced,
		SetupRoadsPlaced:        snap.SetupRoadsPlaced,
		ExpectingRoad:           snap.ExpectingRoad,
		LastDiceTotal:           snap.LastDiceTotal,
		DiceRolled:              snap.DiceRolled,
		PendingDiscards:         pendingDiscards,
		DiscardQueue:            append([]int(nil), snap.DiscardQueue...),
		RobberMover:             snap.RobberMover,
		PendingTrade:            pendingTrade,
		Bank:                    bank,
		DevDeck:                 deck,
		RNG:                     rng.FromState(snap.RNG.Seed1, snap.RNG.Seed2, snap.RNG.Steps),
		LongestRoadOwner:        snap.LongestRoadOwner,
		LongestRoadLength:       snap.LongestRoadLength,
		LargestArmyOwner:        snap.LargestArmyOwner,
		LargestArmySize:         snap.LargestArmySize,
		GameOver:                snap.GameOver,
		Winner:                  snap.Winner,
	}
	return s, nil
}

func decodePhase(s string) (catan.Phase, error) {
	switch s {
	case catan.SetupRound1.String():
		return catan.SetupRound1, nil
	case catan.SetupRound2.String():
		return catan.SetupRound2, nil
	case catan.Play.String():
		return catan.Play, nil
	default:
		return 0, &catan.IllegalStateError{Reason: fmt.Sprintf("unknown phase %q", s)}
	}
}

func decodeSubPhase(s string) (catan.SubPhase, error) {
	switch s {
	case catan.Main.String():
		return catan.Main, nil
	case catan.RobberDiscard.String():
		return catan.RobberDiscard, nil
	case catan.RobberMove.String():
		return catan.RobberMove, nil
	case catan.TradeResponse.String():
		return catan.TradeResponse, nil
	default:
		return 0, &catan.IllegalStateError{Reason: fmt.Sprintf("unknown sub-phase %q", s)}
	}
}

func encodeBundle(b rules.ResourceBundle) map[string]int {
	out := make(map[string]int, len(rules.Resources))
	for _, r := range rules.Resources {
		if n := b.Get(r); n != 0 {
			out[r.String()] = n
		}
	}
	return out
}

func decodeBundle(m map[string]int) (rules.ResourceBundle, error) {
	var b rules.ResourceBundle
	for k, v := range m {
		r, err := resourceFromString(k)
		if err != nil {
			return b, err
		}
		b = b.Set(r, v)
	}
	return b, nil
}

func resourceFromString(s string) (rules.ResourceKind, error) {
	for _, r := range rules.Resources {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, &catan.IllegalStateError{Reason: fmt.Sprintf("unknown resource %q", s)}
}

func devCardFromString(s string) (rules.DevCardKind, error) {
	for _, d := range []rules.DevCardKind{rules.Knight, rules.VictoryPoint, rules.RoadBuilding, rules.YearOfPlenty, rules.Monopoly} {
		if d.String() == s {
			return d, nil
		}
	}
	return 0, &catan.IllegalStateError{Reason: fmt.Sprintf("unknown dev card kind %q", s)}
}

func encodeDevCounts(m map[rules.DevCardKind]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		if v != 0 {
			out[k.String()] = v
		}
	}
	return out
}

func decodeDevCounts(m map[string]int) (map[rules.DevCardKind]int, error) {
	out := make(map[rules.DevCardKind]int, len(m))
	for k, v := range m {
		d, err := devCardFromString(k)
		if err != nil {
			return nil, err
		}
		out[d] = v
	}
	return out, nil
}

func encodeDevDeck(deck []rules.DevCardKind) []string {
	out := make([]string, len(deck))
	for i, d := range deck {
		out[i] = d.String()
	}
	return out
}

func decodeDevDeck(deck []string) ([]rules.DevCardKind, error) {
	out := make([]rules.DevCardKind, len(deck))
	for i, s := range deck {
		d, err := devCardFromString(s)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}
