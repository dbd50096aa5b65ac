package catan

import (
	"math/rand/v2"

	"github.com/lukev/catan2p/internal/board"
	"github.com/lukev/catan2p/internal/catan/rng"
	"github.com/lukev/catan2p/internal/rules"
)

// Phase is the top-level game phase (§3 State).
type Phase int

const (
	SetupRound1 Phase = iota
	SetupRound2
	Play
)

func (p Phase) String() string {
	switch p {
	case SetupRound1:
		return "SETUP_ROUND_1"
	case SetupRound2:
		return "SETUP_ROUND_2"
	case Play:
		return "PLAY"
	default:
		return "UNKNOWN"
	}
}

// SubPhase is the play-time sub-phase (§3 State).
type SubPhase int

const (
	Main SubPhase = iota
	RobberDiscard
	RobberMove
	TradeResponse
)

func (s SubPhase) String() string {
	switch s {
	case Main:
		return "MAIN"
	case RobberDiscard:
		return "ROBBER_DISCARD"
	case RobberMove:
		return "ROBBER_MOVE"
	case TradeResponse:
		return "TRADE_RESPONSE"
	default:
		return "UNKNOWN"
	}
}

// PendingTrade records an outstanding player-to-player trade offer.
type PendingTrade struct {
	Proposer  int
	Responder int
	Give      rules.ResourceBundle // what the proposer gives
	Receive   rules.ResourceBundle // what the proposer receives
}

// State is the complete, immutable-by-convention aggregate game state
// (§3 State). Every mutating operation returns a new *State; a
// previously-returned State is never mutated in place (§3 Lifecycle, §9).
type State struct {
	Board   *board.Board
	Players []*Player

	Phase    Phase
	SubPhase SubPhase

	CurrentActor int
	TurnNumber   int

	// Setup bookkeeping.
	SetupSettlementsPlaced int
	SetupRoadsPlaced       int
	ExpectingRoad          bool

	LastDiceTotal int
	DiceRolled    bool

	PendingDiscards map[int]int // playerID -> cards owed
	DiscardQueue    []int       // playerIDs still to discard, FIFO

	RobberMover int // player who triggered the robber protocol, or none

	PendingTrade *PendingTrade

	Bank    rules.ResourceBundle
	DevDeck []rules.DevCardKind

	RNG *rng.Source

	LongestRoadOwner  int // none if vacant
	LongestRoadLength int
	LargestArmyOwner  int // none if vacant
	LargestArmySize   int

	GameOver bool
	Winner   int // none if not over
}

// NewGameOptions configures State creation.
type NewGameOptions struct {
	Names      [2]string
	Seed1      uint64
	Seed2      uint64
	DevDeck    []rules.DevCardKind // nil => rules.DefaultDevDeck()
	Bank       *rules.ResourceBundle
	RandomBoard bool
}

// NewGame creates the initial SETUP_ROUND_1 state.
func NewGame(opts NewGameOptions) *State {
	r := rng.New(opts.Seed1, opts.Seed2)

	var b *board.Board
	if opts.RandomBoard {
		// Board layout is randomized once at creation from an independent
		// stream seeded off the same pair, so it does not share a step
		// counter with the dice-draw Source. The snapshot does not carry
		// the layout, only a board schema tag and the robber tile.
		b = board.NewRandomBoard(rand.New(rand.NewPCG(opts.Seed1, opts.Seed2)))
	} else {
		b = board.NewStandardBoard()
	}

	deck := opts.DevDeck
	if deck == nil {
		deck = rules.DefaultDevDeck()
	}

	bank := rules.DefaultBank()
	if opts.Bank != nil {
		bank = *opts.Bank
	}

	players := make([]*Player, rules.NumPlayers)
	for i := 0; i < rules.NumPlayers; i++ {
		name := opts.Names[i]
		if name == "" {
			name = defaultPlayerName(i)
		}
		players[i] = NewPlayer(i, name)
	}

	return &State{
		Board:           b,
		Players:         players,
		Phase:           SetupRound1,
		SubPhase:        Main,
		CurrentActor:    0,
		TurnNumber:      0,
		PendingDiscards: make(map[int]int),
		RobberMover:     none,
		Bank:            bank,
		DevDeck:         deck,
		RNG:             r,
		LongestRoadOwner: none,
		LargestArmyOwner: none,
		Winner:          none,
	}
}

func defaultPlayerName(i int) string {
	if i == 0 {
		return "A"
	}
	return "B"
}

// Actor returns the current actor's player record.
func (s *State) Actor() *Player { return s.Players[s.CurrentActor] }

// Opponent returns the other player's record.
func (s *State) Opponent(playerID int) *Player {
	return s.Players[1-playerID]
}

// Clone performs the per-transition deep copy: board is shared by
// reference (only WithRobberAt rebuilds it), players and pending
// sub-state are copied so the returned State shares no mutable
// substructure with s (§3 Lifecycle).
func (s *State) Clone() *State {
	cp := *s
	cp.Players = make([]*Player, len(s.Players))
	for i, p := range s.Players {
		cp.Players[i] = p.Clone()
	}
	cp.PendingDiscards = make(map[int]int, len(s.PendingDiscards))
	for k, v := range s.PendingDiscards {
		cp.PendingDiscards[k] = v
	}
	cp.DiscardQueue = append([]int(nil), s.DiscardQueue...)
	cp.DevDeck = append([]rules.DevCardKind(nil), s.DevDeck...)
	if s.PendingTrade != nil {
		pt := *s.PendingTrade
		cp.PendingTrade = &pt
	}
	cp.RNG = s.RNG.Clone()
	return &cp
}

// TotalVP returns a player's visible+hidden VP total.
func (s *State) TotalVP(playerID int) int {
	return s.Players[playerID].TotalVP()
}
