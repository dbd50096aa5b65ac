package catan

import (
	"testing"

	"github.com/lukev/catan2p/internal/rules"
)

// everyEnumeratedActionIsLegal is the core soundness property linking
// LegalActions to IsLegal (§8): enumeration must never produce an action
// the predicate itself rejects.
func everyEnumeratedActionIsLegal(t *testing.T, s *State) {
	t.Helper()
	for _, a := range LegalActions(s) {
		if !IsLegal(s, a) {
			t.Fatalf("LegalActions produced %v but IsLegal rejects it (phase=%v subphase=%v)", a, s.Phase, s.SubPhase)
		}
	}
}

func TestLegalActionsAreAllLegalDuringSetup(t *testing.T) {
	s := newTestGame()
	everyEnumeratedActionIsLegal(t, s)

	acts := LegalActions(s)
	if len(acts) == 0 {
		t.Fatalf("expected at least one legal settlement placement at game start")
	}
	for _, a := range acts {
		if a.Kind != PlaceSettlement {
			t.Fatalf("expected only PlaceSettlement actions before any settlement is placed, got %v", a.Kind)
		}
	}
}

func TestLegalActionsDuringSetupRoadRestrictedToIncidentEdges(t *testing.T) {
	s := newTestGame()
	s = applyFirstOfKind(t, s, PlaceSettlement)
	everyEnumeratedActionIsLegal(t, s)

	acts := LegalActions(s)
	lastSettlement := s.Actor().Settlements[len(s.Actor().Settlements)-1]
	for _, a := range acts {
		if a.Kind != PlaceRoad {
			t.Fatalf("expected only PlaceRoad actions right after a setup settlement, got %v", a.Kind)
		}
		e := s.Board.GetEdge(a.Edge)
		if e.V1 != lastSettlement && e.V2 != lastSettlement {
			t.Fatalf("setup road %v is not incident to the just-placed settlement %d", a, lastSettlement)
		}
	}
}

func TestLegalActionsRequireRollBeforeAnythingElse(t *testing.T) {
	s := newTestGame()
	s = playSetupPhase(t, s)
	everyEnumeratedActionIsLegal(t, s)

	acts := LegalActions(s)
	if len(acts) != 1 || acts[0].Kind != RollDice {
		t.Fatalf("expected RollDice to be the only legal action before the dice are rolled, got %v", acts)
	}
}

func TestLegalActionsAfterRollIncludeEndTurn(t *testing.T) {
	s := newTestGame()
	s = playSetupPhase(t, s)
	next, err := Apply(s, NewForcedRollDice(2, 3))
	if err != nil {
		t.Fatalf("roll dice: %v", err)
	}
	everyEnumeratedActionIsLegal(t, next)

	found := false
	for _, a := range LegalActions(next) {
		if a.Kind == EndTurn {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected EndTurn to always be available once the dice are rolled")
	}
}

func TestEnumerateDiscardsProducesExactSumCombinations(t *testing.T) {
	s := newTestGame()
	s.PendingDiscards = map[int]int{0: 3}
	s.CurrentActor = 0
	s.SubPhase = RobberDiscard
	s.Players[0].Resources = rules.Single(rules.Brick, 2).Add(rules.Single(rules.Ore, 2))

	for _, a := range enumerateDiscards(s) {
		if a.Give.Total() != 3 {
			t.Fatalf("expected every discard candidate to total exactly 3, got %v", a.Give)
		}
	}
}
