package catan

import "testing"

func newTestGame() *State {
	return NewGame(NewGameOptions{Seed1: 1, Seed2: 2})
}

func TestNewGameStartsInSetupRound1(t *testing.T) {
	s := newTestGame()
	if s.Phase != SetupRound1 {
		t.Fatalf("expected SetupRound1, got %v", s.Phase)
	}
	if s.CurrentActor != 0 {
		t.Fatalf("expected player 0 to act first, got %d", s.CurrentActor)
	}
	if s.ExpectingRoad {
		t.Fatalf("should not expect a road before any settlement is placed")
	}
	if len(s.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(s.Players))
	}
}

func TestCloneDoesNotShareMutableState(t *testing.T) {
	s := newTestGame()
	clone := s.Clone()
	clone.Actor().Settlements = append(clone.Actor().Settlements, 7)
	if len(s.Actor().Settlements) != 0 {
		t.Fatalf("mutating a clone's player slice must not affect the original")
	}
	clone.Bank = clone.Bank.Set(0, 999)
	if s.Bank.Get(0) == 999 {
		t.Fatalf("mutating a clone's bank must not affect the original")
	}
}

func TestCloneSharesBoardByReference(t *testing.T) {
	s := newTestGame()
	clone := s.Clone()
	if clone.Board != s.Board {
		t.Fatalf("Clone should share the board pointer; only WithRobberAt should rebuild it")
	}
}
