package snapshot

import (
	"encoding/json"
	"testing"

	"github.com/lukev/catan2p/internal/board"
	"github.com/lukev/catan2p/internal/catan"
)

func TestRoundTripPreservesState(t *testing.T) {
	s := catan.NewGame(catan.NewGameOptions{Seed1: 7, Seed2: 11})
	s.RNG.RollDie()
	s.RNG.RollDie()

	snap := From(s)
	restored, err := To(snap, board.NewStandardBoard())
	if err != nil {
		t.Fatalf("To: %v", err)
	}

	if restored.Phase != s.Phase {
		t.Fatalf("phase mismatch: got %v want %v", restored.Phase, s.Phase)
	}
	if restored.CurrentActor != s.CurrentActor {
		t.Fatalf("current actor mismatch")
	}
	if restored.Bank != s.Bank {
		t.Fatalf("bank mismatch: got %v want %v", restored.Bank, s.Bank)
	}

	wantDie := s.RNG.RollDie()
	gotDie := restored.RNG.RollDie()
	if gotDie != wantDie {
		t.Fatalf("expected the next RNG draw to be bit-identical after a round trip: got %d want %d", gotDie, wantDie)
	}
}

func TestRoundTripSurvivesJSON(t *testing.T) {
	s := catan.NewGame(catan.NewGameOptions{Seed1: 3, Seed2: 4})
	snap := From(s)

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Snapshot
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	restored, err := To(decoded, board.NewStandardBoard())
	if err != nil {
		t.Fatalf("To: %v", err)
	}
	if restored.Bank != s.Bank {
		t.Fatalf("bank mismatch after JSON round trip")
	}
}

func TestToRejectsUnknownSchemaVersion(t *testing.T) {
	snap := From(catan.NewGame(catan.NewGameOptions{Seed1: 1, Seed2: 2}))
	snap.SchemaVersion = "bogus"
	if _, err := To(snap, board.NewStandardBoard()); err == nil {
		t.Fatalf("expected an error for an unknown schema version")
	}
}

func TestToRejectsUnknownBoardSchema(t *testing.T) {
	snap := From(catan.NewGame(catan.NewGameOptions{Seed1: 1, Seed2: 2}))
	snap.BoardSchema = "bogus"
	if _, err := To(snap, board.NewStandardBoard()); err == nil {
		t.Fatalf("expected an error for an unknown board schema")
	}
}
