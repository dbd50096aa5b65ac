package sim

import (
	"testing"

	"github.com/lukev/catan2p/internal/catan"
)

func newTestDriver() *Driver {
	return New(catan.NewGame(catan.NewGameOptions{Seed1: 1, Seed2: 2}))
}

func TestStepAdvancesAndRejectsIllegal(t *testing.T) {
	d := newTestDriver()

	legal := d.LegalActions()
	if len(legal) == 0 {
		t.Fatalf("expected legal actions at game start")
	}

	_, _, done, info, err := d.Step(catan.NewEndTurn())
	if err == nil {
		t.Fatalf("expected EndTurn to be illegal during setup")
	}
	if done {
		t.Fatalf("game should not be over after a rejected step")
	}
	if info["applied"] != false {
		t.Fatalf("expected info to report the step was not applied")
	}

	before := d.State()
	next, _, _, _, err := d.Step(legal[0])
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if next == before {
		t.Fatalf("expected Step to advance to a new state value")
	}
}

func TestActionCatalogIsAppendOnlyAndIndexOfIdempotent(t *testing.T) {
	d := newTestDriver()
	legal := d.LegalActions()
	a := legal[0]

	i1 := d.IndexOf(a)
	i2 := d.IndexOf(a)
	if i1 != i2 {
		t.Fatalf("expected IndexOf to be idempotent, got %d then %d", i1, i2)
	}

	sizeBefore := len(d.ActionCatalog())
	d.IndexOf(a)
	if len(d.ActionCatalog()) != sizeBefore {
		t.Fatalf("re-observing a known action must not grow the catalog")
	}
}

func TestLegalActionsMaskMatchesLegalActions(t *testing.T) {
	d := newTestDriver()
	legal := d.LegalActions()
	mask := d.LegalActionsMask()
	catalog := d.ActionCatalog()

	count := 0
	for _, on := range mask {
		if on {
			count++
		}
	}
	if count != len(legal) {
		t.Fatalf("mask has %d true entries, expected %d legal actions", count, len(legal))
	}
	for _, a := range legal {
		idx := d.IndexOf(a)
		if idx >= len(mask) || !mask[idx] {
			t.Fatalf("legal action %v not marked true in mask at index %d (catalog len %d)", a, idx, len(catalog))
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	d := newTestDriver()
	legal := d.LegalActions()
	clone := d.Clone()

	if _, _, _, _, err := clone.Step(legal[0]); err != nil {
		t.Fatalf("step on clone: %v", err)
	}

	if clone.State() == d.State() {
		t.Fatalf("expected clone's state to diverge from the original after stepping it")
	}
	if d.State().Phase != catan.SetupRound1 {
		t.Fatalf("stepping a clone must not affect the original driver's state")
	}
}

func TestResetPreservesCatalogAcrossEpisodes(t *testing.T) {
	d := newTestDriver()
	d.LegalActionsMask()
	sizeAfterFirstEpisode := len(d.ActionCatalog())

	d.Reset(catan.NewGame(catan.NewGameOptions{Seed1: 99, Seed2: 100}))
	d.LegalActionsMask()

	if len(d.ActionCatalog()) < sizeAfterFirstEpisode {
		t.Fatalf("catalog must never shrink across a reset")
	}
}
