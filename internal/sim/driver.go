// Package sim implements the simulation driver (§4.8): reset/step/clone
// over a catan.State, plus an append-only action catalog so reinforcement
// learning style callers can index actions by a stable integer instead of
// the full Action value.
package sim

import (
	"sync"

	"github.com/lukev/catan2p/internal/catan"
)

// Reward is one zero-or-nonzero entry per player (§4.8: "reward_tuple has
// one zero per player (rewards are external shaping)"). The driver never
// produces a nonzero reward itself; callers that want shaped rewards derive
// them from the returned state.
type Reward [2]float64

// Info carries auxiliary per-step detail a caller may want to log, mirroring
// the teacher simulator's habit of returning structured diagnostics
// alongside state transitions (internal/replay/simulator.go's MissingInfoError
// pattern, generalized to a plain map here since this engine has nothing
// left ambiguous by the time an action reaches Step).
type Info map[string]any

// Driver is one simulation session: a current state plus a growable action
// catalog. Every method takes the embedded mutex, so calls from different
// goroutines (a host server's request handlers, for example) are
// serialized rather than run in parallel (§5: "the rules engine is
// single-threaded per game"), following the teacher's GameSimulator.mu
// (internal/replay/simulator.go). The *catan.State values returned by
// State and Step are not guarded by the mutex.
type Driver struct {
	mu    sync.Mutex
	state *catan.State

	catalog []catan.Action
	index   map[catan.Action]int
}

// New creates a driver over an already-constructed state, typically from
// catan.NewGame or a restored snapshot.
func New(initial *catan.State) *Driver {
	d := &Driver{
		index: make(map[catan.Action]int),
	}
	d.Reset(initial)
	return d
}

// Reset replaces the driver's current state (§4.8: "reset(state=…) restores
// an exact state"). The action catalog is NOT cleared: it is a property of
// the driver's lifetime, not of any one episode, so action indices stay
// stable across resets within the same driver (§6: "append-only inside a
// driver's lifetime").
func (d *Driver) Reset(s *catan.State) *catan.State {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = s
	d.observe(d.legalActionsLocked())
	return d.state
}

// State returns the driver's current state.
func (d *Driver) State() *catan.State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Step applies a to the current state. On success it returns the new
// state, a zero reward tuple, whether the game is now over, and an info
// map. On failure the state is left unchanged (§7: "leaves the state
// unchanged") and the error is one of catan's concrete error types.
func (d *Driver) Step(a catan.Action) (*catan.State, Reward, bool, Info, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	next, err := catan.Apply(d.state, a)
	if err != nil {
		return d.state, Reward{}, d.state.GameOver, Info{"applied": false}, err
	}
	d.state = next
	d.observe(d.legalActionsLocked())

	info := Info{"applied": true}
	if next.GameOver {
		info["winner"] = next.Winner
	}
	return d.state, Reward{}, d.state.GameOver, info, nil
}

// LegalActions returns every action legal against the current state.
func (d *Driver) LegalActions() []catan.Action {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.legalActionsLocked()
}

func (d *Driver) legalActionsLocked() []catan.Action {
	return catan.LegalActions(d.state)
}

// LegalActionsMask returns a boolean vector the same length as
// ActionCatalog, true at the index of every currently legal action (§6).
func (d *Driver) LegalActionsMask() []bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	legal := d.legalActionsLocked()
	d.observeLocked(legal)

	mask := make([]bool, len(d.catalog))
	for _, a := range legal {
		mask[d.index[a]] = true
	}
	return mask
}

// ActionCatalog returns the driver's stable, append-only list of actions
// observed so far. The returned slice must not be mutated by the caller.
func (d *Driver) ActionCatalog() []catan.Action {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.catalog
}

// IndexOf returns a's position in the catalog, appending it first if it has
// never been observed (§6: "index_of(action) is idempotent").
func (d *Driver) IndexOf(a catan.Action) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.indexOfLocked(a)
}

func (d *Driver) indexOfLocked(a catan.Action) int {
	if idx, ok := d.index[a]; ok {
		return idx
	}
	idx := len(d.catalog)
	d.catalog = append(d.catalog, a)
	d.index[a] = idx
	return idx
}

func (d *Driver) observe(actions []catan.Action) {
	d.observeLocked(actions)
}

func (d *Driver) observeLocked(actions []catan.Action) {
	for _, a := range actions {
		d.indexOfLocked(a)
	}
}

// Clone produces an independent driver sharing no mutable state with d
// (§4.8). The cloned catalog is a fresh copy so continued play on either
// driver cannot race on the other's index map.
func (d *Driver) Clone() *Driver {
	d.mu.Lock()
	defer d.mu.Unlock()

	clone := &Driver{
		state:   d.state.Clone(),
		catalog: append([]catan.Action(nil), d.catalog...),
		index:   make(map[catan.Action]int, len(d.index)),
	}
	for a, i := range d.index {
		clone.index[a] = i
	}
	return clone
}
