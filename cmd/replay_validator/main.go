// Command replay_validator replays a recorded trajectory through the catan
// rules engine and checks it against any checkpoint snapshots embedded in
// the trajectory file, failing loudly at the first divergence.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lukev/catan2p/internal/board"
	"github.com/lukev/catan2p/internal/catan"
	"github.com/lukev/catan2p/internal/notation"
	"github.com/lukev/catan2p/internal/snapshot"
)

// trajectory is the on-disk format this tool consumes: an initial snapshot,
// an ordered list of notation-encoded actions, and zero or more checkpoint
// snapshots to verify against along the way.
type trajectory struct {
	Initial     snapshot.Snapshot `json:"initial"`
	Actions     []string          `json:"actions"`
	Checkpoints []checkpoint      `json:"checkpoints"`
}

type checkpoint struct {
	AfterAction int               `json:"afterAction"` // 0-based index into Actions; snapshot expected right after this action applies
	Snapshot    snapshot.Snapshot `json:"snapshot"`
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: replay_validator <trajectory.json>")
		os.Exit(1)
	}

	if err := run(os.Args[1]); err != nil {
		fmt.Printf("\n✗ %v\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	traj, err := loadTrajectory(path)
	if err != nil {
		return fmt.Errorf("loading trajectory: %w", err)
	}

	b := board.NewStandardBoard()
	state, err := snapshot.To(traj.Initial, b)
	if err != nil {
		return fmt.Errorf("restoring initial snapshot: %w", err)
	}
	fmt.Printf("✓ loaded initial snapshot (%d actions, %d checkpoints)\n", len(traj.Actions), len(traj.Checkpoints))

	checkpointsByIndex := make(map[int]checkpoint, len(traj.Checkpoints))
	for _, cp := range traj.Checkpoints {
		checkpointsByIndex[cp.AfterAction] = cp
	}

	for i, encoded := range traj.Actions {
		action, err := notation.Decode(encoded)
		if err != nil {
			return fmt.Errorf("action %d: decoding %q: %w", i, encoded, err)
		}

		next, err := catan.Apply(state, action)
		if err != nil {
			return fmt.Errorf("action %d (%s): %w", i, encoded, err)
		}
		state = next

		if cp, ok := checkpointsByIndex[i]; ok {
			if err := verifyCheckpoint(state, cp.Snapshot); err != nil {
				return fmt.Errorf("checkpoint after action %d (%s): %w", i, encoded, err)
			}
			fmt.Printf("✓ checkpoint after action %d matched\n", i)
		}
	}

	fmt.Printf("\n✅ replayed %d actions with no divergence\n", len(traj.Actions))
	return nil
}

func verifyCheckpoint(state *catan.State, want snapshot.Snapshot) error {
	got := snapshot.From(state)
	gotJSON, err := json.Marshal(got)
	if err != nil {
		return fmt.Errorf("marshaling actual snapshot: %w", err)
	}
	wantJSON, err := json.Marshal(want)
	if err != nil {
		return fmt.Errorf("marshaling expected snapshot: %w", err)
	}
	if string(gotJSON) != string(wantJSON) {
		return fmt.Errorf("snapshot mismatch:\n  expected: %s\n  actual:   %s", wantJSON, gotJSON)
	}
	return nil
}

func loadTrajectory(path string) (trajectory, error) {
	var traj trajectory
	data, err := os.ReadFile(path)
	if err != nil {
		return traj, err
	}
	if err := json.Unmarshal(data, &traj); err != nil {
		return traj, fmt.Errorf("parsing JSON: %w", err)
	}
	return traj, nil
}
