// Package rollout runs many independent self-play episodes across a fixed
// pool of workers, each worker owning a contiguous range of seeds so a run
// is reproducible from its base seed and worker count alone.
package rollout

import (
	"sync"
	"time"

	"github.com/lukev/catan2p/internal/catan"
	"github.com/lukev/catan2p/internal/sim"
)

// NewStateFunc builds the initial state for one episode from a pair of
// independent seeds.
type NewStateFunc func(seed1, seed2 uint64) *catan.State

// Policy selects one action from the legal set for the given state. A
// policy must not mutate state or the legal slice.
type Policy interface {
	SelectAction(state *catan.State, legal []catan.Action) catan.Action
}

// PolicyFunc adapts a plain function to the Policy interface.
type PolicyFunc func(state *catan.State, legal []catan.Action) catan.Action

func (f PolicyFunc) SelectAction(state *catan.State, legal []catan.Action) catan.Action {
	return f(state, legal)
}

// PolicyFactory builds the policy a worker uses for every episode it runs.
// It is a pure function of the worker's id so a run's policy assignment is
// itself deterministic.
type PolicyFactory func(workerID int) Policy

// Config describes one rollout run.
type Config struct {
	Workers   int
	Episodes  int // total episodes across all workers
	MaxSteps  int // per-episode step cap; an episode that hits it counts as undecided (Winner = -1)
	BaseSeed  uint64
	NewPolicy PolicyFactory
	OnEpisode func(workerID int, e EpisodeSummary)
}

// EpisodeSummary is the outcome of one finished episode.
type EpisodeSummary struct {
	Seed     uint64
	Steps    int
	Winner   int // -1 if the episode was cut off at MaxSteps
	Duration time.Duration
}

// WorkerSummary aggregates every episode one worker ran.
type WorkerSummary struct {
	WorkerID  int
	Episodes  int
	Steps     int
	WinCounts map[int]int // player id -> wins; -1 key counts undecided episodes
	Duration  time.Duration
}

// Summary is the deterministic fold of every worker's summary, always
// combined in worker-id order so the aggregate is independent of goroutine
// scheduling.
type Summary struct {
	Workers      []WorkerSummary
	TotalEpisodes int
	TotalSteps    int
	WinCounts     map[int]int
	Duration      time.Duration
}

// Run partitions cfg.Episodes into contiguous seed ranges, one per worker,
// runs them concurrently, and folds the per-worker summaries in worker-id
// order into a single deterministic Summary.
func Run(cfg Config, newState NewStateFunc) Summary {
	start := time.Now()

	perWorker := cfg.Episodes / cfg.Workers
	remainder := cfg.Episodes % cfg.Workers

	results := make([]WorkerSummary, cfg.Workers)
	var wg sync.WaitGroup

	seedCursor := cfg.BaseSeed
	for w := 0; w < cfg.Workers; w++ {
		episodes := perWorker
		if w < remainder {
			episodes++
		}
		firstSeed := seedCursor
		seedCursor += uint64(episodes)

		wg.Add(1)
		go func(workerID int, firstSeed uint64, episodes int) {
			defer wg.Done()
			results[workerID] = runWorker(cfg, workerID, firstSeed, episodes, newState)
		}(w, firstSeed, episodes)
	}
	wg.Wait()

	summary := Summary{
		Workers:   results,
		WinCounts: make(map[int]int),
	}
	for _, ws := range results {
		summary.TotalEpisodes += ws.Episodes
		summary.TotalSteps += ws.Steps
		for player, n := range ws.WinCounts {
			summary.WinCounts[player] += n
		}
	}
	summary.Duration = time.Since(start)
	return summary
}

func runWorker(cfg Config, workerID int, firstSeed uint64, episodes int, newState NewStateFunc) WorkerSummary {
	policy := cfg.NewPolicy(workerID)
	ws := WorkerSummary{WorkerID: workerID, WinCounts: make(map[int]int)}
	workerStart := time.Now()

	for i := 0; i < episodes; i++ {
		seed := firstSeed + uint64(i)
		episodeStart := time.Now()

		state := newState(seed, seed^0x9e3779b97f4a7c15)
		driver := sim.New(state)

		steps := 0
		winner := -1
		for {
			if driver.State().GameOver {
				winner = driver.State().Winner
				break
			}
			if cfg.MaxSteps > 0 && steps >= cfg.MaxSteps {
				break
			}
			legal := driver.LegalActions()
			if len(legal) == 0 {
				break
			}
			action := policy.SelectAction(driver.State(), legal)
			if _, _, _, _, err := driver.Step(action); err != nil {
				break
			}
			steps++
		}

		es := EpisodeSummary{Seed: seed, Steps: steps, Winner: winner, Duration: time.Since(episodeStart)}
		ws.Episodes++
		ws.Steps += steps
		ws.WinCounts[winner]++
		if cfg.OnEpisode != nil {
			cfg.OnEpisode(workerID, es)
		}
	}

	ws.Duration = time.Since(workerStart)
	return ws
}
