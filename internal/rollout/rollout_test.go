package rollout

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukev/catan2p/internal/catan"
)

func newGame(seed1, seed2 uint64) *catan.State {
	return catan.NewGame(catan.NewGameOptions{Seed1: seed1, Seed2: seed2})
}

func TestRunPartitionsSeedsContiguouslyPerWorker(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[uint64]int) // seed -> count

	cfg := Config{
		Workers:   3,
		Episodes:  10,
		MaxSteps:  4,
		BaseSeed:  100,
		NewPolicy: NewRandomPolicyFactory(42),
		OnEpisode: func(workerID int, e EpisodeSummary) {
			mu.Lock()
			defer mu.Unlock()
			seen[e.Seed]++
		},
	}

	summary := Run(cfg, newGame)

	require.Equal(t, 10, summary.TotalEpisodes)
	assert.Len(t, seen, 10, "every seed in [BaseSeed, BaseSeed+Episodes) must be used exactly once")
	for seed := cfg.BaseSeed; seed < cfg.BaseSeed+uint64(cfg.Episodes); seed++ {
		assert.Equal(t, 1, seen[seed], "seed %d should be claimed by exactly one episode", seed)
	}
}

func TestRunIsDeterministicAcrossRepeatedInvocations(t *testing.T) {
	cfg := Config{
		Workers:   4,
		Episodes:  20,
		MaxSteps:  6,
		BaseSeed:  7,
		NewPolicy: NewRandomPolicyFactory(7),
	}

	first := Run(cfg, newGame)
	second := Run(cfg, newGame)

	assert.Equal(t, first.TotalEpisodes, second.TotalEpisodes)
	assert.Equal(t, first.TotalSteps, second.TotalSteps)
	assert.Equal(t, first.WinCounts, second.WinCounts)
	for i := range first.Workers {
		assert.Equal(t, first.Workers[i].Steps, second.Workers[i].Steps, "worker %d step count should be reproducible", i)
		assert.Equal(t, first.Workers[i].WinCounts, second.Workers[i].WinCounts, "worker %d outcomes should be reproducible", i)
	}
}

func TestRunRespectsMaxStepsCutoff(t *testing.T) {
	cfg := Config{
		Workers:   1,
		Episodes:  1,
		MaxSteps:  1,
		BaseSeed:  1,
		NewPolicy: NewRandomPolicyFactory(1),
	}

	summary := Run(cfg, newGame)
	require.Equal(t, 1, summary.TotalEpisodes)
	assert.LessOrEqual(t, summary.TotalSteps, 1)
	assert.Equal(t, 1, summary.WinCounts[-1], "a one-step episode on seed 1 cannot finish the setup phase")
}

func TestMetricsObserveUpdatesCollectors(t *testing.T) {
	m := NewMetrics("catan2p_test")
	m.Observe(EpisodeSummary{Seed: 1, Steps: 12, Winner: 0})
	m.Observe(EpisodeSummary{Seed: 2, Steps: 5, Winner: -1})

	assert.Equal(t, float64(2), testutil.ToFloat64(m.EpisodesTotal))
	assert.Equal(t, float64(17), testutil.ToFloat64(m.StepsTotal))
}
