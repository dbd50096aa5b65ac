package rollout

import (
	"math/rand/v2"

	"github.com/lukev/catan2p/internal/catan"
)

// RandomPolicy picks uniformly among the legal actions, using a PCG64
// stream independent of the episode's own catan.State RNG so policy
// exploration never perturbs the game's deterministic dice stream.
type RandomPolicy struct {
	r *rand.Rand
}

// NewRandomPolicyFactory builds one RandomPolicy per worker, each seeded
// off the worker id so repeated runs with the same base seed pick the same
// actions.
func NewRandomPolicyFactory(baseSeed uint64) PolicyFactory {
	return func(workerID int) Policy {
		return &RandomPolicy{r: rand.New(rand.NewPCG(baseSeed, uint64(workerID)))}
	}
}

func (p *RandomPolicy) SelectAction(state *catan.State, legal []catan.Action) catan.Action {
	return legal[p.r.IntN(len(legal))]
}
