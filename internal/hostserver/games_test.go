package hostserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukev/catan2p/internal/catan"
)

func TestCreateGameAssignsDistinctIncrementingIDs(t *testing.T) {
	r := NewRegistry()
	a := r.CreateGame("alpha", catan.NewGameOptions{Seed1: 1, Seed2: 2})
	b := r.CreateGame("beta", catan.NewGameOptions{Seed1: 3, Seed2: 4})

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "1", a.ID)
	assert.Equal(t, "2", b.ID)
	assert.Equal(t, "alpha", a.Name)
	assert.False(t, a.GameOver)
}

func TestDriverReturnsNilForUnknownGame(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Driver("does-not-exist"))
}

func TestListGamesReflectsLiveGameOverState(t *testing.T) {
	r := NewRegistry()
	meta := r.CreateGame("solo", catan.NewGameOptions{Seed1: 5, Seed2: 6})

	driver := r.Driver(meta.ID)
	require.NotNil(t, driver)
	driver.State().GameOver = true // simulate a finished game without replaying to the end

	games := r.ListGames()
	require.Len(t, games, 1)
	assert.True(t, games[0].GameOver)
}
