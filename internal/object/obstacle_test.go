package object

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func laneRules() SpawnRules {
	screen := NewScreen(100, 60)
	return SpawnRules{
		Screen:      screen,
		Lanes:       5,
		LaneSize:    20,
		PlayerWidth: 4,
		Speed:       10,
		LifeEvery:   23,
		Tree:        ObstacleStyle{ImageKey: "obstacleImage", Width: 20, Height: 10},
		Coffee:      ObstacleStyle{ImageKey: "lifeImage", Width: 10, Height: 5},
	}
}

func TestSpawnerKindRule(t *testing.T) {
	s := NewSpawner(laneRules(), rand.New(rand.NewSource(1)))
	assert.Equal(t, KindCoffee, s.KindAt(0))
	assert.Equal(t, KindCoffee, s.KindAt(46))
	assert.Equal(t, KindTree, s.KindAt(120))
}

func TestCandidateLanePlacement(t *testing.T) {
	s := NewSpawner(laneRules(), rand.New(rand.NewSource(3)))
	for i := 0; i < 200; i++ {
		o := s.Candidate(1)
		require.GreaterOrEqual(t, o.Lane, 0)
		require.Less(t, o.Lane, 5)
		assert.Equal(t, float64(o.Lane)*20, o.X)
		assert.Equal(t, 70.0, o.Y, "spawned one obstacle height below the bottom")
		assert.True(t, o.Active)
		assert.Equal(t, KindTree, o.Kind)
	}

	coffee := s.Candidate(23)
	assert.Equal(t, KindCoffee, coffee.Kind)
	assert.Equal(t, float64(coffee.Lane)*20+5, coffee.X, "coffee is centered in its lane")
}

func TestCandidateOpenMode(t *testing.T) {
	rules := laneRules()
	rules.Lanes = 0
	rules.LaneSize = 0
	s := NewSpawner(rules, rand.New(rand.NewSource(5)))
	for i := 0; i < 200; i++ {
		o := s.Candidate(1)
		assert.Equal(t, -1, o.Lane)
		require.GreaterOrEqual(t, o.X, 0.0)
		require.LessOrEqual(t, o.X+o.Width, 100.0)
	}
}

func TestSpawnNeverCrowds(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for round := 0; round < 200; round++ {
		rules := laneRules()
		rules.Lanes = 0
		s := NewSpawner(rules, rng)
		var a Arena
		for step := 0; step < 50; step++ {
			before := a.Len()
			if !s.Spawn(&a, step+1) {
				continue
			}
			added := a.At(before)
			for i := 0; i < before; i++ {
				o := a.At(i)
				if !o.Active {
					continue
				}
				require.GreaterOrEqual(t, GetDistance(&o.Sprite, &added.Sprite), 3*rules.PlayerWidth)
			}
			// scroll everything up so later spawns see a mix of positions
			for i := range a.All() {
				a.At(i).Move(0, -rng.Float64()*2, 1)
			}
		}
		require.LessOrEqual(t, a.Len(), MaxObstacles)
	}
}

func TestSpawnRejectsCrowdedLane(t *testing.T) {
	rules := laneRules()
	rules.Lanes = 1
	rules.LaneSize = 100
	s := NewSpawner(rules, rand.New(rand.NewSource(1)))
	var a Arena
	require.True(t, s.Spawn(&a, 1))
	assert.False(t, s.Spawn(&a, 1), "same lane, same row is crowded")

	a.At(0).Active = false
	assert.True(t, s.Spawn(&a, 1), "inactive obstacles do not crowd")
}

func TestArenaCapacity(t *testing.T) {
	rules := laneRules()
	rules.PlayerWidth = 0
	s := NewSpawner(rules, rand.New(rand.NewSource(2)))
	var a Arena
	for i := 0; i < MaxObstacles+3; i++ {
		s.Spawn(&a, 1)
	}
	assert.True(t, a.Full())
	assert.Equal(t, MaxObstacles, a.Len())
	assert.False(t, s.Spawn(&a, 1))

	a.Reset()
	assert.Zero(t, a.Len())
}

func TestRecycleReusesSlot(t *testing.T) {
	rules := laneRules()
	s := NewSpawner(rules, rand.New(rand.NewSource(9)))
	var a Arena
	require.True(t, s.Spawn(&a, 1))

	o := a.At(0)
	o.Active = false
	for !o.OffScreen(rules.Screen) {
		o.Move(0, -1, 1)
	}
	assert.Less(t, o.Y, -o.Height)

	require.True(t, s.Recycle(&a, 0, 23))
	assert.Same(t, o, a.At(0))
	assert.Equal(t, 1, a.Len())
	assert.True(t, o.Active)
	assert.Equal(t, KindCoffee, o.Kind)
	assert.Equal(t, 65.0, o.Y)
}

func TestRecycleSkipsCrowdedDraw(t *testing.T) {
	rules := laneRules()
	rules.Lanes = 1
	rules.LaneSize = 100
	s := NewSpawner(rules, rand.New(rand.NewSource(4)))
	var a Arena
	require.True(t, s.Spawn(&a, 1))
	a.At(0).SetXY(0, -100)
	require.True(t, s.Spawn(&a, 1))

	assert.False(t, s.Recycle(&a, 0, 1), "slot 1 sits at the spawn point")
	assert.Less(t, a.At(0).Y, 0.0)
}
