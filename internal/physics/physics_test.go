package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	assert.InDelta(t, 5.0, Distance(0, 0, 3, 4), 1e-9)
	assert.InDelta(t, 25.0, DistanceSquared(0, 0, 3, 4), 1e-9)
	assert.Zero(t, Distance(2, 2, 2, 2))
}

func TestCirclesOverlap(t *testing.T) {
	assert.True(t, CirclesOverlap(0, 0, 2, 3, 0, 2))
	assert.False(t, CirclesOverlap(0, 0, 1, 2, 0, 1), "touching circles do not overlap")
	assert.Equal(t, CirclesOverlap(0, 0, 1, 1.5, 0, 1), CirclesOverlap(1.5, 0, 1, 0, 0, 1))
}

func TestBounded(t *testing.T) {
	assert.Equal(t, 5.0, Bounded(5, 0, 10))
	assert.Equal(t, 0.0, Bounded(-3, 0, 10))
	assert.Equal(t, 10.0, Bounded(12, 0, 10))
	assert.Equal(t, 4.0, Bounded(7, 4, 2), "inverted range clamps to lo")
}

func TestApproach(t *testing.T) {
	assert.Equal(t, 5.0, Approach(0, 10, 0.5))
	assert.Equal(t, 10.0, Approach(0, 10, 3), "fraction is capped at 1")
	assert.Equal(t, 0.0, Approach(0, 10, -1))
}
