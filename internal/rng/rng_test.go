package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalMoments(t *testing.T) {
	src := New(42)

	const n = 50000
	var sum, sumSq float64
	for i := 0; i < n; i++ {
		z := src.Normal()
		sum += z
		sumSq += z * z
	}
	mean := sum / n
	variance := sumSq/n - mean*mean

	assert.InDelta(t, 0.0, mean, 0.03)
	assert.InDelta(t, 1.0, variance, 0.05)
}

func TestIntBetweenInclusive(t *testing.T) {
	src := New(7)
	seen := map[int]bool{}
	for i := 0; i < 1000; i++ {
		v := src.IntBetween(3, 7)
		assert.GreaterOrEqual(t, v, 3)
		assert.LessOrEqual(t, v, 7)
		seen[v] = true
	}
	assert.Len(t, seen, 5)
}

func TestSeedIsDeterministic(t *testing.T) {
	a, b := New(99), New(99)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Normal(), b.Normal())
	}
}
