package neighbor

import (
	"math/rand/v2"
	"testing"

	"cupheat/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scatter(n int, seed uint64) []geometry.Vec3 {
	rng := rand.New(rand.NewPCG(seed, 0))
	pts := make([]geometry.Vec3, n)
	for i := range pts {
		pts[i] = geometry.Vec3{X: rng.Float64() * 0.1, Y: rng.Float64()*0.1 - 0.05, Z: rng.Float64() * 0.03}
	}
	return pts
}

func bruteForce(pts []geometry.Vec3, radius float64) [][]int {
	out := make([][]int, len(pts))
	for i := range pts {
		for j := range pts {
			if i != j && pts[i].Dist(pts[j]) < radius {
				out[i] = append(out[i], j)
			}
		}
	}
	return out
}

func TestBuildMatchesBruteForce(t *testing.T) {
	pts := scatter(600, 42)
	for _, radius := range []float64{0.004, 0.011, 0.05} {
		idx, err := Build(pts, radius)
		require.NoError(t, err)
		require.Equal(t, len(pts), idx.Len())
		want := bruteForce(pts, radius)
		for i := range pts {
			var got []int
			for _, nb := range idx.Neighbors(i) {
				got = append(got, nb.Index)
				assert.InDelta(t, pts[i].Dist(pts[nb.Index]), nb.Distance, 0)
			}
			require.Equal(t, want[i], got, "radius %g point %d", radius, i)
		}
	}
}

func TestBuildIsSymmetric(t *testing.T) {
	pts := scatter(400, 7)
	idx, err := Build(pts, 0.015)
	require.NoError(t, err)
	for i := 0; i < idx.Len(); i++ {
		for _, nb := range idx.Neighbors(i) {
			found := false
			for _, back := range idx.Neighbors(nb.Index) {
				if back.Index == i {
					found = true
					assert.Equal(t, nb.Distance, back.Distance)
				}
			}
			assert.True(t, found, "%d lists %d but not vice versa", i, nb.Index)
		}
	}
}

func TestBoundaryDistanceIsExcluded(t *testing.T) {
	pts := []geometry.Vec3{{X: 0}, {X: 1}, {X: 0.5}}
	idx, err := Build(pts, 1)
	require.NoError(t, err)
	assert.Equal(t, []Neighbor{{Index: 2, Distance: 0.5}}, idx.Neighbors(0))
	assert.Equal(t, []Neighbor{{Index: 2, Distance: 0.5}}, idx.Neighbors(1))
	assert.Len(t, idx.Neighbors(2), 2)
}

func TestStats(t *testing.T) {
	pts := []geometry.Vec3{{X: 0}, {X: 0.1}, {X: 5}}
	idx, err := Build(pts, 0.5)
	require.NoError(t, err)
	s := idx.Stats()
	assert.Equal(t, 3, s.Points)
	assert.Equal(t, 1, s.Edges)
	assert.Equal(t, 0, s.MinDegree)
	assert.Equal(t, 1, s.MaxDegree)
	assert.Equal(t, 1, s.Isolated)
	assert.InDelta(t, 2.0/3.0, s.Mean, 1e-12)
	assert.Equal(t, 0.5, idx.Radius())
}

func TestBuildRejectsBadRadius(t *testing.T) {
	for _, r := range []float64{0, -1} {
		_, err := Build(nil, r)
		assert.ErrorIs(t, err, ErrInvalidRadius)
	}
	idx, err := Build(nil, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())
	assert.Equal(t, Stats{}, idx.Stats())
}
