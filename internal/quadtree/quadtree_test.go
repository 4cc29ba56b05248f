package quadtree

import (
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomPoints(seed uint64, n int, half float64) []Point[int] {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	pts := make([]Point[int], n)
	for i := range pts {
		pts[i] = Point[int]{
			X:    (rng.Float64()*2 - 1) * half,
			Y:    (rng.Float64()*2 - 1) * half,
			Data: i,
		}
	}
	return pts
}

func ids(pts []Point[int]) []int {
	out := make([]int, len(pts))
	for i, p := range pts {
		out[i] = p.Data
	}
	sort.Ints(out)
	return out
}

func TestWholeBoundsQueryReturnsEveryPoint(t *testing.T) {
	bounds := Rect{X: 0, Y: 0, Width: 400, Height: 400}
	qt := New[int](bounds, 30)
	pts := randomPoints(1, 2000, 200)

	for _, p := range pts {
		require.True(t, qt.Add(p))
	}
	assert.Equal(t, len(pts), qt.Len())

	found := qt.PointsInCircle(Circle{X: 0, Y: 0, R: 300})
	assert.Equal(t, ids(pts), ids(found))
}

func TestZeroRadiusQueryMatchesOnlyCoincidentPoints(t *testing.T) {
	qt := New[int](Rect{Width: 100, Height: 100}, 2)
	qt.Add(Point[int]{X: 10, Y: 10, Data: 1})
	qt.Add(Point[int]{X: 10, Y: 10, Data: 2})
	qt.Add(Point[int]{X: 10.001, Y: 10, Data: 3})
	qt.Add(Point[int]{X: -5, Y: 7, Data: 4})

	found := qt.PointsInCircle(Circle{X: 10, Y: 10, R: 0})
	assert.Equal(t, []int{1, 2}, ids(found))
}

func TestQueryInvariantToInsertionOrder(t *testing.T) {
	bounds := Rect{Width: 400, Height: 400}
	pts := randomPoints(7, 1500, 200)

	forward := New[int](bounds, 30)
	for _, p := range pts {
		forward.Add(p)
	}

	shuffled := append([]Point[int](nil), pts...)
	rng := rand.New(rand.NewPCG(3, 4))
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	other := New[int](bounds, 4)
	for _, p := range shuffled {
		other.Add(p)
	}

	circles := []Circle{
		{X: 0, Y: 0, R: 40},
		{X: 120, Y: -80, R: 25},
		{X: -199, Y: 199, R: 60},
		{X: 50, Y: 50, R: 0.5},
	}
	for _, c := range circles {
		assert.Equal(t, ids(forward.PointsInCircle(c)), ids(other.PointsInCircle(c)), "circle %+v", c)
	}
}

func TestQueryMatchesBruteForce(t *testing.T) {
	pts := randomPoints(11, 800, 200)
	qt := New[int](Rect{Width: 400, Height: 400}, 30)
	for _, p := range pts {
		qt.Add(p)
	}

	c := Circle{X: -30, Y: 60, R: 70}
	var want []Point[int]
	for _, p := range pts {
		if c.Contains(p.X, p.Y) {
			want = append(want, p)
		}
	}
	assert.Equal(t, ids(want), ids(qt.PointsInCircle(c)))
}

func TestOutOfBoundsInsertIsDropped(t *testing.T) {
	qt := New[int](Rect{Width: 10, Height: 10}, 1)
	assert.False(t, qt.Add(Point[int]{X: 6, Y: 0}))
	assert.True(t, qt.Add(Point[int]{X: 5, Y: -5}))
	assert.Equal(t, 1, qt.Len())
}

func TestSplitBoundaryGoesToLowerLeftChild(t *testing.T) {
	qt := New[int](Rect{Width: 10, Height: 10}, 1)
	qt.Add(Point[int]{X: 3, Y: 3, Data: 1})
	qt.Add(Point[int]{X: 0, Y: 0, Data: 2})

	require.NotNil(t, qt.children)
	assert.Equal(t, 1, qt.children[0].Len())
	assert.Equal(t, 2, qt.children[0].points[0].Data)
	assert.Equal(t, 1, qt.children[3].Len())
	assert.Equal(t, 2, qt.Len())
}

func TestCoincidentPointsStopAtMaxDepth(t *testing.T) {
	qt := New[int](Rect{Width: 10, Height: 10}, 1)
	for i := 0; i < 50; i++ {
		qt.Add(Point[int]{X: 1, Y: 1, Data: i})
	}
	assert.Equal(t, 50, qt.Len())
	assert.Len(t, qt.PointsInCircle(Circle{X: 1, Y: 1}), 50)
}

func TestDestroyEmptiesTree(t *testing.T) {
	qt := New[int](Rect{Width: 400, Height: 400}, 30)
	for _, p := range randomPoints(5, 200, 200) {
		qt.Add(p)
	}
	qt.Destroy()
	assert.Equal(t, 0, qt.Len())
	assert.Empty(t, qt.PointsInCircle(Circle{R: 1000}))
}
