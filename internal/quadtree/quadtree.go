// Package quadtree indexes points on a plane for circular range queries.
package quadtree

// maxDepth bounds subdivision so that many coincident points cannot recurse
// forever. Nodes at this depth keep accepting points past capacity.
const maxDepth = 16

// Rect is an axis-aligned rectangle given by its center and full extents.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

func (r Rect) minX() float64 { return r.X - r.Width/2 }
func (r Rect) maxX() float64 { return r.X + r.Width/2 }
func (r Rect) minY() float64 { return r.Y - r.Height/2 }
func (r Rect) maxY() float64 { return r.Y + r.Height/2 }

// Contains is closed on every edge.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.minX() && x <= r.maxX() && y >= r.minY() && y <= r.maxY()
}

// Intersects reports whether the rectangle overlaps the circle's bounding box.
func (r Rect) Intersects(c Circle) bool {
	return !(c.X-c.R > r.maxX() || c.X+c.R < r.minX() ||
		c.Y-c.R > r.maxY() || c.Y+c.R < r.minY())
}

type Circle struct {
	X, Y float64
	R    float64
}

func (c Circle) Contains(x, y float64) bool {
	dx, dy := x-c.X, y-c.Y
	return dx*dx+dy*dy <= c.R*c.R
}

type Point[T any] struct {
	X, Y float64
	Data T
}

type QuadTree[T any] struct {
	bounds   Rect
	capacity int
	depth    int
	points   []Point[T]
	children *[4]*QuadTree[T]
}

// New creates an empty tree. A capacity below 1 is raised to 1.
func New[T any](bounds Rect, capacity int) *QuadTree[T] {
	return newNode[T](bounds, max(capacity, 1), 0)
}

func newNode[T any](bounds Rect, capacity, depth int) *QuadTree[T] {
	return &QuadTree[T]{bounds: bounds, capacity: capacity, depth: depth}
}

func (q *QuadTree[T]) Bounds() Rect {
	return q.bounds
}

// Add inserts p and reports whether it was stored. Points outside the root
// bounds are dropped.
func (q *QuadTree[T]) Add(p Point[T]) bool {
	if !q.bounds.Contains(p.X, p.Y) {
		return false
	}
	q.insert(p)
	return true
}

func (q *QuadTree[T]) insert(p Point[T]) {
	if q.children == nil {
		if len(q.points) < q.capacity || q.depth >= maxDepth {
			q.points = append(q.points, p)
			return
		}
		q.subdivide()
	}
	q.children[q.quadrant(p.X, p.Y)].insert(p)
}

// subdivide splits the node and pushes its points down to the children.
func (q *QuadTree[T]) subdivide() {
	w, h := q.bounds.Width/2, q.bounds.Height/2
	x, y := q.bounds.X, q.bounds.Y
	d := q.depth + 1

	q.children = &[4]*QuadTree[T]{
		newNode[T](Rect{X: x - w/2, Y: y - h/2, Width: w, Height: h}, q.capacity, d),
		newNode[T](Rect{X: x + w/2, Y: y - h/2, Width: w, Height: h}, q.capacity, d),
		newNode[T](Rect{X: x - w/2, Y: y + h/2, Width: w, Height: h}, q.capacity, d),
		newNode[T](Rect{X: x + w/2, Y: y + h/2, Width: w, Height: h}, q.capacity, d),
	}

	points := q.points
	q.points = nil
	for _, p := range points {
		q.children[q.quadrant(p.X, p.Y)].insert(p)
	}
}

// quadrant picks exactly one child; points on a split line go to the lower/left side.
func (q *QuadTree[T]) quadrant(x, y float64) int {
	i := 0
	if x > q.bounds.X {
		i |= 1
	}
	if y > q.bounds.Y {
		i |= 2
	}
	return i
}

// PointsInCircle returns every stored point inside c, boundary included.
func (q *QuadTree[T]) PointsInCircle(c Circle) []Point[T] {
	var found []Point[T]
	q.query(c, &found)
	return found
}

func (q *QuadTree[T]) query(c Circle, found *[]Point[T]) {
	if !q.bounds.Intersects(c) {
		return
	}
	for _, p := range q.points {
		if c.Contains(p.X, p.Y) {
			*found = append(*found, p)
		}
	}
	if q.children == nil {
		return
	}
	for _, child := range q.children {
		child.query(c, found)
	}
}

// Len returns the number of stored points.
func (q *QuadTree[T]) Len() int {
	n := len(q.points)
	if q.children != nil {
		for _, child := range q.children {
			n += child.Len()
		}
	}
	return n
}

// Destroy releases every node. The tree is empty afterwards.
func (q *QuadTree[T]) Destroy() {
	if q.children != nil {
		for _, child := range q.children {
			child.Destroy()
		}
	}
	q.children = nil
	q.points = nil
}
