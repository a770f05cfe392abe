// Package orthtree implements a dimension-generic spatial subdivision tree:
// a quadtree over 2D boxes, an octree over 3D boxes. Leaves hold up to
// Capacity items; overflow splits the leaf into 2^D children that tile the
// parent box exactly. An optional accumulator summarizes all items below a
// node, which is what makes the tree usable for Barnes–Hut force evaluation.
package orthtree

import "github.com/lesves/galaxy/internal/spatial"

// Policy supplies the hooks the tree needs from its item type: where an
// item is, how (and whether) to fold it into a per-node accumulator, and
// the leaf capacity. Fold may be nil, in which case no summaries are kept.
type Policy[T any, A any] struct {
	GetPoint func(T) spatial.Point
	Fold     func(acc A, item T) A
	Capacity int
}

// Node is a tree node: either a leaf bucket of items or 2^D children,
// never both. Accum is the fold over every item transitively below.
type Node[T any, A any] struct {
	box      spatial.Box
	items    []T
	children []*Node[T, A]
	Accum    A
}

func (n *Node[T, A]) IsLeaf() bool            { return n.children == nil }
func (n *Node[T, A]) BBox() spatial.Box       { return n.box }
func (n *Node[T, A]) Items() []T              { return n.items }
func (n *Node[T, A]) Children() []*Node[T, A] { return n.children }

// Tree is the root handle.
type Tree[T any, A any] struct {
	policy Policy[T, A]
	root   Node[T, A]
}

// New builds an empty tree over the given root box.
func New[T any, A any](policy Policy[T, A], box spatial.Box) *Tree[T, A] {
	if policy.Capacity < 1 {
		policy.Capacity = 1
	}
	return &Tree[T, A]{policy: policy, root: Node[T, A]{box: box}}
}

// Insert places item in the leaf whose box contains its point, folding it
// into the accumulator of every node on the way down. It returns false,
// leaving the tree untouched, when the point lies outside the root box.
func (t *Tree[T, A]) Insert(item T) bool {
	return t.root.insert(&t.policy, item)
}

// Root exposes the root node for traversal. Callers must not mutate the
// tree through it.
func (t *Tree[T, A]) Root() *Node[T, A] {
	return &t.root
}

func (n *Node[T, A]) insert(policy *Policy[T, A], item T) bool {
	if !n.box.Contains(policy.GetPoint(item)) {
		return false
	}

	if n.children != nil {
		for _, child := range n.children {
			if child.insert(policy, item) {
				if policy.Fold != nil {
					n.Accum = policy.Fold(n.Accum, item)
				}
				return true
			}
		}
		// Contained by this node but by no child: impossible while the
		// children tile the parent box.
		panic("orthtree: item contained by node but rejected by all children")
	}

	if policy.Fold != nil {
		n.Accum = policy.Fold(n.Accum, item)
	}
	n.items = append(n.items, item)

	if len(n.items) > policy.Capacity && splittable(n.box) {
		n.subdivide(policy)
	}
	return true
}

// splittable reports whether halving the box still moves some child center
// away from the parent center. Below floating-point resolution subdivision
// would loop forever on co-located points, so such leaves are allowed to
// exceed capacity instead.
func splittable(box spatial.Box) bool {
	for d := range box.Extent {
		half := box.Extent[d] / 2
		if box.Center[d]-half != box.Center[d] || box.Center[d]+half != box.Center[d] {
			return true
		}
	}
	return false
}

// subdivide splits a leaf into 2^D children in canonical orthant order and
// redistributes its items. Child k covers the lower half on axis d when bit
// d of k is clear and the upper half when it is set; ordering is axis-major,
// so ties on a shared boundary land in the lower-side child first.
func (n *Node[T, A]) subdivide(policy *Policy[T, A]) {
	dim := n.box.Dim()
	children := make([]*Node[T, A], 1, 1<<dim)
	children[0] = &Node[T, A]{box: spatial.Box{
		Center: n.box.Center.Clone(),
		Extent: n.box.Extent.Clone(),
	}}

	for d := 0; d < dim; d++ {
		for i := 0; i < 1<<d; i++ {
			half := children[i].box.Extent[d] / 2
			lower := children[i].box.Center[d] - half
			upper := children[i].box.Center[d] + half

			upperBox := spatial.Box{
				Center: children[i].box.Center.Clone(),
				Extent: children[i].box.Extent.Clone(),
			}
			upperBox.Center[d] = upper
			upperBox.Extent[d] = half
			children = append(children, &Node[T, A]{box: upperBox})

			children[i].box.Center[d] = lower
			children[i].box.Extent[d] = half
		}
	}

	items := n.items
	n.items = nil
	n.children = children

	for _, item := range items {
		placed := false
		for _, child := range children {
			if child.insert(policy, item) {
				placed = true
				break
			}
		}
		if !placed {
			panic("orthtree: subdivision failed to place an item")
		}
	}
}

// Walk visits every node in depth-first order, parents before children.
func (n *Node[T, A]) Walk(visit func(*Node[T, A])) {
	visit(n)
	for _, child := range n.children {
		child.Walk(visit)
	}
}
