package orthtree_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lesves/galaxy/internal/orthtree"
	"github.com/lesves/galaxy/internal/spatial"
)

// accum mirrors the Barnes-Hut summary: count and position sum.
type accum struct {
	count int
	sum   spatial.Vector
}

func fold(a accum, p spatial.Point) accum {
	if a.sum == nil {
		a.sum = spatial.Zero(len(p))
	} else {
		a.sum = a.sum.Clone()
	}
	a.sum.AddInPlace(p)
	a.count++
	return a
}

func newTree(dim, capacity int, extent float64) *orthtree.Tree[spatial.Point, accum] {
	policy := orthtree.Policy[spatial.Point, accum]{
		GetPoint: func(p spatial.Point) spatial.Point { return p },
		Fold:     fold,
		Capacity: capacity,
	}
	return orthtree.New(policy, spatial.NewCube(spatial.Zero(dim), extent))
}

func leaves(root *orthtree.Node[spatial.Point, accum]) []*orthtree.Node[spatial.Point, accum] {
	var out []*orthtree.Node[spatial.Point, accum]
	root.Walk(func(n *orthtree.Node[spatial.Point, accum]) {
		if n.IsLeaf() {
			out = append(out, n)
		}
	})
	return out
}

var _ = Describe("QuadTree", func() {
	It("accepts points inside the root box and places them in a containing leaf", func() {
		tree := newTree(2, 1, 1)
		pt := spatial.Point{0.3, -0.4}

		Expect(tree.Insert(pt)).To(BeTrue())

		var holding int
		for _, leaf := range leaves(tree.Root()) {
			for _, item := range leaf.Items() {
				if item[0] == pt[0] && item[1] == pt[1] {
					holding++
					Expect(leaf.BBox().Contains(pt)).To(BeTrue())
				}
			}
		}
		Expect(holding).To(Equal(1))
	})

	It("rejects points outside the root box and leaves the tree unchanged", func() {
		tree := newTree(2, 1, 1)
		for _, pt := range []spatial.Point{{0.1, 0.1}, {0.1, -0.1}, {-0.1, 0.1}, {-0.1, -0.1}} {
			Expect(tree.Insert(pt)).To(BeTrue())
		}

		Expect(tree.Insert(spatial.Point{2, 0})).To(BeFalse())

		Expect(tree.Root().Accum.count).To(Equal(4))
		total := 0
		for _, leaf := range leaves(tree.Root()) {
			total += len(leaf.Items())
		}
		Expect(total).To(Equal(4))
	})

	It("subdivides four quadrant points into exactly four leaves", func() {
		tree := newTree(2, 1, 1)
		for _, pt := range []spatial.Point{{0.1, 0.1}, {0.1, -0.1}, {-0.1, 0.1}, {-0.1, -0.1}} {
			Expect(tree.Insert(pt)).To(BeTrue())
		}

		root := tree.Root()
		Expect(root.IsLeaf()).To(BeFalse())
		Expect(root.Children()).To(HaveLen(4))
		for _, child := range root.Children() {
			Expect(child.IsLeaf()).To(BeTrue())
			Expect(child.Items()).To(HaveLen(1))
		}
		Expect(root.Accum.count).To(Equal(4))
	})

	It("lays children out in canonical orthant order", func() {
		tree := newTree(2, 1, 1)
		Expect(tree.Insert(spatial.Point{0.1, 0.1})).To(BeTrue())
		Expect(tree.Insert(spatial.Point{-0.1, -0.1})).To(BeTrue())

		children := tree.Root().Children()
		Expect(children).To(HaveLen(4))
		// Bit d of the child index selects the upper half on axis d.
		wantCenters := []spatial.Point{
			{-0.5, -0.5},
			{0.5, -0.5},
			{-0.5, 0.5},
			{0.5, 0.5},
		}
		for i, child := range children {
			box := child.BBox()
			Expect(box.Center).To(Equal(wantCenters[i]))
			Expect(box.Extent).To(Equal(spatial.Vector{0.5, 0.5}))
		}
	})

	It("sends boundary points to the lower-side child", func() {
		tree := newTree(2, 1, 1)
		Expect(tree.Insert(spatial.Point{0.1, 0.1})).To(BeTrue())
		Expect(tree.Insert(spatial.Point{-0.1, -0.1})).To(BeTrue())

		// (0, 0) lies on the shared corner of all four children.
		Expect(tree.Insert(spatial.Point{0, 0})).To(BeTrue())
		lower := tree.Root().Children()[0]
		found := false
		lower.Walk(func(n *orthtree.Node[spatial.Point, accum]) {
			for _, item := range n.Items() {
				if item[0] == 0 && item[1] == 0 {
					found = true
				}
			}
		})
		Expect(found).To(BeTrue())
	})

	It("partitions a random point set without loss or duplication", func() {
		rng := rand.New(rand.NewSource(7))
		tree := newTree(2, 4, 1)

		const n = 200
		points := make([]spatial.Point, n)
		for i := range points {
			points[i] = spatial.Point{rng.Float64()*2 - 1, rng.Float64()*2 - 1}
			Expect(tree.Insert(points[i])).To(BeTrue())
		}

		all := leaves(tree.Root())
		total := 0
		for _, leaf := range all {
			total += len(leaf.Items())
			Expect(len(leaf.Items())).To(BeNumerically("<=", 4))
			for _, item := range leaf.Items() {
				Expect(leaf.BBox().Contains(item)).To(BeTrue())
			}
		}
		Expect(total).To(Equal(n))

		// Leaf interiors are pairwise disjoint.
		for i := range all {
			for j := i + 1; j < len(all); j++ {
				Expect(all[i].BBox().Intersects(all[j].BBox())).To(BeFalse())
			}
		}
	})

	It("keeps accumulators equal to the fold over all contained items", func() {
		rng := rand.New(rand.NewSource(13))
		tree := newTree(2, 2, 1)
		for i := 0; i < 100; i++ {
			tree.Insert(spatial.Point{rng.Float64()*2 - 1, rng.Float64()*2 - 1})
		}

		tree.Root().Walk(func(n *orthtree.Node[spatial.Point, accum]) {
			count := 0
			sum := spatial.Zero(2)
			n.Walk(func(m *orthtree.Node[spatial.Point, accum]) {
				for _, item := range m.Items() {
					count++
					sum.AddInPlace(item)
				}
			})
			Expect(n.Accum.count).To(Equal(count))
			if count > 0 {
				Expect(n.Accum.sum[0]).To(BeNumerically("~", sum[0], 1e-9))
				Expect(n.Accum.sum[1]).To(BeNumerically("~", sum[1], 1e-9))
			}
		})
	})

	It("stops subdividing co-located points at floating-point resolution", func() {
		tree := newTree(2, 1, 1)
		pt := spatial.Point{0.25, 0.25}
		Expect(tree.Insert(pt.Clone())).To(BeTrue())
		Expect(tree.Insert(pt.Clone())).To(BeTrue())

		Expect(tree.Root().Accum.count).To(Equal(2))
		total := 0
		for _, leaf := range leaves(tree.Root()) {
			total += len(leaf.Items())
		}
		Expect(total).To(Equal(2))
	})
})

var _ = Describe("OctTree", func() {
	It("subdivides into eight children that tile the parent", func() {
		tree := newTree(3, 1, 1)
		Expect(tree.Insert(spatial.Point{0.1, 0.1, 0.1})).To(BeTrue())
		Expect(tree.Insert(spatial.Point{-0.1, -0.1, -0.1})).To(BeTrue())

		children := tree.Root().Children()
		Expect(children).To(HaveLen(8))
		for i, child := range children {
			box := child.BBox()
			Expect(box.Extent).To(Equal(spatial.Vector{0.5, 0.5, 0.5}))
			for d := 0; d < 3; d++ {
				want := -0.5
				if i&(1<<d) != 0 {
					want = 0.5
				}
				Expect(box.Center[d]).To(Equal(want))
			}
		}
	})

	It("routes a point into every octant", func() {
		tree := newTree(3, 1, 1)
		var pts []spatial.Point
		for i := 0; i < 8; i++ {
			pt := spatial.Point{-0.3, -0.3, -0.3}
			for d := 0; d < 3; d++ {
				if i&(1<<d) != 0 {
					pt[d] = 0.3
				}
			}
			pts = append(pts, pt)
			Expect(tree.Insert(pt)).To(BeTrue())
		}

		children := tree.Root().Children()
		Expect(children).To(HaveLen(8))
		for i, child := range children {
			Expect(child.Items()).To(HaveLen(1))
			Expect(child.Items()[0]).To(Equal(pts[i]))
		}
	})
})
