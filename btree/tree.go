package btree

import (
	"cmp"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
)

var (
	// ErrDuplicateKey reports an insertion of a key that is already stored.
	ErrDuplicateKey = errors.New("key already exists")
	// ErrKeyNotFound reports a lookup or deletion of a key that is not stored.
	ErrKeyNotFound = errors.New("key not found")
)

/*
Tree owns the root node and the running counters.
A tree is made up of nodes; each node holds between MinKeys and MaxKeys keys, except the root which may hold fewer.

A Tree is not safe for concurrent use. Callers that share one across goroutines must serialize access themselves.
*/
type Tree[K any] struct {
	root    *node[K]
	compare func(a, b K) int
	maxKeys int
	minKeys int
	size    int
	height  int

	log    *logrus.Entry
	checks bool
}

// New creates an empty tree of naturally ordered keys holding at most maxKeys keys per node.
func New[K cmp.Ordered](maxKeys int, opts ...Option) *Tree[K] {
	return NewFunc(maxKeys, cmp.Compare[K], opts...)
}

// NewFunc creates an empty tree ordered by compare, which must return a negative number, zero or a positive number
// when a is less than, equal to or greater than b.
func NewFunc[K any](maxKeys int, compare func(a, b K) int, opts ...Option) *Tree[K] {
	if maxKeys < 2 {
		panic(errors.AssertionFailedf("btree: max keys must be at least 2, got %d", maxKeys))
	}
	o := buildOptions(opts)
	return &Tree[K]{
		root:    &node[K]{},
		compare: compare,
		maxKeys: maxKeys,
		minKeys: maxKeys / 2,
		height:  1,
		log:     o.logger,
		checks:  o.checkInvariants,
	}
}

// Len returns the number of keys in the tree.
func (t *Tree[K]) Len() int { return t.size }

// Height returns the number of levels from the root to the leaves, inclusive.
func (t *Tree[K]) Height() int { return t.height }

// MaxKeys returns the number of keys a node may hold before it splits.
func (t *Tree[K]) MaxKeys() int { return t.maxKeys }

// MinKeys returns the number of keys every non-root node keeps after a deletion.
func (t *Tree[K]) MinKeys() int { return t.minKeys }

// Search reports whether key is stored in the tree.
func (t *Tree[K]) Search(key K) bool {
	_, _, found := t.root.find(key, t.compare)
	return found
}

// Min returns the smallest key. ok is false when the tree is empty.
func (t *Tree[K]) Min() (key K, ok bool) {
	if t.size == 0 {
		return key, false
	}
	return t.root.leftmost().keys[0], true
}

// Max returns the largest key. ok is false when the tree is empty.
func (t *Tree[K]) Max() (key K, ok bool) {
	if t.size == 0 {
		return key, false
	}
	leaf := t.root.rightmost()
	return leaf.keys[len(leaf.keys)-1], true
}

/*
Insert adds key and returns true, or returns false without touching the tree if key is already present.
The key always lands in a leaf. A full node is split around its median and the median travels up
into the parent, which may split in turn. When the root splits, a new root is created above it.
*/
func (t *Tree[K]) Insert(key K) bool {
	n, pos, found := t.root.find(key, t.compare)
	if found {
		return false
	}
	t.insertAt(n, pos, key, nil, nil)
	t.size++
	t.verify("insert")
	return true
}

func (t *Tree[K]) insertAt(n *node[K], pos int, key K, left, right *node[K]) {
	for {
		if len(n.keys) < t.maxKeys {
			n.insertAt(pos, key, left, right)
			return
		}

		median, l, r := n.split(pos, key, left, right)
		parent := n.parent
		n.parent = nil

		if parent == nil {
			t.root = newNode([]K{median}, []*node[K]{l, r})
			t.height++
			t.trace("grow", median)
			return
		}

		t.trace("split", median)
		// The median is synthesized by the split, so it goes into the parent without another lookup.
		pos = parent.index(n)
		n, key, left, right = parent, median, l, r
	}
}

/*
Delete removes key and returns true, or returns false without touching the tree if key is absent.
A key held by an inner node is replaced by its in-order successor, the smallest key of the right subtree,
so the physical removal always happens in a leaf. A leaf left with too few keys is rebalanced.
*/
func (t *Tree[K]) Delete(key K) bool {
	n, pos, found := t.root.find(key, t.compare)
	if !found {
		return false
	}

	if !n.isLeaf() {
		leaf := n.children[pos+1].leftmost()
		n.keys[pos] = leaf.keys[0]
		n, pos = leaf, 0
	}

	n.removeKeyAt(pos)
	t.size--
	t.rebalance(n)
	t.verify("delete")
	return true
}

/*
rebalance restores the minimum key count of n and, after merges, of its ancestors.
A sibling with a spare key lends it through the parent (right sibling first, then left).
Otherwise n is merged with a sibling (the left one when it exists), which costs the parent a key.
The root is exempt from the minimum; a root left without keys is replaced by its only child.
*/
func (t *Tree[K]) rebalance(n *node[K]) {
	for n.parent != nil && len(n.keys) < t.minKeys {
		parent := n.parent
		i := parent.index(n)
		left, right := parent.siblings(i)

		switch {
		case right != nil && len(right.keys) > t.minKeys:
			parent.rotateLeft(i)
			t.trace("rotate-left", parent.keys[i])
			return
		case left != nil && len(left.keys) > t.minKeys:
			parent.rotateRight(i)
			t.trace("rotate-right", parent.keys[i-1])
			return
		case left == nil && right == nil:
			panic(errors.AssertionFailedf("btree: underflowing node has no siblings"))
		}

		var survivor *node[K]
		if left != nil {
			survivor = parent.merge(i - 1)
		} else {
			survivor = parent.merge(i)
		}
		t.trace("merge", survivor.keys[0])

		if parent == t.root {
			if len(parent.keys) == 0 {
				t.root = survivor
				survivor.parent = nil
				parent.children = nil
				t.height--
				t.trace("shrink", survivor.keys[0])
			}
			return
		}
		n = parent
	}
}

func (t *Tree[K]) trace(op string, key K) {
	if !t.log.Logger.IsLevelEnabled(logrus.TraceLevel) {
		return
	}
	t.log.WithFields(logrus.Fields{
		"op":     op,
		"key":    key,
		"size":   t.size,
		"height": t.height,
	}).Trace("btree structure changed")
}

// verify runs the full consistency check after a mutation when invariant checks are enabled.
func (t *Tree[K]) verify(op string) {
	if !t.checks {
		return
	}
	if err := t.Validate(); err != nil {
		panic(errors.WithAssertionFailure(errors.Wrapf(err, "after %s", op)))
	}
}
