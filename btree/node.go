package btree

import (
	"slices"

	"github.com/cockroachdb/errors"
)

/*
node holds an ordered run of keys and, for inner nodes, one more child than it has keys.
children[i] holds every key between keys[i-1] and keys[i].
parent is a back-reference used only to walk upward during split and merge; it never owns anything.
*/
type node[K any] struct {
	keys     []K
	children []*node[K] // nil for leaves
	parent   *node[K]
}

// newNode takes ownership of keys and children and points every child back at the new node.
func newNode[K any](keys []K, children []*node[K]) *node[K] {
	n := &node[K]{keys: keys, children: children}
	for _, c := range children {
		c.parent = n
	}
	return n
}

func (n *node[K]) isLeaf() bool {
	return n.children == nil
}

/*
If key is present in n, return its index and true.
Else, return the index where the key would have to be inserted to keep n.keys sorted.
This is the lower bound of the key and coincides with the child pointer to follow when descending.
*/
func (n *node[K]) search(key K, compare func(a, b K) int) (int, bool) {
	low, high := 0, len(n.keys)
	for low < high {
		mid := int(uint(low+high) >> 1)
		switch cmp := compare(key, n.keys[mid]); {
		case cmp > 0:
			low = mid + 1
		case cmp < 0:
			high = mid
		default:
			return mid, true
		}
	}
	return low, false
}

// find walks down from n. It returns the node holding key, or the leaf where key belongs, and the slot in that node.
func (n *node[K]) find(key K, compare func(a, b K) int) (*node[K], int, bool) {
	for {
		pos, found := n.search(key, compare)
		if found || n.isLeaf() {
			return n, pos, found
		}
		n = n.children[pos]
	}
}

func (n *node[K]) leftmost() *node[K] {
	for !n.isLeaf() {
		n = n.children[0]
	}
	return n
}

func (n *node[K]) rightmost() *node[K] {
	for !n.isLeaf() {
		n = n.children[len(n.children)-1]
	}
	return n
}

// index returns the position of child among n.children.
func (n *node[K]) index(child *node[K]) int {
	i := slices.Index(n.children, child)
	if i < 0 {
		panic(errors.AssertionFailedf("btree: node is not a child of its parent"))
	}
	return i
}

// siblings returns the neighbours of children[i]. Either may be nil.
func (n *node[K]) siblings(i int) (left, right *node[K]) {
	if i > 0 {
		left = n.children[i-1]
	}
	if i < len(n.children)-1 {
		right = n.children[i+1]
	}
	return left, right
}

/*
insertAt places key at pos in a node that still has room.
For inner nodes, left and right are the two halves of the child that used to live at children[pos]:
left takes its slot and right goes immediately after it.
*/
func (n *node[K]) insertAt(pos int, key K, left, right *node[K]) {
	n.checkIncoming(left, right)
	n.keys = slices.Insert(n.keys, pos, key)
	if left == nil {
		return
	}
	n.children[pos] = left
	n.children = slices.Insert(n.children, pos+1, right)
	left.parent, right.parent = n, n
}

/*
split is insertAt for a node that is already full.
It forms the would-be key sequence (and child sequence for inner nodes) and cuts it around the median.
Everything left of the median goes into a new left node, everything right of it into a new right node.
Both new nodes get freshly allocated slices, so nothing aliases the storage of n, which is discarded by the caller.
*/
func (n *node[K]) split(pos int, key K, left, right *node[K]) (K, *node[K], *node[K]) {
	n.checkIncoming(left, right)

	keys := make([]K, 0, len(n.keys)+1)
	keys = append(keys, n.keys[:pos]...)
	keys = append(keys, key)
	keys = append(keys, n.keys[pos:]...)

	mid := len(keys) / 2

	var leftChildren, rightChildren []*node[K]
	if !n.isLeaf() {
		children := make([]*node[K], 0, len(n.children)+1)
		children = append(children, n.children[:pos]...)
		children = append(children, left, right)
		children = append(children, n.children[pos+1:]...)
		leftChildren = slices.Clone(children[:mid+1])
		rightChildren = slices.Clone(children[mid+1:])
	}

	l := newNode(slices.Clone(keys[:mid]), leftChildren)
	r := newNode(slices.Clone(keys[mid+1:]), rightChildren)
	return keys[mid], l, r
}

// Leaves only ever receive plain keys and inner nodes only ever receive a key with two halves.
func (n *node[K]) checkIncoming(left, right *node[K]) {
	if n.isLeaf() != (left == nil) || (left == nil) != (right == nil) {
		panic(errors.AssertionFailedf("btree: structural insert mismatch (leaf=%t, halves=%t/%t)",
			n.isLeaf(), left != nil, right != nil))
	}
}

func (n *node[K]) removeKeyAt(pos int) K {
	key := n.keys[pos]
	n.keys = slices.Delete(n.keys, pos, pos+1)
	return key
}

/*
rotateLeft fixes children[i] by borrowing through the separator keys[i] from its right sibling:
the separator moves down to the end of children[i], the sibling's first key replaces it,
and for inner nodes the sibling's first child moves over as well.
*/
func (n *node[K]) rotateLeft(i int) {
	child, right := n.children[i], n.children[i+1]

	child.keys = append(child.keys, n.keys[i])
	n.keys[i] = right.removeKeyAt(0)

	if !right.isLeaf() {
		moved := right.children[0]
		right.children = slices.Delete(right.children, 0, 1)
		child.children = append(child.children, moved)
		moved.parent = child
	}
}

// rotateRight is the mirror of rotateLeft: children[i] borrows from its left sibling through keys[i-1].
func (n *node[K]) rotateRight(i int) {
	left, child := n.children[i-1], n.children[i]

	child.keys = slices.Insert(child.keys, 0, n.keys[i-1])
	n.keys[i-1] = left.removeKeyAt(len(left.keys) - 1)

	if !left.isLeaf() {
		last := len(left.children) - 1
		moved := left.children[last]
		left.children = slices.Delete(left.children, last, last+1)
		child.children = slices.Insert(child.children, 0, moved)
		moved.parent = child
	}
}

/*
merge folds children[i+1] and the separator keys[i] into children[i].
The surviving node gets new key and child slices; the absorbed node is detached and dropped.
n loses one key and one child.
*/
func (n *node[K]) merge(i int) *node[K] {
	left, right := n.children[i], n.children[i+1]

	keys := make([]K, 0, len(left.keys)+1+len(right.keys))
	keys = append(keys, left.keys...)
	keys = append(keys, n.keys[i])
	keys = append(keys, right.keys...)
	left.keys = keys

	if !left.isLeaf() {
		children := make([]*node[K], 0, len(left.children)+len(right.children))
		children = append(children, left.children...)
		children = append(children, right.children...)
		for _, c := range right.children {
			c.parent = left
		}
		left.children = children
	}

	n.keys = slices.Delete(n.keys, i, i+1)
	n.children = slices.Delete(n.children, i+1, i+2)

	right.parent, right.keys, right.children = nil, nil, nil
	return left
}
