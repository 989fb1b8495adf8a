// Package skiplist is an ordered set of unique keys built on a probabilistic skip list.
// It serves as the reference model the B-tree is checked against and as a baseline in benchmarks.
package skiplist

import (
	"cmp"
	"math"
	"math/rand/v2"
)

const (
	MaxHeight = 16
	p         = 0.5
)

var probabilities [MaxHeight]uint32

type node[K any] struct {
	key   K
	tower [MaxHeight]*node[K]
}

type SkipList[K any] struct {
	head    *node[K] // starting head node
	height  int      // current height
	length  int
	compare func(a, b K) int
}

func init() {
	probability := 1.0

	for level := 0; level < MaxHeight; level++ {
		probabilities[level] = uint32(probability * float64(math.MaxUint32))
		probability *= p
	}
}

func randomHeight() int {
	seed := rand.Uint32()

	height := 1
	for height < MaxHeight && seed <= probabilities[height] {
		height++
	}

	return height
}

func New[K cmp.Ordered]() *SkipList[K] {
	return NewFunc(cmp.Compare[K])
}

func NewFunc[K any](compare func(a, b K) int) *SkipList[K] {
	return &SkipList[K]{
		head:    &node[K]{},
		height:  1,
		compare: compare,
	}
}

func (sl *SkipList[K]) search(key K) (*node[K], [MaxHeight]*node[K]) {
	var next *node[K]
	var journey [MaxHeight]*node[K]

	prev := sl.head
	// top to bottom level
	for level := sl.height - 1; level >= 0; level-- {
		for next = prev.tower[level]; next != nil; next = prev.tower[level] {
			// key <= next.key
			if sl.compare(key, next.key) <= 0 {
				break
			}
			// key > next.key
			prev = next
		}
		journey[level] = prev
	}

	if next != nil && sl.compare(key, next.key) == 0 {
		return next, journey
	}
	return nil, journey
}

func (sl *SkipList[K]) Contains(key K) bool {
	n, _ := sl.search(key)
	return n != nil
}

// Insert adds key and reports whether it was absent.
func (sl *SkipList[K]) Insert(key K) bool {
	n, journey := sl.search(key)
	if n != nil {
		return false
	}

	height := randomHeight()
	newNode := &node[K]{key: key}

	//bottom to top level
	for level := 0; level < height; level++ {
		prev := journey[level]
		if prev == nil {
			// prev is nil if we extend the height of the list.
			// journey array won't have an entry for it.
			prev = sl.head
		}
		newNode.tower[level] = prev.tower[level]
		prev.tower[level] = newNode
	}

	// update current height of skiplist
	if height > sl.height {
		sl.height = height
	}
	sl.length++
	return true
}

func (sl *SkipList[K]) shrink() {
	for level := sl.height - 1; level > 0; level-- {
		if sl.head.tower[level] == nil {
			sl.height--
		} else {
			break
		}
	}
}

// Delete removes key and reports whether it was present.
func (sl *SkipList[K]) Delete(key K) bool {
	n, journey := sl.search(key)

	// no such key exists
	if n == nil {
		return false
	}

	//bottom to top level
	for level := 0; level < sl.height; level++ {
		prev := journey[level]

		if prev.tower[level] != n {
			break
		}

		prev.tower[level] = n.tower[level]
		n.tower[level] = nil
	}

	// shrink height if the removed node was the only node residing on
	// that particular level of the skip list.
	sl.shrink()
	sl.length--
	return true
}

func (sl *SkipList[K]) Len() int {
	return sl.length
}

func (sl *SkipList[K]) Min() (key K, ok bool) {
	if first := sl.head.tower[0]; first != nil {
		return first.key, true
	}
	return key, false
}

func (sl *SkipList[K]) Max() (key K, ok bool) {
	prev := sl.head
	for level := sl.height - 1; level >= 0; level-- {
		for prev.tower[level] != nil {
			prev = prev.tower[level]
		}
	}
	if prev == sl.head {
		return key, false
	}
	return prev.key, true
}

// Keys returns every key in ascending order.
func (sl *SkipList[K]) Keys() []K {
	keys := make([]K, 0, sl.length)
	for n := sl.head.tower[0]; n != nil; n = n.tower[0] {
		keys = append(keys, n.key)
	}
	return keys
}
