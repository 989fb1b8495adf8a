package btree

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

/*
Validate walks the whole tree and reports the first broken invariant:
  - keys in every node strictly ascending and inside the range their ancestors allow
  - inner nodes have exactly one more child than keys, and every child points back at its parent
  - every node holds at most MaxKeys keys, and every non-root node at least MinKeys
  - all leaves sit at depth Height
  - the number of keys equals Len

It returns nil for a consistent tree. The error is an assertion failure: seeing one means a bug in this package.
*/
func (t *Tree[K]) Validate() error {
	if t.root == nil {
		return errors.AssertionFailedf("btree: tree has no root")
	}
	if t.root.parent != nil {
		return errors.AssertionFailedf("btree: root has a parent")
	}
	if !t.root.isLeaf() && len(t.root.keys) == 0 {
		return errors.AssertionFailedf("btree: inner root has no keys")
	}

	v := &validator[K]{tree: t}
	if err := v.walk(t.root, "root", 1, nil, nil); err != nil {
		return err
	}
	if v.count != t.size {
		return errors.AssertionFailedf("btree: counted %d keys, size is %d", v.count, t.size)
	}
	return nil
}

type validator[K any] struct {
	tree  *Tree[K]
	count int
}

func (v *validator[K]) walk(n *node[K], path string, depth int, lo, hi *K) error {
	t := v.tree
	compare := t.compare

	if len(n.keys) > t.maxKeys {
		return errors.AssertionFailedf("btree: %s holds %d keys, max is %d", path, len(n.keys), t.maxKeys)
	}
	if n != t.root && len(n.keys) < t.minKeys {
		return errors.AssertionFailedf("btree: %s holds %d keys, min is %d", path, len(n.keys), t.minKeys)
	}
	for i := range n.keys {
		if i > 0 && compare(n.keys[i-1], n.keys[i]) >= 0 {
			return errors.AssertionFailedf("btree: %s keys not strictly ascending at %d", path, i)
		}
	}
	if len(n.keys) > 0 {
		if lo != nil && compare(*lo, n.keys[0]) >= 0 {
			return errors.AssertionFailedf("btree: %s first key is not above its lower bound", path)
		}
		if hi != nil && compare(n.keys[len(n.keys)-1], *hi) >= 0 {
			return errors.AssertionFailedf("btree: %s last key is not below its upper bound", path)
		}
	}
	v.count += len(n.keys)

	if n.isLeaf() {
		if depth != t.height {
			return errors.AssertionFailedf("btree: leaf %s at depth %d, height is %d", path, depth, t.height)
		}
		return nil
	}

	if len(n.children) != len(n.keys)+1 {
		return errors.AssertionFailedf("btree: %s has %d keys and %d children", path, len(n.keys), len(n.children))
	}
	for i, c := range n.children {
		childPath := fmt.Sprintf("%s/%d", path, i)
		if c == nil {
			return errors.AssertionFailedf("btree: %s is nil", childPath)
		}
		if c.parent != n {
			return errors.AssertionFailedf("btree: %s does not point back at its parent", childPath)
		}
		clo, chi := lo, hi
		if i > 0 {
			clo = &n.keys[i-1]
		}
		if i < len(n.keys) {
			chi = &n.keys[i]
		}
		if err := v.walk(c, childPath, depth+1, clo, chi); err != nil {
			return err
		}
	}
	return nil
}

// String renders the tree on one line: leaves as [k k], inner nodes with their children between the keys.
func (t *Tree[K]) String() string {
	var b strings.Builder
	t.root.write(&b)
	return b.String()
}

func (n *node[K]) write(b *strings.Builder) {
	b.WriteByte('[')
	for i, k := range n.keys {
		if !n.isLeaf() {
			n.children[i].write(b)
			b.WriteByte(' ')
		} else if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprint(b, k)
		if !n.isLeaf() {
			b.WriteByte(' ')
		}
	}
	if !n.isLeaf() {
		n.children[len(n.children)-1].write(b)
	}
	b.WriteByte(']')
}
