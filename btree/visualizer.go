package btree

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	headerColor = color.New(color.Bold)
	innerColor  = color.New(color.FgCyan)
	leafColor   = color.New(color.FgGreen)
	braceColor  = color.New(color.Faint)
)

/*
Visualizer draws a tree level by level, one line per level, root first.
Inner nodes and leaves are colored differently; colors are dropped automatically when stdout is not a terminal.

	size=9 height=2 max=4 min=2
	L0 [3 6]
	L1 [1 2] [4 5] [7 8 9]
*/
type Visualizer[K any] struct {
	Tree *Tree[K]
}

func (v *Visualizer[K]) Visualize() string {
	t := v.Tree
	var b strings.Builder
	headerColor.Fprintf(&b, "size=%d height=%d max=%d min=%d", t.size, t.height, t.maxKeys, t.minKeys)

	level := []*node[K]{t.root}
	for depth := 0; len(level) > 0; depth++ {
		fmt.Fprintf(&b, "\nL%d", depth)
		var next []*node[K]
		for _, n := range level {
			b.WriteByte(' ')
			writeNode(&b, n)
			next = append(next, n.children...)
		}
		level = next
	}
	return b.String()
}

func writeNode[K any](b *strings.Builder, n *node[K]) {
	c := innerColor
	if n.isLeaf() {
		c = leafColor
	}
	keys := make([]string, len(n.keys))
	for i, k := range n.keys {
		keys[i] = fmt.Sprint(k)
	}
	braceColor.Fprint(b, "[")
	c.Fprint(b, strings.Join(keys, " "))
	braceColor.Fprint(b, "]")
}
