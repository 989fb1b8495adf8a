/*
Package btree implements an in-memory B-tree of unique keys with a configurable node size.

Keys are inserted into leaves; a node that overflows is split around its median and the median moves
into the parent, so the tree grows at the root. Deletions that leave a node short of keys borrow one
from a sibling or merge with it, so the tree also shrinks at the root. All leaves stay at the same depth.

	t := btree.New[int](4)
	t.Insert(7)
	t.Search(7) // true
	t.Delete(7) // true
*/
package btree

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Option tunes a Tree at construction time.
type Option func(*options)

type options struct {
	logger          *logrus.Entry
	checkInvariants bool
}

// WithLogger routes structural events (splits, merges, rotations, root changes) to l at trace level.
func WithLogger(l *logrus.Entry) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithInvariantChecks makes every successful Insert and Delete run Validate and panic if it fails.
// Meant for tests and debugging sessions; it turns each mutation into a full tree walk.
func WithInvariantChecks(enabled bool) Option {
	return func(o *options) {
		o.checkInvariants = enabled
	}
}

func buildOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.logger = logrus.NewEntry(l)
	}
	return o
}
