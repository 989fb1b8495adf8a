package cmd

import (
	"btree/btree"
	"btree/skiplist"
	"fmt"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// orderedSet is what the bench drives; the B-tree, the skip list and a plain map all satisfy it.
type orderedSet interface {
	Insert(key int) bool
	Search(key int) bool
}

type skipListSet struct{ *skiplist.SkipList[int] }

func (s skipListSet) Search(key int) bool { return s.Contains(key) }

type mapSet map[int]struct{}

func (m mapSet) Insert(key int) bool {
	if _, ok := m[key]; ok {
		return false
	}
	m[key] = struct{}{}
	return true
}

func (m mapSet) Search(key int) bool {
	_, ok := m[key]
	return ok
}

type benchResult struct {
	name   string
	insert time.Duration
	search time.Duration
}

func newBenchCommand(root *rootOptions) *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time sequential inserts and lookups against a skip list and a map",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if n <= 0 {
				return errors.Newf("-N must be positive, got %d", n)
			}
			tree, err := root.newTree()
			if err != nil {
				return err
			}

			sets := []struct {
				name string
				set  orderedSet
			}{
				{"btree", tree},
				{"skiplist", skipListSet{skiplist.New[int]()}},
				{"map", mapSet{}},
			}

			results := make([]benchResult, 0, len(sets))
			for _, s := range sets {
				r := benchResult{name: s.name}
				r.insert = measure(func() { setAll(n, s.set) })
				r.search = measure(func() { getAll(n, s.set) })
				root.log.WithFields(logrus.Fields{
					"structure": r.name,
					"n":         n,
					"insert":    r.insert,
					"search":    r.search,
				}).Info("bench finished")
				results = append(results, r)
			}

			printResults(cmd.OutOrStdout(), n, tree, results)
			return nil
		},
	}

	cmd.Flags().IntVarP(&n, "N", "N", 100000, "number of keys to insert and look up")
	return cmd
}

func setAll(n int, s orderedSet) {
	for i := 0; i < n; i++ {
		s.Insert(i)
	}
}

func getAll(n int, s orderedSet) {
	for i := 0; i < n; i++ {
		s.Search(i)
	}
}

func measure(fn func()) time.Duration {
	start := time.Now()
	fn()
	return time.Since(start)
}

func printResults(w io.Writer, n int, tree *btree.Tree[int], results []benchResult) {
	fmt.Fprintf(w, "N=%d max-keys=%d height=%d\n", n, tree.MaxKeys(), tree.Height())
	fmt.Fprintf(w, "%-10s %14s %14s\n", "structure", "insert", "search")
	for _, r := range results {
		fmt.Fprintf(w, "%-10s %14s %14s\n", r.name, r.insert, r.search)
	}
}
