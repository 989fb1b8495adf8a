package cmd

import (
	"btree/btree"
	"btree/skiplist"
	"bytes"
	"fmt"
	"math/rand/v2"

	"github.com/cockroachdb/errors"
	"github.com/go-faker/faker/v4"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type checkOptions struct {
	seed     uint64
	ops      int
	keyRange int
	words    int
}

func newCheckCommand(root *rootOptions) *cobra.Command {
	o := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run random inserts and deletes against a reference set, validating after every step",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.ops < 0 || o.keyRange <= 0 || o.words < 0 {
				return errors.New("--ops and --words must not be negative and --range must be positive")
			}
			tree, err := root.newTree()
			if err != nil {
				return err
			}
			if err := checkRandom(tree, o, root.log); err != nil {
				return err
			}
			if err := checkWords(tree.MaxKeys(), o.words, root.log); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK: %d operations, %d words, max-keys=%d\n", o.ops, o.words, tree.MaxKeys())
			return nil
		},
	}

	cmd.Flags().Uint64Var(&o.seed, "seed", 1, "seed for the random operation sequence")
	cmd.Flags().IntVar(&o.ops, "ops", 10000, "number of random insert/delete operations")
	cmd.Flags().IntVar(&o.keyRange, "range", 1000, "keys are drawn from [0, range)")
	cmd.Flags().IntVar(&o.words, "words", 200, "number of go-faker words to round-trip through a byte-keyed tree")
	return cmd
}

// checkRandom drives tree and a skip list with the same operations and compares them after each one.
func checkRandom(tree *btree.Tree[int], o *checkOptions, log *logrus.Entry) error {
	rng := rand.New(rand.NewPCG(o.seed, o.seed))
	ref := skiplist.New[int]()

	for i := 0; i < o.ops; i++ {
		k := rng.IntN(o.keyRange)
		op := "insert"
		var got, want bool
		if rng.IntN(2) == 0 {
			got, want = tree.Insert(k), ref.Insert(k)
		} else {
			op = "delete"
			got, want = tree.Delete(k), ref.Delete(k)
		}
		if got != want {
			return errors.AssertionFailedf("step %d: %s(%d) returned %t, reference returned %t", i, op, k, got, want)
		}
		if err := compare(tree, ref); err != nil {
			return errors.Wrapf(err, "step %d: %s(%d)", i, op, k)
		}
	}

	log.WithFields(logrus.Fields{
		"ops":    o.ops,
		"seed":   o.seed,
		"size":   tree.Len(),
		"height": tree.Height(),
	}).Info("random check passed")
	return nil
}

func compare(tree *btree.Tree[int], ref *skiplist.SkipList[int]) error {
	if err := tree.Validate(); err != nil {
		return err
	}
	if tree.Len() != ref.Len() {
		return errors.AssertionFailedf("size %d, reference holds %d", tree.Len(), ref.Len())
	}
	gotMin, _ := tree.Min()
	wantMin, _ := ref.Min()
	gotMax, _ := tree.Max()
	wantMax, _ := ref.Max()
	if gotMin != wantMin || gotMax != wantMax {
		return errors.AssertionFailedf("min/max %d/%d, reference %d/%d", gotMin, gotMax, wantMin, wantMax)
	}
	return nil
}

// checkWords inserts faker words into a tree keyed by []byte and deletes them again.
func checkWords(maxKeys, n int, log *logrus.Entry) error {
	tree := btree.NewFunc[[]byte](maxKeys, bytes.Compare)
	ref := skiplist.NewFunc[[]byte](bytes.Compare)

	for i := 0; i < n; i++ {
		w := []byte(faker.Word() + faker.Word())
		if tree.Insert(w) != ref.Insert(w) {
			return errors.AssertionFailedf("insert %q disagrees with reference", w)
		}
	}
	for _, w := range ref.Keys() {
		if !tree.Search(w) {
			return errors.AssertionFailedf("word %q missing", w)
		}
	}
	if err := tree.Validate(); err != nil {
		return err
	}
	for _, w := range ref.Keys() {
		if !tree.Delete(w) {
			return errors.AssertionFailedf("delete %q failed", w)
		}
	}
	if tree.Len() != 0 || tree.Height() != 1 {
		return errors.AssertionFailedf("tree not empty after deleting every word: size=%d height=%d", tree.Len(), tree.Height())
	}

	log.WithField("words", n).Info("word check passed")
	return tree.Validate()
}
