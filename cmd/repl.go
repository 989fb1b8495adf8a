package cmd

import (
	"btree/btree"
	"btree/cli"
	"bufio"

	"github.com/cockroachdb/errors"
	"github.com/go-faker/faker/v4"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type replOptions struct {
	seed    bool
	records int
}

func newReplCommand(root *rootOptions) *cobra.Command {
	o := &replOptions{}

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive B-tree shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := root.newTree()
			if err != nil {
				return err
			}

			if o.seed {
				if err := seedTree(tree, o.records, root.log); err != nil {
					return err
				}
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			demo := cli.NewCli(scanner, cmd.OutOrStdout(), tree, root.log.WithField("component", "cli"))
			demo.Start()
			return scanner.Err()
		},
	}

	cmd.Flags().BoolVar(&o.seed, "seed", false, "seed the tree with random keys created with go-faker")
	cmd.Flags().IntVar(&o.records, "records", 100, "amount of keys to seed the tree with upon startup")
	return cmd
}

// seedTree inserts n distinct random keys drawn from [0, 10n).
func seedTree(tree *btree.Tree[int], n int, log *logrus.Entry) error {
	if n <= 0 {
		return nil
	}
	keys, err := faker.RandomInt(0, 10*n, n)
	if err != nil {
		return errors.Wrap(err, "generating seed keys")
	}
	for _, k := range keys {
		tree.Insert(k)
	}
	log.WithFields(logrus.Fields{"records": tree.Len(), "height": tree.Height()}).Info("seeded tree")
	return nil
}
