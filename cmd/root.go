// Package cmd wires the B-tree, its shell and its self-tests into a cobra command tree.
package cmd

import (
	"btree/btree"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	maxKeys   int
	check     bool
	logLevel  string
	logFormat string

	log *logrus.Entry
}

func NewRootCommand() *cobra.Command {
	o := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "btree",
		Short: "An in-memory B-tree with an interactive shell",
		Long: `btree keeps a set of unique integer keys in an order-configurable B-tree.
Without a subcommand it starts the interactive shell.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(o.logLevel, o.logFormat, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			o.log = logrus.NewEntry(l)
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.IntVarP(&o.maxKeys, "max-keys", "m", btree.DefaultMaxKeys, "maximum number of keys per node (at least 2)")
	flags.BoolVar(&o.check, "check", false, "validate the whole tree after every mutation")
	flags.StringVar(&o.logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")
	flags.StringVar(&o.logFormat, "log-format", "text", "log format (text or json)")

	repl := newReplCommand(o)
	rootCmd.RunE = repl.RunE
	rootCmd.Flags().AddFlagSet(repl.Flags())

	rootCmd.AddCommand(repl, newBenchCommand(o), newCheckCommand(o))
	return rootCmd
}

func Execute() {
	err := NewRootCommand().Execute()
	if err != nil {
		os.Exit(1)
	}
}

func newLogger(level, format string, w io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "invalid --log-level")
	}

	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(lvl)
	switch format {
	case "text":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, errors.Newf("invalid --log-format %q, want text or json", format)
	}
	return l, nil
}

// newTree builds an empty integer tree from the persistent flags.
func (o *rootOptions) newTree() (*btree.Tree[int], error) {
	cfg, err := btree.NewConfig(o.maxKeys)
	if err != nil {
		return nil, errors.Wrap(err, "invalid --max-keys")
	}
	cfg.CheckInvariants = o.check
	return btree.NewFromConfig[int](cfg, btree.WithLogger(o.log.WithField("component", "btree")))
}
