package cli

import (
	"btree/btree"
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
)

var errUsage = errors.New("usage")

type Cli struct {
	scanner    *bufio.Scanner
	out        io.Writer
	tree       *btree.Tree[int]
	visualizer *btree.Visualizer[int]
	log        *logrus.Entry
}

func NewCli(s *bufio.Scanner, out io.Writer, t *btree.Tree[int], log *logrus.Entry) *Cli {
	v := &btree.Visualizer[int]{
		Tree: t,
	}
	return &Cli{scanner: s, out: out, tree: t, visualizer: v, log: log}
}

// Start reads commands until EXIT or end of input.
func (c *Cli) Start() {
	c.printHelp()
	c.printPrompt()
	for c.scanner.Scan() {
		if quit := c.processInput(c.scanner.Text()); quit {
			return
		}
		c.printPrompt()
	}
}

func (c *Cli) printHelp() {
	fmt.Fprintln(c.out, `
B-Tree CLI

Available Commands:
  INSERT <key>...  Insert one or more integer keys into the B-Tree
  DEL <key>...     Remove one or more keys from the B-Tree
  GET <key>        Report whether key is stored in the B-Tree
  MIN | MAX        Print the smallest or largest key
  SIZE | HEIGHT    Print the number of keys or levels
  SHOW             Draw the B-Tree level by level
  CHECK            Validate the B-Tree structure
  HELP             Print this message
  EXIT             Terminate this session
`)
}

func (c *Cli) printPrompt() {
	fmt.Fprint(c.out, "> ")
}

// processInput runs one command line and reports whether the session should end.
func (c *Cli) processInput(line string) bool {
	fields := strings.Fields(line)
	if len(fields) < 1 {
		return false
	}
	command := strings.ToLower(fields[0])
	args := fields[1:]
	c.log.WithFields(logrus.Fields{"command": command, "args": args}).Debug("processing command")

	var err error
	switch command {
	default:
		fmt.Fprintf(c.out, "Unknown command \"%s\"\n", command)
	case "insert", "set", "add":
		err = c.processInsertCommand(args)
	case "del", "delete":
		err = c.processDeleteCommand(args)
	case "get", "search":
		err = c.processGetCommand(args)
	case "min":
		err = c.processMinMaxCommand(args, c.tree.Min)
	case "max":
		err = c.processMinMaxCommand(args, c.tree.Max)
	case "size":
		fmt.Fprintln(c.out, c.tree.Len())
	case "height":
		fmt.Fprintln(c.out, c.tree.Height())
	case "show":
		fmt.Fprintln(c.out, c.visualizer.Visualize())
	case "check":
		err = c.processCheckCommand()
	case "help":
		c.printHelp()
	case "exit", "quit":
		return true
	}
	c.report(err)
	return false
}

func (c *Cli) report(err error) {
	switch {
	case err == nil:
	case errors.Is(err, errUsage):
		fmt.Fprintln(c.out, err)
	case errors.Is(err, btree.ErrKeyNotFound):
		fmt.Fprintln(c.out, "Key not found.")
	case errors.Is(err, btree.ErrDuplicateKey):
		fmt.Fprintln(c.out, "Key already exists.")
	default:
		c.log.WithError(err).Warn("command failed")
		fmt.Fprintf(c.out, "Error: %v\n", err)
	}
}

func parseKeys(args []string) ([]int, error) {
	keys := make([]int, 0, len(args))
	for _, a := range args {
		k, err := strconv.Atoi(a)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid key %q", a)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func (c *Cli) processInsertCommand(args []string) error {
	if len(args) < 1 {
		return errors.Mark(errors.New("Usage: INSERT <key>..."), errUsage)
	}
	keys, err := parseKeys(args)
	if err != nil {
		return err
	}
	var rejected []int
	for _, k := range keys {
		if !c.tree.Insert(k) {
			rejected = append(rejected, k)
		}
	}
	fmt.Fprintln(c.out, c.tree)
	if len(rejected) > 0 {
		return errors.Wrapf(btree.ErrDuplicateKey, "%v", rejected)
	}
	return nil
}

func (c *Cli) processDeleteCommand(args []string) error {
	if len(args) < 1 {
		return errors.Mark(errors.New("Usage: DEL <key>..."), errUsage)
	}
	keys, err := parseKeys(args)
	if err != nil {
		return err
	}
	var missing []int
	for _, k := range keys {
		if !c.tree.Delete(k) {
			missing = append(missing, k)
		}
	}
	fmt.Fprintln(c.out, c.tree)
	if len(missing) > 0 {
		return errors.Wrapf(btree.ErrKeyNotFound, "%v", missing)
	}
	return nil
}

func (c *Cli) processGetCommand(args []string) error {
	if len(args) != 1 {
		return errors.Mark(errors.New("Usage: GET <key>"), errUsage)
	}
	keys, err := parseKeys(args)
	if err != nil {
		return err
	}
	if !c.tree.Search(keys[0]) {
		return btree.ErrKeyNotFound
	}
	fmt.Fprintln(c.out, keys[0])
	return nil
}

func (c *Cli) processMinMaxCommand(args []string, get func() (int, bool)) error {
	if len(args) != 0 {
		return errors.Mark(errors.New("Usage: MIN | MAX"), errUsage)
	}
	k, ok := get()
	if !ok {
		return errors.Wrap(btree.ErrKeyNotFound, "tree is empty")
	}
	fmt.Fprintln(c.out, k)
	return nil
}

func (c *Cli) processCheckCommand() error {
	if err := c.tree.Validate(); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "OK")
	return nil
}
