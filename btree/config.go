package btree

import (
	"cmp"

	"github.com/cockroachdb/errors"
)

// DefaultMaxKeys is the node size used when none is configured (33 children per inner node).
const DefaultMaxKeys = 32

// Config holds the construction-time settings of a tree.
type Config struct {
	MaxKeys         int  `json:"max_keys"`         // keys a node may hold before it splits
	CheckInvariants bool `json:"check_invariants"` // validate the whole tree after every mutation
}

func DefaultConfig() *Config {
	return &Config{
		MaxKeys: DefaultMaxKeys,
	}
}

func NewConfig(maxKeys int) (*Config, error) {
	cfg := &Config{MaxKeys: maxKeys}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validateConfig checks if the Config is usable
func validateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("config cannot be nil")
	}
	if cfg.MaxKeys < 2 {
		return errors.Newf("max keys must be at least 2, got %d", cfg.MaxKeys)
	}
	return nil
}

// NewFromConfig builds an empty tree from cfg. Options given here are applied after the ones derived from cfg.
func NewFromConfig[K cmp.Ordered](cfg *Config, opts ...Option) (*Tree[K], error) {
	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid btree config")
	}
	opts = append([]Option{WithInvariantChecks(cfg.CheckInvariants)}, opts...)
	return New[K](cfg.MaxKeys, opts...), nil
}
