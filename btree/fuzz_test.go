package btree

import (
	"btree/skiplist"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

// requireMatches checks tree against the reference set: same size, same extremes, same membership over [lo, hi).
func requireMatches(t *testing.T, tree *Tree[int], ref *skiplist.SkipList[int], lo, hi int) {
	t.Helper()
	requireValid(t, tree)
	require.Equal(t, ref.Len(), tree.Len())

	gotMin, gotOK := tree.Min()
	wantMin, wantOK := ref.Min()
	require.Equal(t, wantOK, gotOK)
	require.Equal(t, wantMin, gotMin)
	gotMax, _ := tree.Max()
	wantMax, _ := ref.Max()
	require.Equal(t, wantMax, gotMax)

	for k := lo; k < hi; k++ {
		require.Equal(t, ref.Contains(k), tree.Search(k), "key %d", k)
	}
}

func TestRandomOperations(t *testing.T) {
	const keyRange = 64

	for maxKeys := 2; maxKeys <= 8; maxKeys++ {
		for seed := uint64(1); seed <= 20; seed++ {
			rng := rand.New(rand.NewPCG(seed, uint64(maxKeys)))
			tree := New[int](maxKeys)
			ref := skiplist.New[int]()

			for i := 0; i < 300; i++ {
				k := rng.IntN(keyRange)
				// Lean towards inserts so the tree keeps some height.
				if rng.IntN(100) < 55 {
					require.Equal(t, ref.Insert(k), tree.Insert(k), "max=%d seed=%d step=%d insert %d", maxKeys, seed, i, k)
				} else {
					require.Equal(t, ref.Delete(k), tree.Delete(k), "max=%d seed=%d step=%d delete %d", maxKeys, seed, i, k)
				}
				requireMatches(t, tree, ref, -1, keyRange+1)
			}
		}
	}
}

// The original suite: random keys in [1000, 9999], duplicates rejected, then everything deleted in shuffled order.
func TestRandomFillAndDrain(t *testing.T) {
	for _, order := range []int{4, 5} {
		for seed := uint64(120000); seed < 120002; seed++ {
			for count := 97; count < 101; count++ {
				rng := rand.New(rand.NewPCG(seed, uint64(count)))
				tree := New[int](order-1, WithInvariantChecks(true))
				ref := skiplist.New[int]()

				for i := 0; i < count; i++ {
					k := 1000 + rng.IntN(9000)
					require.Equal(t, ref.Insert(k), tree.Insert(k))
				}
				require.Equal(t, ref.Len(), tree.Len())

				keys := ref.Keys()
				rng.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
				for _, k := range keys {
					require.True(t, tree.Delete(k))
					require.True(t, ref.Delete(k))
					require.False(t, tree.Search(k))
					require.Equal(t, ref.Len(), tree.Len())
				}
				require.Equal(t, 0, tree.Len())
				require.Equal(t, 1, tree.Height())
			}
		}
	}
}

func TestOrderIndependence(t *testing.T) {
	keys := make([]int, 200)
	for i := range keys {
		keys[i] = i * 3
	}

	for seed := uint64(0); seed < 10; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed))
		tree := New[int](5, WithInvariantChecks(true))

		rng.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
		for _, k := range keys {
			require.True(t, tree.Insert(k))
		}
		require.Equal(t, len(keys), tree.Len())

		rng.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
		for _, k := range keys {
			require.True(t, tree.Delete(k))
		}
		require.Equal(t, 0, tree.Len())
		require.Equal(t, 1, tree.Height())
		requireValid(t, tree)
	}
}

func FuzzTree(f *testing.F) {
	f.Add(uint8(2), []byte{1, 2, 3, 4, 5, 6, 7, 129, 130, 131})
	f.Add(uint8(3), []byte{10, 20, 5, 6, 12, 30, 7, 17, 148})
	f.Add(uint8(4), []byte{9, 8, 7, 6, 5, 4, 3, 2, 1, 133, 134})

	f.Fuzz(func(t *testing.T, maxKeys uint8, ops []byte) {
		tree := New[int](2+int(maxKeys%15), WithInvariantChecks(true))
		ref := skiplist.New[int]()

		// The high bit of each byte picks the operation, the low bits the key.
		for _, op := range ops {
			k := int(op & 0x7f)
			if op&0x80 == 0 {
				require.Equal(t, ref.Insert(k), tree.Insert(k))
			} else {
				require.Equal(t, ref.Delete(k), tree.Delete(k))
			}
		}
		requireMatches(t, tree, ref, 0, 128)
	})
}
