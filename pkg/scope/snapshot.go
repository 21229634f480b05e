package scope

import (
	"github.com/dr-dahou-adrar/sacred/pkg/codec"
	"github.com/dr-dahou-adrar/sacred/pkg/eval/vals"
)

// Snapshot is the result of evaluating a scope. Its values are all in the
// JSON domain: nil, bool, int, finite float64, string, and []any and
// map[string]any of such values.
type Snapshot map[string]any

// Keys returns the keys in sorted order.
func (s Snapshot) Keys() []string {
	keys, _ := vals.SortedKeys(map[string]any(s))
	return keys
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	return Snapshot(vals.CopyMap(s))
}

// Fingerprint returns the hex BLAKE3-256 digest of the deterministic CBOR
// encoding of the snapshot. Equal snapshots have equal fingerprints.
func (s Snapshot) Fingerprint() (string, error) {
	return codec.Fingerprint(map[string]any(s))
}
