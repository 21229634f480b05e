package codec

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Digest is a BLAKE3-256 digest.
type Digest [32]byte

// String returns the digest in lowercase hex.
func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Sum returns the digest of the deterministic CBOR encoding of v.
func Sum(v any) (Digest, error) {
	data, err := Marshal(v)
	if err != nil {
		return Digest{}, err
	}
	return blake3.Sum256(data), nil
}

// Fingerprint is like Sum, but returns the digest in hex.
func Fingerprint(v any) (string, error) {
	d, err := Sum(v)
	if err != nil {
		return "", err
	}
	return d.String(), nil
}
