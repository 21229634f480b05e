// Package codec encodes configuration values as CBOR and derives
// fingerprints from the encoding.
//
// Encoding uses Core Deterministic Encoding (RFC 8949 §4.2): map keys are
// sorted and integers use their smallest form, so equal values always
// encode to identical bytes, whatever the iteration order of the Go maps
// holding them. This is what makes fingerprints stable.
package codec
