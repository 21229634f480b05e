// Package scope evaluates configuration scopes.
//
// A Scope is a named body of configuration logic with a list of declared
// parameters. Evaluating it runs the body against a fresh Env, a namespace
// with three tiers:
//
//   - Fixed values, supplied by the caller, are pinned. The body can read
//     them but writes to them are ignored. When both a pinned value and a
//     written value are maps, the write is merged into the pinned map, and
//     pinned sub-keys still win.
//   - Written values hold the declared parameters found in the preset, and
//     whatever the body assigns.
//   - The fallback view holds declared parameters that are only found in the
//     fallback. It can be read but never ends up in results.
//
// After the body runs, preset entries the body did not write are filled in,
// and the top-level entries are filtered into a Snapshot: private keys
// (starting with "_") and values that cannot be represented in JSON are
// left out. The evaluation also records which keys the body added and which
// keys changed type.
//
// EvaluateChain evaluates a sequence of scopes, feeding the merged result of
// the earlier ones to the later ones as their preset.
package scope
