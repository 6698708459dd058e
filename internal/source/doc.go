// Package source supplies the two result sets under comparison.
//
// Source is the capability: Load returns a Pair (static, dynamic, and the
// identifiers of where each came from). Two implementations exist:
//
//   - FileSource reads CSV files through package dataset. It tries each
//     configured path pair in order and uses the first whose files both
//     exist; it fails with ErrNoInput otherwise.
//   - SyntheticSource generates a labeled demo pair from a seeded RNG. It is
//     only used when selected explicitly; FileSource never falls back to it.
//
// New builds the Source selected by config.SourceConfig.
package source
