// Package candidateregistry manages the anonymized candidate roster inside
// the voting context.
//
// Candidates register against a campaign and are shown to voters only
// through a globally unique anonymous identifier. The module owns the
// review lifecycle, the tally projection recomputed from the vote ledger,
// and the terminal promoted state applied at resolution.
package candidateregistry
