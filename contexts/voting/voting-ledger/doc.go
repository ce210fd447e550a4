// Package votingledger records anonymized promotion votes.
//
// Each voter appears in the ledger only as a salted fingerprint; the raw
// identity never touches storage. The ledger enforces one row per voter per
// campaign with bounded revision, and serves the count projections the
// registry and resolver read.
package votingledger
