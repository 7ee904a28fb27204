// Package rifthash implements an Ethash-family memory-hard proof-of-work
// hashing engine: epoch-indexed parameter derivation, cache construction,
// on-demand and pre-materialized dataset ("DAG") item generation, the
// hashimoto mixing loop, and difficulty checking.
package rifthash
