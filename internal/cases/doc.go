// Package cases provides the business logic for bulk case imports.
//
// This package is the heart of the importer, containing all domain logic
// independent of any UI or transport layer. It can be used by web handlers,
// CLI tools, or tests without modification.
//
// # Pipeline
//
// An import moves through five stages:
//
//  1. [ParseTable] turns raw upload bytes into one RawRow per line,
//     preserving the original column headers.
//  2. [Normalize] maps column aliases onto [CaseFields] and canonicalizes
//     each value (trimming, enum uppercasing, phone country-code heuristics).
//     Normalization never fails; correctness is judged later.
//  3. [Validate] applies the domain rules and accumulates every violation
//     into the row's error list. IsValid is always derived from that list.
//  4. [StagingSet] holds the validated rows between preview and commit,
//     supporting per-row edits and column-wide fixes, each followed by
//     re-validation.
//  5. [BatchCommitter] writes the accepted rows to the case store in
//     bounded-concurrency chunks, producing a per-row ledger and an
//     import job summary.
//
// Only the committer touches the store; everything before it is a pure
// transform and safe to run anywhere.
package cases
