// Package core provides the dataset logic for the municipal compliance
// dashboard.
//
// This package is independent of any UI or transport layer. It can be used
// by the web server, the CLI summary command or tests without modification.
//
// # Data flow
//
//  1. A [Source] fetches the raw dataset (file, HTTP or S3).
//  2. [ReadText] strips a BOM and sanitises invalid UTF-8.
//  3. [ParseDataset] splits lines, parses each with [ParseLine] and assigns
//     sequence numbers before dropping rows without a department or
//     municipality.
//  4. [Aggregate] rolls records up per department.
//  5. [Loader.Load] publishes records and aggregates to the [Store] as one
//     [Snapshot].
//
// # Compliance rule
//
// A locality is compliant when its status column equals the configured
// keyword, compared case-insensitively. A department is compliant when at
// least one of its localities is, non-compliant when none is, and has no
// data when it has no localities at all.
//
// # Error Handling
//
// Loading fails with [ErrDataUnavailable], [ErrEmptyDataset] or
// [ErrNoValidRecords]; [MapError] turns them into user messages with
// DATA001-DATA003 codes. A failed load is terminal for the attempt and
// leaves the store in [StateFailed].
package core
