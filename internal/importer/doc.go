// Package importer provides the field-reconciliation and record-import
// engine for managed CMS collections.
//
// This package is the heart of the importer, containing all domain
// logic independent of any UI or transport layer. It can be driven by
// a CLI, a plugin host bridge, or tests without modification.
//
// # Pipeline
//
// An import session runs through these stages in order:
//
//  1. Parse: source bytes become an ordered list of string-keyed
//     records ([ParseCSV]), or an API source supplies typed records
//     directly.
//  2. Infer: column values are scanned into a virtual field type per
//     column ([InferFields]).
//  3. Reconcile: inferred fields are merged against the existing
//     collection schema into per-column mapping decisions
//     ([Reconcile]), which the caller may edit before submitting.
//  4. Convert: each raw value becomes the target field's typed payload
//     ([Convert]), with per-value failures collected rather than
//     thrown.
//  5. Diff: records are classified as add or conflict by slug identity
//     ([Diff]), conflicts are resolved one at a time or in bulk
//     ([Resolution]).
//  6. Commit: the resolved payload is written to the collection store
//     and summarized ([Commit]).
//
// # Error Handling
//
// Fatal preconditions (unparseable CSV, missing referenced collection,
// no slug field) surface as [*ImportError] values carrying a support
// code and an action hint. Per-record and per-value problems never
// abort the import; they accumulate in [Warnings] and are reported
// once at the end.
package importer
