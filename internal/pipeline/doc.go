// Package pipeline implements the extract-validate-transform-load pipeline
// for customer, product, and order files.
//
// A run is strictly sequential: files are discovered (or submitted via
// upload), routed to an entity type by filename keyword, and processed one at
// a time in the order customers, products, orders. Each file flows through
//
//	read -> normalize -> validate -> transform -> load -> error report
//
// Row-level problems never abort a file: every raw record ends up either as
// a persisted entity or as a rejected row in the error artifacts, and the
// per-entity statistics preserve valid + rejected == total processed.
// Whole-file problems (unreadable file, unsupported format) fail that file
// only; the run always continues to the next file.
//
// The package has no UI dependencies. Persistence is abstracted behind small
// store interfaces so the loaders can be exercised against in-memory fakes.
package pipeline
