// Package loupe provides multi-language code intelligence built on
// tree-sitter. It normalizes heterogeneous concrete syntax trees into one
// scope-aware symbol model, indexes that model per document and per
// workspace, and supports range-addressed, safety-checked refactorings.
package loupe
