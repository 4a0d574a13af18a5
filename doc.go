// Package tys is a runtime schema-validation and parsing library. Callers
// compose immutable schema nodes (string, number, object, array, union, ...)
// into a tree describing a data shape, then validate arbitrary input against
// the tree with Parse/SafeParse, obtaining either a typed value or a
// ParseError carrying every violation found.
//
// The engine walks the schema tree with a per-invocation ParseContext that
// threads the current value, its path from the root, and the shared issue
// sink. Two execution modes exist: the synchronous entrypoints for purely
// synchronous trees, and ParseAsync/SafeParseAsync for trees containing
// async effects (refinements or transforms that block on I/O), which fan out
// independent child validations concurrently and join them deterministically.
//
// Schema constructors live in the dsl subpackage; message localization lives
// in i18n.
package tys
