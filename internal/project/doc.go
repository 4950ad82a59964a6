// Package project locates project definitions on disk and builds their
// merged configuration.
//
// A project is described by a builder.yaml file at its root. Resolution
// searches an ordered set of directories (caller hints first, then the
// SearchContext owned by the assembler); the first match wins. A name that
// cannot be found anywhere resolves to an unresolved Project rather than an
// error, so the caller can delegate to a downloader and retry.
package project
