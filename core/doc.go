// Package core provides the low-level PDF object model and syntax parsing.
//
// # Object Types
//
// Every PDF value satisfies [Object]: [Null], [Bool], [Int], [Real],
// [String], [Name], [Array], [Dict], [*Stream] and [IndirectRef].
//
// # Parsing
//
// [Lexer] tokenizes an in-memory document and [Parser] builds objects from
// the tokens, including "num gen obj ... endobj" definitions and stream
// bodies. Indirect /Length values are resolved through a
// [ReferenceResolver].
//
// # Cross-Reference Data
//
// [XRefParser] locates startxref, reads classic tables and cross-reference
// streams, follows /Prev and /XRefStm, and merges everything into one
// [XRefTable]. Objects stored in object streams are read with
// [ObjectStream].
//
// # Stream Decoding
//
// [Stream.Decode] runs the /Filter chain using internal/filters.
//
// # Errors
//
// Every failure wraps one of [ErrCorruptDocument], [ErrUnsupportedFeature],
// [ErrIOTruncated] or [ErrPageIndexOutOfRange]; use errors.Is to classify.
package core
