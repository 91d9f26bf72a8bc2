// Package reader parses PDF bytes into a Document and resolves its objects.
//
// Parse reads the header, every cross-reference section (classic tables,
// cross-reference streams and hybrid files), the catalog and the page tree.
// Everything else is loaded on demand:
//
//	doc, err := reader.Parse(data)
//	if err != nil {
//	    return err
//	}
//	spans, err := doc.ExtractPageText(0)
//
// # Object Resolution
//
// Objects live in an arena keyed by object number. ResolveReference loads
// an object from its file offset or from the object stream that holds it
// and records it in the arena. Object numbers on the current resolution
// chain are tracked, so a reference that leads back to itself fails with
// core.ErrCorruptDocument instead of recursing.
//
// # Errors
//
// Every error wraps one of the core sentinels: input that ends early is
// core.ErrIOTruncated, malformed structure is core.ErrCorruptDocument and
// encryption or unknown filters are core.ErrUnsupportedFeature.
package reader
