// Package contentstream tokenizes PDF content streams into operations.
//
// A content stream is a postfix program: operands followed by an operator.
// [Parse] returns them in order:
//
//	ops, err := contentstream.Parse(streamData)
//	for _, op := range ops {
//	    fmt.Printf("%s %v\n", op.Operator, op.Operands)
//	}
//
// Operands are core objects (numbers, strings, names, arrays, dictionaries).
// Inline images (BI ... ID ... EI) are skipped. Malformed syntax, including
// a string or array cut off by the end of the data, is reported as
// [core.ErrCorruptDocument].
package contentstream
