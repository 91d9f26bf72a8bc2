// Package filters implements the PDF stream decoding filters.
//
// Every decoder takes the encoded bytes and a [Params] value built from the
// stream's /DecodeParms entry:
//
//	decoded, err := filters.FlateDecode(data, filters.Params{Predictor: 12, Columns: 5})
//
// FlateDecode and LZWDecode honour the TIFF (2) and PNG (10-15) predictors.
// LZWDecode uses github.com/hhrutter/lzw, which understands the EarlyChange
// variant PDF writers emit. CCITTFaxDecode is backed by golang.org/x/image/ccitt.
//
// Decoders never produce more than [MaxDecodedSize] bytes.
package filters
