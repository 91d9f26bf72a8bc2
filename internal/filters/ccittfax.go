package filters

import (
	"bytes"

	"golang.org/x/image/ccitt"
)

// CCITTFaxDecode decodes Group 3 or Group 4 fax data. K < 0 selects Group 4;
// Columns defaults to 1728 and Rows of 0 lets the decoder find the height.
// Scanned pages never carry extractable text, but the filter is decoded so
// that a document using it is not rejected as unsupported.
func CCITTFaxDecode(data []byte, params Params) ([]byte, error) {
	sf := ccitt.Group3
	if params.K < 0 {
		sf = ccitt.Group4
	}
	rows := params.Rows
	if rows <= 0 {
		rows = ccitt.AutoDetectHeight
	}
	r := ccitt.NewReader(bytes.NewReader(data), ccitt.MSB, sf, params.columns(1728), rows,
		&ccitt.Options{Invert: params.BlackIs1})
	return readLimited(r)
}
