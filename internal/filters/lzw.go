package filters

import (
	"bytes"
	"fmt"

	"github.com/hhrutter/lzw"
)

// LZWDecode decompresses LZW data. PDF writers switch code width one code
// early unless /EarlyChange is 0.
func LZWDecode(data []byte, params Params) ([]byte, error) {
	r := lzw.NewReader(bytes.NewReader(data), params.earlyChange())
	defer r.Close()

	out, err := readLimited(r)
	if err != nil {
		return nil, fmt.Errorf("lzw decompression failed: %w", err)
	}
	return applyPredictor(out, params)
}
