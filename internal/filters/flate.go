package filters

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
)

// FlateDecode decompresses zlib data and undoes any predictor.
// A stream whose checksum or final block is damaged still yields the bytes
// decoded before the damage, matching what viewers display.
func FlateDecode(data []byte, params Params) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create zlib reader: %w", err)
	}
	defer r.Close()

	out, err := readLimited(r)
	if err != nil {
		if errors.Is(err, ErrTooLarge) || len(out) == 0 {
			return nil, fmt.Errorf("zlib decompression failed: %w", err)
		}
	}
	return applyPredictor(out, params)
}

// readLimited reads r to EOF, failing once MaxDecodedSize is exceeded. The
// bytes read so far are returned alongside any read error.
func readLimited(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, MaxDecodedSize+1))
	if n > MaxDecodedSize {
		return nil, ErrTooLarge
	}
	return buf.Bytes(), err
}
