package filters

import "fmt"

// RunLengthDecode expands PackBits-style runs. A length byte 0-127 copies
// the next length+1 bytes, 129-255 repeats the next byte 257-length times
// and 128 ends the data.
func RunLengthDecode(data []byte) ([]byte, error) {
	out := make([]byte, 0, len(data)*2)
	for i := 0; i < len(data); {
		n := int(data[i])
		i++
		switch {
		case n == 128:
			return out, nil
		case n < 128:
			if i+n+1 > len(data) {
				return nil, fmt.Errorf("run-length literal of %d bytes exceeds data", n+1)
			}
			out = append(out, data[i:i+n+1]...)
			i += n + 1
		default:
			if i >= len(data) {
				return nil, fmt.Errorf("run-length repeat missing its byte")
			}
			for j := 0; j < 257-n; j++ {
				out = append(out, data[i])
			}
			i++
		}
		if len(out) > MaxDecodedSize {
			return nil, ErrTooLarge
		}
	}
	return out, nil
}
