package filters

import "fmt"

// applyPredictor reverses a TIFF or PNG predictor. Predictor 1 or 0 is the
// identity.
func applyPredictor(data []byte, params Params) ([]byte, error) {
	switch {
	case params.Predictor <= 1:
		return data, nil
	case params.Predictor == 2:
		return tiffPredictor(data, params)
	case params.Predictor >= 10 && params.Predictor <= 15:
		return pngPredictor(data, params)
	}
	return nil, fmt.Errorf("unsupported predictor: %d", params.Predictor)
}

// tiffPredictor undoes TIFF Predictor 2 for 8-bit components: each sample
// is stored as the difference to the sample on its left.
func tiffPredictor(data []byte, params Params) ([]byte, error) {
	if bpc := params.bitsPerComponent(); bpc != 8 {
		return nil, fmt.Errorf("TIFF predictor only supports 8 bits per component, got %d", bpc)
	}
	colors := params.colors()
	rowSize := params.columns(1) * colors
	out := make([]byte, len(data))
	copy(out, data)
	for rowStart := 0; rowStart < len(out); rowStart += rowSize {
		rowEnd := min(rowStart+rowSize, len(out))
		for i := rowStart + colors; i < rowEnd; i++ {
			out[i] += out[i-colors]
		}
	}
	return out, nil
}

// pngPredictor undoes the per-row PNG filters. Each row carries its own
// filter type byte, so the Predictor value 10-15 only announces that rows
// are prefixed.
func pngPredictor(data []byte, params Params) ([]byte, error) {
	bpp := max((params.colors()*params.bitsPerComponent()+7)/8, 1)
	rowLen := (params.columns(1)*params.colors()*params.bitsPerComponent() + 7) / 8
	stride := rowLen + 1

	out := make([]byte, 0, len(data)/stride*rowLen)
	prev := make([]byte, rowLen)
	cur := make([]byte, rowLen)
	for rowStart := 0; rowStart+1 < len(data); rowStart += stride {
		filter := data[rowStart]
		end := min(rowStart+stride, len(data))
		clear(cur)
		copy(cur, data[rowStart+1:end])

		for i := range cur {
			var left, up, upLeft byte
			if i >= bpp {
				left = cur[i-bpp]
				upLeft = prev[i-bpp]
			}
			up = prev[i]
			switch filter {
			case 0:
			case 1:
				cur[i] += left
			case 2:
				cur[i] += up
			case 3:
				cur[i] += byte((int(left) + int(up)) / 2)
			case 4:
				cur[i] += paeth(left, up, upLeft)
			default:
				return nil, fmt.Errorf("unknown PNG filter type %d", filter)
			}
		}
		out = append(out, cur[:end-rowStart-1]...)
		prev, cur = cur, prev
	}
	return out, nil
}

// paeth picks the neighbour closest to left+up-upLeft
func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
