package filters

import "errors"

// MaxDecodedSize bounds the output of a single decoder
const MaxDecodedSize = 256 << 20

// ErrTooLarge is returned when decoded output would exceed MaxDecodedSize
var ErrTooLarge = errors.New("decoded stream exceeds size limit")

// Params holds the /DecodeParms entries the decoders understand. Zero
// values select the PDF defaults.
type Params struct {
	Predictor        int
	Columns          int
	Colors           int
	BitsPerComponent int

	// EarlyChange is the LZW code-width switch; nil means the default of 1.
	EarlyChange *int

	// CCITTFaxDecode
	K        int
	Rows     int
	BlackIs1 bool
}

func (p Params) columns(def int) int {
	if p.Columns > 0 {
		return p.Columns
	}
	return def
}

func (p Params) colors() int {
	if p.Colors > 0 {
		return p.Colors
	}
	return 1
}

func (p Params) bitsPerComponent() int {
	if p.BitsPerComponent > 0 {
		return p.BitsPerComponent
	}
	return 8
}

func (p Params) earlyChange() bool {
	return p.EarlyChange == nil || *p.EarlyChange != 0
}
