package core

import (
	"fmt"

	"github.com/tsawler/pdfstruct/internal/filters"
)

// Decode applies the stream's /Filter chain in order, pairing each filter
// with the matching /DecodeParms entry. /Filter and /DecodeParms must be
// direct objects; callers resolve indirect values first. Image-only
// filters end the chain and return the bytes undecoded.
func (s *Stream) Decode() ([]byte, error) {
	names, params, err := s.filterChain()
	if err != nil {
		return nil, err
	}

	data := s.Data
	for i, name := range names {
		switch name {
		case "DCTDecode", "DCT", "JPXDecode", "JBIG2Decode":
			return data, nil
		}
		data, err = decodeWithFilter(data, name, params[i])
		if err != nil {
			return nil, fmt.Errorf("filter %d (%s) failed: %w", i, name, err)
		}
	}
	return data, nil
}

func (s *Stream) filterChain() ([]string, []filters.Params, error) {
	var names []string
	switch f := s.Dict.Get("Filter").(type) {
	case nil:
		return nil, nil, nil
	case Name:
		names = []string{string(f)}
	case Array:
		for i, item := range f {
			n, ok := item.(Name)
			if !ok {
				return nil, nil, Corruptf("filter %d is not a name: %s", i, item.Type())
			}
			names = append(names, string(n))
		}
	default:
		return nil, nil, Corruptf("invalid /Filter type: %s", f.Type())
	}

	params := make([]filters.Params, len(names))
	switch p := s.Dict.Get("DecodeParms").(type) {
	case Dict:
		params[0] = toParams(p)
	case Array:
		for i := range names {
			if d, ok := p.Get(i).(Dict); ok {
				params[i] = toParams(d)
			}
		}
	}
	return names, params, nil
}

// decodeWithFilter applies one filter. Unknown filters are unsupported;
// failures inside a known filter mean the data is damaged.
func decodeWithFilter(data []byte, name string, params filters.Params) ([]byte, error) {
	var out []byte
	var err error
	switch name {
	case "FlateDecode", "Fl":
		out, err = filters.FlateDecode(data, params)
	case "LZWDecode", "LZW":
		out, err = filters.LZWDecode(data, params)
	case "ASCIIHexDecode", "AHx":
		out, err = filters.ASCIIHexDecode(data)
	case "ASCII85Decode", "A85":
		out, err = filters.ASCII85Decode(data)
	case "RunLengthDecode", "RL":
		out, err = filters.RunLengthDecode(data)
	case "CCITTFaxDecode", "CCF":
		out, err = filters.CCITTFaxDecode(data, params)
	case "Crypt":
		return nil, Unsupportedf("Crypt filter")
	default:
		return nil, Unsupportedf("unknown filter %q", name)
	}
	if err != nil {
		return nil, Corruptf("%v", err)
	}
	return out, nil
}

func toParams(d Dict) filters.Params {
	var p filters.Params
	num := func(key string) int {
		f, _ := d.GetNumber(key)
		return int(f)
	}
	p.Predictor = num("Predictor")
	p.Columns = num("Columns")
	p.Colors = num("Colors")
	p.BitsPerComponent = num("BitsPerComponent")
	p.K = num("K")
	p.Rows = num("Rows")
	if ec, ok := d.GetNumber("EarlyChange"); ok {
		v := int(ec)
		p.EarlyChange = &v
	}
	if b, ok := d.Get("BlackIs1").(Bool); ok {
		p.BlackIs1 = bool(b)
	}
	return p
}
