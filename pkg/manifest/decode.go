// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decodeText returns raw as UTF-8 without a byte-order mark.
func decodeText(raw []byte) ([]byte, error) {
	if hasUTF16BOM(raw) || utf8.Valid(bytes.TrimPrefix(raw, bomUTF8)) {
		out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
		if err == nil && utf8.Valid(out) {
			return out, nil
		}
	}
	return decodeDetected(stripBOM(raw))
}

// decodeDetected guesses the charset of raw and transcodes it to UTF-8.
func decodeDetected(raw []byte) ([]byte, error) {
	res, err := chardet.NewTextDetector().DetectBest(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUndecodable, err)
	}
	enc, err := ianaindex.IANA.Encoding(res.Charset)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%w: unsupported charset %q", ErrUndecodable, res.Charset)
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUndecodable, res.Charset, err)
	}
	if !utf8.Valid(out) {
		return nil, fmt.Errorf("%w: %s produced invalid UTF-8", ErrUndecodable, res.Charset)
	}
	return out, nil
}

func hasUTF16BOM(raw []byte) bool {
	return bytes.HasPrefix(raw, bomUTF16LE) || bytes.HasPrefix(raw, bomUTF16BE)
}

func stripBOM(raw []byte) []byte {
	for _, bom := range [][]byte{bomUTF8, bomUTF16LE, bomUTF16BE} {
		if bytes.HasPrefix(raw, bom) {
			return raw[len(bom):]
		}
	}
	return raw
}
