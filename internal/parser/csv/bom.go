package csv

import (
	"bytes"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const utf8BOM = "\uFEFF"

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Decode returns content as UTF-8 text with any byte-order mark removed.
//
// Spreadsheet exports on Windows frequently arrive as UTF-16 with a BOM; those
// are transcoded. Content without a BOM is returned as-is and is treated as
// UTF-8 by the rest of the pipeline.
func Decode(content []byte) (string, error) {
	switch {
	case bytes.HasPrefix(content, bomUTF8):
		return string(content[len(bomUTF8):]), nil
	case bytes.HasPrefix(content, bomUTF16LE), bytes.HasPrefix(content, bomUTF16BE):
		// ExpectBOM consumes the mark and picks the byte order from it.
		dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		out, _, err := transform.Bytes(dec, content)
		if err != nil {
			return "", err
		}
		return string(out), nil
	default:
		return string(content), nil
	}
}

// StripHeaderBOM removes a UTF-8 BOM from the first header cell if present.
func StripHeaderBOM(headers []string) []string {
	if len(headers) == 0 {
		return headers
	}
	headers[0] = trimBOM(headers[0])
	return headers
}

func trimBOM(s string) string {
	for len(s) >= len(utf8BOM) && s[:len(utf8BOM)] == utf8BOM {
		s = s[len(utf8BOM):]
	}
	return s
}
