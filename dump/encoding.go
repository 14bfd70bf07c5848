package dump

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// LookupEncoding returns the text encoding with the given name. Text in MIDI
// files has no declared encoding; files from Japanese sequencers are usually
// Shift JIS.
func LookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return unicode.UTF8, nil
	case "shift-jis", "shift_jis", "sjis":
		return japanese.ShiftJIS, nil
	case "latin1", "latin-1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	default:
		return nil, fmt.Errorf("unknown text encoding: %q", name)
	}
}

// decodeText converts the text in a meta event to UTF-8. Invalid input
// is replaced rather than rejected.
func decodeText(enc encoding.Encoding, data []byte) string {
	if enc == nil {
		enc = unicode.UTF8
	}
	s, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "�")
	}
	return string(s)
}
