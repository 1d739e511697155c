// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// decoded is a source table converted to UTF-8.
type decoded struct {
	text     string
	encoding string
	sep      rune
}

var legacyEncodings = []struct {
	name string
	enc  encoding.Encoding
}{
	{"windows-1255", charmap.Windows1255},
	{"iso-8859-8", charmap.ISO8859_8},
}

// decode detects the text encoding of a source table. UTF-16 is
// recognized by its byte order mark; otherwise UTF-8, windows-1255 and
// ISO-8859-8 are tried in order and the first that decodes without
// replacement characters wins.
func decode(data []byte) (decoded, error) {
	if bytes.HasPrefix(data, []byte{0xFF, 0xFE}) || bytes.HasPrefix(data, []byte{0xFE, 0xFF}) {
		dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		out, err := dec.Bytes(data)
		if err != nil {
			return decoded{}, fmt.Errorf("decoding utf-16: %w", err)
		}
		return decoded{text: string(out), encoding: "utf-16", sep: '\t'}, nil
	}

	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(data) {
		text := string(data)
		return decoded{text: text, encoding: "utf-8", sep: separator(text)}, nil
	}

	for _, le := range legacyEncodings {
		out, err := le.enc.NewDecoder().Bytes(data)
		if err != nil || bytes.ContainsRune(out, utf8.RuneError) {
			continue
		}
		text := string(out)
		return decoded{text: text, encoding: le.name, sep: separator(text)}, nil
	}
	return decoded{}, fmt.Errorf("no supported encoding decodes the file cleanly")
}

// separator picks tab when the header line has more tabs than commas.
func separator(text string) rune {
	header, _, _ := strings.Cut(text, "\n")
	if strings.Count(header, "\t") > strings.Count(header, ",") {
		return '\t'
	}
	return ','
}
