package compilerheuristic

import (
	"os"
	"strings"
	"unicode/utf16"
)

// locateResponseFileToken finds the first "@…" response-file
// reference in commandArgs at or after from, mirroring the original's
// find_first_of('@', ...) plus its two token-end rules: a quoted
// "@\"path\"" token ends at the next quote (and the quote itself is
// consumed), an unquoted "@path" token ends at the next space or end
// of string.
func locateResponseFileToken(commandArgs string, from int) (tokenStart, tokenEnd int, path string, ok bool) {
	at := strings.IndexByte(commandArgs[from:], '@')
	if at == -1 {
		return 0, 0, "", false
	}
	tokenStart = from + at

	if tokenStart+1 >= len(commandArgs) {
		return 0, 0, "", false
	}

	if commandArgs[tokenStart+1] == '"' {
		closeQuote := strings.IndexByte(commandArgs[tokenStart+2:], '"')
		if closeQuote == -1 {
			return 0, 0, "", false
		}
		closeQuote += tokenStart + 2
		path = commandArgs[tokenStart+2 : closeQuote]
		tokenEnd = closeQuote + 1 // skip trailing quote
		return tokenStart, tokenEnd, path, true
	}

	space := strings.IndexByte(commandArgs[tokenStart+1:], ' ')
	if space == -1 {
		tokenEnd = len(commandArgs)
	} else {
		tokenEnd = tokenStart + 1 + space
	}
	path = commandArgs[tokenStart+1 : tokenEnd]
	return tokenStart, tokenEnd, path, true
}

// readResponseFile reads path as raw bytes with no encoding
// conversion, matching ReadRawResponseFile in the original source.
func readResponseFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// utf16BOM is the little-endian UTF-16 byte order mark MSBuild writes
// at the start of a response file it generates.
var utf16BOM = []byte{0xFF, 0xFE}

// decodeResponseFileBytes decodes raw response-file bytes into a Go
// string for pattern counting and for splicing back into commandArgs.
// A leading FF FE marks UTF-16LE content (the remainder is decoded
// two bytes at a time); anything else is treated as a raw byte
// buffer, matching the original's byte-for-byte char* scan.
func decodeResponseFileBytes(raw []byte) string {
	if len(raw) >= 2 && raw[0] == utf16BOM[0] && raw[1] == utf16BOM[1] {
		body := raw[2:]
		units := make([]uint16, len(body)/2)
		for i := range units {
			units[i] = uint16(body[2*i]) | uint16(body[2*i+1])<<8
		}
		return string(utf16.Decode(units))
	}
	return string(raw)
}
