package supplier

import (
	"unicode"
	"unicode/utf8"
)

// scanWords is bufio.ScanWords that also advances s.line for every newline it
// skips. Leading space is consumed in its own step so a newline is never
// counted twice when the scanner asks for more data
func (s *Supplier) scanWords(data []byte, atEOF bool) (int, []byte, error) {
	start := 0
	for start < len(data) {
		r, w := utf8.DecodeRune(data[start:])
		if !unicode.IsSpace(r) {
			break
		}
		if r == '\n' {
			s.line++
		}
		start += w
	}
	if start > 0 {
		return start, nil, nil
	}

	for i := 0; i < len(data); {
		r, w := utf8.DecodeRune(data[i:])
		if unicode.IsSpace(r) {
			return i, data[:i], nil
		}
		i += w
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}
