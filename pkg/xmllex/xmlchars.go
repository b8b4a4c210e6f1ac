package xmllex

import (
	"unicode"
	"unicode/utf8"
)

// isValidXMLChar reports whether r is a valid XML 1.0 character.
func isValidXMLChar(r rune) bool {
	switch {
	case r == 0x9 || r == 0xA || r == 0xD:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	default:
		return false
	}
}

func validateXMLChars(data []byte) error {
	for len(data) > 0 {
		if data[0] < utf8.RuneSelf {
			if !isValidXMLChar(rune(data[0])) {
				return errInvalidChar
			}
			data = data[1:]
			continue
		}
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			return errInvalidChar
		}
		if !isValidXMLChar(r) {
			return errInvalidChar
		}
		data = data[size:]
	}
	return nil
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isWhitespaceBytes(data []byte) bool {
	for _, b := range data {
		if !isWhitespace(b) {
			return false
		}
	}
	return true
}

func isNameStartRune(r rune) bool {
	switch {
	case r == ':' || r == '_':
		return true
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		return true
	case r < utf8.RuneSelf:
		return false
	default:
		return unicode.IsLetter(r) || unicode.Is(unicode.Nl, r)
	}
}

func isNameRune(r rune) bool {
	switch {
	case isNameStartRune(r):
		return true
	case r == '-' || r == '.' || (r >= '0' && r <= '9'):
		return true
	case r < utf8.RuneSelf:
		return false
	default:
		return r == 0xB7 || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r)
	}
}

// isName reports whether data is a valid XML Name.
func isName(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	first := true
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			return false
		}
		if first {
			if !isNameStartRune(r) {
				return false
			}
			first = false
		} else if !isNameRune(r) {
			return false
		}
		data = data[size:]
	}
	return true
}
