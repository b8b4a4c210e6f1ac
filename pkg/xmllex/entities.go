package xmllex

import (
	"bytes"
	"unicode/utf8"
)

var standardEntities = map[string]string{
	"lt":   "<",
	"gt":   ">",
	"amp":  "&",
	"apos": "'",
	"quot": "\"",
}

type entityResolver struct {
	custom map[string]string
}

func (r *entityResolver) resolve(name string) (string, bool) {
	if value, ok := standardEntities[name]; ok {
		return value, true
	}
	if r == nil || r.custom == nil {
		return "", false
	}
	value, ok := r.custom[name]
	return value, ok
}

// unescapeInto appends data to dst with entity and character references expanded.
func unescapeInto(dst, data []byte, resolver *entityResolver) ([]byte, error) {
	for len(data) > 0 {
		amp := bytes.IndexByte(data, '&')
		if amp < 0 {
			return append(dst, data...), nil
		}
		dst = append(dst, data[:amp]...)
		data = data[amp:]
		semi := bytes.IndexByte(data, ';')
		if semi < 2 {
			return dst, errInvalidEntity
		}
		ref := data[1:semi]
		if ref[0] == '#' {
			r, err := parseCharRef(ref)
			if err != nil {
				return dst, err
			}
			dst = utf8.AppendRune(dst, r)
		} else {
			replacement, ok := resolver.resolve(string(ref))
			if !ok {
				return dst, errInvalidEntity
			}
			dst = append(dst, replacement...)
		}
		data = data[semi+1:]
	}
	return dst, nil
}

func parseCharRef(ref []byte) (rune, error) {
	if len(ref) < 2 {
		return 0, errInvalidCharRef
	}
	base := uint64(10)
	digits := ref[1:]
	if digits[0] == 'x' {
		base = 16
		digits = digits[1:]
	}
	if len(digits) == 0 {
		return 0, errInvalidCharRef
	}
	var value uint64
	for _, b := range digits {
		var digit byte
		switch {
		case b >= '0' && b <= '9':
			digit = b - '0'
		case base == 16 && b >= 'a' && b <= 'f':
			digit = b - 'a' + 10
		case base == 16 && b >= 'A' && b <= 'F':
			digit = b - 'A' + 10
		default:
			return 0, errInvalidCharRef
		}
		value = value*base + uint64(digit)
		if value > utf8.MaxRune {
			return 0, errInvalidCharRef
		}
	}
	r := rune(value)
	if !isValidXMLChar(r) {
		return 0, errInvalidCharRef
	}
	return r, nil
}
