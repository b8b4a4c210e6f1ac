package xmlnorm

import "strconv"

// Config holds the normalization options.
// It is an immutable value: the With methods return an updated copy.
// The zero value disables every option; use NewConfig for the defaults.
type Config struct {
	trimWhitespace            bool
	whitespaceToCharacters    bool
	cdataToCharacters         bool
	ignoreComments            bool
	mergeSequentialCharacters bool
}

// NewConfig returns the default configuration: comments are ignored and
// sequential characters are merged, everything else is off.
func NewConfig() Config {
	return Config{
		ignoreComments:            true,
		mergeSequentialCharacters: true,
	}
}

// WithTrimWhitespace controls removal of standalone whitespace and of leading
// and trailing whitespace from characters. CDATA is only trimmed when it is
// converted to characters.
func (c Config) WithTrimWhitespace(value bool) Config {
	c.trimWhitespace = value
	return c
}

// WithWhitespaceToCharacters controls emitting whitespace as characters.
func (c Config) WithWhitespaceToCharacters(value bool) Config {
	c.whitespaceToCharacters = value
	return c
}

// WithCDataToCharacters controls emitting CDATA sections as characters.
func (c Config) WithCDataToCharacters(value bool) Config {
	c.cdataToCharacters = value
	return c
}

// WithIgnoreComments controls dropping comments from the stream.
func (c Config) WithIgnoreComments(value bool) Config {
	c.ignoreComments = value
	return c
}

// WithMergeSequentialCharacters controls concatenating adjacent characters.
func (c Config) WithMergeSequentialCharacters(value bool) Config {
	c.mergeSequentialCharacters = value
	return c
}

// TrimWhitespace reports whether whitespace trimming is enabled.
func (c Config) TrimWhitespace() bool { return c.trimWhitespace }

// WhitespaceToCharacters reports whether whitespace is emitted as characters.
func (c Config) WhitespaceToCharacters() bool { return c.whitespaceToCharacters }

// CDataToCharacters reports whether CDATA is emitted as characters.
func (c Config) CDataToCharacters() bool { return c.cdataToCharacters }

// IgnoreComments reports whether comments are dropped.
func (c Config) IgnoreComments() bool { return c.ignoreComments }

// MergeSequentialCharacters reports whether adjacent characters are merged.
func (c Config) MergeSequentialCharacters() bool { return c.mergeSequentialCharacters }

// String renders the options as space separated key=value pairs.
func (c Config) String() string {
	buf := make([]byte, 0, 160)
	buf = appendFlag(buf, "trim_whitespace", c.trimWhitespace)
	buf = appendFlag(buf, "whitespace_to_characters", c.whitespaceToCharacters)
	buf = appendFlag(buf, "cdata_to_characters", c.cdataToCharacters)
	buf = appendFlag(buf, "ignore_comments", c.ignoreComments)
	buf = appendFlag(buf, "merge_sequential_characters", c.mergeSequentialCharacters)
	return string(buf)
}

func appendFlag(dst []byte, key string, value bool) []byte {
	if len(dst) > 0 {
		dst = append(dst, ' ')
	}
	dst = append(dst, key...)
	dst = append(dst, '=')
	return strconv.AppendBool(dst, value)
}
