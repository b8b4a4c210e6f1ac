package xmllex

import (
	"errors"
	"fmt"
	"strings"
)

var (
	errNilReader          = errors.New("nil XML reader")
	errUnexpectedEOF      = errors.New("unexpected EOF")
	errInvalidName        = errors.New("invalid XML name")
	errInvalidEntity      = errors.New("invalid entity reference")
	errInvalidCharRef     = errors.New("invalid character reference")
	errInvalidChar        = errors.New("invalid XML character")
	errInvalidToken       = errors.New("invalid XML token")
	errInvalidComment     = errors.New("invalid XML comment")
	errInvalidPI          = errors.New("invalid XML processing instruction")
	errInvalidCDATAEnd    = errors.New("']]>' not allowed in character data")
	errInvalidAttr        = errors.New("invalid attribute")
	errTokenTooLarge      = errors.New("token exceeds MaxTokenSize")
	errDepthLimit         = errors.New("element depth exceeds MaxDepth")
	errAttrLimit          = errors.New("attribute count exceeds MaxAttrs")
	errDuplicateAttr      = errors.New("duplicate attribute name")
	errMismatchedEndTag   = errors.New("mismatched end element")
	errMultipleRoots      = errors.New("multiple root elements")
	errContentOutsideRoot = errors.New("content outside root element")
	errMissingRoot        = errors.New("missing root element")
	errMisplacedDirective = errors.New("directive outside prolog")
	errMisplacedXMLDecl   = errors.New("XML declaration not at start")
	errInvalidXMLDecl     = errors.New("invalid XML declaration")
)

// SyntaxError reports a well-formedness error with location context.
type SyntaxError struct {
	Err    error
	Path   []string
	Offset int64
	Line   int
	Column int
}

// Error formats the syntax error with location and cause.
func (e *SyntaxError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("xml syntax error at line %d, column %d: %v", e.Line, e.Column, e.Err)
	if len(e.Path) > 0 {
		msg += " (in /" + strings.Join(e.Path, "/") + ")"
	}
	return msg
}

// Unwrap exposes the underlying error.
func (e *SyntaxError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
