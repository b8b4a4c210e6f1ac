package xmllex

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/jacoelho/xmlpull/pkg/xmlevent"
)

const readerBufferSize = 64 * 1024

var errUnsupportedEncoding = errors.New("unsupported encoding")

type valueSpan struct {
	start int
	end   int
}

// Lexer reads raw XML events from a byte stream.
//
// It classifies character data into Characters and Whitespace, reports CDATA
// sections, comments, processing instructions and the doctype as separate
// events, and expands entity and character references. Line endings are
// normalized to "\n". It does no namespace processing and no DTD processing.
//
// Slices in returned events are valid until the next call to Next.
type Lexer struct {
	r          *bufio.Reader
	err        error
	readErr    error
	entities   entityResolver
	stack      []xmlevent.Name
	attrs      []xmlevent.Attr
	spans      []valueSpan
	raw        []byte
	text       []byte
	values     []byte
	pendingEnd xmlevent.Event
	offset     int64
	line       int
	column     int
	tokLine    int
	tokColumn  int
	maxDepth   int
	maxAttrs   int
	maxToken   int
	started    bool
	rootSeen   bool
	doctype    bool
	ended      bool
	hasEnd     bool
}

// New returns a Lexer reading from r.
func New(r io.Reader, opts ...Options) *Lexer {
	l := &Lexer{}
	l.Reset(r, opts...)
	return l
}

// Reset prepares the lexer for reading from r with new options.
func (l *Lexer) Reset(r io.Reader, opts ...Options) {
	if l == nil {
		return
	}
	joined := JoinOptions(opts...)
	l.entities = entityResolver{custom: joined.entityMap}
	l.maxDepth = joined.maxDepth
	l.maxAttrs = joined.maxAttrs
	l.maxToken = joined.maxTokenSize
	l.err = nil
	l.readErr = nil
	if r == nil {
		l.r = nil
		l.err = errNilReader
	} else if l.r == nil {
		l.r = bufio.NewReaderSize(r, readerBufferSize)
	} else {
		l.r.Reset(r)
	}
	l.stack = l.stack[:0]
	l.attrs = l.attrs[:0]
	l.spans = l.spans[:0]
	l.raw = l.raw[:0]
	l.text = l.text[:0]
	l.values = l.values[:0]
	l.pendingEnd = xmlevent.Event{}
	l.offset = 0
	l.line = 1
	l.column = 1
	l.tokLine = 1
	l.tokColumn = 1
	l.started = false
	l.rootSeen = false
	l.doctype = false
	l.ended = false
	l.hasEnd = false
}

// Next returns the next raw event.
// The first event is StartDocument and the last is EndDocument, after which
// Next returns io.EOF. Errors are sticky.
func (l *Lexer) Next() (xmlevent.Event, error) {
	if l == nil {
		return xmlevent.Event{}, errNilReader
	}
	if l.err != nil {
		return xmlevent.Event{}, l.err
	}
	ev, err := l.next()
	if err != nil {
		l.err = l.wrapError(err)
		return xmlevent.Event{}, l.err
	}
	return ev, nil
}

// CurrentPos returns the line and column where the most recent event started.
func (l *Lexer) CurrentPos() (line, column int) {
	if l == nil {
		return 0, 0
	}
	return l.tokLine, l.tokColumn
}

// InputOffset returns the number of bytes consumed from the input.
func (l *Lexer) InputOffset() int64 {
	if l == nil {
		return 0
	}
	return l.offset
}

// Depth returns the number of currently open elements.
func (l *Lexer) Depth() int {
	if l == nil {
		return 0
	}
	return len(l.stack)
}

func (l *Lexer) wrapError(err error) error {
	if errors.Is(err, io.EOF) {
		return io.EOF
	}
	if l.readErr != nil {
		return l.readErr
	}
	var syntaxErr *SyntaxError
	if errors.As(err, &syntaxErr) {
		return err
	}
	path := make([]string, len(l.stack))
	for i, name := range l.stack {
		path[i] = name.String()
	}
	return &SyntaxError{
		Err:    err,
		Path:   path,
		Offset: l.offset,
		Line:   l.tokLine,
		Column: l.tokColumn,
	}
}

func (l *Lexer) next() (xmlevent.Event, error) {
	if l.ended {
		return xmlevent.Event{}, io.EOF
	}
	if l.hasEnd {
		ev := l.pendingEnd
		l.pendingEnd = xmlevent.Event{}
		l.hasEnd = false
		l.stack = l.stack[:len(l.stack)-1]
		return ev, nil
	}
	if !l.started {
		l.started = true
		return l.startDocument()
	}

	for {
		l.mark()
		b, err := l.peekByte()
		if errors.Is(err, io.EOF) {
			return l.endOfInput()
		}
		if err != nil {
			return xmlevent.Event{}, err
		}
		if b != '<' {
			ev, ok, err := l.charData()
			if err != nil {
				return xmlevent.Event{}, err
			}
			if !ok {
				continue
			}
			return ev, nil
		}

		switch {
		case l.hasPrefix("<!--"):
			return l.comment()
		case l.hasPrefix("<![CDATA["):
			if len(l.stack) == 0 {
				return xmlevent.Event{}, errContentOutsideRoot
			}
			return l.cdata()
		case l.hasPrefix("<!DOCTYPE"):
			return l.doctypeDecl()
		case l.hasPrefix("<?"):
			return l.procInst()
		case l.hasPrefix("</"):
			return l.endTag()
		case l.hasPrefix("<!"):
			return xmlevent.Event{}, errInvalidToken
		default:
			return l.startTag()
		}
	}
}

func (l *Lexer) event(kind xmlevent.Kind) xmlevent.Event {
	return xmlevent.Event{Kind: kind, Line: l.tokLine, Column: l.tokColumn}
}

func (l *Lexer) endOfInput() (xmlevent.Event, error) {
	if len(l.stack) > 0 {
		return xmlevent.Event{}, errUnexpectedEOF
	}
	if !l.rootSeen {
		return xmlevent.Event{}, errMissingRoot
	}
	l.ended = true
	return l.event(xmlevent.KindEndDocument), nil
}

func (l *Lexer) startDocument() (xmlevent.Event, error) {
	if l.hasPrefix("\xEF\xBB\xBF") {
		if _, err := l.r.Discard(3); err != nil {
			return xmlevent.Event{}, err
		}
		l.offset += 3
	}
	l.mark()
	ev := l.event(xmlevent.KindStartDocument)
	ev.Decl = xmlevent.Declaration{Version: "1.0", Encoding: "UTF-8"}
	if !l.hasXMLDecl() {
		return ev, nil
	}
	if err := l.skip(len("<?xml")); err != nil {
		return xmlevent.Event{}, err
	}
	content, err := l.readUntil("?>")
	if err != nil {
		return xmlevent.Event{}, err
	}
	decl, err := parseDecl(content)
	if err != nil {
		return xmlevent.Event{}, err
	}
	ev.Decl = decl
	return ev, nil
}

func (l *Lexer) hasXMLDecl() bool {
	p, err := l.r.Peek(len("<?xml") + 1)
	if err != nil {
		return false
	}
	return string(p[:5]) == "<?xml" && isWhitespace(p[5])
}

func parseDecl(content []byte) (xmlevent.Declaration, error) {
	decl := xmlevent.Declaration{Encoding: "UTF-8"}
	for {
		content = bytes.TrimLeft(content, " \t\n")
		if len(content) == 0 {
			break
		}
		eq := bytes.IndexByte(content, '=')
		if eq <= 0 {
			return decl, errInvalidXMLDecl
		}
		name := string(bytes.TrimRight(content[:eq], " \t\n"))
		content = bytes.TrimLeft(content[eq+1:], " \t\n")
		if len(content) == 0 || (content[0] != '"' && content[0] != '\'') {
			return decl, errInvalidXMLDecl
		}
		end := bytes.IndexByte(content[1:], content[0])
		if end < 0 {
			return decl, errInvalidXMLDecl
		}
		value := string(content[1 : end+1])
		content = content[end+2:]
		switch name {
		case "version":
			if !strings.HasPrefix(value, "1.") {
				return decl, errInvalidXMLDecl
			}
			decl.Version = value
		case "encoding":
			if !isSupportedEncoding(value) {
				return decl, errUnsupportedEncoding
			}
			decl.Encoding = value
		case "standalone":
			switch value {
			case "yes":
				decl.Standalone = xmlevent.StandaloneYes
			case "no":
				decl.Standalone = xmlevent.StandaloneNo
			default:
				return decl, errInvalidXMLDecl
			}
		default:
			return decl, errInvalidXMLDecl
		}
	}
	if decl.Version == "" {
		return decl, errInvalidXMLDecl
	}
	return decl, nil
}

func isSupportedEncoding(label string) bool {
	switch strings.ToLower(label) {
	case "utf-8", "utf8", "us-ascii", "ascii":
		return true
	default:
		return false
	}
}

// charData reads a text run. It reports false for whitespace outside the
// root element, which is skipped.
func (l *Lexer) charData() (xmlevent.Event, bool, error) {
	l.raw = l.raw[:0]
	for {
		p, err := l.r.Peek(1)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return xmlevent.Event{}, false, err
		}
		if p[0] == '<' {
			break
		}
		b, err := l.readByte()
		if err != nil {
			return xmlevent.Event{}, false, err
		}
		l.raw = append(l.raw, b)
		if l.maxToken > 0 && len(l.raw) > l.maxToken {
			return xmlevent.Event{}, false, errTokenTooLarge
		}
	}
	raw := l.raw
	if bytes.Contains(raw, []byte("]]>")) {
		return xmlevent.Event{}, false, errInvalidCDATAEnd
	}
	if err := validateXMLChars(raw); err != nil {
		return xmlevent.Event{}, false, err
	}
	whitespace := isWhitespaceBytes(raw)
	if len(l.stack) == 0 {
		if whitespace {
			return xmlevent.Event{}, false, nil
		}
		return xmlevent.Event{}, false, errContentOutsideRoot
	}
	if whitespace {
		ev := l.event(xmlevent.KindWhitespace)
		ev.Text = raw
		return ev, true, nil
	}
	ev := l.event(xmlevent.KindCharacters)
	if bytes.IndexByte(raw, '&') < 0 {
		ev.Text = raw
		return ev, true, nil
	}
	text, err := unescapeInto(l.text[:0], raw, &l.entities)
	if err != nil {
		return xmlevent.Event{}, false, err
	}
	l.text = text
	ev.Text = text
	return ev, true, nil
}

func (l *Lexer) comment() (xmlevent.Event, error) {
	if err := l.skip(len("<!--")); err != nil {
		return xmlevent.Event{}, err
	}
	content, err := l.readUntil("--")
	if err != nil {
		return xmlevent.Event{}, err
	}
	b, err := l.readByte()
	if err != nil {
		return xmlevent.Event{}, unexpected(err)
	}
	if b != '>' || bytes.HasSuffix(content, []byte("-")) {
		return xmlevent.Event{}, errInvalidComment
	}
	if err := validateXMLChars(content); err != nil {
		return xmlevent.Event{}, err
	}
	ev := l.event(xmlevent.KindComment)
	ev.Text = content
	return ev, nil
}

func (l *Lexer) cdata() (xmlevent.Event, error) {
	if err := l.skip(len("<![CDATA[")); err != nil {
		return xmlevent.Event{}, err
	}
	content, err := l.readUntil("]]>")
	if err != nil {
		return xmlevent.Event{}, err
	}
	if err := validateXMLChars(content); err != nil {
		return xmlevent.Event{}, err
	}
	ev := l.event(xmlevent.KindCData)
	ev.Text = content
	return ev, nil
}

func (l *Lexer) doctypeDecl() (xmlevent.Event, error) {
	if l.rootSeen || l.doctype {
		return xmlevent.Event{}, errMisplacedDirective
	}
	l.doctype = true
	if err := l.skip(len("<!")); err != nil {
		return xmlevent.Event{}, err
	}
	l.raw = l.raw[:0]
	var quote byte
	depth := 0
	for {
		b, err := l.readByte()
		if err != nil {
			return xmlevent.Event{}, unexpected(err)
		}
		switch {
		case quote != 0:
			if b == quote {
				quote = 0
			}
		case b == '"' || b == '\'':
			quote = b
		case b == '[':
			depth++
		case b == ']':
			depth--
		case b == '>' && depth <= 0:
			ev := l.event(xmlevent.KindDoctype)
			ev.Text = l.raw
			return ev, nil
		}
		l.raw = append(l.raw, b)
		if l.maxToken > 0 && len(l.raw) > l.maxToken {
			return xmlevent.Event{}, errTokenTooLarge
		}
	}
}

func (l *Lexer) procInst() (xmlevent.Event, error) {
	if err := l.skip(len("<?")); err != nil {
		return xmlevent.Event{}, err
	}
	target, err := l.readName()
	if err != nil {
		return xmlevent.Event{}, errInvalidPI
	}
	if strings.EqualFold(target.String(), "xml") {
		return xmlevent.Event{}, errMisplacedXMLDecl
	}
	ev := l.event(xmlevent.KindProcessingInstruction)
	ev.Name = target
	if l.hasPrefix("?>") {
		if err := l.skip(2); err != nil {
			return xmlevent.Event{}, err
		}
		return ev, nil
	}
	if !l.skipSpace() {
		return xmlevent.Event{}, errInvalidPI
	}
	data, err := l.readUntil("?>")
	if err != nil {
		return xmlevent.Event{}, err
	}
	if err := validateXMLChars(data); err != nil {
		return xmlevent.Event{}, err
	}
	ev.Text = data
	return ev, nil
}

func (l *Lexer) endTag() (xmlevent.Event, error) {
	if err := l.skip(len("</")); err != nil {
		return xmlevent.Event{}, err
	}
	name, err := l.readName()
	if err != nil {
		return xmlevent.Event{}, err
	}
	l.skipSpace()
	if err := l.expect('>'); err != nil {
		return xmlevent.Event{}, err
	}
	if len(l.stack) == 0 || l.stack[len(l.stack)-1] != name {
		return xmlevent.Event{}, errMismatchedEndTag
	}
	l.stack = l.stack[:len(l.stack)-1]
	ev := l.event(xmlevent.KindEndElement)
	ev.Name = name
	return ev, nil
}

func (l *Lexer) startTag() (xmlevent.Event, error) {
	if l.rootSeen && len(l.stack) == 0 {
		return xmlevent.Event{}, errMultipleRoots
	}
	if err := l.skip(1); err != nil {
		return xmlevent.Event{}, err
	}
	name, err := l.readName()
	if err != nil {
		return xmlevent.Event{}, err
	}
	if l.maxDepth > 0 && len(l.stack) >= l.maxDepth {
		return xmlevent.Event{}, errDepthLimit
	}
	l.attrs = l.attrs[:0]
	l.spans = l.spans[:0]
	l.values = l.values[:0]

	selfClosing := false
	for {
		sawSpace := l.skipSpace()
		b, err := l.peekByte()
		if err != nil {
			return xmlevent.Event{}, unexpected(err)
		}
		if b == '>' {
			if err := l.skip(1); err != nil {
				return xmlevent.Event{}, err
			}
			break
		}
		if b == '/' {
			if err := l.skip(1); err != nil {
				return xmlevent.Event{}, err
			}
			if err := l.expect('>'); err != nil {
				return xmlevent.Event{}, err
			}
			selfClosing = true
			break
		}
		if !sawSpace {
			return xmlevent.Event{}, errInvalidToken
		}
		if err := l.attribute(); err != nil {
			return xmlevent.Event{}, err
		}
	}

	for i, span := range l.spans {
		l.attrs[i].Value = l.values[span.start:span.end:span.end]
	}
	l.rootSeen = true
	l.stack = append(l.stack, name)
	ev := l.event(xmlevent.KindStartElement)
	ev.Name = name
	ev.Attrs = l.attrs
	if selfClosing {
		l.pendingEnd = xmlevent.Event{
			Kind:   xmlevent.KindEndElement,
			Name:   name,
			Line:   l.line,
			Column: l.column,
		}
		l.hasEnd = true
	}
	return ev, nil
}

func (l *Lexer) attribute() error {
	name, err := l.readName()
	if err != nil {
		return err
	}
	for _, attr := range l.attrs {
		if attr.Name == name {
			return errDuplicateAttr
		}
	}
	if l.maxAttrs > 0 && len(l.attrs) >= l.maxAttrs {
		return errAttrLimit
	}
	l.skipSpace()
	if err := l.expect('='); err != nil {
		return errInvalidAttr
	}
	l.skipSpace()
	quote, err := l.readByte()
	if err != nil {
		return unexpected(err)
	}
	if quote != '"' && quote != '\'' {
		return errInvalidAttr
	}
	l.raw = l.raw[:0]
	for {
		b, err := l.readByte()
		if err != nil {
			return unexpected(err)
		}
		if b == quote {
			break
		}
		if b == '<' {
			return errInvalidAttr
		}
		if b == '\t' || b == '\n' {
			b = ' '
		}
		l.raw = append(l.raw, b)
		if l.maxToken > 0 && len(l.raw) > l.maxToken {
			return errTokenTooLarge
		}
	}
	if err := validateXMLChars(l.raw); err != nil {
		return err
	}
	start := len(l.values)
	values, err := unescapeInto(l.values, l.raw, &l.entities)
	if err != nil {
		return err
	}
	l.values = values
	l.spans = append(l.spans, valueSpan{start: start, end: len(values)})
	l.attrs = append(l.attrs, xmlevent.Attr{Name: name})
	return nil
}

// readName reads an XML name up to the next delimiter.
func (l *Lexer) readName() (xmlevent.Name, error) {
	l.raw = l.raw[:0]
	for {
		b, err := l.peekByte()
		if err != nil {
			return xmlevent.Name{}, unexpected(err)
		}
		if isWhitespace(b) || isNameDelimiter(b) {
			break
		}
		if _, err := l.readByte(); err != nil {
			return xmlevent.Name{}, err
		}
		l.raw = append(l.raw, b)
		if l.maxToken > 0 && len(l.raw) > l.maxToken {
			return xmlevent.Name{}, errTokenTooLarge
		}
	}
	if !isName(l.raw) {
		return xmlevent.Name{}, errInvalidName
	}
	full := string(l.raw)
	prefix, local, ok := strings.Cut(full, ":")
	if !ok {
		return xmlevent.Name{Local: full}, nil
	}
	if prefix == "" || local == "" {
		return xmlevent.Name{}, errInvalidName
	}
	return xmlevent.Name{Prefix: prefix, Local: local}, nil
}

func isNameDelimiter(b byte) bool {
	switch b {
	case '/', '>', '=', '?', '<', '"', '\'':
		return true
	default:
		return false
	}
}

// readUntil reads up to and including delim and returns the bytes before it.
func (l *Lexer) readUntil(delim string) ([]byte, error) {
	l.raw = l.raw[:0]
	for {
		b, err := l.readByte()
		if err != nil {
			return nil, unexpected(err)
		}
		l.raw = append(l.raw, b)
		if n := len(l.raw); n >= len(delim) && string(l.raw[n-len(delim):]) == delim {
			return l.raw[:n-len(delim)], nil
		}
		if l.maxToken > 0 && len(l.raw) > l.maxToken+len(delim) {
			return nil, errTokenTooLarge
		}
	}
}

func (l *Lexer) mark() {
	l.tokLine = l.line
	l.tokColumn = l.column
}

func (l *Lexer) readByte() (byte, error) {
	b, err := l.r.ReadByte()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			l.readErr = err
		}
		return 0, err
	}
	l.offset++
	if b == '\r' {
		if next, err := l.r.Peek(1); err == nil && next[0] == '\n' {
			if _, err := l.r.ReadByte(); err == nil {
				l.offset++
			}
		}
		b = '\n'
	}
	if b == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return b, nil
}

func (l *Lexer) peekByte() (byte, error) {
	p, err := l.r.Peek(1)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			l.readErr = err
		}
		return 0, err
	}
	return p[0], nil
}

func (l *Lexer) hasPrefix(prefix string) bool {
	p, err := l.r.Peek(len(prefix))
	return err == nil && string(p) == prefix
}

func (l *Lexer) skip(n int) error {
	for range n {
		if _, err := l.readByte(); err != nil {
			return unexpected(err)
		}
	}
	return nil
}

// skipSpace consumes whitespace and reports whether any was present.
func (l *Lexer) skipSpace() bool {
	seen := false
	for {
		b, err := l.peekByte()
		if err != nil || !isWhitespace(b) {
			return seen
		}
		if _, err := l.readByte(); err != nil {
			return seen
		}
		seen = true
	}
}

func (l *Lexer) expect(want byte) error {
	b, err := l.readByte()
	if err != nil {
		return unexpected(err)
	}
	if b != want {
		return errInvalidToken
	}
	return nil
}

func unexpected(err error) error {
	if errors.Is(err, io.EOF) {
		return errUnexpectedEOF
	}
	return err
}
