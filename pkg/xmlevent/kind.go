package xmlevent

// Kind identifies the variant of an XML event.
type Kind byte

const (
	KindNone Kind = iota
	KindStartDocument
	KindEndDocument
	KindStartElement
	KindEndElement
	KindCharacters
	KindWhitespace
	KindCData
	KindComment
	KindProcessingInstruction
	KindDoctype
)

// String returns a stable name for the kind, suitable for debugging.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindStartDocument:
		return "StartDocument"
	case KindEndDocument:
		return "EndDocument"
	case KindStartElement:
		return "StartElement"
	case KindEndElement:
		return "EndElement"
	case KindCharacters:
		return "Characters"
	case KindWhitespace:
		return "Whitespace"
	case KindCData:
		return "CData"
	case KindComment:
		return "Comment"
	case KindProcessingInstruction:
		return "ProcessingInstruction"
	case KindDoctype:
		return "Doctype"
	default:
		return "Unknown"
	}
}

// IsText reports whether events of this kind carry character content.
func (k Kind) IsText() bool {
	switch k {
	case KindCharacters, KindWhitespace, KindCData:
		return true
	default:
		return false
	}
}
