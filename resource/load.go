package resource

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/dquimper/rscribd/xmlutil"
)

const (
	typeTagInteger = "integer"
	typeTagFloat   = "float"
	typeTagSymbol  = "symbol"
)

// LoadAttributes replaces the entire attribute store with the elements of a
// remote response document. Attributes the new document does not carry are
// dropped, which is how speculative local writes get purged after a
// save-and-reload. Flags are untouched; setting them is the caller's
// responsibility.
func (r *Resource) LoadAttributes(elements []*etree.Element) {
	if r == nil {
		return
	}

	attributes := make(map[string]Value, len(elements))
	for _, element := range elements {
		if element == nil {
			continue
		}
		attributes[element.Tag] = coerceElementValue(element)
	}
	r.attributes = attributes
}

// coerceElementValue resolves an element to its typed value. The remote
// schema declares value types through the "type" attribute; content that
// contradicts its declared type is kept as plain text rather than zeroed.
func coerceElementValue(element *etree.Element) Value {
	content, ok := xmlutil.Content(element)
	if !ok {
		return nil
	}

	switch xmlutil.TypeAttr(element) {
	case typeTagInteger:
		trimmed := strings.TrimSpace(content)
		parsed, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return content
		}
		return parsed
	case typeTagFloat:
		trimmed := strings.TrimSpace(content)
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return content
		}
		return parsed
	case typeTagSymbol:
		return Symbol(strings.TrimSpace(content))
	default:
		return content
	}
}
