package xmlutil

import (
	"strings"

	"github.com/beevik/etree"
)

// Text returns the element's direct character data, excluding CDATA sections.
func Text(element *etree.Element) string {
	if element == nil {
		return ""
	}

	var builder strings.Builder
	for _, child := range element.Child {
		charData, ok := child.(*etree.CharData)
		if !ok || charData.IsCData() {
			continue
		}
		builder.WriteString(charData.Data)
	}
	return builder.String()
}

// CData returns the concatenated CDATA sections of the element.
func CData(element *etree.Element) string {
	if element == nil {
		return ""
	}

	var builder strings.Builder
	for _, child := range element.Child {
		charData, ok := child.(*etree.CharData)
		if !ok || !charData.IsCData() {
			continue
		}
		builder.WriteString(charData.Data)
	}
	return builder.String()
}

// Content resolves the textual content of an element: the direct text when it
// is non-blank, otherwise any embedded CDATA. The second result reports
// whether any content existed at all.
func Content(element *etree.Element) (string, bool) {
	text := Text(element)
	if strings.TrimSpace(text) != "" {
		return text, true
	}

	literal := CData(element)
	if literal != "" {
		return literal, true
	}

	return "", false
}

// TypeAttr returns the value of the element's "type" attribute, trimmed.
func TypeAttr(element *etree.Element) string {
	if element == nil {
		return ""
	}
	return strings.TrimSpace(element.SelectAttrValue("type", ""))
}

// AttrValue returns a named attribute value, trimmed, or the empty string.
func AttrValue(element *etree.Element, name string) string {
	if element == nil {
		return ""
	}
	return strings.TrimSpace(element.SelectAttrValue(name, ""))
}

// ChildContent resolves the content of a named direct child element.
func ChildContent(element *etree.Element, name string) (string, bool) {
	if element == nil {
		return "", false
	}
	child := element.SelectElement(name)
	if child == nil {
		return "", false
	}
	return Content(child)
}

// Parse reads an XML document from raw bytes. CDATA sections stay distinct
// from character data so Content can fall back to them.
func Parse(data []byte) (*etree.Document, error) {
	document := etree.NewDocument()
	document.ReadSettings.PreserveCData = true
	if err := document.ReadFromBytes(data); err != nil {
		return nil, err
	}
	return document, nil
}
