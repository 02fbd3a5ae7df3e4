package fetch

import (
	"encoding/xml"

	"github.com/pkg/errors"
)

// Element is a generic XML tree node as produced by the default parser
// collaborator. Text holds the concatenated character data of the element
// itself.
type Element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []Element  `xml:",any"`
}

// ParseXML is the default XML parser collaborator. It converts a document
// into an Element tree or reports a parse failure.
func ParseXML(data []byte) (*Element, error) {
	var root Element
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(err, "parsing response as XML")
	}
	return &root, nil
}

// Name returns the local tag name of the element.
func (e *Element) Name() string {
	return e.XMLName.Local
}

// Attr returns the value of the named attribute, or an empty string.
func (e *Element) Attr(name string) string {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// Child returns the first child element with the given tag name, or nil.
func (e *Element) Child(name string) *Element {
	for i := range e.Children {
		if e.Children[i].XMLName.Local == name {
			return &e.Children[i]
		}
	}
	return nil
}
