package compiler

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// Element is one emitted filter element.
type Element struct {
	// ID is the node that produced the element. Synthesized linking
	// elements carry the id of the child they reference.
	ID       string
	Name  string
	Attrs []xml.Attr
	// Text is character data written before the children.
	Text     string
	Children []*Element
}

// Attr returns the value of a named attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func (e *Element) encode(enc *xml.Encoder) error {
	start := xml.StartElement{Name: xml.Name{Local: e.Name}, Attr: e.Attrs}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if e.Text != "" {
		if err := enc.EncodeToken(xml.CharData(e.Text)); err != nil {
			return err
		}
	}
	for _, child := range e.Children {
		if err := child.encode(enc); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// Marshal serializes elements as indented markup, one top-level element per
// line group.
func Marshal(elements []*Element, prefix string) (string, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	enc.Indent(prefix, "  ")
	for _, el := range elements {
		if err := el.encode(enc); err != nil {
			return "", fmt.Errorf("failed to encode element %s: %w", el.Name, err)
		}
	}
	if err := enc.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush markup: %w", err)
	}
	return buf.String(), nil
}
