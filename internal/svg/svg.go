// Package svg builds SVG element trees and serializes them as markup.
package svg

import (
	"bytes"
	"encoding/xml"
	"io"
	"math"
	"strconv"
)

// Namespace is the SVG XML namespace
const Namespace = "http://www.w3.org/2000/svg"

// Attr is a single element attribute; order is preserved on output
type Attr struct {
	Name  string
	Value string
}

// Element is one node of the tree
type Element struct {
	Name     string
	Attrs    []Attr
	Text     string
	Children []*Element
}

// NewElement creates an element from alternating name/value pairs
func NewElement(name string, attrs ...string) *Element {
	e := &Element{Name: name}
	for i := 0; i+1 < len(attrs); i += 2 {
		e.Attrs = append(e.Attrs, Attr{Name: attrs[i], Value: attrs[i+1]})
	}
	return e
}

// Set adds or replaces an attribute and returns the element for chaining
func (e *Element) Set(name, value string) *Element {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return e
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
	return e
}

// SetNum sets a numeric attribute
func (e *Element) SetNum(name string, v float64) *Element {
	return e.Set(name, Num(v))
}

// WithText sets the text content
func (e *Element) WithText(text string) *Element {
	e.Text = text
	return e
}

// Attr returns an attribute value, or "" when unset
func (e *Element) Attr(name string) string {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

// Float parses a numeric attribute
func (e *Element) Float(name string) (float64, error) {
	return strconv.ParseFloat(e.Attr(name), 64)
}

// Append adds children in order
func (e *Element) Append(children ...*Element) {
	e.Children = append(e.Children, children...)
}

// MarshalXML writes the element, its text and its children
func (e *Element) MarshalXML(enc *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: e.Name}
	start.Attr = make([]xml.Attr, len(e.Attrs))
	for i, a := range e.Attrs {
		start.Attr[i] = xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value}
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if e.Text != "" {
		if err := enc.EncodeToken(xml.CharData(e.Text)); err != nil {
			return err
		}
	}
	for _, child := range e.Children {
		if err := enc.Encode(child); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// Document is an <svg> root with a fixed canvas size
type Document struct {
	Root *Element
}

// NewDocument creates an empty canvas
func NewDocument(width, height float64) *Document {
	root := NewElement("svg", "xmlns", Namespace)
	root.SetNum("width", width)
	root.SetNum("height", height)
	return &Document{Root: root}
}

// Append adds top-level elements in drawing order
func (d *Document) Append(children ...*Element) {
	d.Root.Append(children...)
}

// Elements returns every descendant with the given tag, in document order
func (d *Document) Elements(name string) []*Element {
	var out []*Element
	var walk func(*Element)
	walk = func(e *Element) {
		for _, c := range e.Children {
			if c.Name == name {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(d.Root)
	return out
}

// WriteTo writes the <svg> element as an inline fragment
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	enc := xml.NewEncoder(cw)
	if err := enc.Encode(d.Root); err != nil {
		return cw.n, err
	}
	if err := enc.Close(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// WriteStandalone writes an XML declaration followed by the document, for .svg files
func (d *Document) WriteStandalone(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	if _, err := d.WriteTo(w); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// String returns the inline markup
func (d *Document) String() string {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// Num formats a coordinate the way a browser stringifies numbers
func Num(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
