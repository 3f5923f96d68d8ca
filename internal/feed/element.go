// Package feed builds and renders the per-dealership advertising feeds.
package feed

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrEmptyDocument is returned when parsing input without a root element.
var ErrEmptyDocument = errors.New("feed document has no root element")

// Attr is a single XML attribute. Prefixed names such as "xmlns:g" are
// written verbatim.
type Attr struct {
	Name  string
	Value string
}

// Element is a node of a feed document. Attributes and children keep their
// insertion order so rendering is deterministic.
type Element struct {
	Name     string
	Attrs    []Attr
	Text     string
	Children []*Element
}

// NewElement creates an element with no content.
func NewElement(name string) *Element {
	return &Element{Name: name}
}

// SetAttr appends an attribute and returns e for chaining.
func (e *Element) SetAttr(name, value string) *Element {
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
	return e
}

// AddChild appends a new empty child element and returns it.
func (e *Element) AddChild(name string) *Element {
	child := NewElement(name)
	e.Children = append(e.Children, child)

	return child
}

// AddText appends a child holding text and returns it.
func (e *Element) AddText(name, text string) *Element {
	child := e.AddChild(name)
	child.Text = text

	return child
}

// AddTextIf appends a text child only when text is not blank.
func (e *Element) AddTextIf(name, text string) {
	if strings.TrimSpace(text) != "" {
		e.AddText(name, text)
	}
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}

	return "", false
}

// Find returns the first direct child with the given name.
func (e *Element) Find(name string) *Element {
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}

	return nil
}

// FindAll returns every direct child with the given name.
func (e *Element) FindAll(name string) []*Element {
	var found []*Element

	for _, c := range e.Children {
		if c.Name == name {
			found = append(found, c)
		}
	}

	return found
}

// ChildText returns the text of the first direct child with the given name.
func (e *Element) ChildText(name string) string {
	if c := e.Find(name); c != nil {
		return c.Text
	}

	return ""
}

// Render serializes root as UTF-8 XML with a declaration, two-space
// indentation and a trailing newline. Childless elements without text are
// self-closed and only the markup characters are escaped.
func Render(root *Element) ([]byte, error) {
	if root == nil {
		return nil, ErrEmptyDocument
	}

	var buf bytes.Buffer

	buf.WriteString(xml.Header)
	root.write(&buf, 0)

	return buf.Bytes(), nil
}

func (e *Element) write(buf *bytes.Buffer, depth int) {
	indent := strings.Repeat("  ", depth)

	buf.WriteString(indent)
	buf.WriteByte('<')
	buf.WriteString(e.Name)

	for _, a := range e.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.Name)
		buf.WriteString(`="`)
		escape(buf, a.Value, true)
		buf.WriteByte('"')
	}

	switch {
	case len(e.Children) == 0 && e.Text == "":
		buf.WriteString("/>\n")

		return
	case len(e.Children) == 0:
		buf.WriteByte('>')
		escape(buf, e.Text, false)
	default:
		buf.WriteString(">\n")

		if e.Text != "" {
			buf.WriteString(indent + "  ")
			escape(buf, e.Text, false)
			buf.WriteByte('\n')
		}

		for _, c := range e.Children {
			c.write(buf, depth+1)
		}

		buf.WriteString(indent)
	}

	buf.WriteString("</")
	buf.WriteString(e.Name)
	buf.WriteString(">\n")
}

// escape writes s with &, < and > escaped, plus double quotes inside
// attribute values. Characters XML cannot carry become U+FFFD.
func escape(buf *bytes.Buffer, s string, attr bool) {
	for _, r := range s {
		switch {
		case r == '&':
			buf.WriteString("&amp;")
		case r == '<':
			buf.WriteString("&lt;")
		case r == '>':
			buf.WriteString("&gt;")
		case r == '"' && attr:
			buf.WriteString("&quot;")
		case !xmlChar(r):
			buf.WriteRune('\uFFFD')
		default:
			buf.WriteRune(r)
		}
	}
}

func xmlChar(r rune) bool {
	return r == '\t' || r == '\n' || r == '\r' ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}

// Parse reads a rendered feed back into an element tree. Namespace prefixes
// are kept as part of the names, matching what Render writes.
func Parse(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)

	var (
		root  *Element
		stack []*Element
	)

	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to parse feed: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := NewElement(qualified(t.Name))
			for _, a := range t.Attr {
				el.SetAttr(qualified(a.Name), a.Value)
			}

			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("failed to parse feed: multiple root elements")
				}

				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}

			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("failed to parse feed: unexpected </%s>", qualified(t.Name))
			}

			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				if text := strings.TrimSpace(string(t)); text != "" {
					stack[len(stack)-1].Text += text
				}
			}
		}
	}

	if root == nil {
		return nil, ErrEmptyDocument
	}

	return root, nil
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}

	return n.Space + ":" + n.Local
}
