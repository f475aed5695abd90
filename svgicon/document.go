// Provides parsing of SVG images.
// SVG files are first read into a raw XML tree (Document),
// which preserves attributes and can be written back,
// then compiled into a typed tree (SvgIcon) which
// can be consumed by painting drivers.
// See for example svg2png/svgraster.
package svgicon

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// Content is either an *Element or CharData
type Content interface {
	isContent()
}

// CharData is the text content of an element
type CharData string

// Element is a node of the raw XML tree.
// Name.Space holds the namespace prefix, if any, not the URL.
type Element struct {
	Name     xml.Name
	Attr     []xml.Attr // in source order, values unescaped
	Children []Content
}

func (*Element) isContent() {}
func (CharData) isContent() {}

// Document is a parsed SVG file, whose root is an <svg> element.
type Document struct {
	Root *Element

	prolog []xml.Token // comments and directives preceding the root
}

// Parse reads an SVG document. It returns an error wrapping ErrInvalidSVG
// if the data is not well formed XML or if its root is not an <svg> element.
// Non UTF-8 encodings declared in the XML prolog are supported.
func Parse(r io.Reader) (*Document, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel

	var (
		doc   Document
		stack []*Element
		done  bool // root closed
	)
	for {
		tok, err := decoder.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidSVG, err)
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			if done {
				return nil, fmt.Errorf("%w: content after the root element", ErrInvalidSVG)
			}
			el := &Element{Name: tok.Name, Attr: append([]xml.Attr(nil), tok.Attr...)}
			if len(stack) == 0 {
				if tok.Name.Local != "svg" {
					return nil, fmt.Errorf("%w: root element is <%s>, not <svg>", ErrInvalidSVG, tok.Name.Local)
				}
				doc.Root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("%w: unexpected end element </%s>", ErrInvalidSVG, tok.Name.Local)
			}
			if top := stack[len(stack)-1]; top.Name != tok.Name {
				return nil, fmt.Errorf("%w: element <%s> closed by </%s>", ErrInvalidSVG, top.Name.Local, tok.Name.Local)
			}
			stack = stack[:len(stack)-1]
			done = len(stack) == 0
		case xml.CharData:
			if len(stack) == 0 {
				if len(bytes.TrimSpace(tok)) != 0 {
					return nil, fmt.Errorf("%w: text outside of the root element", ErrInvalidSVG)
				}
				continue
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, CharData(tok))
		case xml.ProcInst:
			if tok.Target == "xml" { // the output is always UTF-8
				continue
			}
			if doc.Root == nil {
				doc.prolog = append(doc.prolog, xml.CopyToken(tok))
			}
		case xml.Directive, xml.Comment:
			if doc.Root == nil {
				doc.prolog = append(doc.prolog, xml.CopyToken(tok))
			}
		}
	}
	if doc.Root == nil {
		return nil, fmt.Errorf("%w: missing root element", ErrInvalidSVG)
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("%w: unclosed element <%s>", ErrInvalidSVG, stack[len(stack)-1].Name.Local)
	}
	return &doc, nil
}

// Get returns the value of the attribute with local name `name`.
func (el *Element) Get(name string) (string, bool) {
	for _, attr := range el.Attr {
		if attr.Name.Local == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Set updates the first attribute with local name `name`,
// or appends a new attribute.
func (el *Element) Set(name, value string) {
	for i, attr := range el.Attr {
		if attr.Name.Local == name {
			el.Attr[i].Value = value
			return
		}
	}
	el.Attr = append(el.Attr, xml.Attr{Name: xml.Name{Local: name}, Value: value})
}

// Text returns the concatenated character data of the element.
func (el *Element) Text() string {
	var b strings.Builder
	for _, c := range el.Children {
		switch c := c.(type) {
		case CharData:
			b.WriteString(string(c))
		case *Element:
			b.WriteString(c.Text())
		}
	}
	return b.String()
}

func qualifiedName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// errWriter remembers the first error
type errWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (ew *errWriter) WriteString(s string) {
	if ew.err != nil {
		return
	}
	n, err := io.WriteString(ew.w, s)
	ew.n += int64(n)
	ew.err = err
}

func (ew *errWriter) escape(s string) {
	if ew.err != nil {
		return
	}
	var b bytes.Buffer
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		ew.err = err
		return
	}
	ew.WriteString(b.String())
}

func (ew *errWriter) writeElement(el *Element) {
	ew.WriteString("<" + qualifiedName(el.Name))
	for _, attr := range el.Attr {
		ew.WriteString(" " + qualifiedName(attr.Name) + `="`)
		ew.escape(attr.Value)
		ew.WriteString(`"`)
	}
	if len(el.Children) == 0 {
		ew.WriteString("/>")
		return
	}
	ew.WriteString(">")
	for _, child := range el.Children {
		switch child := child.(type) {
		case *Element:
			ew.writeElement(child)
		case CharData:
			ew.escape(string(child))
		}
	}
	ew.WriteString("</" + qualifiedName(el.Name) + ">")
}

// WriteTo serializes the document as UTF-8 XML,
// which may be read again by Parse.
func (doc *Document) WriteTo(w io.Writer) (int64, error) {
	if doc.Root == nil {
		return 0, errors.New("svgicon: empty document")
	}
	ew := &errWriter{w: w}
	for _, tok := range doc.prolog {
		switch tok := tok.(type) {
		case xml.ProcInst:
			ew.WriteString("<?" + tok.Target + " " + string(tok.Inst) + "?>\n")
		case xml.Directive:
			ew.WriteString("<!" + string(tok) + ">\n")
		case xml.Comment:
			ew.WriteString("<!--" + string(tok) + "-->\n")
		}
	}
	ew.writeElement(doc.Root)
	return ew.n, ew.err
}

// Bytes returns the serialized document.
func (doc *Document) Bytes() []byte {
	var b bytes.Buffer
	doc.WriteTo(&b)
	return b.Bytes()
}
