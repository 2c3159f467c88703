package source

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// DefaultItemSelector is the element name that delimits items.
const DefaultItemSelector = "item"

type fieldRef struct {
	node *Node
	idx  int
}

type openElement struct {
	text strings.Builder
	refs []fieldRef
	item bool
}

// Decode reads an XML document and returns one node per element whose local
// name equals selector, at any depth, in document order. Every descendant
// element of an item becomes a field holding its trimmed text content.
// Nested items are reported both as items and as fields of the outer item.
func Decode(r io.Reader, selector string) ([]Node, error) {
	if selector == "" {
		selector = DefaultItemSelector
	}

	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	dec.Entity = xml.HTMLEntity

	var (
		items []*Node
		stack []*openElement
		open  []*Node // items currently open, outermost first
		root  bool
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			root = true
			el := &openElement{}
			for _, item := range open {
				el.refs = append(el.refs, fieldRef{node: item, idx: item.reserve(t.Name.Local)})
			}
			if t.Name.Local == selector {
				node := &Node{}
				items = append(items, node)
				open = append(open, node)
				el.item = true
			}
			stack = append(stack, el)
		case xml.CharData:
			for _, el := range stack {
				el.text.Write(t)
			}
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("decoding xml: unexpected end element %q", t.Name.Local)
			}
			el := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			text := strings.TrimSpace(el.text.String())
			for _, ref := range el.refs {
				ref.node.values[ref.idx] = text
			}
			if el.item {
				open = open[:len(open)-1]
			}
		}
	}

	if !root {
		return nil, fmt.Errorf("decoding xml: no root element")
	}

	nodes := make([]Node, len(items))
	for i, n := range items {
		nodes[i] = *n
	}
	return nodes, nil
}
