// Package dom is the live document model the tour engine resolves step
// targets against. It parses host page HTML and answers CSS selectors.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"github.com/livetemplate/tourguide"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed HTML document safe for concurrent use.
type Document struct {
	mu   sync.Mutex
	root *html.Node
	sels map[string]cascadia.Sel
}

// Parse reads a full HTML document or a body fragment.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &Document{root: root, sels: make(map[string]cascadia.Sel)}, nil
}

// ParseString is Parse for in-memory HTML.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Query implements tourguide.Document.
func (d *Document) Query(selector string) (tourguide.Element, error) {
	el, err := d.query(selector)
	if err != nil || el == nil {
		// Avoid returning a typed nil inside the interface.
		return nil, err
	}
	return el, nil
}

// Find is Query returning the concrete element type.
func (d *Document) Find(selector string) (*Element, error) {
	return d.query(selector)
}

func (d *Document) query(selector string) (*Element, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	sel, err := d.compile(selector)
	if err != nil {
		return nil, err
	}
	n := cascadia.Query(d.root, sel)
	if n == nil {
		return nil, nil
	}
	return &Element{doc: d, node: n}, nil
}

// compile caches compiled selectors; callers hold d.mu.
func (d *Document) compile(selector string) (cascadia.Sel, error) {
	if sel, ok := d.sels[selector]; ok {
		return sel, nil
	}
	sel, err := cascadia.Parse(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	d.sels[selector] = sel
	return sel, nil
}

// Remove detaches the first element matching selector. It reports whether
// an element was removed.
func (d *Document) Remove(selector string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	sel, err := d.compile(selector)
	if err != nil {
		return false, err
	}
	n := cascadia.Query(d.root, sel)
	if n == nil || n.Parent == nil {
		return false, nil
	}
	n.Parent.RemoveChild(n)
	return true, nil
}

// Count returns how many elements match selector.
func (d *Document) Count(selector string) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	sel, err := d.compile(selector)
	if err != nil {
		return 0, err
	}
	return len(cascadia.QueryAll(d.root, sel)), nil
}

// BodyHTML renders the children of <body>.
func (d *Document) BodyHTML() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	body := findAtom(d.root, atom.Body)
	if body == nil {
		return "", nil
	}
	var buf bytes.Buffer
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func findAtom(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findAtom(c, a); found != nil {
			return found
		}
	}
	return nil
}

// Element is a handle to a node. It stays usable after the node has been
// removed from the document; class changes then only touch the detached
// node.
type Element struct {
	doc  *Document
	node *html.Node
}

// AddClass implements tourguide.Element.
func (e *Element) AddClass(name string) {
	if e == nil || name == "" {
		return
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	classes := classList(e.node)
	for _, c := range classes {
		if c == name {
			return
		}
	}
	setClassList(e.node, append(classes, name))
}

// RemoveClass implements tourguide.Element.
func (e *Element) RemoveClass(name string) {
	if e == nil || name == "" {
		return
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	classes := classList(e.node)
	kept := classes[:0]
	for _, c := range classes {
		if c != name {
			kept = append(kept, c)
		}
	}
	setClassList(e.node, kept)
}

// HasClass reports whether the element carries class name.
func (e *Element) HasClass(name string) bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	for _, c := range classList(e.node) {
		if c == name {
			return true
		}
	}
	return false
}

// Attached reports whether the node is still part of the document.
func (e *Element) Attached() bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	for n := e.node; n != nil; n = n.Parent {
		if n == e.doc.root {
			return true
		}
	}
	return false
}

// Attr returns an attribute value.
func (e *Element) Attr(key string) string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	for _, a := range e.node.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func classList(n *html.Node) []string {
	for _, a := range n.Attr {
		if a.Key == "class" {
			return strings.Fields(a.Val)
		}
	}
	return nil
}

func setClassList(n *html.Node, classes []string) {
	val := strings.Join(classes, " ")
	for i, a := range n.Attr {
		if a.Key == "class" {
			if val == "" {
				n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
				return
			}
			n.Attr[i].Val = val
			return
		}
	}
	if val != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: val})
	}
}
