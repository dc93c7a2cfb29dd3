package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a live HTML document. Apply is serialized: a plan runs to
// completion against a working copy that replaces the document only when
// every op succeeds, so readers never observe a half-applied plan.
type Document struct {
	mu        sync.RWMutex
	root      *html.Node
	templates map[string]*html.Node
	onApply   func(OpKind)
}

// Parse reads a document from r.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &Document{root: root, templates: make(map[string]*html.Node)}, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Detach removes the first match of selector from the document and keeps it
// as a clone template keyed by selector.
func (d *Document) Detach(selector string) error {
	sel, err := compile(selector)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.templates[selector]; ok {
		return nil
	}
	n := sel.MatchFirst(d.root)
	if n == nil {
		return fmt.Errorf("render: template %q not found", selector)
	}
	n.Parent.RemoveChild(n)
	d.templates[selector] = n
	return nil
}

// Apply runs plan as one unit.
func (d *Document) Apply(plan Plan) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	work := cloneNode(d.root)
	handles := make(map[string]*html.Node)
	for i, op := range plan {
		if err := d.apply(work, handles, op); err != nil {
			return fmt.Errorf("render: op %d (%s %s): %w", i, op.Kind, op.Selector, err)
		}
	}
	d.root = work
	if d.onApply != nil {
		for _, op := range plan {
			d.onApply(op.Kind)
		}
	}
	return nil
}

func (d *Document) apply(root *html.Node, handles map[string]*html.Node, op Op) error {
	switch op.Kind {
	case OpClone:
		tmpl, ok := d.templates[op.Template]
		if !ok {
			return fmt.Errorf("no template %q", op.Template)
		}
		n := cloneNode(tmpl)
		setAttr(n, RenderedAttr, "")
		handles[op.Handle] = n
		return nil

	case OpCreate:
		n := &html.Node{
			Type:     html.ElementNode,
			Data:     op.Tag,
			DataAtom: atom.Lookup([]byte(op.Tag)),
		}
		for _, a := range op.Attrs {
			setAttr(n, a.Key, a.Val)
		}
		if op.Value != "" {
			n.AppendChild(&html.Node{Type: html.TextNode, Data: op.Value})
		}
		if op.Parent != "" {
			parent, ok := handles[op.Parent]
			if !ok {
				return fmt.Errorf("unknown parent handle %q", op.Parent)
			}
			parent.AppendChild(n)
		}
		if op.Handle != "" {
			handles[op.Handle] = n
		}
		return nil

	case OpAppend:
		n, ok := handles[op.Handle]
		if !ok {
			return fmt.Errorf("unknown handle %q", op.Handle)
		}
		target, err := first(root, op.Selector)
		if err != nil {
			return err
		}
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		target.AppendChild(n)
		return nil

	case OpRemove:
		scope, err := scopeOf(root, handles, op.Handle)
		if err != nil {
			return err
		}
		sel, err := compile(op.Selector)
		if err != nil {
			return err
		}
		for _, n := range sel.MatchAll(scope) {
			if n.Parent != nil {
				n.Parent.RemoveChild(n)
			}
		}
		return nil
	}

	scope, err := scopeOf(root, handles, op.Handle)
	if err != nil {
		return err
	}
	target, err := first(scope, op.Selector)
	if err != nil {
		return err
	}

	switch op.Kind {
	case OpSetText:
		removeChildren(target)
		if op.Value != "" {
			target.AppendChild(&html.Node{Type: html.TextNode, Data: op.Value})
		}
	case OpSetAttr:
		setAttr(target, op.Key, op.Value)
	case OpSetStyle:
		setAttr(target, "style", setStyle(getAttr(target, "style"), op.Key, op.Value))
	case OpSetLines:
		removeChildren(target)
		for i, line := range op.Lines {
			if i > 0 {
				target.AppendChild(&html.Node{Type: html.ElementNode, Data: "br", DataAtom: atom.Br})
			}
			target.AppendChild(&html.Node{Type: html.TextNode, Data: line})
		}
	default:
		return fmt.Errorf("unknown op kind %q", op.Kind)
	}
	return nil
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return html.Render(w, d.root)
}

// Count returns the number of nodes matching selector.
func (d *Document) Count(selector string) int {
	return len(d.QueryAll(selector))
}

// QueryAll returns the nodes matching selector. The nodes belong to the
// current document version and must not be mutated.
func (d *Document) QueryAll(selector string) []*html.Node {
	sel, err := compile(selector)
	if err != nil {
		return nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return sel.MatchAll(d.root)
}

// Text returns the text content of the first match of selector, with <br>
// rendered as a newline.
func (d *Document) Text(selector string) string {
	nodes := d.QueryAll(selector)
	if len(nodes) == 0 {
		return ""
	}
	return TextContent(nodes[0])
}

// Attr returns attribute key of the first match of selector.
func (d *Document) Attr(selector, key string) (string, bool) {
	nodes := d.QueryAll(selector)
	if len(nodes) == 0 {
		return "", false
	}
	for _, a := range nodes[0].Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// TextContent concatenates the text below n.
func TextContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
		case n.Type == html.ElementNode && n.DataAtom == atom.Br:
			b.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func compile(selector string) (cascadia.Selector, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("render: bad selector %q: %w", selector, err)
	}
	return sel, nil
}

func first(scope *html.Node, selector string) (*html.Node, error) {
	sel, err := compile(selector)
	if err != nil {
		return nil, err
	}
	n := sel.MatchFirst(scope)
	if n == nil {
		return nil, fmt.Errorf("%q matched nothing", selector)
	}
	return n, nil
}

func scopeOf(root *html.Node, handles map[string]*html.Node, handle string) (*html.Node, error) {
	if handle == "" {
		return root, nil
	}
	n, ok := handles[handle]
	if !ok {
		return nil, fmt.Errorf("unknown handle %q", handle)
	}
	return n, nil
}

func cloneNode(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		c.AppendChild(cloneNode(ch))
	}
	return c
}

func removeChildren(n *html.Node) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// setStyle replaces or appends one declaration in an inline style string.
func setStyle(style, prop, val string) string {
	var decls []string
	found := false
	for _, d := range strings.Split(style, ";") {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		name, _, _ := strings.Cut(d, ":")
		if strings.EqualFold(strings.TrimSpace(name), prop) {
			d = prop + ": " + val
			found = true
		}
		decls = append(decls, d)
	}
	if !found {
		decls = append(decls, prop+": "+val)
	}
	return strings.Join(decls, "; ")
}
