package extract

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is the readable text of an HTML page or selection.
type Document struct {
	Title string
	// Blocks holds the text of each block-level element in document order.
	Blocks []string
}

// Text joins the blocks with newlines, ready for summarization.
func (d Document) Text() string {
	return strings.Join(d.Blocks, "\n")
}

// FromHTML extracts readable text from a full HTML page, preferring <main>
// or <article> and falling back to <body>. Navigation, scripts and consent
// banners are skipped.
func FromHTML(input []byte) Document {
	node, err := html.Parse(bytes.NewReader(input))
	if err != nil || node == nil {
		return Document{}
	}
	var doc Document
	if t := findFirst(node, atom.Title); t != nil {
		doc.Title = strings.TrimSpace(textOf(t))
	}
	root := findFirst(node, atom.Main)
	if root == nil {
		root = findFirst(node, atom.Article)
	}
	if root == nil {
		root = findFirst(node, atom.Body)
	}
	if root != nil {
		doc.Blocks = collectBlocks(root)
	}
	return doc
}

// FromFragment extracts text from an HTML fragment such as a copied
// selection, which has no <html> or <body> of its own.
func FromFragment(input []byte) Document {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(bytes.NewReader(input), ctx)
	if err != nil {
		return Document{}
	}
	wrapper := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		wrapper.AppendChild(n)
	}
	return Document{Blocks: collectBlocks(wrapper)}
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, a); found != nil {
			return found
		}
	}
	return nil
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// collectBlocks walks n and returns one collapsed string per block element.
// Inline content between blocks is grouped into the enclosing block.
func collectBlocks(n *html.Node) []string {
	var blocks []string
	var cur strings.Builder
	flush := func() {
		if s := strings.Join(strings.Fields(cur.String()), " "); s != "" {
			blocks = append(blocks, s)
		}
		cur.Reset()
	}
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode {
			if skipped(node) {
				return
			}
			if node.DataAtom == atom.Br {
				cur.WriteByte(' ')
				return
			}
		}
		if node.Type == html.TextNode {
			cur.WriteString(node.Data)
			return
		}
		block := node.Type == html.ElementNode && isBlock(node.DataAtom)
		if block {
			flush()
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			flush()
		}
	}
	walk(n)
	flush()
	return blocks
}

func skipped(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Noscript, atom.Nav, atom.Footer, atom.Aside, atom.Iframe, atom.Template:
		return true
	}
	return isBoilerplateContainer(n)
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Section, atom.Article, atom.Main, atom.Header,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Li, atom.Ul, atom.Ol, atom.Blockquote, atom.Pre, atom.Table, atom.Tr, atom.Hr:
		return true
	}
	return false
}

// isBoilerplateContainer reports whether the element looks like a cookie or
// consent banner.
func isBoilerplateContainer(n *html.Node) bool {
	for _, attr := range n.Attr {
		key := strings.ToLower(attr.Key)
		if key != "id" && key != "class" && key != "role" && key != "aria-label" && !strings.HasPrefix(key, "data-") {
			continue
		}
		val := strings.ToLower(attr.Val)
		for _, marker := range []string{"cookie", "consent", "gdpr"} {
			if strings.Contains(val, marker) {
				return true
			}
		}
	}
	return false
}
