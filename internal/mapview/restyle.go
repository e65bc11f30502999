package mapview

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html"

	"github.com/JonMunkholm/sigem/internal/core"
)

// errNoSVG is returned when the document has no <svg> element.
var errNoSVG = errors.New("document has no svg element")

// Restyle parses svg, colours every department path found in the region
// table and returns the re-serialised <svg> element.
//
// The root gets width and height of 100%. Paths whose id is not a known code
// are left exactly as they were, as is the d attribute of every path.
func Restyle(svg io.Reader, aggregates map[string]core.RegionAggregate) ([]byte, error) {
	doc, err := html.Parse(svg)
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}

	root := findElement(doc, "svg")
	if root == nil {
		return nil, errNoSVG
	}

	setAttr(root, "width", "100%")
	setAttr(root, "height", "100%")

	walk(root, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "path" {
			return
		}
		code := attr(n, "id")
		if code == "" {
			return
		}
		region, ok := core.RegionName(code)
		if !ok {
			return
		}

		setAttr(n, "fill", ColorFor(StatusOf(aggregates, region)))
		setAttr(n, "stroke", StrokeColor)
		setAttr(n, "stroke-width", StrokeWidth)
		setAttr(n, "cursor", "pointer")
		setAttr(n, "class", PathClass)
		setAttr(n, "data-code", code)
		setAttr(n, "data-region", region)
	})

	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return nil, fmt.Errorf("render svg: %w", err)
	}
	return buf.Bytes(), nil
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func findElement(n *html.Node, name string) *html.Node {
	if n.Type == html.ElementNode && n.Data == name {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, name); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
