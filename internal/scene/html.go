// internal/scene/html.go
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/xkilldash9x/boxlayout/internal/browser/layout"
	"github.com/xkilldash9x/boxlayout/internal/browser/style"
)

// uaDisplay is the display a tag gets before its style attribute applies.
// Tags not listed are inline.
var uaDisplay = map[atom.Atom]string{
	atom.Body: "block", atom.Div: "block", atom.P: "block", atom.Section: "block",
	atom.Article: "block", atom.Header: "block", atom.Footer: "block", atom.Main: "block",
	atom.Nav: "block", atom.Aside: "block", atom.Ul: "block", atom.Ol: "block",
	atom.Li: "block", atom.H1: "block", atom.H2: "block", atom.H3: "block",
	atom.H4: "block", atom.H5: "block", atom.H6: "block", atom.Form: "block",
	atom.Figure: "block", atom.Blockquote: "block", atom.Pre: "block",
}

// skipped elements never produce boxes.
var skipped = map[atom.Atom]bool{
	atom.Head: true, atom.Script: true, atom.Style: true, atom.Template: true,
	atom.Noscript: true, atom.Title: true, atom.Meta: true, atom.Link: true,
}

// parseHTML builds a scene from the body of an HTML document. Style comes
// from style attributes only. img elements become replaced boxes keyed by
// src, with width and height attributes seeding the image table.
func (l *Loader) parseHTML(data []byte) (*Scene, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid html: %w", err)
	}
	body := findElement(doc, atom.Body)
	if body == nil {
		return nil, errors.New("invalid html: no body")
	}

	s := &Scene{Tree: layout.NewBoxTree(), Images: make(ImageTable)}
	b := l.newBuilder(s)
	b.addElement(layout.NoBox, nil, body, "body")
	s.Diagnostics = errors.Join(b.errs...)
	if err := s.Tree.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

func (b *builder) addElement(parent layout.BoxID, parentStyle *style.ComputedStyle, n *html.Node, path string) {
	css, _ := attr(n, "style")
	if d, ok := uaDisplay[n.DataAtom]; ok {
		css = "display: " + d + "; " + css
	}
	if parent == layout.NoBox {
		css = b.rootCSS + css
	}
	s := b.compute(css, path, parentStyle)

	var id layout.BoxID
	if n.DataAtom == atom.Img {
		src, _ := attr(n, "src")
		b.seedImage(n, src, path)
		id = b.scene.Tree.AddReplaced(parent, src, s)
	} else {
		id = b.scene.Tree.Add(parent, layout.ModeForStyle(s), s)
	}
	label, ok := attr(n, "data-label")
	if !ok {
		label, _ = attr(n, "id")
	}
	b.scene.Tree.Box(id).Label = label
	if n.DataAtom == atom.Img {
		return
	}

	elements := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if run := collapseSpace(c.Data); run != "" {
				b.scene.Tree.AddText(id, run, b.compute("", path+"/text()", s))
			}
		case html.ElementNode:
			if skipped[c.DataAtom] {
				continue
			}
			elements++
			b.addElement(id, s, c, fmt.Sprintf("%s/%s[%d]", path, c.Data, elements))
		}
	}
}

// seedImage records the natural size given by an img's width and height
// attributes. Resources already sized keep their first size.
func (b *builder) seedImage(n *html.Node, src, path string) {
	if src == "" {
		return
	}
	if _, known := b.scene.Images[src]; known {
		return
	}
	ws, okW := attr(n, "width")
	hs, okH := attr(n, "height")
	if !okW || !okH {
		return
	}
	w, errW := strconv.ParseFloat(strings.TrimSpace(ws), 64)
	h, errH := strconv.ParseFloat(strings.TrimSpace(hs), 64)
	if err := errors.Join(errW, errH); err != nil {
		b.errs = append(b.errs, fmt.Errorf("%s: %w", path, err))
		return
	}
	if err := b.scene.Images.Set(src, w, h); err != nil {
		b.errs = append(b.errs, fmt.Errorf("%s: %w", path, err))
	}
}

// collapseSpace folds white space runs to single spaces. A run of only white
// space yields "".
func collapseSpace(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return strings.Join(fields, " ")
}
